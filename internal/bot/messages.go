package bot

// Interface texts are written in English and localized on the fly.
const (
	msgWelcome = "🌟 Welcome to GlobalTalk-TranslatorBot! 🌍✨\n\n" +
		"I'm here to help you translate forwarded messages into various languages. " +
		"Simply forward me a message, and I'll translate it to your preferred language.\n\n" +
		"To get started, use /setlanguage to choose your language, or just start forwarding messages!\n\n" +
		"Need help? Just type /help for more information."

	msgHelp = "🤖 Bot Commands:\n\n" +
		"🌟 /start - Start the bot and see the welcome message\n" +
		"🔤 /setlanguage [code] - Set your preferred language (e.g., /setlanguage es for Spanish)\n" +
		"ℹ️ /help - Show this help message\n" +
		"🌍 /languagecodes - View available language codes\n" +
		"🔊 /speak [text] - Hear a text read aloud in your language\n" +
		"💬 /chat - Chat with the AI (VIP users only), /endchat to stop\n" +
		"👨‍💼 /admin - Access admin panel (only for authorized users)\n\n" +
		"To translate, simply forward a message to me. Enjoy translating! 🎉"

	msgLanguageCodesHeader = "🌐 Available Language Codes:\n\n"
	msgLanguageCodesFooter = "\nUse these codes with the /setlanguage command to set your preferred language."

	msgLanguageSet = "🌟 Language successfully set to: %s"

	msgChatStarted = "You can now start chatting with the AI. Send /endchat to end the conversation."
	msgChatEnded   = "Chat session ended. Thank you for using our service!"
)

// Texts sent as they are.
const (
	msgMissingLanguage     = "⚠️ Please provide a valid language code. Use /languagecodes to see available options."
	msgInvalidLanguage     = "⚠️ Invalid language code. Use /languagecodes to see available options."
	msgInvalidUserLanguage = "⚠️ Your language setting is not valid anymore. Use /setlanguage to choose one from /languagecodes."
	msgTranslationFailed   = "⚠️ Sorry, the translation failed. Please try again later."
	msgServiceUnavailable  = "⚠️ The translation service is currently unavailable. Please try again later."
	msgNothingToTranslate  = "⚠️ This message has no text to translate."
	msgChatNotAllowed      = "🚫 This feature is only available for VIP users and admins."
	msgChatNotActive       = "There is no active chat session. Send /chat to start one."
	msgChatFailed          = "⚠️ The assistant could not answer right now. Please try again later."
	msgSpeakUsage          = "⚠️ Please add the text to read aloud, e.g. /speak Good morning!"
	msgSpeechDisabled      = "🔇 Speech output is not enabled on this bot."
	msgSpeechFailed        = "⚠️ Sorry, the audio could not be generated. Please try again later."
	msgUnknownCommand      = "❓ Unknown command. Type /help to see what I can do."
	msgNotAuthorized       = "🚫 You are not authorized to access the admin panel."
	msgForwardTemplate     = "Original sender: %s\n\n🔤 Translation:\n\n%s"
)
