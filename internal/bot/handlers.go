package bot

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/markdown"
	"github.com/valpere/globaltalk/internal/store"
	"github.com/valpere/globaltalk/internal/translator"
)

func (b *Bot) handleStart(ctx context.Context, msg Message) {
	if err := b.Store.SaveProfile(ctx, msg.From); err != nil {
		b.Logger.Warnw("failed to save profile", "user", msg.From.ID, "error", err)
	}
	lang := b.userLanguage(ctx, msg.From.ID)
	b.Logger.Infow("user started the bot", "user", msg.From.ID, "lang", lang)
	b.reply(ctx, msg.ChatID, b.localize(ctx, lang, msgWelcome))
}

func (b *Bot) handleHelp(ctx context.Context, msg Message) {
	lang := b.userLanguage(ctx, msg.From.ID)
	b.reply(ctx, msg.ChatID, b.localize(ctx, lang, msgHelp))
}

func (b *Bot) handleLanguageCodes(ctx context.Context, msg Message) {
	var sb strings.Builder
	sb.WriteString(msgLanguageCodesHeader)
	for _, l := range languages.All() {
		fmt.Fprintf(&sb, "%s: %s\n", l.Code, l.Name)
	}
	sb.WriteString(msgLanguageCodesFooter)
	b.reply(ctx, msg.ChatID, sb.String())
}

func (b *Bot) handleSetLanguage(ctx context.Context, msg Message) {
	code := strings.ToLower(strings.TrimSpace(msg.Args))
	if code == "" {
		b.reply(ctx, msg.ChatID, msgMissingLanguage)
		return
	}
	if !languages.IsSupported(code) {
		b.reply(ctx, msg.ChatID, msgInvalidLanguage)
		return
	}

	if err := b.Store.SetLanguage(ctx, msg.From.ID, code); err != nil {
		b.Logger.Errorw("failed to set language", "user", msg.From.ID, "lang", code, "error", err)
		b.reply(ctx, msg.ChatID, msgTranslationFailed)
		return
	}

	b.Logger.Infow("language changed", "user", msg.From.ID, "lang", code)
	text := fmt.Sprintf(msgLanguageSet, languages.Name(code))
	b.reply(ctx, msg.ChatID, b.localize(ctx, code, text))
}

func (b *Bot) handleSpeak(ctx context.Context, msg Message) {
	if b.Speech == nil {
		b.reply(ctx, msg.ChatID, msgSpeechDisabled)
		return
	}
	text := strings.TrimSpace(msg.Args)
	if text == "" {
		b.reply(ctx, msg.ChatID, msgSpeakUsage)
		return
	}

	lang := b.userLanguage(ctx, msg.From.ID)
	path, err := b.Speech.TextToSpeech(ctx, text, lang)
	if err != nil {
		b.Logger.Errorw("speech synthesis failed", "user", msg.From.ID, "error", err)
		b.reply(ctx, msg.ChatID, msgSpeechFailed)
		return
	}
	defer os.Remove(path)

	if err := b.Sender.SendAudio(ctx, msg.ChatID, path); err != nil {
		b.Logger.Errorw("failed to send audio", "chat", msg.ChatID, "error", err)
	}
}

func (b *Bot) handleChat(ctx context.Context, msg Message) {
	if !b.canChat(ctx, msg.From.ID) {
		b.reply(ctx, msg.ChatID, msgChatNotAllowed)
		return
	}
	b.setChat(msg.From.ID, true)
	lang := b.userLanguage(ctx, msg.From.ID)
	b.reply(ctx, msg.ChatID, b.localize(ctx, lang, msgChatStarted))

	// "/chat question" opens the session and asks at once.
	if q := strings.TrimSpace(msg.Args); q != "" {
		b.handleChatMessage(ctx, Message{ChatID: msg.ChatID, From: msg.From, Text: q})
	}
}

func (b *Bot) handleEndChat(ctx context.Context, msg Message) {
	lang := b.userLanguage(ctx, msg.From.ID)
	if !b.inChat(msg.From.ID) {
		b.reply(ctx, msg.ChatID, msgChatNotActive)
		return
	}
	b.setChat(msg.From.ID, false)
	b.reply(ctx, msg.ChatID, b.localize(ctx, lang, msgChatEnded))
}

func (b *Bot) canChat(ctx context.Context, userID int64) bool {
	if b.IsAdmin(userID) {
		return true
	}
	vip, err := b.Store.IsVIP(ctx, userID)
	if err != nil {
		b.Logger.Warnw("failed to check VIP status", "user", userID, "error", err)
		return false
	}
	return vip
}

func (b *Bot) handleChatMessage(ctx context.Context, msg Message) {
	// VIP status may have been revoked mid-session.
	if !b.canChat(ctx, msg.From.ID) {
		b.setChat(msg.From.ID, false)
		b.handleText(ctx, msg)
		return
	}
	if strings.TrimSpace(msg.Text) == "" {
		return
	}

	answer, err := b.Chat.Generate(ctx, msg.Text)
	if err != nil {
		b.Logger.Errorw("chat generation failed", "user", msg.From.ID, "error", err)
		b.reply(ctx, msg.ChatID, msgChatFailed)
		return
	}
	b.reply(ctx, msg.ChatID, markdown.ToPlainText([]byte(answer)))
}

func (b *Bot) handleForward(ctx context.Context, msg Message) {
	source := languages.Normalize(msg.Forward.LanguageCode)
	if !languages.IsSupported(source) {
		source = ""
	}
	translated, ok := b.translate(ctx, msg, source)
	if !ok {
		return
	}
	b.reply(ctx, msg.ChatID, fmt.Sprintf(msgForwardTemplate, msg.Forward.SenderName, translated))
}

func (b *Bot) handleText(ctx context.Context, msg Message) {
	translated, ok := b.translate(ctx, msg, "")
	if !ok {
		return
	}
	b.reply(ctx, msg.ChatID, translated)
}

// translate runs msg.Text through the pipeline into the user's language,
// records the activity and reports failures to the user itself.
func (b *Bot) translate(ctx context.Context, msg Message, source string) (string, bool) {
	if strings.TrimSpace(msg.Text) == "" {
		b.reply(ctx, msg.ChatID, msgNothingToTranslate)
		return "", false
	}

	target := b.userLanguage(ctx, msg.From.ID)
	translated, err := b.Translator.Translate(ctx, translator.Request{
		Text:   msg.Text,
		Source: source,
		Target: target,
	})
	if err != nil {
		b.Logger.Errorw("translation request failed", "user", msg.From.ID, "target", target, "error", err)
		b.reply(ctx, msg.ChatID, b.failureText(err))
		return "", false
	}

	b.record(ctx, msg, source, target, translated)
	return translated, true
}

func (b *Bot) record(ctx context.Context, msg Message, source, target, translated string) {
	if err := b.Store.RecordUsage(ctx); err != nil {
		b.Logger.Warnw("failed to record usage", "error", err)
	}
	if err := b.Store.TouchUser(ctx, msg.From); err != nil {
		b.Logger.Warnw("failed to update user", "user", msg.From.ID, "error", err)
	}
	_, err := b.Store.AddHistory(ctx, store.HistoryEntry{
		UserID:         msg.From.ID,
		SourceText:     msg.Text,
		SourceLang:     source,
		TargetLang:     target,
		TranslatedText: translated,
	})
	if err != nil {
		b.Logger.Warnw("failed to save history", "user", msg.From.ID, "error", err)
	}
}
