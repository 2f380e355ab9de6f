// Package bot implements the chat commands of the translation bot. It is
// independent of the chat transport: updates arrive as Message values and
// replies leave through a Sender.
package bot

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"github.com/valpere/globaltalk/internal/broadcast"
	"github.com/valpere/globaltalk/internal/cache"
	"github.com/valpere/globaltalk/internal/chunker"
	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/llm"
	"github.com/valpere/globaltalk/internal/store"
	"github.com/valpere/globaltalk/internal/translator"
)

// Sender delivers replies.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendAudio(ctx context.Context, chatID int64, path string) error
}

// Translator is the translation pipeline as seen by the handlers.
type Translator interface {
	Translate(ctx context.Context, req translator.Request) (string, error)
	Stats() translator.Stats
	Cache() *cache.Cache
}

// Speaker renders text as an audio file.
type Speaker interface {
	TextToSpeech(ctx context.Context, text, lang string) (string, error)
}

// Availability reports whether the language model answered its last probe.
type Availability interface {
	Available() bool
}

// Message is one incoming chat message.
type Message struct {
	ChatID  int64
	From    store.UserInfo
	Text    string
	Command string
	Args    string
	Forward *Forward
}

// Forward describes where a forwarded message came from.
type Forward struct {
	SenderName string
	// LanguageCode is the original sender's interface language, when the
	// platform discloses it.
	LanguageCode string
}

type Config struct {
	Admins       []int64
	HistoryLimit int
	ListLimit    int
}

// Deps are the collaborators of a Bot. Speech and Health are optional.
type Deps struct {
	Sender      Sender
	Translator  Translator
	Store       *store.Store
	Chat        llm.Generator
	Speech      Speaker
	Health      Availability
	Broadcaster *broadcast.Broadcaster
	Logger      *zap.SugaredLogger
}

type Bot struct {
	Deps
	admins       map[int64]bool
	historyLimit int
	listLimit    int

	mu       sync.Mutex
	chatting map[int64]bool
}

func New(deps Deps, cfg Config) *Bot {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = broadcast.New(deps.Sender.SendText, broadcast.Config{})
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}

	admins := make(map[int64]bool, len(cfg.Admins))
	for _, id := range cfg.Admins {
		admins[id] = true
	}

	return &Bot{
		Deps:         deps,
		admins:       admins,
		historyLimit: cfg.HistoryLimit,
		listLimit:    cfg.ListLimit,
		chatting:     make(map[int64]bool),
	}
}

// Handle processes one message. It never panics; failures are logged and
// answered with an apology.
func (b *Bot) Handle(ctx context.Context, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.Logger.Errorw("panic while handling message", "user", msg.From.ID, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	switch {
	case msg.Command != "":
		b.handleCommand(ctx, msg)
	case msg.Forward != nil:
		b.handleForward(ctx, msg)
	case b.inChat(msg.From.ID):
		b.handleChatMessage(ctx, msg)
	default:
		b.handleText(ctx, msg)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg Message) {
	switch msg.Command {
	case "start":
		b.handleStart(ctx, msg)
	case "help":
		b.handleHelp(ctx, msg)
	case "languagecodes":
		b.handleLanguageCodes(ctx, msg)
	case "setlanguage":
		b.handleSetLanguage(ctx, msg)
	case "speak":
		b.handleSpeak(ctx, msg)
	case "chat":
		b.handleChat(ctx, msg)
	case "endchat":
		b.handleEndChat(ctx, msg)
	default:
		if !isAdminCommand(msg.Command) {
			b.reply(ctx, msg.ChatID, msgUnknownCommand)
			return
		}
		if !b.IsAdmin(msg.From.ID) {
			b.Logger.Warnw("unauthorized admin command", "user", msg.From.ID, "command", msg.Command)
			b.reply(ctx, msg.ChatID, msgNotAuthorized)
			return
		}
		b.handleAdmin(ctx, msg)
	}
}

// IsAdmin reports whether userID may use the admin commands.
func (b *Bot) IsAdmin(userID int64) bool {
	return b.admins[userID]
}

func (b *Bot) inChat(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.chatting[userID]
}

func (b *Bot) setChat(userID int64, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if on {
		b.chatting[userID] = true
	} else {
		delete(b.chatting, userID)
	}
}

// reply sends text, split to the message size limit.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	for _, part := range chunker.Split(text, chunker.MessageLimit) {
		if err := b.Sender.SendText(ctx, chatID, part); err != nil {
			b.Logger.Errorw("failed to send reply", "chat", chatID, "error", err)
			return
		}
	}
}

// userLanguage registers the user if needed and returns their language.
func (b *Bot) userLanguage(ctx context.Context, userID int64) string {
	if err := b.Store.EnsureUser(ctx, userID); err != nil {
		b.Logger.Warnw("failed to register user", "user", userID, "error", err)
	}
	lang, err := b.Store.Language(ctx, userID)
	if err != nil {
		b.Logger.Warnw("failed to load user language", "user", userID, "error", err)
		return languages.Default
	}
	return lang
}

// localize translates an English interface text into lang. The English
// text is returned when lang is English or translation fails.
func (b *Bot) localize(ctx context.Context, lang, text string) string {
	if lang == languages.Default {
		return text
	}
	out, err := b.Translator.Translate(ctx, translator.Request{Text: text, Source: languages.Default, Target: lang})
	if err != nil {
		b.Logger.Warnw("failed to localize message", "lang", lang, "error", err)
		return text
	}
	return out
}

// failureText maps a translation error to the message shown to the user.
func (b *Bot) failureText(err error) string {
	switch {
	case errors.Is(err, translator.ErrInvalidTargetLanguage):
		return msgInvalidUserLanguage
	case b.Health != nil && !b.Health.Available():
		return msgServiceUnavailable
	default:
		return msgTranslationFailed
	}
}
