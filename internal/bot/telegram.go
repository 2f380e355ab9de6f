package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/valpere/globaltalk/internal/store"
)

// Telegram connects a Bot to the Telegram Bot API via long polling.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *zap.SugaredLogger
}

func NewTelegram(token string, logger *zap.SugaredLogger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Infow("authorized on Telegram", "account", api.Self.UserName)
	return &Telegram{api: api, logger: logger}, nil
}

func (t *Telegram) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (t *Telegram) SendAudio(ctx context.Context, chatID int64, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Send(tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))); err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}
	return nil
}

// Run polls for updates until ctx is cancelled. Every message is handled
// on its own goroutine; Run waits for them before returning.
func (t *Telegram) Run(ctx context.Context, pollTimeout int, handle func(context.Context, Message)) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := t.api.GetUpdatesChan(cfg)

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			t.logger.Infow("stopped receiving updates")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg, ok := FromUpdate(update)
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				handle(ctx, msg)
			}()
		}
	}
}

// FromUpdate extracts the message carried by update. It returns false for
// updates the bot does not act on.
func FromUpdate(update tgbotapi.Update) (Message, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return Message{}, false
	}

	msg := Message{
		ChatID: m.Chat.ID,
		From: store.UserInfo{
			ID:           m.From.ID,
			Username:     m.From.UserName,
			FirstName:    m.From.FirstName,
			LastName:     m.From.LastName,
			LanguageCode: m.From.LanguageCode,
		},
		Text: m.Text,
	}
	if msg.Text == "" {
		msg.Text = m.Caption
	}

	if m.IsCommand() {
		msg.Command = m.Command()
		msg.Args = m.CommandArguments()
		msg.Text = ""
		return msg, true
	}

	if fwd := forwardOf(m); fwd != nil {
		msg.Forward = fwd
	}
	return msg, true
}

func forwardOf(m *tgbotapi.Message) *Forward {
	switch {
	case m.ForwardFrom != nil:
		name := m.ForwardFrom.FirstName
		if m.ForwardFrom.UserName != "" {
			name = "@" + m.ForwardFrom.UserName
		}
		return &Forward{SenderName: name, LanguageCode: m.ForwardFrom.LanguageCode}
	case m.ForwardSenderName != "":
		return &Forward{SenderName: m.ForwardSenderName}
	case m.ForwardFromChat != nil:
		name := m.ForwardFromChat.Title
		if name == "" {
			name = "Channel"
		}
		return &Forward{SenderName: name}
	case m.ForwardDate != 0:
		return &Forward{SenderName: "Unknown"}
	}
	return nil
}
