package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestFromUpdate_Command(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 7, UserName: "ana", FirstName: "Ana", LanguageCode: "es"},
		Chat: &tgbotapi.Chat{ID: 70},
		Text: "/setlanguage de",
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len("/setlanguage")},
		},
	}}

	msg, ok := FromUpdate(update)
	if !ok {
		t.Fatal("expected the update to be accepted")
	}
	if msg.Command != "setlanguage" || msg.Args != "de" {
		t.Errorf("unexpected command %q args %q", msg.Command, msg.Args)
	}
	if msg.ChatID != 70 || msg.From.ID != 7 || msg.From.Username != "ana" || msg.From.LanguageCode != "es" {
		t.Errorf("unexpected message %+v", msg)
	}
	if msg.Text != "" || msg.Forward != nil {
		t.Errorf("expected a bare command, got %+v", msg)
	}
}

func TestFromUpdate_Forward(t *testing.T) {
	tests := []struct {
		name     string
		message  tgbotapi.Message
		sender   string
		langCode string
	}{
		{
			name:     "user with username",
			message:  tgbotapi.Message{ForwardFrom: &tgbotapi.User{UserName: "bob", FirstName: "Bob", LanguageCode: "de"}},
			sender:   "@bob",
			langCode: "de",
		},
		{
			name:    "user without username",
			message: tgbotapi.Message{ForwardFrom: &tgbotapi.User{FirstName: "Bob"}},
			sender:  "Bob",
		},
		{
			name:    "hidden user",
			message: tgbotapi.Message{ForwardSenderName: "Carol", ForwardDate: 1},
			sender:  "Carol",
		},
		{
			name:    "channel with title",
			message: tgbotapi.Message{ForwardFromChat: &tgbotapi.Chat{Title: "News"}},
			sender:  "News",
		},
		{
			name:    "channel without title",
			message: tgbotapi.Message{ForwardFromChat: &tgbotapi.Chat{}},
			sender:  "Channel",
		},
		{
			name:    "unknown origin",
			message: tgbotapi.Message{ForwardDate: 1},
			sender:  "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.message
			m.From = &tgbotapi.User{ID: 1}
			m.Chat = &tgbotapi.Chat{ID: 1}
			m.Text = "Guten Morgen"

			msg, ok := FromUpdate(tgbotapi.Update{Message: &m})
			if !ok {
				t.Fatal("expected the update to be accepted")
			}
			if msg.Forward == nil {
				t.Fatal("expected a forward")
			}
			if msg.Forward.SenderName != tt.sender || msg.Forward.LanguageCode != tt.langCode {
				t.Errorf("expected %q/%q, got %+v", tt.sender, tt.langCode, msg.Forward)
			}
			if msg.Text != "Guten Morgen" {
				t.Errorf("unexpected text %q", msg.Text)
			}
		})
	}
}

func TestFromUpdate_Caption(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		From:        &tgbotapi.User{ID: 1},
		Chat:        &tgbotapi.Chat{ID: 1},
		Caption:     "Bonjour",
		ForwardDate: 1,
	}}

	msg, ok := FromUpdate(update)
	if !ok || msg.Text != "Bonjour" {
		t.Errorf("expected caption as text, got %+v (%v)", msg, ok)
	}
}

func TestFromUpdate_Ignored(t *testing.T) {
	tests := []tgbotapi.Update{
		{},
		{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "no sender"}},
		{EditedMessage: &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1}, Text: "edit"}},
	}
	for i, u := range tests {
		if _, ok := FromUpdate(u); ok {
			t.Errorf("update %d: expected to be ignored", i)
		}
	}
}

func TestFromUpdate_PlainText(t *testing.T) {
	msg, ok := FromUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 1},
		Text: "hello",
	}})
	if !ok || msg.Forward != nil || msg.Command != "" || msg.Text != "hello" {
		t.Errorf("unexpected message %+v", msg)
	}
}
