package bot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/valpere/globaltalk/internal/cache"
	"github.com/valpere/globaltalk/internal/llm"
	"github.com/valpere/globaltalk/internal/store"
	"github.com/valpere/globaltalk/internal/translator"
)

const adminID = 100

type sent struct {
	chatID int64
	text   string
}

type fakeSender struct {
	mu     sync.Mutex
	texts  []sent
	audios []string
	failOn map[int64]bool
}

func (f *fakeSender) SendText(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[chatID] {
		return errors.New("blocked by user")
	}
	f.texts = append(f.texts, sent{chatID, text})
	return nil
}

func (f *fakeSender) SendAudio(ctx context.Context, chatID int64, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f.audios = append(f.audios, path)
	return nil
}

func (f *fakeSender) last(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		t.Fatal("expected a reply, got none")
	}
	return f.texts[len(f.texts)-1].text
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

// echoModel answers detection with "en", translates by prefixing the
// target code and accepts every translation.
type echoModel struct {
	detections atomic.Int32
	fail       atomic.Bool
}

func (m *echoModel) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "Task: Detect"):
		m.detections.Add(1)
		return "en", nil
	case strings.HasPrefix(prompt, "Task: Translate"):
		if m.fail.Load() {
			return "", errors.New("quota exceeded")
		}
		const open, closing = "Original text:\n\"", "\"\n\nTranslated text (in "
		start := strings.Index(prompt, open) + len(open)
		end := strings.LastIndex(prompt, closing)
		target := strings.TrimSuffix(prompt[end+len(closing):], "):")
		return "[" + target + "] " + prompt[start:end], nil
	case strings.HasPrefix(prompt, "Verify"):
		return translator.AccurateVerdict, nil
	}
	return "", errors.New("unexpected prompt")
}

type availability bool

func (a availability) Available() bool { return bool(a) }

type fakeSpeaker struct {
	dir string
}

func (f fakeSpeaker) TextToSpeech(ctx context.Context, text, lang string) (string, error) {
	path := filepath.Join(f.dir, "speech.mp3")
	return path, os.WriteFile(path, []byte(lang+":"+text), 0o644)
}

type testBot struct {
	*Bot
	sender *fakeSender
	model  *echoModel
	store  *store.Store
}

func newTestBot(t *testing.T, mutate func(*Deps)) *testBot {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	model := &echoModel{}
	sender := &fakeSender{failOn: map[int64]bool{}}
	deps := Deps{
		Sender:     sender,
		Translator: translator.New(model, cache.New(), translator.Options{}),
		Store:      s,
		Chat: llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "**Answer:** " + prompt, nil
		}),
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &testBot{
		Bot:    New(deps, Config{Admins: []int64{adminID}}),
		sender: sender,
		model:  model,
		store:  s,
	}
}

func command(userID int64, cmd, args string) Message {
	return Message{ChatID: userID, From: store.UserInfo{ID: userID, FirstName: "Test"}, Command: cmd, Args: args}
}

func text(userID int64, s string) Message {
	return Message{ChatID: userID, From: store.UserInfo{ID: userID, FirstName: "Test"}, Text: s}
}

func TestHandle_Start(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()

	tb.Handle(ctx, Message{ChatID: 1, From: store.UserInfo{ID: 1, Username: "ana"}, Command: "start"})
	if got := tb.sender.last(t); got != msgWelcome {
		t.Errorf("expected English welcome, got %q", got)
	}

	u, err := tb.store.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("expected user to be registered: %v", err)
	}
	if u.Username != "ana" || u.TranslationCount != 0 {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestHandle_StartLocalized(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()
	tb.store.SetLanguage(ctx, 1, "de")

	tb.Handle(ctx, command(1, "start", ""))
	if got := tb.sender.last(t); got != "[de] "+msgWelcome {
		t.Errorf("expected welcome translated to German, got %q", got)
	}
}

func TestHandle_SetLanguage(t *testing.T) {
	tests := []struct {
		args string
		want string
		lang string
	}{
		{"", msgMissingLanguage, "en"},
		{"xx", msgInvalidLanguage, "en"},
		{" DE ", "[de] 🌟 Language successfully set to: German", "de"},
		{"en", "🌟 Language successfully set to: English", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			tb := newTestBot(t, nil)
			ctx := context.Background()

			tb.Handle(ctx, command(1, "setlanguage", tt.args))
			if got := tb.sender.last(t); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if lang, _ := tb.store.Language(ctx, 1); lang != tt.lang {
				t.Errorf("expected stored language %q, got %q", tt.lang, lang)
			}
		})
	}
}

func TestHandle_LanguageCodes(t *testing.T) {
	tb := newTestBot(t, nil)
	tb.Handle(context.Background(), command(1, "languagecodes", ""))

	got := tb.sender.last(t)
	for _, want := range []string{"🌐 Available Language Codes:", "en: English", "zh: Chinese (Simplified)", "/setlanguage"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestHandle_Forward(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()
	tb.store.SetLanguage(ctx, 1, "fr")

	msg := text(1, "Hello there")
	msg.Forward = &Forward{SenderName: "@alice", LanguageCode: "en-US"}
	tb.Handle(ctx, msg)

	want := "Original sender: @alice\n\n🔤 Translation:\n\n[fr] Hello there"
	if got := tb.sender.last(t); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if n := tb.model.detections.Load(); n != 0 {
		t.Errorf("expected the sender's language to skip detection, got %d detection calls", n)
	}

	u, _ := tb.store.GetUser(ctx, 1)
	if u.TranslationCount != 1 {
		t.Errorf("expected 1 translation counted, got %d", u.TranslationCount)
	}
	usage, _ := tb.store.Usage(ctx, 0)
	if usage.Total != 1 {
		t.Errorf("expected usage total 1, got %d", usage.Total)
	}
	history, _ := tb.store.ListHistory(ctx, 1, 0)
	if len(history) != 1 || history[0].SourceLang != "en" || history[0].TranslatedText != "[fr] Hello there" {
		t.Errorf("unexpected history %+v", history)
	}
}

func TestHandle_ForwardWithoutLanguageDetects(t *testing.T) {
	tb := newTestBot(t, nil)

	msg := text(1, "Hello")
	msg.Forward = &Forward{SenderName: "Channel"}
	tb.Handle(context.Background(), msg)

	if n := tb.model.detections.Load(); n != 1 {
		t.Errorf("expected one detection call, got %d", n)
	}
}

func TestHandle_ForwardWithoutText(t *testing.T) {
	tb := newTestBot(t, nil)

	msg := text(1, "")
	msg.Forward = &Forward{SenderName: "Unknown"}
	tb.Handle(context.Background(), msg)

	if got := tb.sender.last(t); got != msgNothingToTranslate {
		t.Errorf("expected %q, got %q", msgNothingToTranslate, got)
	}
}

func TestHandle_PlainText(t *testing.T) {
	tb := newTestBot(t, nil)

	tb.Handle(context.Background(), text(1, "Hola"))
	if got := tb.sender.last(t); got != "[en] Hola" {
		t.Errorf("unexpected reply %q", got)
	}
}

func TestHandle_TranslationFailure(t *testing.T) {
	tests := []struct {
		name   string
		health Availability
		want   string
	}{
		{"no health checker", nil, msgTranslationFailed},
		{"model available", availability(true), msgTranslationFailed},
		{"model unavailable", availability(false), msgServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := newTestBot(t, func(d *Deps) { d.Health = tt.health })
			tb.model.fail.Store(true)
			ctx := context.Background()

			tb.Handle(ctx, text(1, "Hello"))
			if got := tb.sender.last(t); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if usage, _ := tb.store.Usage(ctx, 0); usage.Total != 0 {
				t.Errorf("expected failed translation not to be counted, got %d", usage.Total)
			}
		})
	}
}

func TestHandle_InvalidStoredLanguage(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()
	tb.store.SetLanguage(ctx, 1, "xx")

	tb.Handle(ctx, text(1, "Hello"))
	if got := tb.sender.last(t); got != msgInvalidUserLanguage {
		t.Errorf("expected %q, got %q", msgInvalidUserLanguage, got)
	}
}

func TestHandle_Chat(t *testing.T) {
	tb := newTestBot(t, nil)
	ctx := context.Background()

	tb.Handle(ctx, command(1, "chat", ""))
	if got := tb.sender.last(t); got != msgChatNotAllowed {
		t.Fatalf("expected non-VIP to be refused, got %q", got)
	}

	tb.store.AddVIP(ctx, 1)
	tb.Handle(ctx, command(1, "chat", ""))
	if got := tb.sender.last(t); got != msgChatStarted {
		t.Fatalf("expected chat to start, got %q", got)
	}

	tb.Handle(ctx, text(1, "What is Go?"))
	if got := tb.sender.last(t); got != "Answer: What is Go?" {
		t.Errorf("expected markdown-free answer, got %q", got)
	}

	tb.Handle(ctx, command(1, "endchat", ""))
	if got := tb.sender.last(t); got != msgChatEnded {
		t.Errorf("expected chat to end, got %q", got)
	}

	tb.Handle(ctx, text(1, "Hola"))
	if got := tb.sender.last(t); got != "[en] Hola" {
		t.Errorf("expected translation after chat ended, got %q", got)
	}

	tb.Handle(ctx, command(1, "endchat", ""))
	if got := tb.sender.last(t); got != msgChatNotActive {
		t.Errorf("expected %q, got %q", msgChatNotActive, got)
	}
}

func TestHandle_ChatAdminWithQuestion(t *testing.T) {
	tb := newTestBot(t, nil)

	tb.Handle(context.Background(), command(adminID, "chat", "Hi"))
	if got := tb.sender.last(t); got != "Answer: Hi" {
		t.Errorf("expected the question to be answered at once, got %q", got)
	}
	if !tb.inChat(adminID) {
		t.Error("expected the chat session to stay open")
	}
}

func TestHandle_ChatLongAnswerIsSplit(t *testing.T) {
	tb := newTestBot(t, func(d *Deps) {
		d.Chat = llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return strings.Repeat("word ", 1000), nil
		})
	})

	tb.Handle(context.Background(), command(adminID, "chat", "Tell me a story"))
	// Confirmation plus two parts of the answer.
	if n := tb.sender.count(); n != 3 {
		t.Errorf("expected 3 messages, got %d", n)
	}
}

func TestHandle_Speak(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		tb := newTestBot(t, nil)
		tb.Handle(context.Background(), command(1, "speak", "Hello"))
		if got := tb.sender.last(t); got != msgSpeechDisabled {
			t.Errorf("expected %q, got %q", msgSpeechDisabled, got)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		dir := t.TempDir()
		tb := newTestBot(t, func(d *Deps) { d.Speech = fakeSpeaker{dir: dir} })

		tb.Handle(context.Background(), command(1, "speak", ""))
		if got := tb.sender.last(t); got != msgSpeakUsage {
			t.Errorf("expected usage hint, got %q", got)
		}

		tb.Handle(context.Background(), command(1, "speak", "Hello"))
		if len(tb.sender.audios) != 1 {
			t.Fatalf("expected one audio message, got %d", len(tb.sender.audios))
		}
		if _, err := os.Stat(tb.sender.audios[0]); !os.IsNotExist(err) {
			t.Error("expected the audio file to be removed after sending")
		}
	})
}

func TestHandle_UnknownCommand(t *testing.T) {
	tb := newTestBot(t, nil)
	tb.Handle(context.Background(), command(1, "frobnicate", ""))
	if got := tb.sender.last(t); got != msgUnknownCommand {
		t.Errorf("expected %q, got %q", msgUnknownCommand, got)
	}
}

type panicSender struct{ fakeSender }

func (p *panicSender) SendText(ctx context.Context, chatID int64, text string) error {
	panic("connection reset")
}

func TestHandle_RecoversPanic(t *testing.T) {
	tb := newTestBot(t, func(d *Deps) { d.Sender = &panicSender{} })

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("expected Handle to recover, got panic %v", r)
		}
	}()
	tb.Handle(context.Background(), command(1, "help", ""))
}
