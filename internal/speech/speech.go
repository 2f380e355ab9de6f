// Package speech renders text as an audio file. The text is first rewritten
// by the language model for reading aloud, then synthesized.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/llm"
)

// Engine turns prepared text into audio bytes.
type Engine interface {
	Synthesize(ctx context.Context, text, lang string) (io.ReadCloser, error)
}

// stripper removes characters that synthesizers read out or stumble over.
var stripper = strings.NewReplacer(
	`"`, "", "'", "", "!", "", "#", "", "$", "", "%", "", "&", "",
	"/", "", "(", "", ")", "", "=", "", "?", "", "~", "",
	"<", "", ">", "", ",", "", ".", "",
)

// Strip removes punctuation and symbols that hurt speech output.
func Strip(text string) string {
	return stripper.Replace(text)
}

// ImprovePrompt asks the model to rewrite text for reading aloud.
func ImprovePrompt(text, lang string) string {
	return fmt.Sprintf(`Task: Improve the following %s text for text to speech.

Instructions:
1. Analyze the text thoroughly to understand its full context, tone, and intent.
2. Correct any grammar issues so the text reads perfectly when spoken.
3. Keep humor, wordplay and cultural references audible when read out loud.
4. Remove quotation marks and special characters such as ! " # $ %% & / ( ) = ? ~ that disturb speech output.
5. Answer with the improved text only.

Text:
"%s"

Improved text:`, languages.Name(lang), text)
}

type Service struct {
	gen    llm.Generator
	engine Engine
	dir    string
	logger *zap.SugaredLogger
}

// New returns a Service writing files into dir (os.TempDir() when empty).
func New(gen llm.Generator, engine Engine, dir string, logger *zap.SugaredLogger) *Service {
	if dir == "" {
		dir = os.TempDir()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{gen: gen, engine: engine, dir: dir, logger: logger}
}

// TextToSpeech writes an mp3 rendering of text and returns its path. The
// caller owns the file and should remove it once it has been sent. Any
// error means no file was produced.
func (s *Service) TextToSpeech(ctx context.Context, text, lang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to speak")
	}
	if !languages.IsSupported(lang) {
		return "", fmt.Errorf("unsupported speech language: %q", lang)
	}

	improved, err := s.gen.Generate(ctx, ImprovePrompt(text, lang))
	if err != nil {
		return "", fmt.Errorf("failed to prepare text for speech: %w", err)
	}
	prepared := strings.TrimSpace(Strip(improved))
	if prepared == "" {
		return "", fmt.Errorf("nothing left to speak after cleanup")
	}

	audio, err := s.engine.Synthesize(ctx, prepared, lang)
	if err != nil {
		return "", fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer audio.Close()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create speech directory: %w", err)
	}
	out, err := os.CreateTemp(s.dir, "speech-*.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}

	written, err := io.Copy(out, audio)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	s.logger.Debugw("speech rendered", "lang", lang, "bytes", written, "path", out.Name())
	return out.Name(), nil
}
