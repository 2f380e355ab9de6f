package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the OpenAI speech endpoint.
type OpenAIConfig struct {
	APIKey  string  `mapstructure:"api_key"`
	BaseURL string  `mapstructure:"base_url"`
	Model   string  `mapstructure:"model"`
	Voice   string  `mapstructure:"voice"`
	Speed   float64 `mapstructure:"speed"`
}

// OpenAIEngine synthesizes mp3 audio with the OpenAI speech API, which
// picks the spoken language from the text itself.
type OpenAIEngine struct {
	client *openai.Client
	config OpenAIConfig
}

func NewOpenAIEngine(cfg OpenAIConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for speech")
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(openai.VoiceAlloy)
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &OpenAIEngine{client: openai.NewClientWithConfig(oc), config: cfg}, nil
}

func (e *OpenAIEngine) Synthesize(ctx context.Context, text, lang string) (io.ReadCloser, error) {
	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(e.config.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(e.config.Voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          e.config.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	return resp, nil
}
