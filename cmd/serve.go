/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/valpere/globaltalk/internal/bot"
	"github.com/valpere/globaltalk/internal/broadcast"
	"github.com/valpere/globaltalk/internal/cache"
	"github.com/valpere/globaltalk/internal/detector"
	"github.com/valpere/globaltalk/internal/health"
	"github.com/valpere/globaltalk/internal/llm"
	"github.com/valpere/globaltalk/internal/speech"
	"github.com/valpere/globaltalk/internal/store"
	"github.com/valpere/globaltalk/internal/translator"
	"github.com/valpere/globaltalk/internal/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Connect to Telegram with the configured bot token and answer updates
until interrupted.

Required settings:
  telegram.token  (or TELEGRAM_BOT_TOKEN)
  llm.api_key     (or GEMINI_API_KEY / OPENAI_API_KEY for the chosen provider)

Optional: admin.user_ids (or ADMIN_USER_IDS, comma separated).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("provider", "", "LLM provider: gemini, openai or ollama (overrides llm.provider)")
	serveCmd.Flags().Bool("speech", false, "Enable /speak (overrides speech.enabled)")

	viper.BindPFlag("llm.provider", serveCmd.Flags().Lookup("provider"))
	viper.BindPFlag("speech.enabled", serveCmd.Flags().Lookup("speech"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(viper.GetString("log.level"), viper.GetBool("log.development"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	token := viper.GetString("telegram.token")
	if token == "" {
		return fmt.Errorf("telegram token is not configured (set TELEGRAM_BOT_TOKEN)")
	}
	admins, err := adminIDs()
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		logger.Warnw("no admin user ids configured, admin commands are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	model := newModel(logger)
	tr := newTranslator(model, logger)

	checker := health.New(model, viper.GetDuration("health.interval"), logger)
	go checker.Run(ctx)

	tg, err := bot.NewTelegram(token, logger)
	if err != nil {
		return err
	}

	deps := bot.Deps{
		Sender:      tg,
		Translator:  tr,
		Store:       db,
		Chat:        model,
		Health:      checker,
		Broadcaster: broadcast.New(tg.SendText, broadcastConfig()),
		Logger:      logger,
	}
	if viper.GetBool("speech.enabled") {
		svc, err := newSpeech(model, logger)
		if err != nil {
			return err
		}
		deps.Speech = svc
	}

	b := bot.New(deps, bot.Config{
		Admins:       admins,
		HistoryLimit: viper.GetInt("bot.history_limit"),
		ListLimit:    viper.GetInt("bot.list_limit"),
	})

	logger.Infow("bot started", "provider", llmConfig().Provider, "admins", len(admins), "speech", deps.Speech != nil)
	if err := tg.Run(ctx, viper.GetInt("telegram.poll_timeout"), b.Handle); err != nil {
		return fmt.Errorf("bot stopped: %w", err)
	}
	logger.Infow("bot stopped")
	return nil
}

// newModel returns the shared model client. The backend is constructed on
// first use and guarded by a circuit breaker.
func newModel(logger *zap.SugaredLogger) llm.Generator {
	cfg := llmConfig()
	return llm.NewBreaker(cfg.Provider, llm.NewLazy(cfg), breakerConfig(), logger)
}

func newTranslator(model llm.Generator, logger *zap.SugaredLogger) *translator.Translator {
	opts := translator.Options{
		CallTimeout: viper.GetDuration("translator.call_timeout"),
		Logger:      logger,
	}

	var det *detector.Detector
	if viper.GetBool("translator.local_detection") || viper.GetBool("translator.validate_output") {
		det = detector.New()
	}
	if viper.GetBool("translator.local_detection") {
		opts.Detector = det
	}
	if viper.GetBool("translator.validate_output") {
		opts.Validator = validator.New(det)
	}

	return translator.New(model, cache.New(), opts)
}

func newSpeech(model llm.Generator, logger *zap.SugaredLogger) (*speech.Service, error) {
	engine, err := speech.NewOpenAIEngine(speechConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to configure speech: %w", err)
	}
	dir := viper.GetString("speech.dir")
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create speech directory: %w", err)
		}
	}
	return speech.New(model, engine, dir, logger), nil
}

func openStore() (*store.Store, error) {
	path := viper.GetString("store.path")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
