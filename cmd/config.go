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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/globaltalk/internal/broadcast"
	"github.com/valpere/globaltalk/internal/llm"
	"github.com/valpere/globaltalk/internal/speech"
)

// legacyEnv maps config keys to the environment variables the bot has
// always been deployed with.
var legacyEnv = map[string]string{
	"telegram.token": "TELEGRAM_BOT_TOKEN",
	"gemini.api_key": "GEMINI_API_KEY",
	"openai.api_key": "OPENAI_API_KEY",
	"admin.user_ids": "ADMIN_USER_IDS",
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".globaltalk")
	}

	setDefaults()

	viper.SetEnvPrefix("GLOBALTALK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "GLOBALTALK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		viper.BindEnv(key, prefixed, env)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	viper.SetDefault("telegram.poll_timeout", 60)
	viper.SetDefault("llm.provider", llm.ProviderGemini)
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("llm.breaker.max_failures", 5)
	viper.SetDefault("llm.breaker.open_timeout", time.Minute)
	viper.SetDefault("translator.call_timeout", 45*time.Second)
	viper.SetDefault("translator.local_detection", false)
	viper.SetDefault("translator.validate_output", false)
	viper.SetDefault("store.path", "./data/globaltalk.db")
	viper.SetDefault("health.interval", time.Hour)
	viper.SetDefault("speech.enabled", false)
	viper.SetDefault("speech.model", "tts-1")
	viper.SetDefault("speech.voice", "alloy")
	viper.SetDefault("speech.speed", 1.0)
	viper.SetDefault("broadcast.concurrency", 8)
	viper.SetDefault("broadcast.timeout", 10*time.Second)
	viper.SetDefault("bot.history_limit", 10)
	viper.SetDefault("bot.list_limit", 100)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
}

// adminIDs accepts a YAML list as well as a comma separated string.
func adminIDs() ([]int64, error) {
	var ids []int64
	for _, item := range viper.GetStringSlice("admin.user_ids") {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid admin user id %q: %w", part, err)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func llmConfig() llm.Config {
	cfg := llm.Config{
		Provider: strings.ToLower(viper.GetString("llm.provider")),
		Model:    viper.GetString("llm.model"),
		APIKey:   viper.GetString("llm.api_key"),
		BaseURL:  viper.GetString("llm.base_url"),
		Timeout:  viper.GetDuration("llm.timeout"),
	}
	if cfg.APIKey == "" {
		switch cfg.Provider {
		case llm.ProviderOpenAI:
			cfg.APIKey = viper.GetString("openai.api_key")
		case llm.ProviderGemini, "":
			cfg.APIKey = viper.GetString("gemini.api_key")
		}
	}
	return cfg
}

func breakerConfig() llm.BreakerConfig {
	return llm.BreakerConfig{
		MaxFailures: uint32(viper.GetUint("llm.breaker.max_failures")),
		OpenTimeout: viper.GetDuration("llm.breaker.open_timeout"),
	}
}

func broadcastConfig() broadcast.Config {
	return broadcast.Config{
		Concurrency: viper.GetInt("broadcast.concurrency"),
		Timeout:     viper.GetDuration("broadcast.timeout"),
	}
}

func speechConfig() speech.OpenAIConfig {
	key := viper.GetString("speech.api_key")
	if key == "" {
		key = viper.GetString("openai.api_key")
	}
	return speech.OpenAIConfig{
		APIKey:  key,
		BaseURL: viper.GetString("speech.base_url"),
		Model:   viper.GetString("speech.model"),
		Voice:   viper.GetString("speech.voice"),
		Speed:   viper.GetFloat64("speech.speed"),
	}
}
