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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/llm"
	"github.com/valpere/globaltalk/internal/translator"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	provider   string
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text once through the bot's pipeline",
	Long: `Translate text with the same detect, translate and verify pipeline
the bot uses, and print the result.

The text is taken from the arguments or from --input. Without --source the
language is detected by the model.

Example:
  globaltalk translate --target de "Good morning"
  globaltalk translate -t fr -i notes.txt -o notes.fr.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text := strings.Join(args, " ")
		if inputFile != "" {
			if text != "" {
				return fmt.Errorf("pass the text either as arguments or with --input, not both")
			}
			data, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to translate")
		}

		if provider != "" {
			viper.Set("llm.provider", provider)
		}
		logger, err := newLogger(viper.GetString("log.level"), viper.GetBool("log.development"))
		if err != nil {
			return err
		}
		defer logger.Sync()

		tr := newTranslator(newModel(logger), logger)
		result, err := tr.Translate(context.Background(), translator.Request{
			Text:   text,
			Source: languages.Normalize(sourceLang),
			Target: strings.ToLower(targetLang),
		})
		if errors.Is(err, translator.ErrInvalidTargetLanguage) {
			return fmt.Errorf("%w (run \"globaltalk languages\" for the list)", err)
		}
		if errors.Is(err, llm.ErrModelInitialization) {
			return fmt.Errorf("%w (check llm.provider and the API key)", err)
		}
		if err != nil {
			return err
		}

		if outputFile == "" {
			fmt.Println(result)
			return nil
		}
		if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outputFile, []byte(result), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Successfully translated to %s\n", languages.Name(targetLang))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default is stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code (detected when empty)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")
	translateCmd.Flags().StringVar(&provider, "llm", "", "LLM provider: gemini, openai or ollama")

	translateCmd.MarkFlagRequired("target")
}
