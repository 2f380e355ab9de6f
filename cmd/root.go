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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.3.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "globaltalk",
	Short: "Telegram translation bot",
	Long: `A Telegram bot that translates forwarded messages into each user's
preferred language using a large language model.

Every translation is detected, translated and verified by the model, and
results are cached in memory. User settings, VIP status, usage counters and
translation history are kept in SQLite.

Use "globaltalk serve" to run the bot and "globaltalk translate --help" for
one-shot translations from the command line.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.globaltalk.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database path (overrides store.path)")
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}
