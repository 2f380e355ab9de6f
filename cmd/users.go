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
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/globaltalk/internal/languages"
	"github.com/valpere/globaltalk/internal/store"
)

var (
	usersLimit   int
	historyLimit int
	usageDays    int
	confirmReset bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect and manage bot users",
	Long:  `Offline access to the users stored by the bot: settings, usage and translation history.`,
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users, most recently active first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		users, err := db.ListUsers(context.Background(), usersLimit)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLANGUAGE\tTRANSLATIONS\tLAST ACTIVE\tVIP")
		for _, u := range users {
			last := "-"
			if !u.LastActivity.IsZero() {
				last = u.LastActivity.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%v\n",
				u.ID, u.DisplayName(), u.Language, u.TranslationCount, last, u.VIP)
		}
		return w.Flush()
	},
}

var usersInfoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show everything stored about a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		u, err := db.GetUser(context.Background(), id)
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("user %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		fmt.Printf("ID:                 %d\n", u.ID)
		fmt.Printf("Name:               %s\n", u.DisplayName())
		fmt.Printf("Client language:    %s\n", u.LanguageCode)
		fmt.Printf("Preferred language: %s (%s)\n", languages.Name(u.Language), u.Language)
		fmt.Printf("Translations:       %d\n", u.TranslationCount)
		if !u.LastActivity.IsZero() {
			fmt.Printf("Last activity:      %s\n", u.LastActivity.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("VIP:                %v\n", u.VIP)
		return nil
	},
}

var usersSetLangCmd = &cobra.Command{
	Use:   "setlang <id> <code>",
	Short: "Change a user's preferred language",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		code := strings.ToLower(args[1])
		if !languages.IsSupported(code) {
			return fmt.Errorf("unsupported language code %q", code)
		}

		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SetLanguage(context.Background(), id, code); err != nil {
			return fmt.Errorf("failed to set language: %w", err)
		}
		fmt.Printf("Language of user %d set to %s.\n", id, languages.Name(code))
		return nil
	},
}

var usersStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show user and usage statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		ctx := context.Background()

		count, err := db.CountUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		langs, err := db.LanguageStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get language stats: %w", err)
		}
		usage, err := db.Usage(ctx, usageDays)
		if err != nil {
			return fmt.Errorf("failed to get usage: %w", err)
		}

		fmt.Printf("Total users:        %d\n", count)
		fmt.Printf("Total translations: %d\n", usage.Total)

		fmt.Println("\nLanguages:")
		for _, l := range langs {
			fmt.Printf("  %-22s %d\n", languages.Name(l.Language), l.Users)
		}
		fmt.Println("\nDaily translations:")
		for _, d := range usage.Days {
			fmt.Printf("  %s  %d\n", d.Day, d.Count)
		}
		return nil
	},
}

var usersHistoryCmd = &cobra.Command{
	Use:   "history <id>",
	Short: "Show a user's latest translations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListHistory(context.Background(), id, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Printf("No translation history for user %d.\n", id)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tFROM\tTO\tORIGINAL\tTRANSLATION")
		for _, e := range entries {
			from := e.SourceLang
			if from == "" {
				from = "auto"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04"), from, e.TargetLang, snippet(e.SourceText), snippet(e.TranslatedText))
		}
		return w.Flush()
	},
}

var usersResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every user's language to the default",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return fmt.Errorf("this resets the language of every user; pass --yes to confirm")
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ResetSettings(context.Background())
		if err != nil {
			return fmt.Errorf("failed to reset settings: %w", err)
		}
		fmt.Printf("Reset the language of %d users.\n", n)
		return nil
	},
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	return id, nil
}

// snippet shortens text for a table cell.
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > 40 {
		return string(runes[:37]) + "..."
	}
	return text
}

func init() {
	rootCmd.AddCommand(usersCmd)

	usersListCmd.Flags().IntVar(&usersLimit, "limit", 50, "Maximum number of rows")
	usersHistoryCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of rows")
	usersStatsCmd.Flags().IntVar(&usageDays, "days", 7, "Number of days of daily usage to show (0 = all)")
	usersResetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm the reset")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersInfoCmd)
	usersCmd.AddCommand(usersSetLangCmd)
	usersCmd.AddCommand(usersStatsCmd)
	usersCmd.AddCommand(usersHistoryCmd)
	usersCmd.AddCommand(usersResetCmd)
}
