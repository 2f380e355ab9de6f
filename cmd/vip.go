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

	"github.com/spf13/cobra"
)

var vipCmd = &cobra.Command{
	Use:   "vip",
	Short: "Manage VIP users",
	Long:  `VIP users may chat freely with the model through /chat.`,
}

var vipAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Grant VIP status",
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

		if err := db.AddVIP(context.Background(), id); err != nil {
			return fmt.Errorf("failed to add VIP: %w", err)
		}
		fmt.Printf("User %d has been added to VIP users.\n", id)
		return nil
	},
}

var vipRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Revoke VIP status",
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

		removed, err := db.RemoveVIP(context.Background(), id)
		if err != nil {
			return fmt.Errorf("failed to remove VIP: %w", err)
		}
		if !removed {
			fmt.Printf("User %d is not a VIP user.\n", id)
			return nil
		}
		fmt.Printf("User %d has been removed from VIP users.\n", id)
		return nil
	},
}

var vipListCmd = &cobra.Command{
	Use:   "list",
	Short: "List VIP users",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		ids, err := db.ListVIP(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list VIP users: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("There are no VIP users.")
			return nil
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vipCmd)

	vipCmd.AddCommand(vipAddCmd)
	vipCmd.AddCommand(vipRemoveCmd)
	vipCmd.AddCommand(vipListCmd)
}
