package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(newClient().R().Get("/api/users"))
		},
	}
	usersCmd.AddCommand(listCmd)

	var reason string
	archiveCmd := &cobra.Command{
		Use:   "archive USER_ID",
		Short: "Archive a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reason == "" {
				return fmt.Errorf("--reason required")
			}
			return printResponse(newClient().R().
				SetBody(map[string]string{"reason": reason}).
				Post("/api/users/" + args[0] + "/archive"))
		},
	}
	archiveCmd.Flags().StringVarP(&reason, "reason", "r", "", "Archive reason (required)")
	_ = archiveCmd.MarkFlagRequired("reason")
	usersCmd.AddCommand(archiveCmd)

	archivedCmd := &cobra.Command{
		Use:   "archived",
		Short: "List archived users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(newClient().R().Get("/api/archived-users"))
		},
	}
	usersCmd.AddCommand(archivedCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete archived users past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(newClient().R().Post("/api/archived-users/sweep"))
		},
	}
	usersCmd.AddCommand(sweepCmd)

	rootCmd.AddCommand(usersCmd)
}
