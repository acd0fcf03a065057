package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	targetsCmd := &cobra.Command{Use: "targets", Short: "AR target operations"}

	var category string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List AR targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newClient().R()
			if category != "" {
				req.SetQueryParam("category", category)
			}
			return printResponse(req.Get("/api/ar-targets"))
		},
	}
	listCmd.Flags().StringVarP(&category, "category", "c", "", "Filter by category (Building, Relics/Artifacts)")
	targetsCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get TARGET_ID",
		Short: "Get an AR target by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printResponse(newClient().R().Get("/api/ar-targets/" + args[0]))
		},
	}
	targetsCmd.AddCommand(getCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete TARGET_ID",
		Short: "Delete an AR target and its assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Delete("/api/ar-targets/" + args[0])
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
			}
			fmt.Println("deleted")
			return nil
		},
	}
	targetsCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(targetsCmd)
}
