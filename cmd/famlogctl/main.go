package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "famlogctl",
		Short: "CLI client for the famlog sync service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Sync service base URL")

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a full sync pass and wait for it to finish",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncNow(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(syncCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show current sync status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(statusCmd)

	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove duplicate schedule entries from the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanup(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(cleanupCmd)

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List local profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListProfiles(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(profilesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
