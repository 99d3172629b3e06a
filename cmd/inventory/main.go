package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

var rootCmd = &cobra.Command{
	Use:           "inventory",
	Short:         "Inventory tracker API and maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(usersCmd)
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "command", os.Args[1:], "error", err)
		os.Exit(1)
	}
}
