package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/sandevgo/tastybot/internal/config"
	"github.com/sandevgo/tastybot/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "tasty",
	Short: "TastyBot — a conversational recipe finder",
	Long:  `TastyBot routes conversation turns through intent classification, recipe search and reference resolution to recommend recipes across Telegram, HTTP and the terminal.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
