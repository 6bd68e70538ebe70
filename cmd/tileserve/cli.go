package main

import (
	"fmt"
	"os"

	"github.com/bastiangx/tileserve/internal/cli"
	"github.com/bastiangx/tileserve/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cliCmd)
	cliCmd.Flags().IntP("limit", "l", 0, "entries printed per search (default from config)")
}

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "interactive query shell for testing and debugging",
	RunE:  runCLI,
}

func runCLI(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	engine, provider, release := a.start(ctx)
	defer release()

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = a.cfg.CLI.DefaultLimit
	}
	log.Debug("Input info:", "limit", limit, "maxQueryLength", a.cfg.Server.MaxQueryLength)

	if !engine.Ready() {
		log.Print("Loading lexicon...")
		if _, err := provider.Wait(ctx); err != nil {
			log.Warnf("Lexicon unavailable: %v", err)
		}
	}

	h := cli.NewInputHandler(engine, limit, a.cfg.Server.MaxQueryLength)
	if err := h.Start(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		return fmt.Errorf("cli: %w", err)
	}
	return nil
}

// newDebugLogger is the default logger in debug mode: timestamps and caller.
func newDebugLogger() *log.Logger {
	return logger.NewWithConfig("", log.DebugLevel, true, true, log.TextFormatter)
}
