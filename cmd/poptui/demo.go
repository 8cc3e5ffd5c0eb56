package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/poptui/internal/telemetry"
	"github.com/jmylchreest/poptui/internal/tui"
)

var demoOpts struct {
	themesDir string
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive popup demo",
	Long: `Launch the interactive demo. Popups are drawn over a history of every popup
requested so far.

Key bindings:
  1-6         Request a popup (none, scale-in, popup, fade-in, top-bottom, bottom-top)
  i           Request a popup that skips the queue
  b           Queue a burst of popups
  enter/esc   Hide the topmost popup
  x           Dismiss every popup
  o / w / a   Toggle overlay, toggle scroll wrap, cycle anchor
  c           Copy the topmost popup to the clipboard
  ?           Show help
  q           Quit

Clicking the dimmed overlay closes a popup; the mouse wheel scrolls a wrapped
popup. Changes to the config file and to a user theme apply while running.

Set OTEL_EXPORTER_OTLP_ENDPOINT to export popup lifecycle spans.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoOpts.themesDir, "themes-dir", "",
		"Directory with user themes (default: ~/.config/poptui/themes)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The demo owns the terminal, so logs go to a file or nowhere.
	tuiLogger := slog.New(slog.DiscardHandler)
	if globalOpts.logFile != "" {
		f, err := os.OpenFile(globalOpts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		tuiLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel()}))
	}

	provider, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	return tui.Run(ctx, tui.RunOptions{
		Config:      cfg,
		ConfigPath:  configPath(),
		ThemesDir:   demoOpts.themesDir,
		Logger:      tuiLogger,
		Tracer:      provider.Tracer("github.com/jmylchreest/poptui/popup"),
		NoAnimation: globalOpts.noAnimation,
	})
}
