//go:build !gui

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/metcalfc/nightreader/internal/config"
	"github.com/metcalfc/nightreader/internal/controller"
	"github.com/metcalfc/nightreader/internal/logging"
	"github.com/metcalfc/nightreader/internal/tui"
)

// read runs the terminal reader. Logs go to --logfile since the screen
// belongs to the UI.
func read(ctx context.Context, cfg *config.Config) int {
	logger, closeLog, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	opts, err := readerOptions(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	opts.Clipboard = controller.ClipboardFunc(clipboard.WriteAll)

	m := tui.New(tui.Options{Controller: opts, File: cfg.File})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
