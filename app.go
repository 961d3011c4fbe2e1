package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/metcalfc/nightreader/internal/client"
	"github.com/metcalfc/nightreader/internal/config"
	"github.com/metcalfc/nightreader/internal/controller"
	"github.com/metcalfc/nightreader/internal/document"
	"github.com/metcalfc/nightreader/internal/export"
	"github.com/metcalfc/nightreader/internal/logging"
	"github.com/metcalfc/nightreader/internal/server"
	"github.com/spf13/pflag"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	switch {
	case errors.Is(err, config.ErrVersionRequested):
		fmt.Printf("nightreader %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	case errors.Is(err, pflag.ErrHelp):
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: nightreader -h")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.IsServerMode() {
		return serve(ctx, cfg)
	}
	return read(ctx, cfg)
}

func serve(ctx context.Context, cfg *config.Config) int {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	srv := server.New(server.Config{
		Addr:        cfg.Address(),
		MaxFileSize: cfg.MaxFileSize,
		Logger:      logger,
	})
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}

// readerOptions wires the collaborators shared by both front-ends. With a
// server URL documents are parsed remotely, otherwise in-process.
func readerOptions(cfg *config.Config, logger *slog.Logger) (controller.Options, error) {
	exporter, err := export.NewFileExporter(cfg.ExportDir)
	if err != nil {
		return controller.Options{}, err
	}

	var parser controller.Parser
	if cfg.ServerURL != "" {
		parser = client.New(client.Config{BaseURL: cfg.ServerURL, Logger: logger})
	} else {
		parser = document.NewParser(document.Config{Logger: logger})
	}

	return controller.Options{
		Parser:        parser,
		Exporter:      exporter,
		SyncGuard:     cfg.SyncGuard,
		UploadTimeout: cfg.UploadTimeout,
		Logger:        logger,
	}, nil
}
