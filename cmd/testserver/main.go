package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/testserver/internal/config"
	"github.com/Kush-Singh-26/testserver/internal/server"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, afero.NewOsFs(), logger, os.Stdout)
	if err := srv.Run(ctx); err != nil {
		logger.Error("Server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
