// Package main provides the conference registration reporting utility.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/softwerkskammer/socrates-registration/internal/platform/config"
	"github.com/softwerkskammer/socrates-registration/internal/platform/otel"
	"github.com/softwerkskammer/socrates-registration/internal/tools/occupancy"
)

func main() {
	cfg, err := occupancy.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "conference")
	if err != nil {
		config.Exitf("Error: setup tracing: %v", err)
	}
	defer func() {
		_ = shutdown(context.Background())
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := occupancy.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
