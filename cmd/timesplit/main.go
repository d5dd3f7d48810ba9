package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/timesplit/internal/app"
	"github.com/alexanderramin/timesplit/internal/cli"
	"github.com/alexanderramin/timesplit/internal/config"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	// Open database, load the catalog and wire services
	services, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	cliApp := &cli.App{
		Survey:     services.Survey,
		Reports:    services.Reports,
		Import:     services.Import,
		Allocation: services.Allocation,
		Catalog:    services.Catalog,
		Strategy:   services.Strategy,
		Handler:    services.Handler(),
		Port:       cfg.Port,
		Logger:     logger,
	}

	// The slider form needs a real terminal on stdin.
	cliApp.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(cliApp).Execute()
}
