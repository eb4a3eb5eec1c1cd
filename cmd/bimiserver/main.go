package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/KapuKapu/bimiTool/internal/config"
	"github.com/KapuKapu/bimiTool/internal/server"
	"github.com/KapuKapu/bimiTool/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("bimiserver", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "config file (default ~/.config/bimiTool/bmt_config.yaml)")
	flags.StringP("database", "d", "", "sqlite database file, remembered in the config file")
	flags.String("addr", "", "listen address of the HTTP API")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	debug := flags.Bool("debug", false, "shorthand for --log-level debug")
	flags.Parse(os.Args[1:])

	logger := logrus.New()

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		logger.Fatal("Can't load config: ", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Invalid log level %q", cfg.LogLevel)
	}
	if *debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if flags.Changed("database") {
		if err := cfg.Save(); err != nil {
			logger.Warn("Can't remember database path: ", err)
		} else {
			logger.Infof("Database path %s saved to %s", cfg.DBPath, cfg.Path())
		}
	}

	// Catch interrupt signals
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sig := <-c
		logger.Infof("Signal: %s", sig)
		cancel()
	}()

	ledger, err := store.Open(ctx, logger, cfg.DBPath)
	if err != nil {
		logger.Fatal("Can't open ledger: ", err)
	}
	defer ledger.Close()

	server.Start(ctx, ledger, cfg, logger)
}
