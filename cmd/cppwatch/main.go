package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ajkula/cppwatch/adapter/inbound/shell"
	"github.com/ajkula/cppwatch/adapter/outbound/console"
	"github.com/ajkula/cppwatch/adapter/outbound/filewatcher"
	"github.com/ajkula/cppwatch/adapter/outbound/journal"
	"github.com/ajkula/cppwatch/adapter/outbound/logging"
	"github.com/ajkula/cppwatch/adapter/outbound/toolchain"
	"github.com/ajkula/cppwatch/config"
	"github.com/ajkula/cppwatch/domain/model"
	"github.com/ajkula/cppwatch/domain/port/outbound"
	"github.com/ajkula/cppwatch/domain/service"
)

const version = "1.0.0"

const defaultConfigPath = "cppwatch.yaml"

func main() {
	var configPath string
	var generateConfig bool
	var showVersion bool

	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	flag.BoolVar(&generateConfig, "generate-config", false, "Generate default configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("cppwatch %s\n", version)
		os.Exit(0)
	}

	if generateConfig {
		if err := config.SaveConfig(config.DefaultConfig(), configPath); err != nil {
			fmt.Printf("Error generating config file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration file generated at: %s\n", configPath)
		os.Exit(0)
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Printf("usage: %s [flags] <source file>...\n", os.Args[0])
		os.Exit(1)
	}
	if len(files) > model.MaxWatchedFiles {
		fmt.Printf("cannot monitor more than %d files (%d given)\n", model.MaxWatchedFiles, len(files))
		os.Exit(1)
	}

	logger := logging.NewSlogAdapter(cfg)
	defer func() {
		if adapter, ok := logger.(interface{ Shutdown() }); ok {
			adapter.Shutdown()
		}
	}()

	// Outgoing adapters
	activity := journal.NewFileJournal(cfg.Journal.Path, logger)
	term := console.NewAnsiConsole(os.Stdout)
	compiler := toolchain.NewExecCompiler(cfg.Compiler.Command, logger)
	runner := toolchain.NewExecRunner(os.Stdout, os.Stderr, logger)

	var newSource outbound.ChangeSourceFactory
	switch cfg.Watcher.Engine {
	case "fsnotify":
		newSource = filewatcher.NewFsnotifySource
	default:
		newSource = func() (outbound.ChangeSource, error) {
			return filewatcher.NewPollSource(cfg.Watcher.PollInterval), nil
		}
	}

	// Domain services
	validator := service.NewFileValidator(cfg.Compiler.Extensions, activity, logger)
	watchService := service.NewWatchService(
		files,
		newSource,
		compiler,
		runner,
		validator,
		activity,
		term,
		logger,
		cfg.Watcher.PollInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := watchService.Start(ctx); err != nil {
		term.Errorf("cannot start watching: %v", err)
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	term.Infof("watching %d file(s), h for help", len(files))
	logger.Info("cppwatch started", "engine", cfg.Watcher.Engine, "files", len(files))

	// The shell owns the foreground; the select below only matters when a
	// signal arrives while the shell is still blocked on stdin.
	commandShell := shell.New(watchService, term, activity, logger, os.Stdin)

	shellDone := make(chan error, 1)
	go func() {
		shellDone <- commandShell.Run(ctx)
	}()

	select {
	case err := <-shellDone:
		if err != nil {
			logger.Error("shell input error", "error", err)
		}
	case <-ctx.Done():
		// interrupted: join the watcher so no run outlives the process
		watchService.Stop()
	}

	logger.Info("cppwatch exiting")
}

// loadConfig falls back to defaults when the default config file is
// absent; an explicitly passed -config that does not exist is an error.
func loadConfig(path string) (*config.Config, error) {
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}
