package main

import (
	"fmt"
	"os"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewZapLogger(cfg.AppName, cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(runCLI(logger, os.Args[1:]))
}

// runCLI executes the command line and flushes the logger before returning the
// process exit code.
func runCLI(logger *zap.Logger, args []string) int {
	defer func() { _ = logger.Sync() }()

	cmd := newRootCmd(logger)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		return 1
	}

	return 0
}
