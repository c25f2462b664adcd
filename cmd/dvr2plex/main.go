package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"dvr2plex-go/internal/config"
	"dvr2plex-go/internal/logging"
	"dvr2plex-go/internal/processor"
)

var (
	version = "v1.0.0"
	commit  = "unknown"
	date    = "unknown"
)

func init() {
	config.RunProcessing = processRecordings
	config.RootCmd.AddCommand(
		newParseCmd(),
		newExplainCmd(),
		newSeriesCmd(),
		newMklnCmd(),
		newWatchCmd(),
	)
}

func main() {
	config.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	config.Execute()
}

// setup creates the logger and the processor for cfg. Results go to the
// root command's output, logs to its error stream.
func setup(cfg *config.Config) (*logging.Logger, *processor.Processor, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	proc, err := processor.New(cfg,
		processor.WithLogger(logger),
		processor.WithOutput(config.RootCmd.OutOrStdout()),
	)
	if err != nil {
		logger.Close()
		return nil, nil, err
	}
	return logger, proc, nil
}

// processRecordings handles the paths on the command line, then those on
// stdin when asked to.
func processRecordings(cfg *config.Config, paths []string) error {
	logger, proc, err := setup(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("files", cfg.Files).Debug("configuration loaded")

	var errs []error
	if len(paths) > 0 {
		if err := proc.ProcessPaths(ctx, paths); err != nil {
			errs = append(errs, err)
		}
	}
	if cfg.Stdin {
		if err := proc.ProcessReader(ctx, config.RootCmd.InOrStdin(), cfg.NullTermination); err != nil {
			errs = append(errs, err)
		}
	}

	if stats := proc.Stats(); stats.TotalErrors > 0 {
		for errorType, count := range stats.ErrorsByType {
			logger.WithFields(logrus.Fields{
				"type":  errorType.String(),
				"share": fmt.Sprintf("%.0f%%", stats.GetErrorRate(errorType)*100),
			}).Warnf("%d errors", count)
		}
	}
	return errors.Join(errs...)
}
