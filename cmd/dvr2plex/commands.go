package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dvr2plex-go/internal/config"
	"dvr2plex-go/internal/datatype"
	"dvr2plex-go/internal/dictionary"
	apperrors "dvr2plex-go/internal/errors"
	"dvr2plex-go/internal/linker"
	"dvr2plex-go/internal/logging"
	"dvr2plex-go/internal/scanner"
	"dvr2plex-go/internal/watcher"
	"dvr2plex-go/pkg/ui"
)

func newParseCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [paths...]",
		Short: "Print what is inferred from each path",
		Long: `parse prints the parameters worked out for each path. When a template
is configured, on the command line, in a config file or in the environment,
the rendered result is included.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(cmd)
			if err != nil {
				return err
			}
			logger, proc, err := setup(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			out := cmd.OutOrStdout()
			for i, path := range args {
				res := proc.Parse(path)
				rec := datatype.FromDictionary(res.Dict)
				entry := logger.WithField("source", path)
				if err := rec.Validate(); err != nil {
					entry.WithError(err).Warn("incomplete recording")
				}
				output, err := proc.Render(res)
				switch {
				case apperrors.Is(err, apperrors.ErrNoTemplate):
				case err != nil:
					entry.WithError(err).Warn("template could not be rendered")
					rec.Error = err.Error()
				default:
					rec.Output = output
				}

				switch format {
				case "json":
					js, err := rec.ToJSON()
					if err != nil {
						return err
					}
					fmt.Fprintln(out, js)
				case "yaml":
					ym, err := rec.ToYAML()
					if err != nil {
						return err
					}
					if i > 0 {
						fmt.Fprintln(out, "---")
					}
					fmt.Fprint(out, ym)
				case "text":
					fmt.Fprintln(out, rec.String())
					if rec.Error != "" {
						fmt.Fprintln(out, "  !!", rec.Error)
					} else if rec.Output != "" {
						fmt.Fprintln(out, "  ->", rec.Output)
					}
				default:
					return apperrors.NewConfigError("parse", fmt.Sprintf("unknown format %q (expected text, yaml or json)", format), nil)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml or json")
	return cmd
}

func newExplainCmd() *cobra.Command {
	var (
		noColor bool
		width   int
	)

	cmd := &cobra.Command{
		Use:   "explain [paths...]",
		Short: "Show how each path is split into tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(cmd)
			if err != nil {
				return err
			}
			if noColor {
				ui.SetColorEnabled(false)
			}
			logger, proc, err := setup(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			for _, path := range args {
				res := proc.Parse(path)
				basename, _ := res.Dict.FindKey(dictionary.Basename)
				e := &ui.Explanation{
					Source:   path,
					Basename: basename,
					Tokens:   res.Tokens,
					Dict:     res.Dict,
				}
				e.Output, e.Err = proc.Render(res)
				fmt.Fprint(cmd.OutOrStdout(), e.Render(width))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().IntVar(&width, "width", 80, "box width")
	return cmd
}

func newSeriesCmd() *cobra.Command {
	var lookup string

	cmd := &cobra.Command{
		Use:   "series",
		Short: "List the series folders in the destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(cmd)
			if err != nil {
				return err
			}
			if cfg.Destination == "" {
				return apperrors.ErrNoDestination
			}
			names, err := scanner.ListSeries(cfg.Destination)
			if err != nil {
				return apperrors.NewConfigError("series", "cannot list destination", err)
			}
			logger, proc, err := setup(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			out := cmd.OutOrStdout()
			cat := proc.Catalog()
			if lookup == "" {
				fmt.Fprint(out, ui.FormatSeriesList(names, ""))
				return nil
			}

			if m, ok := cat.Lookup(lookup); ok {
				fmt.Fprintf(out, "%s -> %s\n", m.Series, ui.Success(m.Canonical))
				if m.Remainder != "" {
					fmt.Fprintf(out, "remainder: %s\n", m.Remainder)
				}
				return nil
			}
			fmt.Fprintf(out, "%s: %s\n", lookup, ui.Warning("no match"))
			if suggestions := cat.Suggest(lookup, 5); len(suggestions) > 0 {
				fmt.Fprintln(out, "did you mean:")
				fmt.Fprint(out, ui.FormatSeriesList(suggestions, ""))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lookup, "lookup", "l", "", "show which series folder a name matches")
	return cmd
}

func newMklnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkln <original> <target>",
		Short: "Hard link a recording into the library",
		Long: `mkln hard links original at target, creating missing folders with the
original's permissions. If target exists, "name (2).ext" up to "name (99).ext"
are tried instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			l := linker.New(linker.Config{DryRun: cfg.DryRun}, logger)
			_, err = l.Link(args[0], args[1])
			return err
		},
	}
}

func newWatchCmd() *cobra.Command {
	var (
		rescan      string
		settle      time.Duration
		scanOnStart bool
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Process recordings as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithOverrides(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Require(); err != nil {
				return err
			}
			if rescan == "" {
				rescan = cfg.Rescan
			}

			s, err := scanner.NewScanner(cfg.Extensions, scanner.DefaultIgnoredDirPatterns)
			if err != nil {
				return err
			}
			logger, proc, err := setup(cfg)
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			handler := func(ctx context.Context, path string) error {
				_, err := proc.ProcessFile(ctx, path)
				return err
			}
			invalidate := func() {
				proc.Catalogs().Invalidate(cfg.Destination)
			}
			w := watcher.New(watcher.Config{
				Root:        args[0],
				Destination: cfg.Destination,
				Rescan:      rescan,
				Settle:      settle,
				ScanOnStart: scanOnStart,
			}, s, handler, invalidate, logger)
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&rescan, "rescan", "", `cron schedule for full rescans, e.g. "@every 30m"`)
	cmd.Flags().DurationVar(&settle, "settle", watcher.DefaultSettle, "how long a recording must be unchanged before it is processed")
	cmd.Flags().BoolVar(&scanOnStart, "scan-on-start", false, "process the recordings already in the directory")
	return cmd
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.NewWithWriter(cfg.Log, config.RootCmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, nil
}
