package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	apperrors "dvr2plex-go/internal/errors"
)

var (
	configDir  string
	destDir    string
	tmpl       string
	execute    bool
	readStdin  bool
	nullTerm   bool
	dryRun     bool
	logLevel   string
	logFile    string
	envFile    string
	tokenizerP string
	params     []string
)

// ProcessingFunc is the type for the main processing function
type ProcessingFunc func(cfg *Config, paths []string) error

// RunProcessing is set by main to process the paths given on the command line
var RunProcessing ProcessingFunc

// Version is printed by the version command. It is set by main.
var Version = "dev"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dvr2plex [flags] [paths...]",
	Short: "Rename DVR recordings into a Plex library layout",
	Long: `dvr2plex works out the series, season, episode and air date of TV
recordings from their file names, matches the series against the folders
already in your library, and fills in a template to produce the destination
path or a shell command.

Paths are read from the command line, and also from stdin when --stdin is
given or a path is "-".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDvr2plex(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "### Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&configDir, "config-dir", "c", "", "directory holding an additional "+AppName+".conf")
	flags.StringVarP(&destDir, "destination", "d", "", "root of the destination library")
	flags.StringVarP(&tmpl, "template", "t", "", "template used to build the output")
	flags.BoolVarP(&execute, "execute", "x", false, "run each result with /bin/sh instead of printing it")
	flags.BoolVar(&readStdin, "stdin", false, "also read paths from stdin")
	flags.BoolVarP(&nullTerm, "null", "0", false, "paths on stdin are NUL terminated")
	flags.BoolVar(&dryRun, "dry-run", false, "log what would be executed without running it")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "also write logs to this file, rotated")
	flags.StringVar(&envFile, "env-file", "", "dotenv file consulted before the environment")
	flags.StringVar(&tokenizerP, "tokenizer", "", "word splitting policy: uniform or histogram")
	flags.StringArrayVarP(&params, "param", "p", nil, "template parameter as key=value (repeatable)")

	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of dvr2plex",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dvr2plex %s\n", Version)
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the merged configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadWithOverrides(cmd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			out, err := yaml.Marshal(config)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check that the configuration is complete",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadWithOverrides(cmd)
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if err := config.Require(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	})

	RootCmd.AddCommand(configCmd)
}

// runDvr2plex is the main execution function
func runDvr2plex(cmd *cobra.Command, args []string) error {
	config, err := LoadWithOverrides(cmd)
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range args {
		if arg == "-" {
			config.AddParam("Stdin", "yes")
			continue
		}
		paths = append(paths, arg)
	}

	if err := config.Require(); err != nil {
		return err
	}
	if len(paths) == 0 && !config.Stdin {
		return cmd.Usage()
	}
	if RunProcessing == nil {
		return apperrors.NewConfigError("cli", "no processing function registered", nil)
	}
	return RunProcessing(config, paths)
}

// LoadWithOverrides loads configuration with command-line overrides
func LoadWithOverrides(cmd *cobra.Command) (*Config, error) {
	config, err := Load(configDir)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	// -p first, so the dedicated flags win over a -p of the same keyword
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, apperrors.NewConfigError("cli", fmt.Sprintf("parameter %q is not key=value", p), nil)
		}
		config.AddParam(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if changed("destination") {
		config.AddParam("Destination", destDir)
	}
	if changed("template") {
		config.AddParam("Template", tmpl)
	}
	if changed("execute") {
		config.AddParam("Execute", yesNo(execute))
	}
	if changed("stdin") {
		config.AddParam("Stdin", yesNo(readStdin))
	}
	if changed("null") {
		config.AddParam("NullTermination", yesNo(nullTerm))
	}
	if changed("dry-run") {
		config.DryRun = dryRun
	}
	if changed("log-level") {
		config.Log.Level = logLevel
	}
	if changed("log-file") {
		config.Log.File = logFile
	}
	if changed("env-file") {
		config.EnvFile = envFile
	}
	if changed("tokenizer") {
		config.Tokenizer = tokenizerP
	}

	if err := validateConfig(config); err != nil {
		return nil, apperrors.NewConfigError("cli", "config validation failed after applying overrides", err)
	}
	return config, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ResetFlags restores every flag to its default (mainly for testing)
func ResetFlags() {
	configDir, destDir, tmpl = "", "", ""
	execute, readStdin, nullTerm, dryRun = false, false, false, false
	logLevel, logFile, envFile, tokenizerP = "", "", "", ""
	params = nil
	resetChanged(RootCmd)
}

func resetChanged(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetChanged(c)
	}
}
