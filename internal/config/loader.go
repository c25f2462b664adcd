package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"dvr2plex-go/internal/dictionary"
	apperrors "dvr2plex-go/internal/errors"
	"dvr2plex-go/internal/tokenizer"
)

// maxConfLine bounds the length of one config file line.
const maxConfLine = 64 * 1024

// Loader finds and layers the config files. Files are read in order
// /etc/<name>.conf, ~/.config/<name>.conf, <config dir>/<name>.conf;
// a key in a later file overrides the same key in an earlier one.
type Loader struct {
	Name string
	// SystemDir defaults to /etc.
	SystemDir string
	// HomeDir defaults to the user's home directory.
	HomeDir string
	// ConfigDir is the -c directory. When set, its config file must exist.
	ConfigDir string
	Logger    logrus.FieldLogger
}

// NewLoader creates a Loader for the default file locations plus configDir.
func NewLoader(configDir string) *Loader {
	return &Loader{
		Name:      AppName,
		SystemDir: "/etc",
		ConfigDir: configDir,
		Logger:    logrus.StandardLogger(),
	}
}

// Load loads the configuration from the default locations and configDir
func Load(configDir string) (*Config, error) {
	return NewLoader(configDir).Load()
}

// Files returns the config files to read, in order. Missing optional files
// are skipped.
func (l *Loader) Files() ([]string, error) {
	var files []string
	name := l.Name
	if name == "" {
		name = AppName
	}
	conf := name + ".conf"

	optional := func(path string) {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			files = append(files, path)
		}
	}

	if l.SystemDir != "" {
		optional(filepath.Join(l.SystemDir, conf))
	}

	home := l.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	if home != "" {
		optional(filepath.Join(home, ".config", conf))
	}

	if l.ConfigDir != "" {
		path := l.ConfigDir
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, conf)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewConfigError("config", fmt.Sprintf("unable to read config file %s", path), err)
		}
		f.Close()
		files = append(files, path)
	}
	return files, nil
}

// Load reads every config file and the DVR2PLEX_ environment.
func (l *Loader) Load() (*Config, error) {
	files, err := l.Files()
	if err != nil {
		return nil, err
	}
	logger := l.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return loadFiles(files, logger)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DVR2PLEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	d := GetDefaultConfig()
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("tokenizer", d.Tokenizer)
	v.SetDefault("env_file", d.EnvFile)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("rescan", d.Rescan)
	v.SetDefault("catalog_ttl", d.CatalogTTL)
	v.SetDefault("log_level", d.Log.Level)
	v.SetDefault("log_file", d.Log.File)
	v.SetDefault("log_max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log_max_backups", d.Log.MaxBackups)
	v.SetDefault("log_max_age_days", d.Log.MaxAgeDays)

	// Reserved keywords can come from the environment too.
	for _, k := range dictionary.Keywords {
		_ = v.BindEnv(strings.ToLower(k))
	}
	return v
}

// readConfFile reads the key = value lines of a config file. Key and value
// are trimmed and nothing else is interpreted: quotes, $ and # are part of
// the value, since templates are usually shell commands. Lines without an
// = are ignored.
func readConfFile(path string) ([]Param, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var params []Param
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 4096), maxConfLine)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		params = append(params, Param{Key: key, Value: strings.TrimSpace(value)})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return params, nil
}

// settingKey maps a config key to the tool setting it names, if any, so
// "Log Level" and "log-level" both reach log_level.
func settingKey(key string) (string, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	return k, settingKeys[k]
}

func loadFiles(files []string, logger logrus.FieldLogger) (*Config, error) {
	v := newViper()

	var params []Param
	for _, file := range files {
		lines, err := readConfFile(file)
		if err != nil {
			return nil, apperrors.NewConfigError("config", fmt.Sprintf("error reading config file %s", file), err)
		}

		settings := make(map[string]any)
		for _, p := range lines {
			if key, ok := settingKey(p.Key); ok {
				settings[key] = p.Value
				continue
			}
			params = append(params, p)
		}
		// settings go in as config values, so DVR2PLEX_ variables still win
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, apperrors.NewConfigError("config", fmt.Sprintf("error reading config file %s", file), err)
		}
		logger.WithField("file", file).Debug("Using config file")
	}

	config := GetDefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, apperrors.NewConfigError("config", "error unmarshaling config", err)
	}
	config.Files = files
	config.Params = params

	// keywords set in the environment come after the files
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		if settingKeys[key] {
			continue
		}
		if value := v.GetString(key); value != "" {
			config.Params = append(config.Params, Param{Key: key, Value: value})
		}
	}
	config.applyKeywords()

	processConfig(config, logger)

	if err := validateConfig(config); err != nil {
		return nil, apperrors.NewConfigError("config", "config validation failed", err)
	}
	return config, nil
}

// processConfig handles post-processing of the configuration
func processConfig(config *Config, logger logrus.FieldLogger) {
	if config.EnvFile != "" {
		config.EnvFile = os.ExpandEnv(config.EnvFile)
	}
	if config.Log.File != "" {
		config.Log.File = os.ExpandEnv(config.Log.File)
	}
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		logger.Warnf("Invalid log level '%s', using INFO", config.Log.Level)
		config.Log.Level = "INFO"
	}
	for i, ext := range config.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		config.Extensions[i] = ext
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if _, err := tokenizer.ParsePolicy(config.Tokenizer); err != nil {
		return err
	}
	if config.CatalogTTL < 0 {
		return fmt.Errorf("catalog_ttl must be non-negative, got: %v", config.CatalogTTL)
	}
	if config.Rescan != "" {
		if _, err := cron.ParseStandard(config.Rescan); err != nil {
			return fmt.Errorf("rescan %q is not a valid schedule: %w", config.Rescan, err)
		}
	}
	if config.Log.MaxSizeMB < 0 || config.Log.MaxBackups < 0 || config.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must be non-negative")
	}
	return nil
}
