package config

import (
	"strings"
	"time"

	"dvr2plex-go/internal/dictionary"
	apperrors "dvr2plex-go/internal/errors"
)

// AppName is the default base name of the configuration files.
const AppName = "dvr2plex"

// Config represents the main configuration structure
type Config struct {
	// Template parameters. These are filled from Params by applyKeywords,
	// so they follow the same forgiving keyword matching as templates.
	Destination     string `mapstructure:"-" yaml:"destination" json:"destination"`
	Template        string `mapstructure:"-" yaml:"template" json:"template"`
	Execute         bool   `mapstructure:"-" yaml:"execute" json:"execute"`
	Stdin           bool   `mapstructure:"-" yaml:"stdin" json:"stdin"`
	NullTermination bool   `mapstructure:"-" yaml:"null_termination" json:"null_termination"`

	// Tool settings
	DryRun     bool          `mapstructure:"dry_run" yaml:"dry_run" json:"dry_run"`
	Tokenizer  string        `mapstructure:"tokenizer" yaml:"tokenizer" json:"tokenizer"`
	EnvFile    string        `mapstructure:"env_file" yaml:"env_file" json:"env_file"`
	Extensions []string      `mapstructure:"extensions" yaml:"extensions" json:"extensions"`
	Rescan     string        `mapstructure:"rescan" yaml:"rescan" json:"rescan"`
	CatalogTTL time.Duration `mapstructure:"catalog_ttl" yaml:"catalog_ttl" json:"catalog_ttl"`
	Log        LogConfig     `mapstructure:",squash" yaml:"log" json:"log"`

	// Params holds every template parameter from the config files and the
	// command line, in the order they were applied.
	Params []Param `mapstructure:"-" yaml:"params" json:"params"`
	// Files lists the config files that were read, in order.
	Files []string `mapstructure:"-" yaml:"files" json:"files"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level      string `mapstructure:"log_level" yaml:"level" json:"level"`
	File       string `mapstructure:"log_file" yaml:"file" json:"file"`
	MaxSizeMB  int    `mapstructure:"log_max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"log_max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"log_max_age_days" yaml:"max_age_days" json:"max_age_days"`
}

// Param is one key = value template parameter
type Param struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// settingKeys are config keys that configure the tool itself rather than
// supply template parameters.
var settingKeys = map[string]bool{
	"dry_run":          true,
	"tokenizer":        true,
	"env_file":         true,
	"extensions":       true,
	"rescan":           true,
	"catalog_ttl":      true,
	"log_level":        true,
	"log_file":         true,
	"log_max_size_mb":  true,
	"log_max_backups":  true,
	"log_max_age_days": true,
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Tokenizer: "uniform",
		Extensions: []string{
			".avi", ".m2ts", ".m4v", ".mkv", ".mov", ".mp4",
			".mpeg", ".mpg", ".ts", ".webm", ".wmv",
		},
		CatalogTTL: 5 * time.Minute,
		Log: LogConfig{
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// AddParam appends a parameter. Later parameters shadow earlier ones with
// the same keyword.
func (c *Config) AddParam(key, value string) {
	c.Params = append(c.Params, Param{Key: key, Value: value})
	c.applyKeywords()
}

// Dictionary builds the main parameter store from Params.
func (c *Config) Dictionary() *dictionary.Dictionary {
	dict := dictionary.New("Main")
	for _, p := range c.Params {
		dict.AddKey(p.Key, p.Value)
	}
	return dict
}

// Require reports the first required parameter that is missing.
func (c *Config) Require() error {
	if c.Template == "" {
		return apperrors.ErrNoTemplate
	}
	if c.Destination == "" {
		return apperrors.ErrNoDestination
	}
	return nil
}

// applyKeywords refreshes the keyword-backed fields from Params.
func (c *Config) applyKeywords() {
	dict := c.Dictionary()
	c.Destination, _ = dict.Find(dictionary.KeyDestination)
	c.Template, _ = dict.Find(dictionary.KeyTemplate)
	c.Execute = enabled(dict, dictionary.Execute)
	c.Stdin = enabled(dict, dictionary.Stdin)
	c.NullTermination = enabled(dict, dictionary.NullTermination)
}

// enabled treats a switch keyword as on when it is present, unless its
// value reads as an explicit no.
func enabled(dict *dictionary.Dictionary, key string) bool {
	v, ok := dict.FindKey(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "off":
		return false
	}
	return true
}
