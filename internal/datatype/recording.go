package datatype

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"dvr2plex-go/internal/dictionary"
)

// Recording is everything inferred about one recording file
type Recording struct {
	// File information
	Source    string `json:"source" yaml:"source"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Basename  string `json:"basename" yaml:"basename"`
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`

	// Series identification
	Series     string `json:"series,omitempty" yaml:"series,omitempty"`
	DestSeries string `json:"dest_series,omitempty" yaml:"dest_series,omitempty"`
	Year       string `json:"year,omitempty" yaml:"year,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`

	// Episode information
	Season       string `json:"season,omitempty" yaml:"season,omitempty"`
	Episode      string `json:"episode,omitempty" yaml:"episode,omitempty"`
	SeasonFolder string `json:"season_folder,omitempty" yaml:"season_folder,omitempty"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`
	FirstAired   string `json:"first_aired,omitempty" yaml:"first_aired,omitempty"`
	DateRecorded string `json:"date_recorded,omitempty" yaml:"date_recorded,omitempty"`

	// Output is the rendered template, when one was rendered
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	// Error says why the template could not be rendered
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FromDictionary reads the current value of every keyword in dict
func FromDictionary(dict *dictionary.Dictionary) *Recording {
	get := func(key string) string {
		v, _ := dict.FindKey(key)
		return v
	}
	return &Recording{
		Source:       get(dictionary.Source),
		Path:         get(dictionary.Path),
		Basename:     get(dictionary.Basename),
		Extension:    get(dictionary.Extension),
		Series:       get(dictionary.Series),
		DestSeries:   get(dictionary.DestSeries),
		Year:         get(dictionary.Year),
		Country:      get(dictionary.Country),
		Season:       get(dictionary.Season),
		Episode:      get(dictionary.Episode),
		SeasonFolder: get(dictionary.SeasonFolder),
		Title:        get(dictionary.Title),
		FirstAired:   get(dictionary.FirstAired),
		DateRecorded: get(dictionary.DateRecorded),
	}
}

// IsEpisode reports whether a season and episode were found
func (r *Recording) IsEpisode() bool {
	return r.Season != "" && r.Episode != ""
}

// GetDisplayTitle returns the library series name followed by the episode
// marker and title, whichever are known
func (r *Recording) GetDisplayTitle() string {
	parts := make([]string, 0, 3)
	switch {
	case r.DestSeries != "":
		parts = append(parts, r.DestSeries)
	case r.Series != "":
		parts = append(parts, r.Series)
	default:
		parts = append(parts, r.Basename)
	}
	if r.IsEpisode() {
		parts = append(parts, fmt.Sprintf("S%sE%s", r.Season, r.Episode))
	} else if r.FirstAired != "" {
		parts = append(parts, r.FirstAired)
	}
	if r.Title != "" {
		parts = append(parts, r.Title)
	}
	return strings.Join(parts, " - ")
}

// Validate checks that a series and either an episode or an air date were
// identified
func (r *Recording) Validate() error {
	if r.Series == "" {
		return fmt.Errorf("no series found in %q", r.Basename)
	}
	if !r.IsEpisode() && r.FirstAired == "" && r.DateRecorded == "" {
		return fmt.Errorf("no episode or date found in %q", r.Basename)
	}
	return nil
}

// String returns a string representation of the Recording
func (r *Recording) String() string {
	return fmt.Sprintf("[%s] %s", r.Source, r.GetDisplayTitle())
}

// ToJSON converts Recording to JSON string
func (r *Recording) ToJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(data), nil
}

// ToYAML converts Recording to YAML string
func (r *Recording) ToYAML() (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return string(data), nil
}
