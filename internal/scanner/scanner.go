package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultIgnoredDirPatterns skips hidden folders and NAS housekeeping folders.
var DefaultIgnoredDirPatterns = []string{
	`^\.`,
	`^#recycle$`,
	`^@eaDir$`,
	`^lost\+found$`,
}

// ListSeries returns the names of the series folders directly under dest,
// sorted. Hidden entries and anything that is not a directory are skipped.
func ListSeries(dest string) ([]string, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to list destination %s: %w", dest, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || !entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Scanner finds recordings in a source tree
type Scanner struct {
	extensionSet      map[string]bool
	ignoredDirPattern *regexp.Regexp
}

// ScanResult represents the result of a file scan
type ScanResult struct {
	Files        []string    `json:"files"`
	TotalFiles   int         `json:"total_files"`
	SkippedFiles int         `json:"skipped_files"`
	Errors       []ScanError `json:"errors,omitempty"`
}

// ScanError represents an error encountered during scanning
type ScanError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// NewScanner creates a scanner accepting the given extensions. An empty
// list accepts every regular file.
func NewScanner(extensions []string, ignoredDirPatterns []string) (*Scanner, error) {
	s := &Scanner{extensionSet: make(map[string]bool)}

	// Build extension set (case insensitive)
	for _, ext := range extensions {
		s.extensionSet[strings.ToLower(ext)] = true
	}

	if len(ignoredDirPatterns) > 0 {
		pattern := "(" + strings.Join(ignoredDirPatterns, "|") + ")"
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile ignored folder pattern: %w", err)
		}
		s.ignoredDirPattern = compiled
	}
	return s, nil
}

// Scan walks root and collects every recording in it
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("input directory does not exist: %s: %w", root, err)
	}

	result := &ScanResult{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, ScanError{
				Path:    path,
				Message: fmt.Sprintf("walk error: %v", err),
			})
			return nil // Continue walking
		}

		if d.IsDir() {
			if path != root && s.ShouldIgnoreDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		result.TotalFiles++
		if !s.accepts(path, d.Type()) {
			result.SkippedFiles++
			return nil
		}
		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	return result, nil
}

// Accepts reports whether path is a regular file with a recording extension.
func (s *Scanner) Accepts(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return s.accepts(path, info.Mode().Type())
}

func (s *Scanner) accepts(path string, mode fs.FileMode) bool {
	if !mode.IsRegular() {
		return false
	}
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if len(s.extensionSet) == 0 {
		return true
	}
	return s.extensionSet[strings.ToLower(filepath.Ext(path))]
}

// ShouldIgnoreDir checks if a directory should be skipped
func (s *Scanner) ShouldIgnoreDir(dirName string) bool {
	if s.ignoredDirPattern == nil {
		return false
	}
	return s.ignoredDirPattern.MatchString(dirName)
}

// GetSupportedExtensions returns the accepted extensions, sorted
func (s *Scanner) GetSupportedExtensions() []string {
	extensions := make([]string, 0, len(s.extensionSet))
	for ext := range s.extensionSet {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// GetStats returns scanning statistics
func (sr *ScanResult) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"total_files":   sr.TotalFiles,
		"recordings":    len(sr.Files),
		"skipped_files": sr.SkippedFiles,
		"errors":        len(sr.Errors),
	}
}
