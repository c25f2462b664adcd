package ui

import (
	"os"
	"strings"
)

// ANSI color codes
const (
	// Reset
	Reset = "\033[0m"

	// Regular colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"

	// Bright colors
	BrightBlack  = "\033[90m"
	BrightBlue   = "\033[94m"
	BrightWhite  = "\033[97m"
	BrightYellow = "\033[93m"

	// Text formatting
	Bold = "\033[1m"
)

// ColorConfig holds color configuration
type ColorConfig struct {
	Enabled bool
}

var globalColorConfig = &ColorConfig{
	Enabled: supportsColor(),
}

// SetColorEnabled enables or disables color output
func SetColorEnabled(enabled bool) {
	globalColorConfig.Enabled = enabled
}

// IsColorEnabled returns whether color output is enabled
func IsColorEnabled() bool {
	return globalColorConfig.Enabled
}

// supportsColor detects if the terminal supports color
func supportsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// explain output is usually read on a terminal, but not when piped
	if info, err := os.Stdout.Stat(); err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// Colorize applies color to text if colors are enabled
func Colorize(text, color string) string {
	if !globalColorConfig.Enabled || color == "" {
		return text
	}
	return color + text + Reset
}

// Success returns green text
func Success(text string) string {
	return Colorize(text, Green)
}

// Error returns red text
func Error(text string) string {
	return Colorize(text, Red)
}

// Warning returns yellow text
func Warning(text string) string {
	return Colorize(text, Yellow)
}

// Highlight returns cyan text
func Highlight(text string) string {
	return Colorize(text, Cyan)
}

// DimText returns dimmed text
func DimText(text string) string {
	return Colorize(text, BrightBlack)
}

// BoldText returns bold text
func BoldText(text string) string {
	return Colorize(text, Bold)
}

// Box drawing characters
const (
	BoxHorizontal  = "─"
	BoxVertical    = "│"
	BoxTopLeft     = "╭"
	BoxTopRight    = "╮"
	BoxBottomLeft  = "╰"
	BoxBottomRight = "╯"
)

// CreateBox creates a bordered text box
func CreateBox(title, content string, width int) string {
	if width < 10 {
		width = 40
	}

	lines := strings.Split(content, "\n")
	var result strings.Builder

	// Top border
	result.WriteString(Colorize(BoxTopLeft, BrightBlue))
	if title != "" {
		titleLen := visibleLen(title)
		padding := (width - titleLen - 4) / 2
		if padding < 0 {
			padding = 0
		}
		rest := width - padding - titleLen - 4
		if rest < 0 {
			rest = 0
		}
		result.WriteString(Colorize(strings.Repeat(BoxHorizontal, padding), BrightBlue))
		result.WriteString(Colorize(" "+title+" ", BrightWhite))
		result.WriteString(Colorize(strings.Repeat(BoxHorizontal, rest), BrightBlue))
	} else {
		result.WriteString(Colorize(strings.Repeat(BoxHorizontal, width-2), BrightBlue))
	}
	result.WriteString(Colorize(BoxTopRight, BrightBlue))
	result.WriteString("\n")

	// Content lines
	for _, line := range lines {
		result.WriteString(Colorize(BoxVertical, BrightBlue))
		result.WriteString(" " + line)
		if n := visibleLen(line); n < width-3 {
			result.WriteString(strings.Repeat(" ", width-3-n))
		}
		result.WriteString(Colorize(BoxVertical, BrightBlue))
		result.WriteString("\n")
	}

	// Bottom border
	result.WriteString(Colorize(BoxBottomLeft+strings.Repeat(BoxHorizontal, width-2)+BoxBottomRight, BrightBlue))

	return result.String()
}

// visibleLen counts the runes of text that are not part of an ANSI escape
func visibleLen(text string) int {
	return len([]rune(stripAnsiCodes(text)))
}

// stripAnsiCodes removes ANSI color codes from text for length calculation
func stripAnsiCodes(text string) string {
	result := text
	for strings.Contains(result, "\033[") {
		start := strings.Index(result, "\033[")
		end := strings.Index(result[start:], "m")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+1:]
	}
	return result
}
