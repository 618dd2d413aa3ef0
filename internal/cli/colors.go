package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ANSI color codes for consistent styling across all CLI commands.
// setColor blanks them when color output is disabled.
var (
	Reset = "\033[0m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	Bold = "\033[1m"
	Dim  = "\033[2m"

	BgRed = "\033[41m"
)

// Predefined color combinations for consistency
var (
	// Headers and titles
	HeaderStyle string
	TitleStyle  string

	// Status messages
	SuccessStyle string
	ErrorStyle   string
	WarningStyle string
	InfoStyle    string

	// Data display
	LabelStyle     string
	ValueStyle     string
	DimStyle       string
	HighlightStyle string
	CountStyle     string
	MetaStyle      string
)

func init() {
	setColor(true)
}

// setColor switches ANSI styling on or off for all output helpers
func setColor(enabled bool) {
	if enabled {
		Reset = "\033[0m"
		Red, Green, Yellow, Blue = "\033[31m", "\033[32m", "\033[33m", "\033[34m"
		Magenta, Cyan, White, Gray = "\033[35m", "\033[36m", "\033[37m", "\033[90m"
		Bold, Dim, BgRed = "\033[1m", "\033[2m", "\033[41m"
	} else {
		Reset, Red, Green, Yellow, Blue = "", "", "", "", ""
		Magenta, Cyan, White, Gray = "", "", "", ""
		Bold, Dim, BgRed = "", "", ""
	}

	HeaderStyle = Cyan + Bold
	TitleStyle = Magenta + Bold
	SuccessStyle = Green + Bold
	ErrorStyle = Red + Bold
	WarningStyle = Yellow + Bold
	InfoStyle = Blue + Bold
	LabelStyle = Cyan
	ValueStyle = White + Bold
	DimStyle = Dim
	HighlightStyle = BgRed + White + Bold
	CountStyle = Yellow + Bold
	MetaStyle = Gray
}

// Helper functions for common formatting patterns
func FormatHeader(text string) string {
	return HeaderStyle + text + Reset
}

func FormatTitle(text string) string {
	return TitleStyle + text + Reset
}

func FormatSuccess(text string) string {
	return SuccessStyle + text + Reset
}

func FormatError(text string) string {
	return ErrorStyle + text + Reset
}

func FormatWarning(text string) string {
	return WarningStyle + text + Reset
}

func FormatLabel(text string) string {
	return LabelStyle + text + Reset
}

func FormatValue(text string) string {
	return ValueStyle + text + Reset
}

// FormatCount renders a count with thousands separators
func FormatCount(count int) string {
	return CountStyle + humanize.Comma(int64(count)) + Reset
}

func FormatHighlight(text string) string {
	return HighlightStyle + text + Reset
}

func FormatDim(text string) string {
	return DimStyle + text + Reset
}

func FormatMeta(text string) string {
	return MetaStyle + text + Reset
}

// Format a label-value pair
func FormatLabelValue(label, value string) string {
	return LabelStyle + label + Reset + " " + ValueStyle + value + Reset
}

// Format a count with label
func FormatCountLabel(label string, count int) string {
	return fmt.Sprintf("%s%s%s %s", LabelStyle, label, Reset, FormatCount(count))
}
