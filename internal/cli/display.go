package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/AI2HU/bikeshare/internal/export"
	"github.com/AI2HU/bikeshare/internal/models"
)

// mainHeader returns the boxed header lines naming the city and the active filter
func mainHeader(city string, filterBy []string) []string {
	title := "Statistics for " + city
	var below []string
	switch len(filterBy) {
	case 0:
		below = []string{"Unfiltered"}
	case 1:
		below = []string{"Filtered by", "", "Month: " + filterBy[0]}
	default:
		below = []string{"Filtered by", "", "Month: " + filterBy[0], "Day: " + filterBy[1]}
	}

	longest := utf8.RuneCountInString(title)
	for _, s := range below {
		if n := utf8.RuneCountInString(s); n > longest {
			longest = n
		}
	}
	fill := longest + 2

	border := strings.Repeat("#", fill+2)
	lines := []string{border, boxLine("", fill), boxLine(title, fill), boxLine("", fill)}
	lines = append(lines, "#"+strings.Repeat("-", fill)+"#")
	lines = append(lines, boxLine("", fill))
	for _, s := range below {
		lines = append(lines, boxLine(s, fill))
	}
	lines = append(lines, boxLine("", fill), border)
	return lines
}

// boxLine centers s between # borders, putting the odd space on the right
func boxLine(s string, fill int) string {
	pad := fill - utf8.RuneCountInString(s)
	left := pad / 2
	return "#" + strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left) + "#"
}

// displayReport prints a full statistics report
func displayReport(w io.Writer, report *models.Report) {
	fmt.Fprintln(w)
	for _, line := range mainHeader(report.City, report.FilterBy) {
		fmt.Fprintln(w, FormatHeader(line))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n\n", FormatCountLabel("Trips in scope:", report.Rows))

	for _, section := range export.Sections(report) {
		displaySection(w, section)
	}
}

func displaySection(w io.Writer, section export.Section) {
	fmt.Fprintln(w, FormatTitle(section.Title))
	fmt.Fprintln(w, FormatDim(strings.Repeat("─", utf8.RuneCountInString(section.Title))))

	if section.Message != "" {
		fmt.Fprintf(w, "  %s\n\n", FormatWarning(section.Message))
		return
	}

	width := 0
	for _, row := range section.Rows {
		if n := utf8.RuneCountInString(row.Label); n > width {
			width = n
		}
	}
	for _, row := range section.Rows {
		label := row.Label + ":" + strings.Repeat(" ", width-utf8.RuneCountInString(row.Label))
		fmt.Fprintf(w, "  %s %s\n", FormatLabel(label), FormatValue(row.Value))
	}
	fmt.Fprintln(w)
}
