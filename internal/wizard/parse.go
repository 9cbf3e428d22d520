package wizard

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoTitles is returned when a reply contains no numbered title lines.
var ErrNoTitles = errors.New("no numbered titles found in AI response")

var numberedLine = regexp.MustCompile(`^\d+\.\s`)

// ParseTitles keeps the lines of text that start with "N. ", strips the
// numbering and trims them. Lines left empty after trimming are dropped.
func ParseTitles(text string) ([]string, error) {
	var titles []string

	for _, line := range strings.Split(text, "\n") {
		loc := numberedLine.FindStringIndex(line)
		if loc == nil {
			continue
		}
		title := strings.TrimSpace(line[loc[1]:])
		if title == "" {
			continue
		}
		titles = append(titles, title)
	}

	if len(titles) == 0 {
		return nil, ErrNoTitles
	}
	return titles, nil
}
