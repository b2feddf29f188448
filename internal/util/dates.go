package util

import (
	"strings"
	"time"
)

// Layouts are tried in order; ambiguous dates like 03/04/2024 resolve to the
// earlier layout, no locale inference.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"01/02/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2006/01/02",
	"01-02-2006",
}

func ParseDate(input string) *time.Time {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed
		}
	}
	return nil
}
