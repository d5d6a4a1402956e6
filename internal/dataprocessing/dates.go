package dataprocessing

import (
	"strings"
	"time"

	"leadtimecli/internal/config"
)

// DateParser coerces date cells by trying each layout in order. Values
// carrying no zone are read as UTC.
type DateParser struct {
	layouts []string
}

// NewDateParser creates a parser for the given layouts; an empty list means
// config.DefaultDateLayouts.
func NewDateParser(layouts []string) *DateParser {
	if len(layouts) == 0 {
		layouts = config.DefaultDateLayouts
	}
	return &DateParser{layouts: append([]string(nil), layouts...)}
}

// Parse returns the parsed time and whether value matched a layout. Blank
// values never match.
func (p *DateParser) Parse(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range p.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Layouts returns a copy of the configured layouts.
func (p *DateParser) Layouts() []string {
	return append([]string(nil), p.layouts...)
}
