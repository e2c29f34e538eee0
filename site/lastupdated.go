package site

import (
	"fmt"
	"strings"
	"time"
)

type Style string

const (
	StyleFull   Style = "full"
	StyleLong   Style = "long"
	StyleMedium Style = "medium"
	StyleShort  Style = "short"
)

type LastUpdated struct {
	Text      string `yaml:"text"`
	DateStyle Style  `yaml:"dateStyle"`
	TimeStyle Style  `yaml:"timeStyle"`
}

// en-US renderings of the Intl date/time styles.
var (
	dateLayouts = map[Style]string{
		StyleFull:   "Monday, January 2, 2006",
		StyleLong:   "January 2, 2006",
		StyleMedium: "Jan 2, 2006",
		StyleShort:  "1/2/06",
	}

	// full is a date style only.
	timeLayouts = map[Style]string{
		StyleLong:   "3:04:05 PM MST",
		StyleMedium: "3:04:05 PM",
		StyleShort:  "3:04 PM",
	}
)

func (l LastUpdated) Layout() (string, error) {
	var parts []string

	if l.DateStyle != "" {
		layout, ok := dateLayouts[l.DateStyle]
		if !ok {
			return "", fmt.Errorf("unknown date style: %s", l.DateStyle)
		}

		parts = append(parts, layout)
	}

	if l.TimeStyle != "" {
		layout, ok := timeLayouts[l.TimeStyle]
		if !ok {
			return "", fmt.Errorf("unknown time style: %s", l.TimeStyle)
		}

		parts = append(parts, layout)
	}

	return strings.Join(parts, ", "), nil
}

// Format renders t using the configured styles. An unknown style falls back
// to RFC 3339.
func (l LastUpdated) Format(t time.Time) string {
	layout, err := l.Layout()
	if err != nil || layout == "" {
		return t.Format(time.RFC3339)
	}

	return t.Format(layout)
}
