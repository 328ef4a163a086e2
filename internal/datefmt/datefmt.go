// Package datefmt renders API timestamps as Spanish (es-ES) display strings.
package datefmt

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/goodsign/monday"
)

const (
	InvalidDate = "Fecha inválida"
	InvalidTime = "Hora inválida"

	// ISOLayout matches JavaScript's Date.toISOString output.
	ISOLayout = "2006-01-02T15:04:05.000Z07:00"
	// DayKey is the sortable bucket key used for grouping by calendar date.
	DayKey = "2006-01-02"

	layoutDate        = "2 de January de 2006"
	layoutDateTime    = "2 de January de 2006, 15:04"
	layoutDateWeekday = "Monday, 2 de January de 2006"
	layoutTime        = "15:04"
	locale            = monday.LocaleEsES
)

// Zoneless timestamps are read in the formatter's location.
var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Formatter formats timestamps in a fixed location.
type Formatter struct {
	loc *time.Location
}

// New returns a Formatter for loc (UTC when nil).
func New(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{loc: loc}
}

func (f Formatter) Location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}

// Parse reads an ISO 8601 timestamp. Empty or invalid input reports false.
func (f Formatter) Parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(f.Location()), true
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, raw, f.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTime renders "15 de octubre de 2026, 10:30".
func (f Formatter) DateTime(raw string) string {
	return f.format(raw, layoutDateTime, InvalidDate)
}

// Date renders "15 de octubre de 2026".
func (f Formatter) Date(raw string) string {
	return f.format(raw, layoutDate, InvalidDate)
}

// Time renders "10:30".
func (f Formatter) Time(raw string) string {
	return f.format(raw, layoutTime, InvalidTime)
}

// DateWithWeekday renders "jueves, 15 de octubre de 2026".
func (f Formatter) DateWithWeekday(raw string) string {
	return f.format(raw, layoutDateWeekday, InvalidDate)
}

// Heading renders a day heading with the first letter capitalised.
func (f Formatter) Heading(t time.Time) string {
	return Capitalize(monday.Format(t.In(f.Location()), layoutDateWeekday, locale))
}

// Key returns the DayKey bucket of t in the formatter's location.
func (f Formatter) Key(t time.Time) string {
	return t.In(f.Location()).Format(DayKey)
}

func (f Formatter) format(raw, layout, invalid string) string {
	t, ok := f.Parse(raw)
	if !ok {
		return invalid
	}
	return monday.Format(t, layout, locale)
}

// ISO renders t the way the API expects: UTC with millisecond precision.
func ISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
