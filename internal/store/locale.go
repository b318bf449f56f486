package store

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Locale decides how creation stamps are written.
type Locale struct {
	Tag        language.Tag
	DateLayout string
	TimeLayout string
}

// Format splits t into its date and time strings.
func (l Locale) Format(t time.Time) (date, clock string) {
	return t.Format(l.DateLayout), t.Format(l.TimeLayout)
}

func (l Locale) String() string { return l.Tag.String() }

// first entry is the fallback when nothing matches
var locales = []Locale{
	{language.AmericanEnglish, "1/2/2006", "3:04:05 PM"},
	{language.BritishEnglish, "02/01/2006", "15:04:05"},
	{language.German, "2.1.2006", "15:04:05"},
	{language.French, "02/01/2006", "15:04:05"},
	{language.Spanish, "2/1/2006", "15:04:05"},
	{language.Dutch, "2-1-2006", "15:04:05"},
	{language.Japanese, "2006/1/2", "15:04:05"},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

// DefaultLocale is used when nothing is configured.
func DefaultLocale() Locale { return locales[0] }

// ParseLocale maps a BCP 47 tag or a POSIX locale name ("en_GB.UTF-8") to the
// closest supported Locale. Unknown but well-formed tags fall back to DefaultLocale.
func ParseLocale(s string) (Locale, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return DefaultLocale(), nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale %q: %w", s, err)
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultLocale(), nil
	}
	return locales[idx], nil
}
