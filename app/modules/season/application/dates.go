package seasonservice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// ErrInvalidStartDate is returned when a season start date cannot be understood.
var ErrInvalidStartDate = errors.New("could not understand start date")

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DateParser turns user input such as "now", "2026-04-01" or "next monday"
// into a UTC instant, interpreting wall-clock phrases in the configured zone.
type DateParser struct {
	parser *when.Parser
	loc    *time.Location
}

// NewDateParser builds a parser for the given zone; nil means UTC.
func NewDateParser(loc *time.Location) *DateParser {
	if loc == nil {
		loc = time.UTC
	}
	w := when.New(nil)
	w.Add(en.All...)
	return &DateParser{parser: w, loc: loc}
}

// Parse resolves input relative to now.
func (p *DateParser) Parse(input string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" || strings.EqualFold(s, "now") {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, p.loc); err == nil {
		return t.UTC(), nil
	}

	r, err := p.parser.Parse(strings.ToLower(s), now.In(p.loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidStartDate, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidStartDate, input)
	}
	return r.Time.UTC(), nil
}
