package filter

import (
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/hockey-pbp/internal/event"
)

// ErrInvalidFilter is returned for a filter value that cannot be parsed.
var ErrInvalidFilter = errors.New("invalid filter")

var (
	typeRe      = regexp.MustCompile(`^[A-Z]{2,8}$`)
	teamRe      = regexp.MustCompile(`^[A-Z]{1,3}(\.[A-Z])?$`)
	periodRange = regexp.MustCompile(`^(\w+)\s*-\s*(\w+)$`)
)

// Parse builds a Filter from the comma-separated flag values. Empty values
// leave that criterion inactive.
func Parse(types, teams, periods string) (*Filter, error) {
	f := NewFilter()

	var err error
	if f.Types, err = ParseTypes(types); err != nil {
		return nil, err
	}
	if f.Teams, err = ParseTeams(teams); err != nil {
		return nil, err
	}
	if f.Periods, err = ParsePeriods(periods); err != nil {
		return nil, err
	}
	return f, nil
}

// ParseTypes parses "GOAL,shot" into event types. Codes are upper-cased and
// de-duplicated.
func ParseTypes(input string) ([]event.Type, error) {
	var out []event.Type
	for _, tok := range split(input) {
		tok = strings.ToUpper(tok)
		if !typeRe.MatchString(tok) {
			return nil, errors.Wrapf(ErrInvalidFilter, "event type %q", tok)
		}
		if t := event.Type(tok); !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ParseTeams parses "TOR,mtl" into upper-case team codes. Report codes such
// as "L.A" and "N.J" are accepted.
func ParseTeams(input string) ([]string, error) {
	var out []string
	for _, tok := range split(input) {
		tok = strings.ToUpper(tok)
		if !teamRe.MatchString(tok) {
			return nil, errors.Wrapf(ErrInvalidFilter, "team code %q", tok)
		}
		if !slices.Contains(out, tok) {
			out = append(out, tok)
		}
	}
	return out, nil
}

// ParsePeriods parses a period list such as "1,2", "1-3" or "OT,SO". The
// result is sorted and de-duplicated.
//
// Supported tokens:
//   - "1", "2", ... a single period
//   - "OT" overtime (period 4), "SO" the shootout (period 5)
//   - "1-3" or "3-OT" an inclusive range
func ParsePeriods(input string) ([]int, error) {
	var out []int
	for _, tok := range split(input) {
		from, to := tok, tok
		if m := periodRange.FindStringSubmatch(tok); m != nil {
			from, to = m[1], m[2]
		}

		lo, err := parsePeriod(from)
		if err != nil {
			return nil, err
		}
		hi, err := parsePeriod(to)
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, errors.Wrapf(ErrInvalidFilter, "period range %q: start must not be after end", tok)
		}

		for p := lo; p <= hi; p++ {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func parsePeriod(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.Wrap(ErrInvalidFilter, "empty period")
	}
	p, err := event.ParsePeriod(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidFilter, "period %q", s)
	}
	return p, nil
}

// split breaks a comma-separated flag value into trimmed, non-empty tokens.
func split(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
