package scraper

import (
	"regexp"
	"strconv"

	"github.com/cockroachdb/errors"
)

// ErrInvalidGameID is returned for ids that are not ten digits.
var ErrInvalidGameID = errors.New("invalid game id")

var gameIDPattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{4})$`)

// GameID is a parsed game id such as 2019020001.
type GameID struct {
	ID string
	// Season is the start year followed by the end year, e.g. 20192020.
	Season string
	// Report is the last six digits used in report file names, e.g. 020001.
	Report string
	// Kind is the two digit game type: 01 preseason, 02 regular, 03 playoffs.
	Kind string
}

// ParseGameID validates and splits a ten digit game id.
func ParseGameID(id string) (GameID, error) {
	m := gameIDPattern.FindStringSubmatch(id)
	if m == nil {
		return GameID{}, errors.Wrapf(ErrInvalidGameID, "%q", id)
	}
	year, _ := strconv.Atoi(m[1])
	return GameID{
		ID:     id,
		Season: m[1] + strconv.Itoa(year+1),
		Report: m[2] + m[3],
		Kind:   m[2],
	}, nil
}

func (g GameID) String() string {
	return g.ID
}
