package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Source selects the overlay table consulted before the base table.
type Source int

const (
	SourceReport Source = iota
	SourceAPI
	SourceSite
)

var prefixRewrites = []struct{ from, to string }{
	{"ALEXANDRE ", "ALEX "},
	{"ALEXANDER ", "ALEX "},
	{"CHRISTOPHER ", "CHRIS "},
}

// Clean upper-cases a name and collapses runs of whitespace, including
// non-breaking spaces, into single spaces.
func Clean(name string) string {
	return strings.Join(strings.Fields(strings.ToUpper(name)), " ")
}

// Player returns the canonical spelling of a player name seen in src.
func Player(name string, src Source) string {
	name = Clean(name)
	if name == "" {
		return ""
	}
	for _, r := range prefixRewrites {
		if strings.Contains(name, r.from) {
			name = strings.ReplaceAll(name, r.from, r.to)
		}
	}
	if overlay, ok := overlays[src]; ok {
		if canon, ok := overlay[name]; ok {
			return canon
		}
	}
	if canon, ok := base[name]; ok {
		return canon
	}
	return name
}

// PlayerOnTeam is Player plus the aliases that only apply to one franchise,
// used where two players share a name.
func PlayerOnTeam(name, team string, src Source) string {
	canon := Player(name, src)
	if byName, ok := teamScoped[Team(team)]; ok {
		if scoped, ok := byName[canon]; ok {
			return scoped
		}
	}
	return canon
}

// Team returns the canonical franchise name: upper-case, accents removed,
// relocated or reordered names mapped onto the current one.
func Team(name string) string {
	name = Clean(Fold(name))
	if canon, ok := teams[name]; ok {
		return canon
	}
	return name
}

// Fold strips diacritics ("MONTRÉAL" -> "MONTREAL").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
