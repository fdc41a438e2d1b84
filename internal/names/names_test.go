package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		src  Source
		want string
	}{
		{"base alias", "MITCHELL MARNER", SourceReport, "MITCH MARNER"},
		{"lower case and spacing", "  danny   briere ", SourceReport, "DANIEL BRIERE"},
		{"non-breaking space", "P.K\u00a0SUBBAN", SourceReport, "P.K. SUBBAN"},
		{"prefix rewrite", "ALEXANDER OVECHKIN", SourceSite, "ALEX OVECHKIN"},
		{"prefix rewrite christopher", "CHRISTOPHER TANEV", SourceReport, "CHRIS TANEV"},
		{"api overlay", "PA PARENTEAU", SourceAPI, "P A PARENTEAU"},
		{"api overlay only", "MIKE YORK", SourceAPI, "MICHAEL YORK"},
		{"overlay not applied to reports", "MIKE YORK", SourceReport, "MIKE YORK"},
		{"site overlay", "J T MILLER", SourceSite, "J.T. MILLER"},
		{"site falls back to base", "PAT MAROON", SourceSite, "PATRICK MAROON"},
		{"accented target", "TIM STUTZLE", SourceAPI, "TIM STÜTZLE"},
		{"unknown name", "AUSTON MATTHEWS", SourceReport, "AUSTON MATTHEWS"},
		{"empty", "   ", SourceReport, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Player(tt.in, tt.src))
		})
	}
}

func TestPlayerIdempotent(t *testing.T) {
	tables := map[Source]map[string]string{SourceReport: base}
	for src, overlay := range overlays {
		tables[src] = overlay
	}
	for src, table := range tables {
		for alias := range table {
			once := Player(alias, src)
			assert.Equal(t, once, Player(once, src), "alias %q", alias)
			for _, other := range []Source{SourceReport, SourceAPI, SourceSite} {
				assert.Equal(t, once, Player(once, other), "canonical %q seen by source %d", once, other)
			}
		}
	}
}

func TestPlayerOnTeam(t *testing.T) {
	assert.Equal(t, "SEBASTIAN AHO (SWE)", PlayerOnTeam("Sebastian Aho", "New York Islanders", SourceAPI))
	assert.Equal(t, "SEBASTIAN AHO", PlayerOnTeam("SEBASTIAN AHO", "CAROLINA HURRICANES", SourceReport))
	assert.Equal(t, "MITCH MARNER", PlayerOnTeam("MITCHELL MARNER", "TORONTO MAPLE LEAFS", SourceReport))
}

func TestTeam(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CANADIENS MONTREAL", "MONTREAL CANADIENS"},
		{"Montréal Canadiens", "MONTREAL CANADIENS"},
		{"ST LOUIS BLUES", "ST. LOUIS BLUES"},
		{"Atlanta Thrashers", "WINNIPEG JETS"},
		{"PHOENIX COYOTES", "ARIZONA COYOTES"},
		{"TORONTO MAPLE LEAFS", "TORONTO MAPLE LEAFS"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Team(tt.in))
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "MONTREAL", Fold("MONTRÉAL"))
	assert.Equal(t, "STUTZLE", Fold("STÜTZLE"))
}
