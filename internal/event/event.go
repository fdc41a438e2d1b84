package event

import "fmt"

// Type is the report code of an event.
type Type string

const (
	TypeShot           Type = "SHOT"
	TypeHit            Type = "HIT"
	TypeBlock          Type = "BLOCK"
	TypeMiss           Type = "MISS"
	TypeGive           Type = "GIVE"
	TypeTake           Type = "TAKE"
	TypeGoal           Type = "GOAL"
	TypePenalty        Type = "PENL"
	TypeFaceoff        Type = "FAC"
	TypeStop           Type = "STOP"
	TypePeriodStart    Type = "PSTR"
	TypePeriodEnd      Type = "PEND"
	TypeGameEnd        Type = "GEND"
	TypeDelayedPenalty Type = "DELPEN"
	TypeChange         Type = "CHANGE"
	TypeShootoutEnd    Type = "SOC"
)

// Bench is the player name given to bench-attributed penalties.
const Bench = "BENCH"

// OfInterest reports whether the type is one of the on-ice events that
// normally carry rink coordinates.
func (t Type) OfInterest() bool {
	switch t {
	case TypeShot, TypeHit, TypeBlock, TypeMiss, TypeGive, TypeTake, TypeGoal:
		return true
	}
	return false
}

// Priority orders events that share a game second.
func (t Type) Priority() int {
	switch t {
	case TypeTake, TypeGive, TypeMiss, TypeHit, TypeShot, TypeBlock:
		return 1
	case TypeGoal:
		return 2
	case TypeStop:
		return 3
	case TypeDelayedPenalty:
		return 4
	case TypePenalty:
		return 5
	case TypeChange:
		return 6
	case TypePeriodEnd:
		return 7
	case TypeGameEnd:
		return 8
	case TypeFaceoff:
		return 9
	}
	return 0
}

// Side identifies the home or away team of a game.
type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

// CoordSource records which feed supplied an event's coordinates.
// The zero value means the event has not been through a merge yet.
type CoordSource string

const (
	SourceAPI  CoordSource = "api"
	SourceSite CoordSource = "secondary_site"
	SourceNone CoordSource = "none"
)

// Coords is a rink location as reported by a feed.
type Coords struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Skater is one player listed on ice in a play-by-play row.
type Skater struct {
	Number   string `json:"number"`
	Position string `json:"position"`
	Name     string `json:"name,omitempty"`
}

// Event is one discrete occurrence in a game as seen by a single source.
type Event struct {
	Index         int         `json:"index"`
	Period        int         `json:"period"`
	PeriodSeconds int         `json:"period_seconds"`
	GameSeconds   int         `json:"game_seconds"`
	Type          Type        `json:"type"`
	Description   string      `json:"description"`
	Detail        string      `json:"detail,omitempty"`
	Zone          string      `json:"zone,omitempty"`
	Strength      string      `json:"strength,omitempty"`
	Team          string      `json:"team,omitempty"`
	Player1       string      `json:"player_1,omitempty"`
	Player2       string      `json:"player_2,omitempty"`
	Player3       string      `json:"player_3,omitempty"`
	HomeSkaters   []Skater    `json:"home_skaters,omitempty"`
	AwaySkaters   []Skater    `json:"away_skaters,omitempty"`
	Version       int         `json:"version"`
	Coords        *Coords     `json:"coords,omitempty"`
	CoordSource   CoordSource `json:"coord_source,omitempty"`
}

// Key identifies an event for the direct cross-source join.
type Key struct {
	Player      string
	GameSeconds int
	Version     int
	Period      int
	Type        Type
}

// Key returns the join key of the event.
func (e *Event) Key() Key {
	return Key{
		Player:      e.Player1,
		GameSeconds: e.GameSeconds,
		Version:     e.Version,
		Period:      e.Period,
		Type:        e.Type,
	}
}

func (e *Event) String() string {
	return fmt.Sprintf("%s P%d %s %s v%d", e.Type, e.Period, FormatClock(e.PeriodSeconds), e.Player1, e.Version)
}
