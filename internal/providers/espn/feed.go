package espn

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/event"
	"github.com/pfrederiksen/hockey-pbp/internal/names"
)

// Coordinate bounds of the site's rink; values outside are clamped.
const (
	maxX = 99
	minY = -42
)

// minPlays is the smallest feed treated as usable.
const minPlays = 3

// Feed is the decoded play stream of one site game.
type Feed struct {
	GameID string        `json:"game_id"`
	Events []event.Event `json:"events"`
	// Skipped counts plays whose record could not be read or classified.
	Skipped  int `json:"skipped"`
	Overflow int `json:"overflow,omitempty"`
}

// Events fetches and decodes the master feed of the site game id.
func (c *Client) Events(ctx context.Context, id string) (*Feed, error) {
	url := fmt.Sprintf("%s/nhl/gamecast/data/masterFeed?lang=en&isAll=true&rand=0&gameId=%s", c.baseURL, id)
	body, err := c.fetch.Get(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching site feed for %s", id)
	}
	feed, err := ParseFeed(body)
	if err != nil {
		return nil, err
	}
	feed.GameID = id
	return feed, nil
}

type masterFeed struct {
	Plays *struct {
		Play []struct {
			ID   string `xml:"id,attr"`
			Text string `xml:",chardata"`
		} `xml:"Play"`
	} `xml:"Plays"`
}

// ParseFeed decodes a master feed document.
func ParseFeed(data []byte) (*Feed, error) {
	// Feeds served without a declaration are still Latin-1.
	if !utf8.Valid(data) && !bytes.HasPrefix(data, []byte("<?xml")) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, errs.Malformed("decoding site feed: %v", err)
		}
		data = decoded
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charsetReader

	var mf masterFeed
	if err := dec.Decode(&mf); err != nil {
		return nil, errs.Malformed("decoding site feed: %v", err)
	}
	if mf.Plays == nil {
		return nil, errs.Insufficient("site feed has no plays")
	}
	if len(mf.Plays.Play) < minPlays {
		return nil, errs.Insufficient("site feed has %d plays", len(mf.Plays.Play))
	}

	feed := &Feed{}
	for _, p := range mf.Plays.Play {
		e, ok := parsePlay(p.Text)
		if !ok {
			feed.Skipped++
			continue
		}
		feed.Events = append(feed.Events, e)
	}
	if len(feed.Events) == 0 {
		return nil, errs.Insufficient("site feed has no readable plays")
	}

	sort.SliceStable(feed.Events, func(i, j int) bool {
		return byPeriodTimePlayer(&feed.Events[i], &feed.Events[j])
	})
	feed.Overflow = event.AssignVersions(feed.Events, byPeriodTimePlayer)
	for i := range feed.Events {
		feed.Events[i].Index = i + 1
	}
	return feed, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, errors.Newf("unsupported charset %q", label)
}

var (
	descriptionToken = regexp.MustCompile(`[a-z-'.A-Z]+|\dst|\drd|\d2nd|\d  minutes|\d minutes`)
	periodAfterClock = regexp.MustCompile(`:\d+~(\d)`)
	periodFallback   = regexp.MustCompile(`-\d~(\d)|-\d:\d-\d~(\d)`)
)

// parsePlay reads one "x~y~...~M:SS~P~...~text" record.
func parsePlay(text string) (event.Event, bool) {
	fields := strings.Split(text, "~")
	if len(fields) < 2 {
		return event.Event{}, false
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if errX != nil || errY != nil {
		return event.Event{}, false
	}

	beforeColon, afterColon, ok := strings.Cut(text, ":")
	if !ok {
		return event.Event{}, false
	}
	minutes, err := strconv.Atoi(beforeColon[strings.LastIndex(beforeColon, "~")+1:])
	if err != nil {
		return event.Event{}, false
	}
	secText, _, _ := strings.Cut(afterColon, "~")
	secText, _, _ = strings.Cut(secText, "-")
	seconds, err := strconv.Atoi(secText)
	if err != nil {
		return event.Event{}, false
	}
	if minutes < 0 {
		minutes = 0
	}

	period := 0
	if m := periodAfterClock.FindStringSubmatch(text); m != nil {
		period, _ = strconv.Atoi(m[1])
	} else if m := periodFallback.FindStringSubmatch(text); m != nil {
		period, _ = strconv.Atoi(m[1] + m[2])
	}
	if period < 1 {
		return event.Event{}, false
	}

	description := strings.Join(descriptionToken.FindAllString(text, -1), " ")
	description = strings.TrimSpace(strings.Trim(description, "-| "))
	typ := classify(description)
	if typ == "" {
		return event.Event{}, false
	}

	periodSeconds := minutes*60 + seconds
	return event.Event{
		Period:        period,
		PeriodSeconds: periodSeconds,
		GameSeconds:   event.GameSeconds(period, periodSeconds),
		Type:          typ,
		Description:   description,
		Player1:       names.Player(playerName(description), names.SourceSite),
		Coords:        &event.Coords{X: min(x, maxX), Y: max(y, minY)},
		CoordSource:   event.SourceSite,
	}, true
}

type typeRule struct {
	typ     event.Type
	pattern *regexp.Regexp
}

// typeRules are tried in order; the first match classifies the play.
var typeRules = []typeRule{
	{event.TypePenalty, regexp.MustCompile(`Penalty|Bench penalty`)},
	{event.TypeShot, regexp.MustCompile(`Shot on goal|Shootout attempt by.*(saved|SAVED)|shootout attempt.*results in a SAVE`)},
	{event.TypeMiss, regexp.MustCompile(`Shot missed|Shootout attempt by.*MISSES|shootout attempt.*results in a MISS`)},
	{event.TypeFaceoff, regexp.MustCompile(`faceoff`)},
	{event.TypeBlock, regexp.MustCompile(`blocked`)},
	{event.TypeHit, regexp.MustCompile(`credited with hit`)},
	{event.TypeGive, regexp.MustCompile(`Giveaway (by|in)`)},
	{event.TypeTake, regexp.MustCompile(`Takeaway (by|in)`)},
	{event.TypeGoal, regexp.MustCompile(`Goal Scored|Goal scored|GOAL scored|Shootout GOAL|shootout attempt.*results in a GOAL`)},
	{event.TypePeriodStart, regexp.MustCompile(`Start of`)},
}

func classify(description string) event.Type {
	for _, r := range typeRules {
		if r.pattern.MatchString(description) {
			return r.typ
		}
	}
	switch {
	case description == "End of Game":
		return event.TypeGameEnd
	case strings.Contains(description, "End of"):
		return event.TypePeriodEnd
	case strings.Contains(description, "Stoppage"):
		return event.TypeStop
	}
	return ""
}

var (
	shotTypes    = regexp.MustCompile(`Wristshot|Tip-In|Snapshot|Backhand|Slapshot|Deflection|Wraparound`)
	onGoalCut    = regexp.MustCompile(`Wristshot|Tip-In|Snapshot|Backhand|Slapshot|Deflection|Saved|Wraparound`)
	scoredBy     = regexp.MustCompile(`scored by|Scored by`)
	penaltyCut   = regexp.MustCompile(`0|2|4|5|10`)
	shootoutSave = regexp.MustCompile(`saved|MISSES|SAVED`)
)

// before returns s up to the first occurrence of any of seps.
func before(s string, seps ...string) string {
	for _, sep := range seps {
		s, _, _ = strings.Cut(s, sep)
	}
	return s
}

func after(s, sep string) (string, bool) {
	_, rest, ok := strings.Cut(s, sep)
	return rest, ok
}

// nameRules narrow a play description down to the primary player's name.
// Each rule applies only when its marker is present and works on the output
// of the previous rules.
var nameRules = []func(string) string{
	func(s string) string {
		if rest, ok := after(s, "Giveaway by"); ok {
			return strings.TrimSpace(before(rest, " in"))
		}
		return s
	},
	func(s string) string {
		if rest, ok := after(s, "Takeaway by"); ok {
			return strings.TrimSpace(before(rest, " in"))
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, "credited with hit") {
			return strings.TrimSpace(before(s, "credited"))
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, "faceoff") {
			return strings.TrimSpace(before(s, "won faceoff"))
		}
		return s
	},
	func(s string) string {
		scored := strings.Contains(s, "Goal Scored") || strings.Contains(s, "Goal scored") || strings.Contains(s, "Shootout GOAL")
		if !scored || s == "Goal scored" {
			return s
		}
		parts := scoredBy.Split(s, 2)
		if len(parts) < 2 {
			return s
		}
		rest := before(parts[1], "assisted by", "unassisted", "Power", "Empty", "Shorthanded")
		return strings.TrimSpace(shotTypes.Split(rest, 2)[0])
	},
	func(s string) string {
		if rest, ok := after(s, "Shot blocked by"); ok {
			return strings.TrimSpace(rest)
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, "blocked") {
			return strings.TrimSpace(before(s, "shot blocked"))
		}
		return s
	},
	func(s string) string {
		if rest, ok := after(s, "missed by"); ok {
			return strings.TrimSpace(before(rest, "Wide", "Over", "Goalpost", "Hit"))
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, "Shot on goal") && s != "Shot on goal" {
			if rest, ok := after(s, "Shot on goal by"); ok {
				s = before(rest, "saved", "ft", "shootout")
			}
		}
		return strings.TrimSpace(onGoalCut.Split(s, 2)[0])
	},
	func(s string) string {
		if rest, ok := after(s, "Penalty to"); ok {
			return strings.TrimSpace(penaltyCut.Split(before(rest, "minutes"), 2)[0])
		}
		return s
	},
	func(s string) string {
		if rest, ok := after(s, "Shootout attempt by"); ok {
			return strings.TrimSpace(shootoutSave.Split(rest, 2)[0])
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, " on ") {
			return strings.TrimSpace(before(s, " on "))
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, "Bench") && strings.Contains(s, "Penalty") {
			return event.Bench
		}
		return s
	},
	func(s string) string {
		if strings.Contains(s, "shootout attempt against") {
			return strings.TrimSpace(before(s, "shootout"))
		}
		return s
	},
}

// playerName returns the primary player named by description, or "" when no
// rule could isolate one.
func playerName(description string) string {
	s := description
	for _, rule := range nameRules {
		s = rule(s)
	}
	if s == description {
		return ""
	}
	return s
}

// byPeriodTimePlayer orders site streams for disambiguation.
func byPeriodTimePlayer(a, b *event.Event) bool {
	if a.Period != b.Period {
		return a.Period < b.Period
	}
	if a.GameSeconds != b.GameSeconds {
		return a.GameSeconds < b.GameSeconds
	}
	if a.Player1 != b.Player1 {
		return a.Player1 < b.Player1
	}
	if a.Type.Priority() != b.Type.Priority() {
		return a.Type.Priority() < b.Type.Priority()
	}
	return a.Type < b.Type
}
