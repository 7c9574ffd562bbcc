// Package stats aggregates the reconciled play-by-play into the five
// reporting views: individual counts, on-ice counts, the joined player
// stats with rates and shares, line combinations, and team totals. Every
// view is a pure reduction over the event stream; callers choose the
// grouping with Options.
package stats

import (
	"sort"
	"strings"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// Level is the time grain a view groups by.
type Level string

const (
	LevelPeriod  Level = "period"
	LevelGame    Level = "game"
	LevelSession Level = "session"
	LevelSeason  Level = "season"
)

// Options selects the grouping dimensions for a view. Level is required;
// the split flags add key columns.
type Options struct {
	Level      Level
	Strength   bool
	Score      bool
	Teammates  bool
	Opposition bool
}

// Key is the composite grouping key. Fields outside the selected dimensions
// stay zero so rows collapse across them.
type Key struct {
	Season  int         `json:"season"`
	Session pbp.Session `json:"session"`
	GameID  int         `json:"game_id,omitempty"`
	Period  int         `json:"period,omitempty"`

	Team  string    `json:"team,omitempty"`
	Venue pbp.Venue `json:"venue,omitempty"`

	Player      string `json:"player,omitempty"`
	PlayerEhID  string `json:"eh_id,omitempty"`
	PlayerAPIID int64  `json:"api_id,omitempty"`
	Position    string `json:"position,omitempty"`

	StrengthState string `json:"strength_state,omitempty"`
	ScoreState    string `json:"score_state,omitempty"`

	TeammatesF string `json:"forwards,omitempty"`
	TeammatesD string `json:"defense,omitempty"`
	TeammatesG string `json:"own_goalie,omitempty"`
	OppF       string `json:"opp_forwards,omitempty"`
	OppD       string `json:"opp_defense,omitempty"`
	OppG       string `json:"opp_goalie,omitempty"`
}

// baseKey fills the time-grain and split columns shared by every view.
func baseKey(ev *pbp.Event, opts Options) Key {
	k := Key{Season: ev.Season, Session: ev.Session}
	switch opts.Level {
	case LevelPeriod:
		k.GameID = ev.GameID
		k.Period = ev.Period
	case LevelGame:
		k.GameID = ev.GameID
	}
	if opts.Strength {
		k.StrengthState = ev.StrengthState
	}
	if opts.Score {
		k.ScoreState = ev.ScoreState
	}
	return k
}

// sideIDs renders one position group of an on-ice side as a stable joined
// ID, excluding a player when the row belongs to one.
func sideIDs(ids []string, exclude string) string {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && id != exclude {
			kept = append(kept, id)
		}
	}
	sort.Strings(kept)
	return strings.Join(kept, ", ")
}

// withTeammates stamps the teammate and opposition columns for a player row.
func withTeammates(k Key, ev *pbp.Event, venue pbp.Venue, ehID string, opts Options) Key {
	own, opp := &ev.HomeOn, &ev.AwayOn
	if venue == pbp.VenueAway {
		own, opp = opp, own
	}
	if opts.Teammates {
		k.TeammatesF = sideIDs(own.ForwardsEhID, ehID)
		k.TeammatesD = sideIDs(own.DefenseEhID, ehID)
		k.TeammatesG = sideIDs(own.GoaliesEhID, ehID)
	}
	if opts.Opposition {
		k.OppF = sideIDs(opp.ForwardsEhID, "")
		k.OppD = sideIDs(opp.DefenseEhID, "")
		k.OppG = sideIDs(opp.GoaliesEhID, "")
	}
	return k
}

// teamAt resolves which team a venue holds for an event row.
func teamAt(ev *pbp.Event, venue pbp.Venue) string {
	if venue == pbp.VenueHome {
		return ev.HomeTeam
	}
	return ev.AwayTeam
}

// xg returns the event's model-scored goal probability, zero when unscored.
func xg(ev *pbp.Event) float64 {
	if ev.XG == nil {
		return 0
	}
	return *ev.XG
}

// per60 converts a raw count to a per-sixty-minutes rate.
func per60(x, toi float64) float64 {
	if toi == 0 {
		return 0
	}
	return 60 * x / toi
}

// share returns the for-share percentage of a for/against pair.
func share(f, a float64) float64 {
	if f+a == 0 {
		return 0
	}
	return 100 * f / (f + a)
}
