package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// Changes folds repaired shifts into per-team substitution ticks: everyone
// whose shift starts at a game second comes on together, everyone whose
// shift ends there goes off. Ticks are keyed within their period, so the
// offs closing period P and the ons opening period P+1 stay separate changes
// at the shared game second and each period's on/off counts balance. Home
// ticks sort before away ticks at the same second.
func Changes(shifts []pbp.Shift, meta GameMeta) []pbp.Change {
	type tickKey struct {
		period  int
		venue   pbp.Venue
		seconds int
	}
	type tick struct {
		ons, offs []pbp.Shift
	}
	ticks := map[tickKey]*tick{}
	get := func(period int, venue pbp.Venue, seconds int) *tick {
		k := tickKey{period, venue, seconds}
		t, ok := ticks[k]
		if !ok {
			t = &tick{}
			ticks[k] = t
		}
		return t
	}

	for _, s := range shifts {
		on := get(s.Period, s.TeamVenue, pbp.GameSeconds(s.Session, s.Period, s.StartSeconds))
		on.ons = append(on.ons, s)
		off := get(s.Period, s.TeamVenue, pbp.GameSeconds(s.Session, s.Period, s.EndSeconds))
		off.offs = append(off.offs, s)
	}

	keys := make([]tickKey, 0, len(ticks))
	for k := range ticks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].seconds != keys[j].seconds {
			return keys[i].seconds < keys[j].seconds
		}
		if keys[i].period != keys[j].period {
			return keys[i].period < keys[j].period
		}
		return keys[i].venue == pbp.VenueHome && keys[j].venue == pbp.VenueAway
	})

	changes := make([]pbp.Change, 0, len(keys))
	for _, k := range keys {
		t := ticks[k]
		team := meta.HomeTeam
		if k.venue == pbp.VenueAway {
			team = meta.AwayTeam
		}
		c := pbp.Change{
			GameID:        meta.GameID,
			Season:        meta.Season,
			Session:       meta.Session,
			Team:          team,
			TeamVenue:     k.venue,
			Period:        k.period,
			PeriodSeconds: periodSecondsAt(meta.Session, k.period, k.seconds),
			GameSeconds:   k.seconds,
			PlayersOn:     changePlayers(t.ons),
			PlayersOff:    changePlayers(t.offs),
		}
		c.Description = changeDescription(c)
		changes = append(changes, c)
	}
	return changes
}

// periodSecondsAt inverts GameSeconds for a known period.
func periodSecondsAt(session pbp.Session, period, gameSeconds int) int {
	if session == pbp.SessionRegular && period == 5 {
		return gameSeconds - pbp.ShootoutStart
	}
	return gameSeconds - (period-1)*pbp.PeriodSeconds
}

func changePlayers(shifts []pbp.Shift) []pbp.ChangePlayer {
	if len(shifts) == 0 {
		return nil
	}
	sorted := make([]pbp.Shift, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Jersey < sorted[j].Jersey })

	players := make([]pbp.ChangePlayer, 0, len(sorted))
	for _, s := range sorted {
		players = append(players, pbp.ChangePlayer{
			Name: s.PlayerName, EhID: s.EhID, APIID: s.APIID,
			Jersey: s.Jersey, Position: s.Position,
		})
	}
	return players
}

func changeDescription(c pbp.Change) string {
	name := func(players []pbp.ChangePlayer) string {
		parts := make([]string, 0, len(players))
		for _, p := range players {
			parts = append(parts, fmt.Sprintf("#%d %s", p.Jersey, p.Name))
		}
		return strings.Join(parts, ", ")
	}
	switch {
	case len(c.PlayersOn) > 0 && len(c.PlayersOff) > 0:
		return fmt.Sprintf("PLAYERS ON: %s / PLAYERS OFF: %s", name(c.PlayersOn), name(c.PlayersOff))
	case len(c.PlayersOn) > 0:
		return "PLAYERS ON: " + name(c.PlayersOn)
	case len(c.PlayersOff) > 0:
		return "PLAYERS OFF: " + name(c.PlayersOff)
	default:
		return ""
	}
}
