package stats

import (
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// LineKind selects which position group defines a line.
type LineKind string

const (
	LineForwards LineKind = "forwards"
	LineDefense  LineKind = "defense"
)

// LineRow is one group of the lines view: on-ice counts keyed by a forward
// trio or a defense pair instead of a single player.
type LineRow struct {
	Key
	Kind LineKind `json:"kind"`
	OICounts
}

// Lines reduces the stream into per-combination on-ice counts. The line ID
// is the sorted joined EH IDs of the unit on the ice; partial units (a trio
// caught mid-change as a pair) group under their own ID.
func Lines(events []pbp.Event, kind LineKind, opts Options) []LineRow {
	type lineKey struct {
		Key
		kind LineKind
	}
	groups := map[lineKey]*OICounts{}

	for i := range events {
		ev := &events[i]
		for _, venue := range []pbp.Venue{pbp.VenueHome, pbp.VenueAway} {
			side := &ev.HomeOn
			if venue == pbp.VenueAway {
				side = &ev.AwayOn
			}
			ids := side.ForwardsEhID
			if kind == LineDefense {
				ids = side.DefenseEhID
			}
			unit := sideIDs(ids, "")
			if unit == "" {
				continue
			}

			k := baseKey(ev, opts)
			k.Team = teamAt(ev, venue)
			k.Venue = venue
			if kind == LineForwards {
				k.TeammatesF = unit
			} else {
				k.TeammatesD = unit
			}
			if opts.Opposition {
				opp := &ev.AwayOn
				if venue == pbp.VenueAway {
					opp = &ev.HomeOn
				}
				k.OppF = sideIDs(opp.ForwardsEhID, "")
				k.OppD = sideIDs(opp.DefenseEhID, "")
				k.OppG = sideIDs(opp.GoaliesEhID, "")
			}

			lk := lineKey{Key: k, kind: kind}
			c, ok := groups[lk]
			if !ok {
				c = &OICounts{}
				groups[lk] = c
			}
			forSide := teamAt(ev, venue) == attackingTeam(ev) && attackingTeam(ev) != ""
			charge(c, ev, forSide)
		}
	}

	rows := make([]LineRow, 0, len(groups))
	for lk, c := range groups {
		rows = append(rows, LineRow{Key: lk.Key, Kind: lk.kind, OICounts: *c})
	}
	sortRows(rows, func(r LineRow) Key { return r.Key })
	return rows
}

// TeamRow is one group of the team view.
type TeamRow struct {
	Key
	OICounts
}

// TeamStats reduces the stream into per-team on-ice counts: the oi view
// without the player key.
func TeamStats(events []pbp.Event, opts Options) []TeamRow {
	groups := map[Key]*OICounts{}

	for i := range events {
		ev := &events[i]
		for _, venue := range []pbp.Venue{pbp.VenueHome, pbp.VenueAway} {
			team := teamAt(ev, venue)
			if team == "" {
				continue
			}
			k := baseKey(ev, opts)
			k.Team = team
			k.Venue = venue
			c, ok := groups[k]
			if !ok {
				c = &OICounts{}
				groups[k] = c
			}
			forSide := team == attackingTeam(ev) && attackingTeam(ev) != ""
			charge(c, ev, forSide)
		}
	}

	rows := make([]TeamRow, 0, len(groups))
	for k, c := range groups {
		rows = append(rows, TeamRow{Key: k, OICounts: *c})
	}
	sortRows(rows, func(r TeamRow) Key { return r.Key })
	return rows
}
