package stats

import (
	"sort"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// IndCounts are the individual statistic columns: everything a player does
// himself, as opposed to what happens while he is on the ice.
type IndCounts struct {
	G     float64 `json:"g"`
	A1    float64 `json:"a1"`
	A2    float64 `json:"a2"`
	IxG   float64 `json:"ixg"`
	ISF   float64 `json:"isf"`
	IFF   float64 `json:"iff"`
	ICF   float64 `json:"icf"`
	IMSF  float64 `json:"imsf"`
	IBS   float64 `json:"ibs"`
	IHF   float64 `json:"ihf"`
	IHT   float64 `json:"iht"`
	IGive float64 `json:"igive"`
	ITake float64 `json:"itake"`

	IFOW float64 `json:"ifow"`
	IFOL float64 `json:"ifol"`
	OZFW float64 `json:"ozfw"`
	NZFW float64 `json:"nzfw"`
	DZFW float64 `json:"dzfw"`
	OZFL float64 `json:"ozfl"`
	NZFL float64 `json:"nzfl"`
	DZFL float64 `json:"dzfl"`

	IPent   float64 `json:"ipent"`
	IPent0  float64 `json:"ipent0"`
	IPent2  float64 `json:"ipent2"`
	IPent4  float64 `json:"ipent4"`
	IPent5  float64 `json:"ipent5"`
	IPent10 float64 `json:"ipent10"`
	IPend   float64 `json:"ipend"`
	IPend0  float64 `json:"ipend0"`
	IPend2  float64 `json:"ipend2"`
	IPend4  float64 `json:"ipend4"`
	IPend5  float64 `json:"ipend5"`
	IPend10 float64 `json:"ipend10"`
}

// IndRow is one group of the individual view.
type IndRow struct {
	Key
	IndCounts
}

// Individual reduces the stream into per-player individual counts.
func Individual(events []pbp.Event, opts Options) []IndRow {
	groups := map[Key]*IndCounts{}
	add := func(ev *pbp.Event, p *pbp.EventPlayer, team string, fn func(*IndCounts)) {
		if p.Empty() || p.EhID == "" {
			return
		}
		venue := pbp.VenueHome
		if team == ev.AwayTeam {
			venue = pbp.VenueAway
		}
		k := baseKey(ev, opts)
		k.Team = team
		k.Venue = venue
		k.Player = p.Name
		k.PlayerEhID = p.EhID
		k.PlayerAPIID = p.APIID
		k.Position = p.Position
		k = withTeammates(k, ev, venue, p.EhID, opts)
		c, ok := groups[k]
		if !ok {
			c = &IndCounts{}
			groups[k] = c
		}
		fn(c)
	}

	for i := range events {
		ev := &events[i]
		switch ev.Event {
		case pbp.TagGoal:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) {
				c.G++
				c.ISF++
				c.IFF++
				c.ICF++
				c.IxG += xg(ev)
			})
			add(ev, &ev.Player2, ev.EventTeam, func(c *IndCounts) { c.A1++ })
			add(ev, &ev.Player3, ev.EventTeam, func(c *IndCounts) { c.A2++ })
		case pbp.TagShot:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) {
				c.ISF++
				c.IFF++
				c.ICF++
				c.IxG += xg(ev)
			})
		case pbp.TagMiss:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) {
				c.IMSF++
				c.IFF++
				c.ICF++
				c.IxG += xg(ev)
			})
		case pbp.TagBlock:
			// The blocker owns the event; the attempt belongs to the shooter.
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) { c.IBS++ })
			add(ev, &ev.Player2, ev.OppTeam, func(c *IndCounts) { c.ICF++ })
		case pbp.TagHit:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) { c.IHF++ })
			add(ev, &ev.Player2, ev.OppTeam, func(c *IndCounts) { c.IHT++ })
		case pbp.TagGive:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) { c.IGive++ })
		case pbp.TagTake:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) { c.ITake++ })
		case pbp.TagFac:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) {
				c.IFOW++
				switch ev.Zone {
				case pbp.ZoneOff:
					c.OZFW++
				case pbp.ZoneNeu:
					c.NZFW++
				case pbp.ZoneDef:
					c.DZFW++
				}
			})
			add(ev, &ev.Player2, ev.OppTeam, func(c *IndCounts) {
				c.IFOL++
				switch ev.Zone.Flip() {
				case pbp.ZoneOff:
					c.OZFL++
				case pbp.ZoneNeu:
					c.NZFL++
				case pbp.ZoneDef:
					c.DZFL++
				}
			})
		case pbp.TagPenl:
			add(ev, &ev.Player1, ev.EventTeam, func(c *IndCounts) {
				c.IPent++
				bumpPenalty(ev.PenaltyLength, &c.IPent0, &c.IPent2, &c.IPent4, &c.IPent5, &c.IPent10)
			})
			if ev.Player2.Role == pbp.RoleDrawnBy {
				add(ev, &ev.Player2, ev.OppTeam, func(c *IndCounts) {
					c.IPend++
					bumpPenalty(ev.PenaltyLength, &c.IPend0, &c.IPend2, &c.IPend4, &c.IPend5, &c.IPend10)
				})
			}
		}
	}

	rows := make([]IndRow, 0, len(groups))
	for k, c := range groups {
		rows = append(rows, IndRow{Key: k, IndCounts: *c})
	}
	sortRows(rows, func(r IndRow) Key { return r.Key })
	return rows
}

func bumpPenalty(length int, p0, p2, p4, p5, p10 *float64) {
	switch length {
	case 0:
		*p0++
	case 2:
		*p2++
	case 4:
		*p4++
	case 5:
		*p5++
	case 10:
		*p10++
	}
}

// sortRows orders view rows for stable output.
func sortRows[T any](rows []T, key func(T) Key) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := key(rows[i]), key(rows[j])
		switch {
		case a.Season != b.Season:
			return a.Season < b.Season
		case a.GameID != b.GameID:
			return a.GameID < b.GameID
		case a.Period != b.Period:
			return a.Period < b.Period
		case a.Team != b.Team:
			return a.Team < b.Team
		case a.PlayerEhID != b.PlayerEhID:
			return a.PlayerEhID < b.PlayerEhID
		case a.TeammatesF != b.TeammatesF:
			return a.TeammatesF < b.TeammatesF
		case a.TeammatesD != b.TeammatesD:
			return a.TeammatesD < b.TeammatesD
		case a.OppF != b.OppF:
			return a.OppF < b.OppF
		case a.StrengthState != b.StrengthState:
			return a.StrengthState < b.StrengthState
		default:
			return a.ScoreState < b.ScoreState
		}
	})
}
