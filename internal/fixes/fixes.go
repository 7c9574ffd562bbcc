// Package fixes is the registry of per-game data repairs. The league's
// historical feeds carry a small number of known defects (events pointing at
// players who never dressed, wrong jerseys, impossible times); rather than
// scattering conditionals through the parsers, every repair lives here as a
// keyed patch applied after parsing and before reconciliation.
package fixes

import "github.com/slapshotlabs/rinkline/internal/pbp"

// EventPatch overrides fields on one event. Nil fields leave the event
// untouched; applying a patch twice yields the same event.
type EventPatch struct {
	EventTeam     *string
	Period        *int
	PeriodSeconds *int
	CoordsX       *int
	CoordsY       *int
	Zone          *pbp.Zone
	Player1Name   *string
	Player1APIID  *int64
	Player2Name   *string
	Player2APIID  *int64
	Description   *string
}

func (p EventPatch) apply(ev *pbp.Event) {
	if p.EventTeam != nil {
		ev.EventTeam = *p.EventTeam
	}
	if p.Period != nil {
		ev.Period = *p.Period
	}
	if p.PeriodSeconds != nil {
		ev.PeriodSeconds = *p.PeriodSeconds
		ev.GameSeconds = pbp.GameSeconds(ev.Session, ev.Period, ev.PeriodSeconds)
	}
	if p.CoordsX != nil {
		ev.CoordsX = p.CoordsX
	}
	if p.CoordsY != nil {
		ev.CoordsY = p.CoordsY
	}
	if p.Zone != nil {
		ev.Zone = *p.Zone
	}
	if p.Player1Name != nil {
		ev.Player1.Name = *p.Player1Name
	}
	if p.Player1APIID != nil {
		ev.Player1.APIID = *p.Player1APIID
	}
	if p.Player2Name != nil {
		ev.Player2.Name = *p.Player2Name
	}
	if p.Player2APIID != nil {
		ev.Player2.APIID = *p.Player2APIID
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
}

// RosterPatch overrides fields on one roster row, matched by team and
// jersey within a game.
type RosterPatch struct {
	Team       string
	Jersey     int
	PlayerName *string
	Position   *string
	EhID       *string
	APIID      *int64
}

func (p RosterPatch) apply(r *pbp.RosterPlayer) {
	if p.PlayerName != nil {
		r.PlayerName = *p.PlayerName
	}
	if p.Position != nil {
		r.Position = *p.Position
	}
	if p.EhID != nil {
		r.EhID = *p.EhID
	}
	if p.APIID != nil {
		r.APIID = *p.APIID
	}
}

// ---- registry ----

// apiEventFixes patches API events, keyed by game ID then event_idx_api.
var apiEventFixes = map[int]map[int]EventPatch{}

// htmlEventFixes patches HTML events, keyed by game ID then event_idx.
var htmlEventFixes = map[int]map[int]EventPatch{}

// htmlEventDrops removes HTML events that reference players who never
// dressed for the game. Keyed by game ID then event_idx.
var htmlEventDrops = map[int]map[int]bool{
	2022020194: {134: true},
	2022020673: {208: true},
}

// htmlRosterFixes patches HTML roster rows before the API join.
var htmlRosterFixes = map[int][]RosterPatch{}

// rosterFixes patches joined roster rows.
var rosterFixes = map[int][]RosterPatch{}

// ---- application ----

// APIEvents applies registered patches to API events in place.
func APIEvents(gameID int, events []pbp.Event) []pbp.Event {
	patches := apiEventFixes[gameID]
	if len(patches) == 0 {
		return events
	}
	for i := range events {
		if p, ok := patches[events[i].EventIdxAPI]; ok {
			p.apply(&events[i])
		}
	}
	return events
}

// HTMLEvents applies registered patches and drops to HTML events. Patches
// referencing an event_idx the game does not have are no-ops.
func HTMLEvents(gameID int, events []pbp.Event) []pbp.Event {
	patches := htmlEventFixes[gameID]
	drops := htmlEventDrops[gameID]
	if len(patches) == 0 && len(drops) == 0 {
		return events
	}
	out := events[:0]
	for i := range events {
		if drops[events[i].EventIdx] {
			continue
		}
		if p, ok := patches[events[i].EventIdx]; ok {
			p.apply(&events[i])
		}
		out = append(out, events[i])
	}
	return out
}

// HTMLRosters applies registered patches to HTML roster rows in place.
func HTMLRosters(gameID int, rosters []pbp.RosterPlayer) []pbp.RosterPlayer {
	return patchRosters(htmlRosterFixes[gameID], rosters)
}

// Rosters applies registered patches to joined roster rows in place.
func Rosters(gameID int, rosters []pbp.RosterPlayer) []pbp.RosterPlayer {
	return patchRosters(rosterFixes[gameID], rosters)
}

func patchRosters(patches []RosterPatch, rosters []pbp.RosterPlayer) []pbp.RosterPlayer {
	if len(patches) == 0 {
		return rosters
	}
	for i := range rosters {
		for _, p := range patches {
			if rosters[i].Team == p.Team && rosters[i].Jersey == p.Jersey {
				p.apply(&rosters[i])
			}
		}
	}
	return rosters
}
