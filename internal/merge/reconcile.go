// Package merge fuses the per-game artifacts into the final play-by-play
// stream: the reconciler pairs each HTML event with its API counterpart and
// folds in the API-only fields, and the on-ice reconstructor threads score,
// strength, and on-ice state through the ordered stream.
package merge

import (
	"fmt"
	"sort"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// Reconcile matches each HTML event to at most one API event and merges the
// API-only fields in. The HTML report is the spine: every HTML event survives,
// matched or not, and API events with no HTML counterpart are dropped.
func Reconcile(htmlEvents, apiEvents []pbp.Event) []pbp.Event {
	idx := newAPIIndex(apiEvents)

	out := make([]pbp.Event, len(htmlEvents))
	copy(out, htmlEvents)
	for i := range out {
		ev := &out[i]
		api := idx.take(matchKey(ev))
		if api == nil && ev.Event == pbp.TagFac {
			// Misattributed draws fall back to timing alone.
			api = idx.take(looseKey(ev))
		}
		if api != nil {
			mergeAPI(ev, api)
		}
	}
	return out
}

// matchKey derives the reconciliation key for an HTML event. The key shape
// depends on the event class: timing alone for administrative rows, the full
// player triple for penalties, and team plus first player for the rest.
func matchKey(ev *pbp.Event) string {
	switch {
	case !ev.Event.HasTeam(), ev.Event == pbp.TagChl && ev.EventTeam == "":
		return looseKey(ev)
	case ev.Event == pbp.TagChl:
		return fmt.Sprintf("%s|%s|%d|%d|%d", ev.Event, ev.EventTeam, ev.Period, ev.PeriodSeconds, ev.Version)
	case ev.Event == pbp.TagPenl:
		return fmt.Sprintf("%s|%s|%s|%s|%s|%d|%d", ev.Event, ev.EventTeam,
			ev.Player1.EhID, ev.Player2.EhID, ev.Player3.EhID, ev.Period, ev.PeriodSeconds)
	case ev.Event == pbp.TagBlock && ev.Player1.Name == pbp.SentinelTeammate:
		return fmt.Sprintf("%s|%s|%d|%d|%d", ev.Event, ev.EventTeam, ev.Period, ev.PeriodSeconds, ev.Version)
	default:
		return fmt.Sprintf("%s|%s|%s|%d|%d|%d", ev.Event, ev.EventTeam,
			ev.Player1.EhID, ev.Period, ev.PeriodSeconds, ev.Version)
	}
}

// looseKey matches on timing alone.
func looseKey(ev *pbp.Event) string {
	return fmt.Sprintf("%s|%d|%d|%d", ev.Event, ev.Period, ev.PeriodSeconds, ev.Version)
}

// apiIndex buckets API events under every key shape an HTML event might
// present, consuming each event on first use so no API event pairs twice.
type apiIndex struct {
	buckets map[string][]*pbp.Event
	used    map[*pbp.Event]bool
}

func newAPIIndex(apiEvents []pbp.Event) *apiIndex {
	idx := &apiIndex{
		buckets: make(map[string][]*pbp.Event),
		used:    make(map[*pbp.Event]bool),
	}
	for i := range apiEvents {
		ev := &apiEvents[i]
		keys := []string{looseKey(ev)}
		if ev.Event.HasTeam() {
			keys = append(keys, matchKey(ev))
			if ev.Event == pbp.TagBlock {
				// The HTML side may carry the TEAMMATE sentinel.
				keys = append(keys, fmt.Sprintf("%s|%s|%d|%d|%d",
					ev.Event, ev.EventTeam, ev.Period, ev.PeriodSeconds, ev.Version))
			}
		}
		seen := map[string]bool{}
		for _, k := range keys {
			if !seen[k] {
				idx.buckets[k] = append(idx.buckets[k], ev)
				seen[k] = true
			}
		}
	}
	return idx
}

// take returns the first unconsumed event under the key, marking it used.
func (idx *apiIndex) take(key string) *pbp.Event {
	for _, ev := range idx.buckets[key] {
		if !idx.used[ev] {
			idx.used[ev] = true
			return ev
		}
	}
	return nil
}

// mergeAPI folds the API-only fields into a matched HTML event: the API
// index, coordinates, player API identity and roles, and the goalie. A
// TEAMMATE-block sentinel gives way to the real blocker.
func mergeAPI(ev, api *pbp.Event) {
	ev.EventIdxAPI = api.EventIdxAPI
	ev.CoordsX = api.CoordsX
	ev.CoordsY = api.CoordsY
	if ev.Zone == "" {
		ev.Zone = api.Zone
	}
	if ev.ShotType == "" {
		ev.ShotType = api.ShotType
	}
	if ev.Event == pbp.TagBlock && ev.Player1.Name == pbp.SentinelTeammate && !api.Player1.Empty() {
		ev.Player1 = api.Player1
	}
	mergePlayer(&ev.Player1, &api.Player1)
	mergePlayer(&ev.Player2, &api.Player2)
	mergePlayer(&ev.Player3, &api.Player3)
	if ev.OppGoalie.Empty() {
		ev.OppGoalie = api.OppGoalie
	}
}

func mergePlayer(html, api *pbp.EventPlayer) {
	if html.Empty() || api.Empty() {
		return
	}
	if html.APIID == 0 {
		html.APIID = api.APIID
	}
	if api.Role != "" {
		html.Role = api.Role
	}
}

// Sequence appends the substitution ticks to the reconciled events and sorts
// the stream into play order. Within one clock tick events order by their
// sort value, ties by version; a regular-season shootout has no meaningful
// clock and orders by the report's own event index instead.
func Sequence(events []pbp.Event, changes []pbp.Change) []pbp.Event {
	out := make([]pbp.Event, 0, len(events)+len(changes))
	out = append(out, events...)
	for i := range changes {
		out = append(out, changeEvent(&changes[i]))
	}
	for i := range out {
		out[i].SortValue = pbp.SortValue(out[i].Event)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.Session == pbp.SessionRegular && a.Period == 5 {
			return a.EventIdx < b.EventIdx
		}
		if a.PeriodSeconds != b.PeriodSeconds {
			return a.PeriodSeconds < b.PeriodSeconds
		}
		if a.SortValue != b.SortValue {
			return a.SortValue < b.SortValue
		}
		if a.Event == pbp.TagChange && b.Event == pbp.TagChange && a.IsHome != b.IsHome {
			return a.IsHome > b.IsHome
		}
		return a.Version < b.Version
	})
	return out
}

// changeEvent lifts a substitution tick into the event stream.
func changeEvent(c *pbp.Change) pbp.Event {
	ev := pbp.Event{
		GameID:        c.GameID,
		Season:        c.Season,
		Session:       c.Session,
		Period:        c.Period,
		PeriodSeconds: c.PeriodSeconds,
		GameSeconds:   c.GameSeconds,
		Event:         pbp.TagChange,
		EventTeam:     c.Team,
		Description:   c.Description,
		Change: pbp.ChangeDetail{
			PlayersOn:  c.PlayersOn,
			PlayersOff: c.PlayersOff,
		},
		Version: 1,
	}
	if c.TeamVenue == pbp.VenueHome {
		ev.IsHome = 1
	}
	return ev
}
