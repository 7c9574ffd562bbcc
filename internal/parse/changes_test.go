package parse

import (
	"testing"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

func shiftFixture(team string, venue pbp.Venue, jersey int, name, pos string, period, start, end int) pbp.Shift {
	return pbp.Shift{
		GameID: testMeta.GameID, Season: testMeta.Season, Session: testMeta.Session,
		Team: team, TeamVenue: venue, Jersey: jersey, PlayerName: name,
		Position: pos, Period: period,
		StartSeconds: start, EndSeconds: end, Duration: end - start,
	}
}

func TestChangesPeriodBoundaryBalance(t *testing.T) {
	shifts := []pbp.Shift{
		shiftFixture("TOR", pbp.VenueHome, 34, "AUSTON MATTHEWS", "C", 1, 0, 1200),
		shiftFixture("TOR", pbp.VenueHome, 34, "AUSTON MATTHEWS", "C", 2, 0, 600),
	}
	changes := Changes(shifts, testMeta)

	balance := map[int]int{}
	for _, c := range changes {
		balance[c.Period] += len(c.PlayersOn) - len(c.PlayersOff)
	}
	for period, n := range balance {
		if n != 0 {
			t.Errorf("period %d on/off balance = %+d; want 0", period, n)
		}
	}

	var offTick, onTick *pbp.Change
	for i := range changes {
		c := &changes[i]
		if c.GameSeconds != 1200 {
			continue
		}
		if len(c.PlayersOff) > 0 {
			offTick = c
		}
		if len(c.PlayersOn) > 0 {
			onTick = c
		}
	}
	if offTick == nil || onTick == nil || offTick == onTick {
		t.Fatalf("changes at 1200 = %+v; want separate off and on ticks", changes)
	}
	if offTick.Period != 1 || offTick.PeriodSeconds != 1200 {
		t.Errorf("period-end off tick = period %d at %d; want 1 at 1200", offTick.Period, offTick.PeriodSeconds)
	}
	if onTick.Period != 2 || onTick.PeriodSeconds != 0 {
		t.Errorf("period-open on tick = period %d at %d; want 2 at 0", onTick.Period, onTick.PeriodSeconds)
	}
}

func TestChangesHomeBeforeAway(t *testing.T) {
	shifts := []pbp.Shift{
		shiftFixture("MTL", pbp.VenueAway, 14, "NICK SUZUKI", "C", 1, 0, 45),
		shiftFixture("TOR", pbp.VenueHome, 34, "AUSTON MATTHEWS", "C", 1, 0, 45),
	}
	changes := Changes(shifts, testMeta)
	if len(changes) != 4 {
		t.Fatalf("got %d changes; want 4", len(changes))
	}
	if changes[0].TeamVenue != pbp.VenueHome || changes[1].TeamVenue != pbp.VenueAway {
		t.Errorf("tick order = %s,%s; want HOME,AWAY at the shared second",
			changes[0].TeamVenue, changes[1].TeamVenue)
	}
}
