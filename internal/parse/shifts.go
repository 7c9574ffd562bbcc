package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// playerHeadingRE matches the "24 SMITH, CRAIG" banner over each player's
// shift table.
var playerHeadingRE = regexp.MustCompile(`^(\d+)\s+([^,]+),\s*(.+)$`)

// Shifts parses and repairs both teams' shift reports, returning home
// shifts then away shifts with goalie coverage synthesized where a report
// omits it.
func Shifts(home, away []byte, meta GameMeta, rosters []pbp.RosterPlayer) ([]pbp.Shift, error) {
	homeShifts, err := HTMLShifts(home, meta, pbp.VenueHome, rosters)
	if err != nil {
		return nil, err
	}
	awayShifts, err := HTMLShifts(away, meta, pbp.VenueAway, rosters)
	if err != nil {
		return nil, err
	}
	all := append(homeShifts, awayShifts...)
	all = append(all, synthesizeGoalieShifts(all, rosters, meta, pbp.VenueHome)...)
	all = append(all, synthesizeGoalieShifts(all, rosters, meta, pbp.VenueAway)...)
	return all, nil
}

// HTMLShifts parses one team's TH or TV report. Rows are resolved against
// the dressed roster by jersey; the report's own end-time defects are
// repaired here so downstream stages see consistent intervals.
func HTMLShifts(report []byte, meta GameMeta, venue pbp.Venue, rosters []pbp.RosterPlayer) ([]pbp.Shift, error) {
	doc, err := parseDoc(report)
	if err != nil {
		return nil, fmt.Errorf("shift report: %w", err)
	}

	team := meta.HomeTeam
	if venue == pbp.VenueAway {
		team = meta.AwayTeam
	}
	byJersey := make(map[int]pbp.RosterPlayer)
	for _, r := range rosters {
		if r.Team == team && r.Status == pbp.StatusActive {
			byJersey[r.Jersey] = r
		}
	}

	rows := findAll(doc, func(n *html.Node) bool { return isElement(n, "tr") })

	var shifts []pbp.Shift
	var current *pbp.RosterPlayer
	for _, tr := range rows {
		cells := rowCells(tr)
		if len(cells) == 0 {
			continue
		}

		if m := playerHeadingRE.FindStringSubmatch(cells[0]); m != nil && len(cells) <= 2 {
			jersey, _ := atoi(m[1])
			if r, ok := byJersey[jersey]; ok {
				current = &r
			} else {
				current = nil
			}
			continue
		}
		if current == nil || len(cells) < 5 {
			continue
		}
		count, ok := atoi(cells[0])
		if !ok {
			continue
		}

		period := shiftPeriod(cells[1])
		if period == 0 {
			continue
		}
		start, err := clockSeconds(cells[2])
		if err != nil {
			continue
		}
		end, ok := repairShiftEnd(meta.Session, period, start, cells[3], cells[4])
		if !ok || end == start {
			continue
		}

		goalie := 0
		if current.IsGoalie() {
			goalie = 1
		}
		shifts = append(shifts, pbp.Shift{
			GameID:       meta.GameID,
			Season:       meta.Season,
			Session:      meta.Session,
			Team:         team,
			TeamVenue:    venue,
			Jersey:       current.Jersey,
			PlayerName:   current.PlayerName,
			EhID:         current.EhID,
			APIID:        current.APIID,
			Position:     current.Position,
			Goalie:       goalie,
			ShiftCount:   count,
			Period:       period,
			StartSeconds: start,
			EndSeconds:   end,
			Duration:     end - start,
		})
	}
	if len(shifts) == 0 {
		return nil, fmt.Errorf("shift report for game %d %s: no shift rows", meta.GameID, venue)
	}
	return shifts, nil
}

// shiftPeriod reads the report's period cell, which spells overtime "OT".
func shiftPeriod(cell string) int {
	s := strings.ToUpper(strings.TrimSpace(cell))
	switch s {
	case "OT":
		return 4
	case "SO":
		return 5
	}
	p, ok := atoi(s)
	if !ok {
		return 0
	}
	return p
}

// repairShiftEnd resolves a shift's end time around the report's known
// defects: missing end cells, ends recorded as 0:00, and ends before their
// start. Repairs prefer start plus the reported duration, then the period
// length.
func repairShiftEnd(session pbp.Session, period, start int, endCell, durCell string) (int, bool) {
	periodMax := pbp.PeriodMaxSeconds(session, period)
	if periodMax == 0 {
		return 0, false
	}
	dur, durErr := clockSeconds(durCell)

	end, err := clockSeconds(endCell)
	if err != nil || (end == 0 && start > 0) {
		if durErr == nil {
			end = start + dur
		} else {
			end = periodMax
		}
	}
	if start > end {
		end = periodMax
	}
	if end > periodMax {
		end = periodMax
	}
	return end, true
}

// synthesizeGoalieShifts fills periods where a team's report has skater
// rows but no goalie row, which happens in some overtimes. The goalie most
// recently on ice covers the whole period, from the opening faceoff to the
// team's last recorded second.
func synthesizeGoalieShifts(all []pbp.Shift, rosters []pbp.RosterPlayer, meta GameMeta, venue pbp.Venue) []pbp.Shift {
	periods := map[int]bool{}
	teamMax := map[int]int{}
	goalieIn := map[int]pbp.Shift{}
	for _, s := range all {
		if s.TeamVenue != venue {
			continue
		}
		periods[s.Period] = true
		if s.EndSeconds > teamMax[s.Period] {
			teamMax[s.Period] = s.EndSeconds
		}
		if s.Goalie == 1 {
			if prev, ok := goalieIn[s.Period]; !ok || s.EndSeconds > prev.EndSeconds {
				goalieIn[s.Period] = s
			}
		}
	}

	var starter *pbp.RosterPlayer
	for i, r := range rosters {
		if r.TeamVenue == venue && r.IsGoalie() && r.Starter == 1 {
			starter = &rosters[i]
			break
		}
	}

	ordered := make([]int, 0, len(periods))
	for p := range periods {
		ordered = append(ordered, p)
	}
	sort.Ints(ordered)

	var synth []pbp.Shift
	for _, p := range ordered {
		if _, ok := goalieIn[p]; ok {
			continue
		}
		shift := pbp.Shift{
			GameID:     meta.GameID,
			Season:     meta.Season,
			Session:    meta.Session,
			TeamVenue:  venue,
			Goalie:     1,
			ShiftCount: 1,
			Period:     p,
			EndSeconds: teamMax[p],
			Duration:   teamMax[p],
		}
		// Prefer whoever finished the most recent earlier period.
		var src *pbp.Shift
		for q := p - 1; q >= 1; q-- {
			if g, ok := goalieIn[q]; ok {
				src = &g
				break
			}
		}
		switch {
		case src != nil:
			shift.Team = src.Team
			shift.Jersey = src.Jersey
			shift.PlayerName = src.PlayerName
			shift.EhID = src.EhID
			shift.APIID = src.APIID
			shift.Position = src.Position
		case starter != nil:
			shift.Team = starter.Team
			shift.Jersey = starter.Jersey
			shift.PlayerName = starter.PlayerName
			shift.EhID = starter.EhID
			shift.APIID = starter.APIID
			shift.Position = starter.Position
		default:
			continue
		}
		if shift.EndSeconds > 0 {
			synth = append(synth, shift)
		}
	}
	return synth
}
