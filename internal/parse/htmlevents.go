package parse

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/slapshotlabs/rinkline/internal/names"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// GameMeta carries the game identity every parser stamps onto its records.
type GameMeta struct {
	GameID   int
	Season   int
	Session  pbp.Session
	GameDate string
	HomeTeam string
	AwayTeam string
}

// MetaFromGameCenter derives the shared game identity from the JSON feed.
func MetaFromGameCenter(gc *nhl.GameCenter) GameMeta {
	return GameMeta{
		GameID:   gc.ID,
		Season:   gc.Season,
		Session:  pbp.SessionFromCode(gc.GameType),
		GameDate: gc.GameDate,
		HomeTeam: names.Team(gc.HomeTeam.Abbrev),
		AwayTeam: names.Team(gc.AwayTeam.Abbrev),
	}
}

// htmlTags is the set of event codes the plays report emits.
var htmlTags = map[string]pbp.Tag{
	"FAC": pbp.TagFac, "HIT": pbp.TagHit, "GIVE": pbp.TagGive, "TAKE": pbp.TagTake,
	"SHOT": pbp.TagShot, "MISS": pbp.TagMiss, "BLOCK": pbp.TagBlock, "GOAL": pbp.TagGoal,
	"PENL": pbp.TagPenl, "DELPEN": pbp.TagDelPen, "STOP": pbp.TagStop,
	"PSTR": pbp.TagPstr, "PEND": pbp.TagPend, "GEND": pbp.TagGend, "SOC": pbp.TagSoc,
	"EISTR": pbp.TagEistr, "EIEND": pbp.TagEiend, "ANTHEM": pbp.TagAnthem,
	"PGSTR": pbp.TagPgstr, "PGEND": pbp.TagPgend, "CHL": pbp.TagChl,
}

var (
	teamJerseyRE = regexp.MustCompile(`([A-Z][A-Z.]{1,3})\s+#(\d+)`)
	bareJerseyRE = regexp.MustCompile(`#(\d+)`)
	leadTeamRE   = regexp.MustCompile(`^([A-Z][A-Z.]{1,3})\b`)
	facWinnerRE  = regexp.MustCompile(`^([A-Z][A-Z.]{1,3})\s+WON`)
	blockedByRE  = regexp.MustCompile(`BLOCKED\s+BY\s+([A-Z][A-Z.]{1,3})\s`)
	zoneRE       = regexp.MustCompile(`(OFF|NEU|DEF)\. ZONE`)
	distanceRE   = regexp.MustCompile(`(\d+)\s*FT`)
	penLengthRE  = regexp.MustCompile(`\((\d+)\s*MIN\)`)
)

// shotTypes are the recognized shot descriptions, as they appear between
// commas in the report.
var shotTypes = map[string]bool{
	"WRIST": true, "SNAP": true, "SLAP": true, "BACKHAND": true,
	"DEFLECTED": true, "TIP-IN": true, "WRAP-AROUND": true, "POKE": true,
	"BAT": true, "BETWEEN LEGS": true, "CRADLE": true,
}

// HTMLEvents parses the PL report into canonical events. Players are
// resolved against the HTML rosters by team and jersey; unresolved
// references keep their jersey so the caller can decide whether a
// registered drop excuses them.
func HTMLEvents(report []byte, meta GameMeta, rosters []pbp.RosterPlayer) ([]pbp.Event, error) {
	doc, err := parseDoc(report)
	if err != nil {
		return nil, fmt.Errorf("plays report: %w", err)
	}

	lookup := rosterLookup(rosters)
	rows := findAll(doc, func(n *html.Node) bool {
		return isElement(n, "tr") && strings.Contains(attrVal(n, "class"), "Color")
	})

	var events []pbp.Event
	var broken []int
	for _, row := range rows {
		cells := rowCells(row)
		if len(cells) < 6 {
			continue
		}
		idx, ok := atoi(cells[0])
		if !ok {
			continue
		}
		tag, ok := htmlTags[strings.TrimSpace(cells[4])]
		if !ok {
			continue
		}

		period := 1
		if p, ok := atoi(cells[1]); ok {
			period = p
		}
		// Garbage time cells like "-16:0-120:00" yield a reading outside
		// the period; mark the row for repair below.
		secs := -1
		if s, err := clockSeconds(cells[3]); err == nil && s <= pbp.PeriodMaxSeconds(meta.Session, period) {
			secs = s
		}
		desc := strings.ToUpper(strings.Join(strings.Split(cells[5], "\n"), " "))

		if secs < 0 {
			broken = append(broken, len(events))
		}
		ev := pbp.Event{
			GameID:        meta.GameID,
			Season:        meta.Season,
			Session:       meta.Session,
			GameDate:      meta.GameDate,
			EventIdx:      idx,
			Period:        period,
			PeriodSeconds: secs,
			Event:         tag,
			Description:   desc,
			HomeTeam:      meta.HomeTeam,
			AwayTeam:      meta.AwayTeam,
		}
		if secs >= 0 {
			ev.GameSeconds = pbp.GameSeconds(meta.Session, period, secs)
		}
		parseDescription(&ev, lookup)
		events = append(events, ev)
	}

	for _, i := range broken {
		ev := &events[i]
		secs, ok := nearestGoalSeconds(events, i)
		if !ok {
			secs = pbp.PeriodMaxSeconds(meta.Session, ev.Period)
		}
		ev.PeriodSeconds = secs
		ev.GameSeconds = pbp.GameSeconds(meta.Session, ev.Period, secs)
	}

	assignVersions(events, func(e *pbp.Event) string {
		return fmt.Sprintf("%d|%s|%d|%s", e.Period, e.Event, e.GameSeconds, e.Player1.EhID)
	})
	return events, nil
}

// nearestGoalSeconds finds the time of the closest goal in the same period,
// searching outward from the broken row in both directions.
func nearestGoalSeconds(events []pbp.Event, i int) (int, bool) {
	for d := 1; d < len(events); d++ {
		for _, j := range []int{i - d, i + d} {
			if j < 0 || j >= len(events) || events[j].Period != events[i].Period {
				continue
			}
			if events[j].Event == pbp.TagGoal && events[j].PeriodSeconds >= 0 {
				return events[j].PeriodSeconds, true
			}
		}
	}
	return 0, false
}

// rosterLookup indexes roster rows by team and jersey. Scratched rows fill
// jerseys the dressed list does not carry, since the report occasionally
// credits a scratched player; dressed rows win any overlap.
func rosterLookup(rosters []pbp.RosterPlayer) map[string]pbp.RosterPlayer {
	m := make(map[string]pbp.RosterPlayer, len(rosters))
	for _, r := range rosters {
		if r.Status == pbp.StatusScratch {
			m[fmt.Sprintf("%s#%d", r.Team, r.Jersey)] = r
		}
	}
	for _, r := range rosters {
		if r.Status == pbp.StatusActive {
			m[fmt.Sprintf("%s#%d", r.Team, r.Jersey)] = r
		}
	}
	return m
}

func lookupPlayer(lookup map[string]pbp.RosterPlayer, team string, jersey int, role string) pbp.EventPlayer {
	if r, ok := lookup[fmt.Sprintf("%s#%d", team, jersey)]; ok {
		return pbp.EventPlayer{
			Name: r.PlayerName, EhID: r.EhID, APIID: r.APIID,
			Jersey: r.Jersey, Position: r.Position, Role: role,
		}
	}
	return pbp.EventPlayer{Jersey: jersey, Role: role}
}

// qualifiedRefs extracts every TEAM #N reference in order.
func qualifiedRefs(s string) [][2]string {
	var out [][2]string
	for _, m := range teamJerseyRE.FindAllStringSubmatch(s, -1) {
		out = append(out, [2]string{names.Team(m[1]), m[2]})
	}
	return out
}

// parseDescription derives the event team, zone, distance, players, and
// penalty fields from a report description.
func parseDescription(ev *pbp.Event, lookup map[string]pbp.RosterPlayer) {
	desc := ev.Description

	if m := zoneRE.FindStringSubmatch(desc); m != nil {
		ev.Zone = pbp.Zone(m[1])
	}
	if m := distanceRE.FindStringSubmatch(desc); m != nil {
		if ft, ok := atoi(m[1]); ok {
			f := float64(ft)
			ev.PBPDistance = &f
		}
	}
	if ev.Event.IsCorsi() {
		for _, part := range strings.Split(desc, ",") {
			if shotTypes[strings.TrimSpace(part)] {
				ev.ShotType = strings.TrimSpace(part)
				break
			}
		}
	}

	if !ev.Event.HasTeam() {
		return
	}

	// Event team.
	switch ev.Event {
	case pbp.TagFac:
		if m := facWinnerRE.FindStringSubmatch(desc); m != nil {
			ev.EventTeam = names.Team(m[1])
		} else if m := leadTeamRE.FindStringSubmatch(desc); m != nil {
			// Malformed draw with no winner clause: first team wins the
			// attribution and the zone defaults to neutral.
			ev.EventTeam = names.Team(m[1])
			if ev.Zone == "" {
				ev.Zone = pbp.ZoneNeu
			}
		}
	case pbp.TagBlock:
		if m := blockedByRE.FindStringSubmatch(desc); m != nil {
			ev.EventTeam = names.Team(m[1])
		} else if m := leadTeamRE.FindStringSubmatch(desc); m != nil {
			// Blocked by a teammate: the shooting team keeps the event.
			ev.EventTeam = names.Team(m[1])
		}
	default:
		if m := leadTeamRE.FindStringSubmatch(desc); m != nil {
			team := names.Team(m[1])
			if team == ev.HomeTeam || team == ev.AwayTeam {
				ev.EventTeam = team
			}
		}
	}
	if ev.EventTeam == ev.HomeTeam && ev.EventTeam != "" {
		ev.OppTeam, ev.IsHome = ev.AwayTeam, 1
	} else if ev.EventTeam == ev.AwayTeam {
		ev.OppTeam = ev.HomeTeam
	}

	// Blocked-shot zones arrive from the blocker's perspective; keep the
	// shooter's.
	if ev.Event == pbp.TagBlock && ev.Zone != "" {
		ev.Zone = ev.Zone.Flip()
	}

	refs := qualifiedRefs(desc)

	switch ev.Event {
	case pbp.TagFac:
		// Report lists away player first; the winner goes in slot one.
		if len(refs) >= 2 {
			a := lookupRef(lookup, refs[0], pbp.RoleLoser)
			b := lookupRef(lookup, refs[1], pbp.RoleWinner)
			if refs[0][0] == ev.EventTeam {
				a.Role, b.Role = pbp.RoleWinner, pbp.RoleLoser
				ev.Player1, ev.Player2 = a, b
			} else {
				ev.Player1, ev.Player2 = b, a
			}
		}
	case pbp.TagBlock:
		if strings.Contains(desc, "BLOCKED BY TEAMMATE") {
			ev.Player1 = pbp.EventPlayer{Name: pbp.SentinelTeammate, Role: pbp.RoleBlocker}
			if len(refs) >= 1 {
				ev.Player2 = lookupRef(lookup, refs[0], pbp.RoleShooter)
			}
		} else if len(refs) >= 2 {
			// Shooter is listed first, blocker second.
			ev.Player1 = lookupRef(lookup, refs[1], pbp.RoleBlocker)
			ev.Player2 = lookupRef(lookup, refs[0], pbp.RoleShooter)
		}
	case pbp.TagHit:
		if len(refs) >= 1 {
			ev.Player1 = lookupRef(lookup, refs[0], pbp.RoleHitter)
		}
		if len(refs) >= 2 {
			ev.Player2 = lookupRef(lookup, refs[1], pbp.RoleHittee)
		}
	case pbp.TagGoal:
		parseGoal(ev, desc, lookup)
	case pbp.TagShot, pbp.TagMiss:
		role := pbp.RoleShooter
		if len(refs) >= 1 {
			ev.Player1 = lookupRef(lookup, refs[0], role)
		} else if m := bareJerseyRE.FindStringSubmatch(desc); m != nil {
			j, _ := atoi(m[1])
			ev.Player1 = lookupPlayer(lookup, ev.EventTeam, j, role)
		}
	case pbp.TagGive, pbp.TagTake:
		role := pbp.RoleGiver
		if ev.Event == pbp.TagTake {
			role = pbp.RoleTaker
		}
		if len(refs) >= 1 {
			ev.Player1 = lookupRef(lookup, refs[0], role)
		} else if m := bareJerseyRE.FindStringSubmatch(desc); m != nil {
			j, _ := atoi(m[1])
			ev.Player1 = lookupPlayer(lookup, ev.EventTeam, j, role)
		}
	case pbp.TagPenl:
		parsePenalty(ev, desc, lookup)
	}
}

func lookupRef(lookup map[string]pbp.RosterPlayer, ref [2]string, role string) pbp.EventPlayer {
	j, _ := atoi(ref[1])
	return lookupPlayer(lookup, ref[0], j, role)
}

// parseGoal fills the scorer and up to two assists. Assists are listed
// jersey-only and always belong to the scoring team.
func parseGoal(ev *pbp.Event, desc string, lookup map[string]pbp.RosterPlayer) {
	main, assists, _ := strings.Cut(desc, "ASSIST")
	if refs := qualifiedRefs(main); len(refs) >= 1 {
		ev.Player1 = lookupRef(lookup, refs[0], pbp.RoleGoalScorer)
	}
	if assists == "" {
		return
	}
	ms := bareJerseyRE.FindAllStringSubmatch(assists, -1)
	roles := []string{pbp.RolePrimaryAssist, pbp.RoleSecondaryAssist}
	slots := []*pbp.EventPlayer{&ev.Player2, &ev.Player3}
	for i, m := range ms {
		if i >= len(roles) {
			break
		}
		j, _ := atoi(m[1])
		*slots[i] = lookupPlayer(lookup, ev.EventTeam, j, roles[i])
	}
}

// parsePenalty fills the penalty name, length, and the committed/drawn/
// served slots. Bench penalties have no committing player.
func parsePenalty(ev *pbp.Event, desc string, lookup map[string]pbp.RosterPlayer) {
	ev.Penalty = penaltyName(desc)
	if m := penLengthRE.FindStringSubmatch(desc); m != nil {
		ev.PenaltyLength, _ = atoi(m[1])
	}

	main := desc
	var drawn, served string
	if i := strings.Index(main, "DRAWN BY"); i >= 0 {
		main, drawn = main[:i], main[i:]
	}
	if i := strings.Index(drawn, "SERVED BY"); i >= 0 {
		drawn, served = drawn[:i], drawn[i:]
	}
	if i := strings.Index(main, "SERVED BY"); i >= 0 {
		main, served = main[:i], main[i:]
	}

	bench := strings.Contains(main, "TEAM") || strings.Contains(main, "BENCH")
	if refs := qualifiedRefs(main); len(refs) >= 1 && !bench {
		ev.Player1 = lookupRef(lookup, refs[0], pbp.RoleCommittedBy)
	} else {
		ev.Player1 = pbp.EventPlayer{Name: pbp.SentinelBench, Role: pbp.RoleCommittedBy}
	}

	var drawnPlayer, servedPlayer pbp.EventPlayer
	if refs := qualifiedRefs(drawn); len(refs) >= 1 {
		drawnPlayer = lookupRef(lookup, refs[0], pbp.RoleDrawnBy)
	}
	if served != "" {
		if refs := qualifiedRefs(served); len(refs) >= 1 {
			servedPlayer = lookupRef(lookup, refs[0], pbp.RoleServedBy)
		} else if m := bareJerseyRE.FindStringSubmatch(served); m != nil {
			j, _ := atoi(m[1])
			servedPlayer = lookupPlayer(lookup, ev.EventTeam, j, pbp.RoleServedBy)
		}
	}

	// Staff penalties route the server into slot two.
	if ev.Player1.Name == pbp.SentinelBench {
		ev.Player2 = servedPlayer
		return
	}
	ev.Player2 = drawnPlayer
	ev.Player3 = servedPlayer
}

// UnresolvedPlayers lists event player references the rosters could not
// resolve. Run after registry drops so excused events do not count.
func UnresolvedPlayers(events []pbp.Event) []string {
	var out []string
	for i := range events {
		ev := &events[i]
		for _, p := range []pbp.EventPlayer{ev.Player1, ev.Player2, ev.Player3} {
			if p.Name == "" && p.Jersey != 0 {
				out = append(out, fmt.Sprintf("event_idx %d: #%d in %s %q", ev.EventIdx, p.Jersey, ev.Event, ev.Description))
			}
		}
	}
	return out
}
