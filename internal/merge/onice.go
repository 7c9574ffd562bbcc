package merge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// StrengthIllegal labels rows where the reconstructed skater counts are
// impossible. The row is retained; the label is the signal.
const StrengthIllegal = "ILLEGAL"

// onIcePlayer is one skater or goalie tracked by the reconstructor. The
// counter survives doubled on/off ticks in the shift reports: a player is on
// the ice while the counter is positive.
type onIcePlayer struct {
	player pbp.ChangePlayer
	venue  pbp.Venue
	count  int
}

// OnIce threads game state through a sequenced stream: scores, strength and
// score states, on-ice rosters, shot geometry and danger flags, change zone
// starts, indicator flags, and event lengths. Events are mutated in place
// and the same slice is returned.
func OnIce(events []pbp.Event, homeTeam, awayTeam string) []pbp.Event {
	var homeScore, awayScore int
	onIce := map[string]*onIcePlayer{}

	decisive := shootoutDecider(events)
	facByTick := faceoffIndex(events)
	maxSeconds := 0
	for i := range events {
		if events[i].GameSeconds > maxSeconds {
			maxSeconds = events[i].GameSeconds
		}
	}
	var boundaries map[int]bool
	if len(events) > 0 {
		boundaries = pbp.PeriodBoundaries(events[0].Session, maxSeconds)
	}

	for i := range events {
		ev := &events[i]
		if ev.HomeTeam == "" {
			ev.HomeTeam = homeTeam
		}
		if ev.AwayTeam == "" {
			ev.AwayTeam = awayTeam
		}
		if ev.Event == pbp.TagChange && ev.OppTeam == "" {
			if ev.EventTeam == homeTeam {
				ev.OppTeam = awayTeam
			} else {
				ev.OppTeam = homeTeam
			}
		}

		// Scoring. Shootout attempts carry no score until the decisive one.
		if ev.Event == pbp.TagGoal {
			shootout := ev.Session == pbp.SessionRegular && ev.Period == 5
			if !shootout {
				if ev.EventTeam == ev.HomeTeam {
					homeScore++
				} else if ev.EventTeam == ev.AwayTeam {
					awayScore++
				}
			}
		}
		if decisive != nil && i == decisive.index {
			if decisive.team == ev.HomeTeam {
				homeScore++
			} else {
				awayScore++
			}
		}

		if ev.Event == pbp.TagChange {
			applyChange(onIce, ev)
		}

		ev.HomeOn, ev.AwayOn = snapshot(onIce)
		ev.HomeScore, ev.AwayScore = homeScore, awayScore
		ev.ScoreDiff = homeScore - awayScore

		stampStrength(ev)
		stampScoreState(ev)
		stampGoalie(ev)
		stampGeometry(ev)
		stampZoneStart(ev, facByTick, boundaries)
		stampFlags(ev)
	}

	for i := range events {
		if i+1 < len(events) {
			events[i].EventLength = events[i+1].GameSeconds - events[i].GameSeconds
		} else {
			events[i].EventLength = 0
		}
	}
	return events
}

// applyChange books a substitution tick into the on-ice counters.
func applyChange(onIce map[string]*onIcePlayer, ev *pbp.Event) {
	venue := pbp.VenueAway
	if ev.IsHome == 1 {
		venue = pbp.VenueHome
	}
	key := func(p pbp.ChangePlayer) string {
		return fmt.Sprintf("%s|%s#%d", venue, ev.EventTeam, p.Jersey)
	}
	for _, p := range ev.Change.PlayersOn {
		k := key(p)
		if onIce[k] == nil {
			onIce[k] = &onIcePlayer{player: p, venue: venue}
		}
		onIce[k].count++
	}
	for _, p := range ev.Change.PlayersOff {
		k := key(p)
		if onIce[k] == nil {
			onIce[k] = &onIcePlayer{player: p, venue: venue}
		}
		onIce[k].count--
	}
}

// snapshot splits the current on-ice sets by venue and position class,
// jersey-ordered for stable output.
func snapshot(onIce map[string]*onIcePlayer) (home, away pbp.OnIceSide) {
	var players []*onIcePlayer
	for _, p := range onIce {
		if p.count > 0 {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].venue != players[j].venue {
			return players[i].venue == pbp.VenueHome
		}
		return players[i].player.Jersey < players[j].player.Jersey
	})
	for _, p := range players {
		side := &home
		if p.venue == pbp.VenueAway {
			side = &away
		}
		switch {
		case p.player.Position == "G":
			side.Goalies = append(side.Goalies, p.player.Name)
			side.GoaliesEhID = append(side.GoaliesEhID, p.player.EhID)
			side.GoaliesAPIID = append(side.GoaliesAPIID, p.player.APIID)
		case p.player.Position == "D":
			side.Defense = append(side.Defense, p.player.Name)
			side.DefenseEhID = append(side.DefenseEhID, p.player.EhID)
			side.DefenseAPIID = append(side.DefenseAPIID, p.player.APIID)
		default:
			side.Forwards = append(side.Forwards, p.player.Name)
			side.ForwardsEhID = append(side.ForwardsEhID, p.player.EhID)
			side.ForwardsAPIID = append(side.ForwardsAPIID, p.player.APIID)
		}
	}
	return home, away
}

// stampStrength writes the NvM strength state from the event team's
// perspective; substitution ticks and rows with no event team read from the
// home side.
func stampStrength(ev *pbp.Event) {
	if ev.Session == pbp.SessionRegular && ev.Period == 5 {
		ev.StrengthState = "1v0"
		return
	}
	if ev.Event == pbp.TagPenl && strings.Contains(ev.Description, "PS -") ||
		ev.Event == pbp.TagPenl && strings.Contains(ev.Description, "PS-") {
		ev.StrengthState = "1v0"
		return
	}
	own, opp := ev.TeamOn()
	if ev.Event == pbp.TagChange {
		own, opp = &ev.HomeOn, &ev.AwayOn
	}
	ev.StrengthState = sideDigit(own) + "v" + sideDigit(opp)
	if (own.Skaters() > 5 && own.HasGoalie()) || (opp.Skaters() > 5 && opp.HasGoalie()) {
		ev.StrengthState = StrengthIllegal
	}
}

// sideDigit renders one side of the strength state: the skater count, or E
// when the net is empty.
func sideDigit(side *pbp.OnIceSide) string {
	if !side.HasGoalie() {
		return "E"
	}
	return strconv.Itoa(side.Skaters())
}

// stampScoreState writes the score from the event team's perspective;
// substitution ticks and rows with no event team read from the home side.
func stampScoreState(ev *pbp.Event) {
	own, opp := ev.HomeScore, ev.AwayScore
	if ev.EventTeam == ev.AwayTeam && ev.EventTeam != "" && ev.Event != pbp.TagChange {
		own, opp = opp, own
	}
	ev.ScoreState = fmt.Sprintf("%dv%d", own, opp)
	ev.OppScoreState = fmt.Sprintf("%dv%d", opp, own)
}

// stampGoalie resolves the opposing goalie from the on-ice snapshot when the
// feeds did not name one.
func stampGoalie(ev *pbp.Event) {
	if !ev.OppGoalie.Empty() || ev.EventTeam == "" {
		return
	}
	_, opp := ev.TeamOn()
	if len(opp.Goalies) > 0 {
		ev.OppGoalie = pbp.EventPlayer{
			Name:     opp.Goalies[0],
			EhID:     opp.GoaliesEhID[0],
			APIID:    opp.GoaliesAPIID[0],
			Position: "G",
		}
	}
}

// stampGeometry computes shot distance, angle, and the danger flags for
// corsi events with coordinates. The reports record some long shots with
// coordinates at the wrong end; when the reported footage disagrees with the
// near-net assumption the distance flips to the far net, but the angle keeps
// the report's frame.
func stampGeometry(ev *pbp.Event) {
	if !ev.Event.IsCorsi() || ev.CoordsX == nil || ev.CoordsY == nil {
		return
	}
	x, y := float64(*ev.CoordsX), float64(*ev.CoordsY)

	dist := pbp.EventDistance(x, y)
	mirrored := false
	if ev.Event.IsFenwick() && ev.PBPDistance != nil && *ev.PBPDistance > 89 && ev.Zone != pbp.ZoneOff {
		far := pbp.FarNetDistance(x, y)
		if diff(far, *ev.PBPDistance) < diff(dist, *ev.PBPDistance) {
			dist = far
			mirrored = true
		}
	}
	angle := pbp.EventAngle(x, y)
	ev.EventDistance = &dist
	ev.EventAngle = &angle

	if !mirrored {
		if pbp.InHighDanger(x, y) {
			ev.HighDanger = 1
		} else if pbp.InDanger(x, y) {
			ev.Danger = 1
		}
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

// faceoffIndex maps (period, game_seconds) to the faceoff at that tick.
func faceoffIndex(events []pbp.Event) map[[2]int]*pbp.Event {
	idx := map[[2]int]*pbp.Event{}
	for i := range events {
		if events[i].Event == pbp.TagFac {
			k := [2]int{events[i].Period, events[i].GameSeconds}
			if _, ok := idx[k]; !ok {
				idx[k] = &events[i]
			}
		}
	}
	return idx
}

// stampZoneStart classifies a change: on-the-fly unless a faceoff shares the
// tick away from a period boundary, in which case the change starts in the
// faceoff's zone, flipped when the changing team is not the faceoff winner's.
func stampZoneStart(ev *pbp.Event, facs map[[2]int]*pbp.Event, boundaries map[int]bool) {
	if ev.Event != pbp.TagChange {
		return
	}
	ev.Change.ZoneStart = pbp.ZoneOTF
	if boundaries[ev.GameSeconds] {
		return
	}
	fac, ok := facs[[2]int{ev.Period, ev.GameSeconds}]
	if !ok {
		return
	}
	ev.CoordsX, ev.CoordsY = fac.CoordsX, fac.CoordsY
	zone := fac.Zone
	if fac.EventTeam != ev.EventTeam {
		zone = zone.Flip()
	}
	if zone != "" {
		ev.Change.ZoneStart = zone
	}
}

// stampFlags emits the indicator columns the aggregator sums over.
func stampFlags(ev *pbp.Event) {
	f := pbp.Flags{}
	switch ev.Event {
	case pbp.TagShot:
		f.Shot, f.Fenwick, f.Corsi = 1, 1, 1
	case pbp.TagGoal:
		f.Goal, f.Shot, f.Fenwick, f.Corsi = 1, 1, 1, 1
	case pbp.TagMiss:
		f.Miss, f.Fenwick, f.Corsi = 1, 1, 1
	case pbp.TagBlock:
		f.Block, f.Corsi = 1, 1
	case pbp.TagHit:
		f.Hit = 1
	case pbp.TagGive:
		f.Give = 1
	case pbp.TagTake:
		f.Take = 1
	case pbp.TagFac:
		f.Fac = 1
		switch ev.Zone {
		case pbp.ZoneOff:
			f.Ozf = 1
		case pbp.ZoneNeu:
			f.Nzf = 1
		case pbp.ZoneDef:
			f.Dzf = 1
		}
	case pbp.TagPenl:
		f.Penl = 1
		switch ev.PenaltyLength {
		case 0:
			f.Pen0 = 1
		case 2:
			f.Pen2 = 1
		case 4:
			f.Pen4 = 1
		case 5:
			f.Pen5 = 1
		case 10:
			f.Pen10 = 1
		}
	case pbp.TagChange:
		f.Change = 1
		switch ev.Change.ZoneStart {
		case pbp.ZoneOff:
			f.Ozc = 1
		case pbp.ZoneNeu:
			f.Nzc = 1
		case pbp.ZoneDef:
			f.Dzc = 1
		case pbp.ZoneOTF:
			f.Otf = 1
		}
	case pbp.TagStop:
		f.Stop = 1
	case pbp.TagChl:
		f.Chl = 1
	}
	ev.Flags = f
}

// decider marks the one shootout attempt that settles a regular-season game.
type decider struct {
	index int
	team  string
}

// shootoutDecider finds the decisive attempt of a regular-season shootout:
// the last goal, shot, or miss in period five, counted only when its team
// out-scored the other across the shootout.
func shootoutDecider(events []pbp.Event) *decider {
	last := -1
	goals := map[string]int{}
	for i := range events {
		ev := &events[i]
		if ev.Session != pbp.SessionRegular || ev.Period != 5 {
			continue
		}
		if ev.Event == pbp.TagGoal {
			goals[ev.EventTeam]++
		}
		if ev.Event == pbp.TagGoal || ev.Event == pbp.TagShot || ev.Event == pbp.TagMiss {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	team := events[last].EventTeam
	var other int
	for t, n := range goals {
		if t != team && n > other {
			other = n
		}
	}
	if goals[team] > other {
		return &decider{index: last, team: team}
	}
	return nil
}
