package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/slapshotlabs/rinkline/internal/names"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// apiTags maps the feed's typeDescKey values onto canonical tags.
var apiTags = map[string]pbp.Tag{
	"faceoff":             pbp.TagFac,
	"hit":                 pbp.TagHit,
	"giveaway":            pbp.TagGive,
	"takeaway":            pbp.TagTake,
	"shot-on-goal":        pbp.TagShot,
	"missed-shot":         pbp.TagMiss,
	"blocked-shot":        pbp.TagBlock,
	"goal":                pbp.TagGoal,
	"penalty":             pbp.TagPenl,
	"delayed-penalty":     pbp.TagDelPen,
	"stoppage":            pbp.TagStop,
	"period-start":        pbp.TagPstr,
	"period-end":          pbp.TagPend,
	"game-end":            pbp.TagGend,
	"shootout-complete":   pbp.TagSoc,
	"failed-shot-attempt": pbp.TagMiss,
}

// apiZones maps the feed's single-letter zone codes.
var apiZones = map[string]pbp.Zone{
	"O": pbp.ZoneOff,
	"N": pbp.ZoneNeu,
	"D": pbp.ZoneDef,
}

// APIEvents normalizes the game-center plays into canonical events. Player
// identity is resolved through the joined rosters; players the rosters do
// not know (the feed occasionally references them) fall back to the feed's
// own roster spots.
func APIEvents(gc *nhl.GameCenter, rosters []pbp.RosterPlayer) ([]pbp.Event, error) {
	session := pbp.SessionFromCode(gc.GameType)
	if session == "" {
		return nil, fmt.Errorf("game %d: unknown game type %d", gc.ID, gc.GameType)
	}

	byAPIID := make(map[int64]pbp.RosterPlayer, len(rosters))
	for _, r := range rosters {
		if r.APIID != 0 {
			byAPIID[r.APIID] = r
		}
	}
	spots := make(map[int64]nhl.RosterSpot, len(gc.RosterSpots))
	for _, s := range gc.RosterSpots {
		spots[s.PlayerID] = s
	}
	resolve := func(apiID int64, role string) pbp.EventPlayer {
		if apiID == 0 {
			return pbp.EventPlayer{}
		}
		if r, ok := byAPIID[apiID]; ok {
			return pbp.EventPlayer{
				Name: r.PlayerName, EhID: r.EhID, APIID: apiID,
				Jersey: r.Jersey, Position: r.Position, Role: role,
			}
		}
		if s, ok := spots[apiID]; ok {
			name := names.Normalize(s.FirstName.Default + " " + s.LastName.Default)
			return pbp.EventPlayer{
				Name: name, EhID: names.EhID(name, s.PositionCode, gc.Season),
				APIID: apiID, Jersey: s.SweaterNumber, Position: s.PositionCode, Role: role,
			}
		}
		return pbp.EventPlayer{APIID: apiID, Role: role}
	}

	plays := make([]nhl.Play, len(gc.Plays))
	copy(plays, gc.Plays)
	sort.SliceStable(plays, func(i, j int) bool { return plays[i].SortOrder < plays[j].SortOrder })

	events := make([]pbp.Event, 0, len(plays))
	for _, play := range plays {
		tag, ok := apiTags[play.TypeDescKey]
		if !ok {
			// Administrative rows the reports have no counterpart for.
			continue
		}
		secs, err := clockSeconds(play.TimeInPeriod)
		if err != nil {
			return nil, fmt.Errorf("game %d event %d: %w", gc.ID, play.EventID, err)
		}
		period := play.PeriodDescriptor.Number

		ev := pbp.Event{
			GameID:        gc.ID,
			Season:        gc.Season,
			Session:       session,
			GameDate:      gc.GameDate,
			EventIdxAPI:   play.SortOrder,
			Period:        period,
			PeriodSeconds: secs,
			GameSeconds:   pbp.GameSeconds(session, period, secs),
			Event:         tag,
			HomeTeam:      names.Team(gc.HomeTeam.Abbrev),
			AwayTeam:      names.Team(gc.AwayTeam.Abbrev),
		}

		d := play.Details
		if d == nil {
			events = append(events, ev)
			continue
		}
		if tag.HasTeam() {
			ev.EventTeam = names.Team(gc.TeamAbbrev(d.EventOwnerTeamID))
			if ev.EventTeam == ev.HomeTeam {
				ev.OppTeam, ev.IsHome = ev.AwayTeam, 1
			} else if ev.EventTeam == ev.AwayTeam {
				ev.OppTeam = ev.HomeTeam
			}
		}
		ev.CoordsX, ev.CoordsY = d.XCoord, d.YCoord
		if z, ok := apiZones[d.ZoneCode]; ok {
			if tag == pbp.TagBlock {
				// The feed records the blocker's zone; keep the shooter's.
				z = z.Flip()
			}
			ev.Zone = z
		}
		ev.ShotType = strings.ToUpper(d.ShotType)

		switch tag {
		case pbp.TagGoal:
			ev.Player1 = resolve(d.ScoringPlayerID, pbp.RoleGoalScorer)
			ev.Player2 = resolve(d.Assist1PlayerID, pbp.RolePrimaryAssist)
			ev.Player3 = resolve(d.Assist2PlayerID, pbp.RoleSecondaryAssist)
			ev.OppGoalie = resolve(d.GoalieInNetID, "")
		case pbp.TagShot, pbp.TagMiss:
			ev.Player1 = resolve(d.ShootingPlayerID, pbp.RoleShooter)
			ev.OppGoalie = resolve(d.GoalieInNetID, "")
		case pbp.TagBlock:
			if d.BlockingPlayerID == 0 {
				ev.Player1 = pbp.EventPlayer{Name: pbp.SentinelReferee, Role: pbp.RoleBlocker}
			} else {
				ev.Player1 = resolve(d.BlockingPlayerID, pbp.RoleBlocker)
			}
			ev.Player2 = resolve(d.ShootingPlayerID, pbp.RoleShooter)
		case pbp.TagHit:
			ev.Player1 = resolve(d.HittingPlayerID, pbp.RoleHitter)
			ev.Player2 = resolve(d.HitteePlayerID, pbp.RoleHittee)
		case pbp.TagFac:
			ev.Player1 = resolve(d.WinningPlayerID, pbp.RoleWinner)
			ev.Player2 = resolve(d.LosingPlayerID, pbp.RoleLoser)
		case pbp.TagGive:
			ev.Player1 = resolve(d.PlayerID, pbp.RoleGiver)
		case pbp.TagTake:
			ev.Player1 = resolve(d.PlayerID, pbp.RoleTaker)
		case pbp.TagPenl:
			ev.Penalty = strings.ToUpper(strings.ReplaceAll(d.DescKey, "-", " "))
			ev.PenaltyLength = d.Duration
			if d.CommittedByID == 0 {
				ev.Player1 = pbp.EventPlayer{Name: pbp.SentinelBench, Role: pbp.RoleCommittedBy}
				ev.Player2 = resolve(d.ServedByID, pbp.RoleServedBy)
			} else {
				ev.Player1 = resolve(d.CommittedByID, pbp.RoleCommittedBy)
				ev.Player2 = resolve(d.DrawnByID, pbp.RoleDrawnBy)
				ev.Player3 = resolve(d.ServedByID, pbp.RoleServedBy)
			}
		}
		events = append(events, ev)
	}

	assignVersions(events, func(e *pbp.Event) string {
		return fmt.Sprintf("%d|%s|%d|%d", e.Period, e.Event, e.GameSeconds, e.Player1.APIID)
	})
	return events, nil
}

// assignVersions numbers events that share a bucket key 1..n in stream
// order, so the two feeds can be matched event-for-event even when a player
// repeats an action within the same second.
func assignVersions(events []pbp.Event, key func(*pbp.Event) string) {
	seen := make(map[string]int)
	for i := range events {
		k := key(&events[i])
		seen[k]++
		events[i].Version = seen[k]
	}
}
