package export

import (
	"fmt"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// maxSkaterCols is the widest on-ice skater group the table carries.
const maxSkaterCols = 6

// EventFrame renders the reconciled stream as one flat table, one event per
// row, with the on-ice snapshots widened into numbered columns.
func EventFrame(events []pbp.Event) *Frame {
	f := NewFrame()
	for i := range events {
		ev := &events[i]
		f.Next()

		f.Int("game_id", int64(ev.GameID))
		f.Int("season", int64(ev.Season))
		f.Str("session", string(ev.Session))
		f.Str("game_date", ev.GameDate)
		f.Int("event_idx", int64(ev.EventIdx))
		f.IntOrNull("event_idx_api", int64(ev.EventIdxAPI))
		f.Int("period", int64(ev.Period))
		f.Int("period_seconds", int64(ev.PeriodSeconds))
		f.Int("game_seconds", int64(ev.GameSeconds))
		f.Str("event", string(ev.Event))
		f.Str("description", ev.Description)
		f.Str("event_team", ev.EventTeam)
		f.Str("opp_team", ev.OppTeam)
		f.Str("home_team", ev.HomeTeam)
		f.Str("away_team", ev.AwayTeam)
		f.Int("is_home", int64(ev.IsHome))
		f.Str("zone", string(ev.Zone))
		f.IntPtr("coords_x", ev.CoordsX)
		f.IntPtr("coords_y", ev.CoordsY)

		playerColumns(f, "player_1", &ev.Player1)
		playerColumns(f, "player_2", &ev.Player2)
		playerColumns(f, "player_3", &ev.Player3)
		f.Goalie("opp_goalie", ev.OppGoalie.Name)
		f.Str("opp_goalie_eh_id", ev.OppGoalie.EhID)
		f.IntOrNull("opp_goalie_api_id", ev.OppGoalie.APIID)

		f.Str("shot_type", ev.ShotType)
		f.FloatPtr("pbp_distance", ev.PBPDistance)
		f.FloatPtr("event_distance", ev.EventDistance)
		f.FloatPtr("event_angle", ev.EventAngle)
		f.Int("danger", int64(ev.Danger))
		f.Int("high_danger", int64(ev.HighDanger))

		f.Str("penalty", ev.Penalty)
		f.IntOrNull("penalty_length", int64(ev.PenaltyLength))

		f.Str("strength_state", ev.StrengthState)
		f.Str("score_state", ev.ScoreState)
		f.Int("score_diff", int64(ev.ScoreDiff))
		f.Int("home_score", int64(ev.HomeScore))
		f.Int("away_score", int64(ev.AwayScore))

		onIceColumns(f, "home", &ev.HomeOn)
		onIceColumns(f, "away", &ev.AwayOn)
		f.Int("home_skaters", int64(ev.HomeOn.Skaters()))
		f.Int("away_skaters", int64(ev.AwayOn.Skaters()))

		f.Int("version", int64(ev.Version))
		f.Int("sort_value", int64(ev.SortValue))
		f.Int("event_length", int64(ev.EventLength))
		f.FloatPtr("xg", ev.XG)

		flagColumns(f, &ev.Flags)
	}
	return f
}

func playerColumns(f *Frame, prefix string, p *pbp.EventPlayer) {
	f.Str(prefix, p.Name)
	f.Str(prefix+"_eh_id", p.EhID)
	f.IntOrNull(prefix+"_api_id", p.APIID)
	f.Str(prefix+"_position", p.Position)
	f.Str(prefix+"_type", p.Role)
}

// onIceColumns widens one side's snapshot: skaters into numbered eh_id
// columns, the goalie into its own with the empty-net default.
func onIceColumns(f *Frame, prefix string, side *pbp.OnIceSide) {
	ids := make([]string, 0, maxSkaterCols)
	ids = append(ids, side.ForwardsEhID...)
	ids = append(ids, side.DefenseEhID...)
	for i := 0; i < maxSkaterCols; i++ {
		v := ""
		if i < len(ids) {
			v = ids[i]
		}
		f.Str(fmt.Sprintf("%s_on_%d", prefix, i+1), v)
	}
	goalie := ""
	if len(side.GoaliesEhID) > 0 {
		goalie = side.GoaliesEhID[0]
	}
	f.Goalie(prefix+"_goalie", goalie)
}

func flagColumns(f *Frame, fl *pbp.Flags) {
	f.Int("shot", int64(fl.Shot))
	f.Int("fenwick", int64(fl.Fenwick))
	f.Int("corsi", int64(fl.Corsi))
	f.Int("block", int64(fl.Block))
	f.Int("miss", int64(fl.Miss))
	f.Int("goal", int64(fl.Goal))
	f.Int("hit", int64(fl.Hit))
	f.Int("give", int64(fl.Give))
	f.Int("take", int64(fl.Take))
	f.Int("fac", int64(fl.Fac))
	f.Int("penl", int64(fl.Penl))
	f.Int("change", int64(fl.Change))
	f.Int("stop", int64(fl.Stop))
	f.Int("chl", int64(fl.Chl))
	f.Int("ozf", int64(fl.Ozf))
	f.Int("nzf", int64(fl.Nzf))
	f.Int("dzf", int64(fl.Dzf))
	f.Int("ozc", int64(fl.Ozc))
	f.Int("nzc", int64(fl.Nzc))
	f.Int("dzc", int64(fl.Dzc))
	f.Int("otf", int64(fl.Otf))
	f.Int("pen0", int64(fl.Pen0))
	f.Int("pen2", int64(fl.Pen2))
	f.Int("pen4", int64(fl.Pen4))
	f.Int("pen5", int64(fl.Pen5))
	f.Int("pen10", int64(fl.Pen10))
}
