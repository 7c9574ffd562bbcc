package schedule

import (
	"context"
	"fmt"

	"github.com/slapshotlabs/rinkline/internal/names"
	"github.com/slapshotlabs/rinkline/internal/nhl"
)

// StandingsRow is one team's line in the standings table.
type StandingsRow struct {
	Team           string  `json:"team"`
	TeamName       string  `json:"team_name"`
	Conference     string  `json:"conference"`
	Division       string  `json:"division"`
	GamesPlayed    int     `json:"games_played"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	OTLosses       int     `json:"ot_losses"`
	Points         int     `json:"points"`
	PointsPercent  float64 `json:"points_percent"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
	Streak         string  `json:"streak"`
}

// FromStandingsTeam maps one feed row onto a record.
func FromStandingsTeam(st nhl.StandingsTeam) StandingsRow {
	r := StandingsRow{
		Team:           names.Team(st.TeamAbbrev.Default),
		TeamName:       st.TeamName.Default,
		Conference:     st.Conference,
		Division:       st.Division,
		GamesPlayed:    st.GamesPlayed,
		Wins:           st.Wins,
		Losses:         st.Losses,
		OTLosses:       st.OTLosses,
		Points:         st.Points,
		GoalsFor:       st.GoalsFor,
		GoalsAgainst:   st.GoalsAgainst,
		GoalDifference: st.GoalDifference,
	}
	if st.GamesPlayed > 0 {
		r.PointsPercent = float64(st.Points) / float64(2*st.GamesPlayed)
	}
	if st.StreakCode != "" && st.StreakCount > 0 {
		r.Streak = fmt.Sprintf("%s%d", st.StreakCode, st.StreakCount)
	}
	return r
}

// Standings fetches the standings as of date (YYYY-MM-DD). Rows keep the
// feed's order, points descending.
func Standings(ctx context.Context, client *nhl.Client, date string) ([]StandingsRow, error) {
	s, err := client.Standings(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}
	rows := make([]StandingsRow, 0, len(s.Standings))
	for _, st := range s.Standings {
		rows = append(rows, FromStandingsTeam(st))
	}
	return rows, nil
}
