// Package schedule maps the league's schedule and standings feeds onto flat
// records: game identity with Eastern dates, and standings rows.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/slapshotlabs/rinkline/internal/names"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// Game is one scheduled game. Dates and start times are Eastern, the
// league's reference clock.
type Game struct {
	GameID      int         `json:"game_id"`
	Season      int         `json:"season"`
	Session     pbp.Session `json:"session"`
	GameDate    string      `json:"game_date"`
	StartTimeET string      `json:"start_time_et"`
	HomeTeam    string      `json:"home_team"`
	AwayTeam    string      `json:"away_team"`
	HomeScore   int         `json:"home_score"`
	AwayScore   int         `json:"away_score"`
	Venue       string      `json:"venue"`
	GameState   string      `json:"game_state"`
}

// Finished reports whether the game has gone final.
func (g Game) Finished() bool {
	return g.GameState == "OFF" || g.GameState == "FINAL"
}

var eastern = mustLoadEastern()

func mustLoadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(fmt.Sprintf("load America/New_York: %v", err))
	}
	return loc
}

// FromScheduleGame maps one feed game onto a record. The feed's gameDate is
// already Eastern; the start time needs converting from UTC.
func FromScheduleGame(sg nhl.ScheduleGame) Game {
	g := Game{
		GameID:    sg.ID,
		Season:    sg.Season,
		Session:   pbp.SessionFromCode(sg.GameType),
		GameDate:  sg.GameDate,
		HomeTeam:  names.Team(sg.HomeTeam.Abbrev),
		AwayTeam:  names.Team(sg.AwayTeam.Abbrev),
		HomeScore: sg.HomeTeam.Score,
		AwayScore: sg.AwayTeam.Score,
		Venue:     sg.Venue.Default,
		GameState: sg.GameState,
	}
	if t, err := time.Parse(time.RFC3339, sg.StartTimeUTC); err == nil {
		et := t.In(eastern)
		g.StartTimeET = et.Format("15:04")
		if g.GameDate == "" {
			g.GameDate = et.Format("2006-01-02")
		}
	}
	return g
}

// Week fetches the week of games starting at date (YYYY-MM-DD).
func Week(ctx context.Context, client *nhl.Client, date string) ([]Game, error) {
	s, err := client.Schedule(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule week: %w", err)
	}
	var games []Game
	for _, day := range s.GameWeek {
		for _, sg := range day.Games {
			games = append(games, FromScheduleGame(sg))
		}
	}
	sortGames(games)
	return games, nil
}

// Season fetches one team's full season schedule.
func Season(ctx context.Context, client *nhl.Client, team string, season int) ([]Game, error) {
	s, err := client.ClubSchedule(ctx, team, season)
	if err != nil {
		return nil, fmt.Errorf("fetch club schedule: %w", err)
	}
	games := make([]Game, 0, len(s.Games))
	for _, sg := range s.Games {
		games = append(games, FromScheduleGame(sg))
	}
	sortGames(games)
	return games, nil
}

func sortGames(games []Game) {
	sort.Slice(games, func(i, j int) bool {
		if games[i].GameDate != games[j].GameDate {
			return games[i].GameDate < games[j].GameDate
		}
		return games[i].GameID < games[j].GameID
	})
}

// GameIDs returns the IDs of the games in a session, finished games only
// when finishedOnly is set. An empty session keeps every session.
func GameIDs(games []Game, session pbp.Session, finishedOnly bool) []int {
	var ids []int
	for _, g := range games {
		if session != "" && g.Session != session {
			continue
		}
		if finishedOnly && !g.Finished() {
			continue
		}
		ids = append(ids, g.GameID)
	}
	return ids
}
