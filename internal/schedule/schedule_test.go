package schedule

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

func TestFromScheduleGame(t *testing.T) {
	g := FromScheduleGame(nhl.ScheduleGame{
		ID:           2023020001,
		Season:       20232024,
		GameType:     2,
		GameDate:     "2023-10-10",
		StartTimeUTC: "2023-10-10T23:00:00Z",
		Venue:        nhl.LocalizedString{Default: "Scotiabank Arena"},
		GameState:    "OFF",
		HomeTeam:     nhl.TeamInfo{Abbrev: "TOR", Score: 3},
		AwayTeam:     nhl.TeamInfo{Abbrev: "MTL", Score: 2},
	})
	if g.Session != pbp.SessionRegular {
		t.Errorf("session = %s; want R", g.Session)
	}
	if g.GameDate != "2023-10-10" {
		t.Errorf("game_date = %q; want 2023-10-10", g.GameDate)
	}
	// 23:00 UTC is 19:00 Eastern during daylight saving.
	if g.StartTimeET != "19:00" {
		t.Errorf("start_time_et = %q; want 19:00", g.StartTimeET)
	}
	if g.HomeTeam != "TOR" || g.AwayTeam != "MTL" {
		t.Errorf("teams = %s/%s; want TOR/MTL", g.HomeTeam, g.AwayTeam)
	}
	if !g.Finished() {
		t.Error("OFF game should be finished")
	}
}

func TestFromScheduleGameDateFallsBackToEastern(t *testing.T) {
	// A late UTC start is still the previous calendar day Eastern.
	g := FromScheduleGame(nhl.ScheduleGame{
		ID:           2023020100,
		GameType:     2,
		StartTimeUTC: "2023-11-02T02:00:00Z",
	})
	if g.GameDate != "2023-11-01" {
		t.Errorf("game_date = %q; want 2023-11-01 (Eastern)", g.GameDate)
	}
}

func TestFromScheduleGameTeamOverride(t *testing.T) {
	g := FromScheduleGame(nhl.ScheduleGame{ID: 2015020001, GameType: 2,
		HomeTeam: nhl.TeamInfo{Abbrev: "L.A"}})
	if g.HomeTeam != "LAK" {
		t.Errorf("home_team = %q; want LAK canonicalized", g.HomeTeam)
	}
}

func TestGameIDsFilters(t *testing.T) {
	games := []Game{
		{GameID: 2023010001, Session: pbp.SessionPreseason, GameState: "OFF"},
		{GameID: 2023020001, Session: pbp.SessionRegular, GameState: "OFF"},
		{GameID: 2023020002, Session: pbp.SessionRegular, GameState: "FUT"},
		{GameID: 2023030111, Session: pbp.SessionPlayoffs, GameState: "FINAL"},
	}
	if got := GameIDs(games, pbp.SessionRegular, false); len(got) != 2 {
		t.Errorf("regular ids = %v; want 2", got)
	}
	if got := GameIDs(games, pbp.SessionRegular, true); len(got) != 1 || got[0] != 2023020001 {
		t.Errorf("finished regular ids = %v; want [2023020001]", got)
	}
	if got := GameIDs(games, "", true); len(got) != 3 {
		t.Errorf("all finished ids = %v; want 3", got)
	}
}

func TestWeekFlattensDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule/2023-10-10" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"gameWeek": [
			{"date": "2023-10-10", "games": [
				{"id": 2023020002, "gameType": 2, "gameDate": "2023-10-10",
				 "homeTeam": {"abbrev": "PIT"}, "awayTeam": {"abbrev": "CHI"}}
			]},
			{"date": "2023-10-11", "games": [
				{"id": 2023020005, "gameType": 2, "gameDate": "2023-10-11",
				 "homeTeam": {"abbrev": "TOR"}, "awayTeam": {"abbrev": "MTL"}}
			]}
		]}`))
	}))
	defer srv.Close()

	client := nhl.NewClient(srv.URL, "", 60000, nil).WithBackoff(0)
	games, err := Week(context.Background(), client, "2023-10-10")
	if err != nil {
		t.Fatalf("Week: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games; want 2", len(games))
	}
	if games[0].GameID != 2023020002 || games[1].GameID != 2023020005 {
		t.Errorf("order = %d,%d; want date order", games[0].GameID, games[1].GameID)
	}
}

func TestStandingsMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"standings": [
			{"teamAbbrev": {"default": "BOS"}, "teamName": {"default": "Boston Bruins"},
			 "conferenceName": "Eastern", "divisionName": "Atlantic",
			 "gamesPlayed": 82, "wins": 65, "losses": 12, "otLosses": 5,
			 "points": 135, "goalFor": 305, "goalAgainst": 177,
			 "goalDifferential": 128, "streakCode": "W", "streakCount": 4}
		]}`))
	}))
	defer srv.Close()

	client := nhl.NewClient(srv.URL, "", 60000, nil).WithBackoff(0)
	rows, err := Standings(context.Background(), client, "2023-04-14")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows; want 1", len(rows))
	}
	r := rows[0]
	if r.Team != "BOS" || r.Points != 135 {
		t.Errorf("row = %+v", r)
	}
	if want := 135.0 / 164.0; math.Abs(r.PointsPercent-want) > 1e-9 {
		t.Errorf("points_percent = %v; want %v", r.PointsPercent, want)
	}
	if r.Streak != "W4" {
		t.Errorf("streak = %q; want W4", r.Streak)
	}
}
