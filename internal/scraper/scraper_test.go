package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

const (
	testGameID     = 2023020001
	unplayedGameID = 2023020002
	missingGameID  = 2023020003
)

// gameCenterJSON is the feed side of the fixture game: TOR hosting MTL, a
// faceoff, a goal, and the period bookends.
const gameCenterJSON = `{
	"id": 2023020001,
	"season": 20232024,
	"gameType": 2,
	"gameDate": "2023-10-10",
	"homeTeam": {"id": 10, "abbrev": "TOR"},
	"awayTeam": {"id": 8, "abbrev": "MTL"},
	"rosterSpots": [
		{"teamId": 10, "playerId": 8479318, "firstName": {"default": "Auston"}, "lastName": {"default": "Matthews"}, "sweaterNumber": 34, "positionCode": "C"},
		{"teamId": 10, "playerId": 8478483, "firstName": {"default": "Mitch"}, "lastName": {"default": "Marner"}, "sweaterNumber": 16, "positionCode": "R"},
		{"teamId": 10, "playerId": 8476853, "firstName": {"default": "Morgan"}, "lastName": {"default": "Rielly"}, "sweaterNumber": 44, "positionCode": "D"},
		{"teamId": 10, "playerId": 8479361, "firstName": {"default": "Joseph"}, "lastName": {"default": "Woll"}, "sweaterNumber": 60, "positionCode": "G"},
		{"teamId": 8, "playerId": 8480018, "firstName": {"default": "Nick"}, "lastName": {"default": "Suzuki"}, "sweaterNumber": 14, "positionCode": "C"},
		{"teamId": 8, "playerId": 8479026, "firstName": {"default": "Mike"}, "lastName": {"default": "Matheson"}, "sweaterNumber": 8, "positionCode": "D"},
		{"teamId": 8, "playerId": 8482964, "firstName": {"default": "Arber"}, "lastName": {"default": "Xhekaj"}, "sweaterNumber": 54, "positionCode": "D"},
		{"teamId": 8, "playerId": 8480051, "firstName": {"default": "Sam"}, "lastName": {"default": "Montembeault"}, "sweaterNumber": 35, "positionCode": "G"}
	],
	"plays": [
		{"eventId": 9, "periodDescriptor": {"number": 1, "periodType": "REG"},
		 "timeInPeriod": "00:00", "typeDescKey": "period-start", "sortOrder": 7},
		{"eventId": 10, "periodDescriptor": {"number": 1, "periodType": "REG"},
		 "timeInPeriod": "00:00", "typeDescKey": "faceoff", "sortOrder": 10,
		 "details": {"eventOwnerTeamId": 10, "xCoord": 0, "yCoord": 0, "zoneCode": "N",
		  "winningPlayerId": 8479318, "losingPlayerId": 8480018}},
		{"eventId": 55, "periodDescriptor": {"number": 1, "periodType": "REG"},
		 "timeInPeriod": "10:00", "typeDescKey": "goal", "sortOrder": 80,
		 "details": {"eventOwnerTeamId": 10, "xCoord": 80, "yCoord": 2, "zoneCode": "O",
		  "shotType": "wrist", "scoringPlayerId": 8479318, "assist1PlayerId": 8478483,
		  "goalieInNetId": 8480051}},
		{"eventId": 99, "periodDescriptor": {"number": 1, "periodType": "REG"},
		 "timeInPeriod": "20:00", "typeDescKey": "period-end", "sortOrder": 200}
	]
}`

func rosterRow(jersey int, pos, name string, starter bool) string {
	cls := ""
	if starter {
		cls = ` class="bold"`
	}
	return fmt.Sprintf(`<tr><td%s>%d</td><td%s>%s</td><td%s>%s</td></tr>`,
		cls, jersey, cls, pos, cls, name)
}

// roReport lays out the away then home dressed tables the way the report
// does.
func roReport() string {
	away := rosterRow(14, "C", "NICK SUZUKI", true) +
		rosterRow(8, "D", "MIKE MATHESON", true) +
		rosterRow(54, "D", "ARBER XHEKAJ", false) +
		rosterRow(35, "G", "SAM MONTEMBEAULT", true)
	home := rosterRow(34, "C", "AUSTON MATTHEWS", true) +
		rosterRow(16, "R", "MITCH MARNER", true) +
		rosterRow(44, "D", "MORGAN RIELLY", false) +
		rosterRow(60, "G", "JOSEPH WOLL", true)
	return `<html><body><table>` + away + `</table><table>` + home + `</table></body></html>`
}

func plRow(idx int, period, strength, elapsed, remaining, event, desc string) string {
	return fmt.Sprintf(`<tr class="evenColor">
<td class="bborder">%d</td>
<td class="bborder">%s</td>
<td class="bborder">%s</td>
<td class="bborder">%s<br>%s</td>
<td class="bborder">%s</td>
<td class="bborder">%s</td>
<td class="bborder"><table><tr><td>14</td></tr><tr><td>C</td></tr></table></td>
<td class="bborder"><table><tr><td>34</td></tr><tr><td>C</td></tr></table></td>
</tr>`, idx, period, strength, elapsed, remaining, event, desc)
}

func plReport() string {
	rows := []string{
		plRow(1, "1", "", "0:00", "20:00", "PSTR", "PERIOD START- LOCAL TIME: 7:08 EDT"),
		plRow(2, "1", "EV", "0:00", "20:00", "FAC", "TOR WON NEU. ZONE - MTL #14 SUZUKI VS TOR #34 MATTHEWS"),
		plRow(3, "1", "EV", "10:00", "10:00", "GOAL", "TOR #34 MATTHEWS(1), WRIST, OFF. ZONE, 12 FT. ASSISTS: #16 MARNER(1)"),
		plRow(4, "1", "", "20:00", "0:00", "PEND", "PERIOD END- LOCAL TIME: 7:45 EDT"),
	}
	return `<html><body><table>` + strings.Join(rows, "\n") + `</table></body></html>`
}

func shiftBlock(heading string, rows ...string) string {
	out := `<tr><td>` + heading + `</td></tr>`
	for _, r := range rows {
		out += r
	}
	return out
}

func shiftRow(count int, period, start, end, dur string) string {
	return fmt.Sprintf(`<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
		count, period, start, end, dur)
}

func shiftReport(blocks ...string) string {
	return `<html><body><table>` + strings.Join(blocks, "\n") + `</table></body></html>`
}

func thReport() string {
	full := shiftRow(1, "1", "0:00", "20:00", "20:00")
	return shiftReport(
		shiftBlock("34 MATTHEWS, AUSTON", full),
		shiftBlock("16 MARNER, MITCH", full),
		shiftBlock("44 RIELLY, MORGAN", full),
		shiftBlock("60 WOLL, JOSEPH", full),
	)
}

func tvReport() string {
	full := shiftRow(1, "1", "0:00", "20:00", "20:00")
	return shiftReport(
		shiftBlock("14 SUZUKI, NICK", full),
		shiftBlock("8 MATHESON, MIKE", full),
		shiftBlock("54 XHEKAJ, ARBER", full),
		shiftBlock("35 MONTEMBEAULT, SAM", full),
	)
}

// fixtureServer serves both feeds for the fixture game and counts requests.
func fixtureServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case fmt.Sprintf("/gamecenter/%d/play-by-play", testGameID):
			w.Write([]byte(gameCenterJSON))
		case fmt.Sprintf("/gamecenter/%d/play-by-play", unplayedGameID):
			w.Write([]byte(`{"id": 2023020002, "season": 20232024, "gameType": 2,
				"homeTeam": {"id": 10, "abbrev": "TOR"}, "awayTeam": {"id": 8, "abbrev": "MTL"},
				"plays": []}`))
		case "/20232024/RO020001.HTM":
			w.Write([]byte(roReport()))
		case "/20232024/PL020001.HTM":
			w.Write([]byte(plReport()))
		case "/20232024/TH020001.HTM":
			w.Write([]byte(thReport()))
		case "/20232024/TV020001.HTM":
			w.Write([]byte(tvReport()))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testScraper(srv *httptest.Server) *Scraper {
	client := nhl.NewClient(srv.URL, srv.URL, 60000, nil).WithBackoff(0)
	return New(client, nil)
}

func TestPlayByPlayPipeline(t *testing.T) {
	srv, _ := fixtureServer(t)
	s := testScraper(srv)

	events, err := s.PlayByPlay(context.Background(), testGameID)
	if err != nil {
		t.Fatalf("PlayByPlay: %v", err)
	}

	var fac, goal *pbp.Event
	changes := 0
	for i := range events {
		switch events[i].Event {
		case pbp.TagFac:
			fac = &events[i]
		case pbp.TagGoal:
			goal = &events[i]
		case pbp.TagChange:
			changes++
		}
	}
	if fac == nil || goal == nil {
		t.Fatalf("stream missing faceoff or goal: %d events", len(events))
	}
	if changes == 0 {
		t.Error("stream has no change events")
	}

	// The faceoff pairs across feeds: coordinates come from the JSON side.
	if fac.CoordsX == nil || fac.CoordsY == nil {
		t.Error("faceoff not reconciled: no coordinates")
	}
	if fac.Player1.EhID != "AUSTON.MATTHEWS" || fac.Player1.APIID != 8479318 {
		t.Errorf("faceoff winner = %q api %d; want AUSTON.MATTHEWS 8479318",
			fac.Player1.EhID, fac.Player1.APIID)
	}

	if goal.CoordsX == nil || *goal.CoordsX != 80 {
		t.Errorf("goal coords_x = %v; want 80", goal.CoordsX)
	}
	if goal.OppGoalie.EhID != "SAM.MONTEMBEAULT" {
		t.Errorf("goal opp goalie = %q; want SAM.MONTEMBEAULT", goal.OppGoalie.EhID)
	}
	if goal.StrengthState == "" || goal.ScoreState == "" {
		t.Errorf("goal states = %q/%q; want both stamped", goal.StrengthState, goal.ScoreState)
	}
	if goal.Flags.Goal != 1 || goal.Flags.Corsi != 1 {
		t.Errorf("goal flags = %+v; want goal and corsi set", goal.Flags)
	}
	if goal.HomeOn.Skaters() == 0 || goal.AwayOn.Skaters() == 0 {
		t.Error("goal has empty on-ice sides")
	}
}

func TestArtifactsStored(t *testing.T) {
	srv, _ := fixtureServer(t)
	s := testScraper(srv)

	if _, err := s.PlayByPlay(context.Background(), testGameID); err != nil {
		t.Fatalf("PlayByPlay: %v", err)
	}

	meta, ok := s.Meta(testGameID)
	if !ok || meta.HomeTeam != "TOR" || meta.AwayTeam != "MTL" {
		t.Errorf("meta = %+v ok=%v; want TOR/MTL", meta, ok)
	}
	rosters, ok := s.Rosters(testGameID)
	if !ok || len(rosters) != 8 {
		t.Errorf("rosters = %d ok=%v; want 8", len(rosters), ok)
	}
	shifts, ok := s.Shifts(testGameID)
	if !ok || len(shifts) != 8 {
		t.Errorf("shifts = %d ok=%v; want 8", len(shifts), ok)
	}
	if ch, ok := s.Changes(testGameID); !ok || len(ch) == 0 {
		t.Errorf("changes = %d ok=%v; want some", len(ch), ok)
	}
	if ids := s.ScrapedGames(); len(ids) != 1 || ids[0] != testGameID {
		t.Errorf("scraped games = %v; want [%d]", ids, testGameID)
	}
}

func TestPlayByPlayCaches(t *testing.T) {
	srv, calls := fixtureServer(t)
	s := testScraper(srv)

	if _, err := s.PlayByPlay(context.Background(), testGameID); err != nil {
		t.Fatalf("PlayByPlay: %v", err)
	}
	after := calls.Load()
	if _, err := s.PlayByPlay(context.Background(), testGameID); err != nil {
		t.Fatalf("PlayByPlay (cached): %v", err)
	}
	if calls.Load() != after {
		t.Errorf("second call refetched: %d -> %d requests", after, calls.Load())
	}
}

func TestGamesBatch(t *testing.T) {
	srv, _ := fixtureServer(t)
	s := testScraper(srv)

	result := s.Games(context.Background(), []int{testGameID, unplayedGameID, missingGameID}, 2)
	if result.GamesRequested != 3 {
		t.Errorf("requested = %d; want 3", result.GamesRequested)
	}
	if result.GamesScraped != 1 {
		t.Errorf("scraped = %d; want 1", result.GamesScraped)
	}
	if result.GamesSkipped != 2 {
		t.Errorf("skipped = %d; want 2 (unplayed and missing)", result.GamesSkipped)
	}
	if result.GamesFailed != 0 {
		t.Errorf("failed = %d; want 0: %v", result.GamesFailed, result.Errors)
	}
	if result.Events == 0 {
		t.Error("batch counted no events")
	}
	if s := result.Summary(); !strings.Contains(s, "scraped=1") {
		t.Errorf("summary = %q; want scraped=1", s)
	}
}

func TestUnplayedGameError(t *testing.T) {
	srv, _ := fixtureServer(t)
	s := testScraper(srv)

	_, err := s.PlayByPlay(context.Background(), unplayedGameID)
	if !errors.Is(err, ErrUnplayedGame) {
		t.Errorf("err = %v; want ErrUnplayedGame", err)
	}
}

func TestMissingGameError(t *testing.T) {
	srv, _ := fixtureServer(t)
	s := testScraper(srv)

	_, err := s.PlayByPlay(context.Background(), missingGameID)
	if !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v; want ErrGameNotFound", err)
	}
}
