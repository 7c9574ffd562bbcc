package nhl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func testClient(apiBase, htmlBase string) *Client {
	c := NewClient(apiBase, htmlBase, 60000, nil)
	c.backoff = 0
	return c
}

func TestGameCenter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gamecenter/2019020684/play-by-play" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 2019020684,
			"season": 20192020,
			"gameType": 2,
			"gameDate": "2020-01-09",
			"homeTeam": {"id": 25, "abbrev": "DAL"},
			"awayTeam": {"id": 18, "abbrev": "NSH"},
			"rosterSpots": [
				{"teamId": 18, "playerId": 8471469, "firstName": {"default": "Pekka"},
				 "lastName": {"default": "Rinne"}, "sweaterNumber": 35, "positionCode": "G"}
			],
			"plays": [
				{"eventId": 102, "periodDescriptor": {"number": 1, "periodType": "REG"},
				 "timeInPeriod": "00:00", "situationCode": "1551", "typeDescKey": "period-start",
				 "sortOrder": 7}
			]
		}`))
	}))
	defer srv.Close()

	gc, err := testClient(srv.URL, "").GameCenter(context.Background(), 2019020684)
	if err != nil {
		t.Fatalf("GameCenter: %v", err)
	}
	if gc.HomeTeam.Abbrev != "DAL" || gc.AwayTeam.Abbrev != "NSH" {
		t.Errorf("teams = %s/%s; want DAL/NSH", gc.HomeTeam.Abbrev, gc.AwayTeam.Abbrev)
	}
	if len(gc.RosterSpots) != 1 || gc.RosterSpots[0].PlayerID != 8471469 {
		t.Errorf("roster spots = %+v", gc.RosterSpots)
	}
	if len(gc.Plays) != 1 || gc.Plays[0].TypeDescKey != "period-start" {
		t.Errorf("plays = %+v", gc.Plays)
	}
	if got := gc.TeamAbbrev(18); got != "NSH" {
		t.Errorf("TeamAbbrev(18) = %q; want NSH", got)
	}
}

func TestReportPathAndLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/20192020/PL020684.HTM" {
			t.Errorf("path = %q", r.URL.Path)
		}
		// Latin-1 O-umlaut, invalid as a UTF-8 sequence.
		w.Write([]byte{'L', 0xd6, 'V'})
	}))
	defer srv.Close()

	body, err := testClient("", srv.URL).Report(context.Background(), ReportPlays, 2019020684)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if got := string(body); got != "LÖV" {
		t.Errorf("decoded body = %q; want %q", got, "LÖV")
	}
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testClient(srv.URL, srv.URL).get(context.Background(), srv.URL+"/x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q; want ok", body)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d; want 3", calls.Load())
	}
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, srv.URL).get(context.Background(), srv.URL+"/x")
	if err == nil {
		t.Fatal("get: want error after exhausting retries")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 503 {
		t.Errorf("err = %v; want StatusError 503", err)
	}
	if calls.Load() != maxRetries+1 {
		t.Errorf("calls = %d; want %d", calls.Load(), maxRetries+1)
	}
}

func TestGetDoesNotRetryTerminalStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, srv.URL).get(context.Background(), srv.URL+"/x")
	if err == nil {
		t.Fatal("get: want error on 418")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d; want 1 (418 is not retryable)", calls.Load())
	}
}

func TestGetHonorsContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(srv.URL, srv.URL).get(ctx, srv.URL+"/x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v; want context.Canceled", err)
	}
}

func TestStandings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/standings/") {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"standings": [
			{"teamAbbrev": {"default": "BOS"}, "gamesPlayed": 82, "wins": 65, "points": 135}
		]}`))
	}))
	defer srv.Close()

	s, err := testClient(srv.URL, "").Standings(context.Background(), "2023-04-14")
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(s.Standings) != 1 || s.Standings[0].TeamAbbrev.Default != "BOS" {
		t.Errorf("standings = %+v", s.Standings)
	}
}
