package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slapshotlabs/rinkline/internal/config"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/scraper"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	// The feed server knows no games; handlers must map that cleanly.
	feeds := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(feeds.Close)

	client := nhl.NewClient(feeds.URL, feeds.URL, 60000, nil).WithBackoff(0)
	s := scraper.New(client, nil)
	cfg := &config.Config{
		CORSAllowOrigins:  []string{"*"},
		RateLimitEnabled:  true,
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
	}
	return NewRouter(s, client, cfg, nil)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v; want healthy", body["status"])
	}
	if rec.Header().Get("X-Process-Time") == "" {
		t.Error("missing X-Process-Time header")
	}
}

func TestGamesListEmpty(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var body struct {
		Games []int `json:"games"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Games) != 0 {
		t.Errorf("games = %v; want empty", body.Games)
	}
}

func TestBadGameID(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games/nope/pbp", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
}

func TestUnknownGameMapsTo404(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games/2023029999/pbp", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "GAME_NOT_FOUND" {
		t.Errorf("error code = %q; want GAME_NOT_FOUND", body.Error.Code)
	}
}

func TestRateLimitKicksIn(t *testing.T) {
	feeds := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer feeds.Close()

	client := nhl.NewClient(feeds.URL, feeds.URL, 60000, nil).WithBackoff(0)
	cfg := &config.Config{
		RateLimitEnabled:  true,
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	}
	router := NewRouter(scraper.New(client, nil), client, cfg, nil)

	var last int
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("fifth request status = %d; want 429", last)
	}
}
