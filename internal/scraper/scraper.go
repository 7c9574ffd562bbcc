// Package scraper drives the per-game pipeline: fetch both feeds, parse,
// apply registered fixes, reconcile, and reconstruct the on-ice stream.
// Intermediate artifacts are memoized per game so a batch run touches each
// feed once, and the aggregate views read from the same store.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/slapshotlabs/rinkline/internal/fixes"
	"github.com/slapshotlabs/rinkline/internal/merge"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/parse"
	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// ErrGameNotFound marks a game the feeds have no record of.
var ErrGameNotFound = errors.New("game not found")

// ErrUnplayedGame marks a scheduled game with no play-by-play yet.
var ErrUnplayedGame = errors.New("game has no plays yet")

// store memoizes every per-game artifact. Writes happen once per game;
// reads dominate after that.
type store struct {
	mu          sync.RWMutex
	meta        map[int]parse.GameMeta
	apiRosters  map[int][]pbp.RosterPlayer
	htmlRosters map[int][]pbp.RosterPlayer
	rosters     map[int][]pbp.RosterPlayer
	shifts      map[int][]pbp.Shift
	changes     map[int][]pbp.Change
	htmlEvents  map[int][]pbp.Event
	apiEvents   map[int][]pbp.Event
	playByPlay  map[int][]pbp.Event
}

func newStore() *store {
	return &store{
		meta:        map[int]parse.GameMeta{},
		apiRosters:  map[int][]pbp.RosterPlayer{},
		htmlRosters: map[int][]pbp.RosterPlayer{},
		rosters:     map[int][]pbp.RosterPlayer{},
		shifts:      map[int][]pbp.Shift{},
		changes:     map[int][]pbp.Change{},
		htmlEvents:  map[int][]pbp.Event{},
		apiEvents:   map[int][]pbp.Event{},
		playByPlay:  map[int][]pbp.Event{},
	}
}

// Scraper owns the feed client and the artifact store. Safe for concurrent
// use; games are independent.
type Scraper struct {
	client   *nhl.Client
	logger   *slog.Logger
	store    *store
	progress Progress

	// inFlight collapses concurrent requests for the same game.
	flightMu sync.Mutex
	inFlight map[int]*sync.WaitGroup
}

// New creates a scraper over the given feed client.
func New(client *nhl.Client, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		client:   client,
		logger:   logger,
		store:    newStore(),
		progress: noProgress{},
		inFlight: map[int]*sync.WaitGroup{},
	}
}

// PlayByPlay returns the reconciled stream for a game, scraping it on first
// use.
func (s *Scraper) PlayByPlay(ctx context.Context, gameID int) ([]pbp.Event, error) {
	if pbpRows, ok := s.cachedPBP(gameID); ok {
		return pbpRows, nil
	}

	// One pipeline per game, even under concurrent callers.
	s.flightMu.Lock()
	if wg, ok := s.inFlight[gameID]; ok {
		s.flightMu.Unlock()
		wg.Wait()
		if pbpRows, ok := s.cachedPBP(gameID); ok {
			return pbpRows, nil
		}
		return nil, fmt.Errorf("game %d: previous scrape failed", gameID)
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	s.inFlight[gameID] = wg
	s.flightMu.Unlock()
	defer func() {
		wg.Done()
		s.flightMu.Lock()
		delete(s.inFlight, gameID)
		s.flightMu.Unlock()
	}()

	pbpRows, err := s.scrapeGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return pbpRows, nil
}

func (s *Scraper) cachedPBP(gameID int) ([]pbp.Event, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	rows, ok := s.store.playByPlay[gameID]
	return rows, ok
}

// scrapeGame runs the full pipeline for one game. Nothing is written to the
// store until every stage has succeeded, so a failed game leaves no partial
// artifacts behind.
func (s *Scraper) scrapeGame(ctx context.Context, gameID int) ([]pbp.Event, error) {
	log := s.logger.With("game_id", gameID)
	log.Info("scraping game")

	gc, err := s.client.GameCenter(ctx, gameID)
	if err != nil {
		var statusErr *nhl.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			return nil, fmt.Errorf("game %d: %w", gameID, ErrGameNotFound)
		}
		return nil, fmt.Errorf("fetch gamecenter: %w", err)
	}
	if len(gc.Plays) == 0 {
		return nil, fmt.Errorf("game %d: %w", gameID, ErrUnplayedGame)
	}
	meta := parse.MetaFromGameCenter(gc)

	roReport, err := s.client.Report(ctx, nhl.ReportRosters, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch rosters report: %w", err)
	}
	plReport, err := s.client.Report(ctx, nhl.ReportPlays, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch plays report: %w", err)
	}
	thReport, err := s.client.Report(ctx, nhl.ReportShiftsHome, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch home shifts report: %w", err)
	}
	tvReport, err := s.client.Report(ctx, nhl.ReportShiftsAway, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch away shifts report: %w", err)
	}

	htmlRosters, err := parse.HTMLRosters(roReport, meta)
	if err != nil {
		return nil, err
	}
	htmlRosters = fixes.HTMLRosters(gameID, htmlRosters)

	rosters := parse.JoinRosters(htmlRosters, gc, meta)
	rosters = fixes.Rosters(gameID, rosters)

	apiEvents, err := parse.APIEvents(gc, rosters)
	if err != nil {
		return nil, err
	}
	apiEvents = fixes.APIEvents(gameID, apiEvents)

	htmlEvents, err := parse.HTMLEvents(plReport, meta, rosters)
	if err != nil {
		return nil, err
	}
	htmlEvents = fixes.HTMLEvents(gameID, htmlEvents)
	for _, ref := range parse.UnresolvedPlayers(htmlEvents) {
		log.Warn("unresolved player reference", "ref", ref)
	}

	shifts, err := parse.Shifts(thReport, tvReport, meta, rosters)
	if err != nil {
		return nil, err
	}
	changes := parse.Changes(shifts, meta)

	stream := merge.Reconcile(htmlEvents, apiEvents)
	stream = merge.Sequence(stream, changes)
	stream = merge.OnIce(stream, meta.HomeTeam, meta.AwayTeam)

	s.store.mu.Lock()
	s.store.meta[gameID] = meta
	s.store.apiRosters[gameID] = apiRosterRows(gc, meta)
	s.store.htmlRosters[gameID] = htmlRosters
	s.store.rosters[gameID] = rosters
	s.store.shifts[gameID] = shifts
	s.store.changes[gameID] = changes
	s.store.htmlEvents[gameID] = htmlEvents
	s.store.apiEvents[gameID] = apiEvents
	s.store.playByPlay[gameID] = stream
	s.store.mu.Unlock()

	log.Info("scraped game", "events", len(stream), "shifts", len(shifts))
	return stream, nil
}

// apiRosterRows materializes the feed's roster spots as roster rows, before
// the HTML join.
func apiRosterRows(gc *nhl.GameCenter, meta parse.GameMeta) []pbp.RosterPlayer {
	return parse.JoinRosters(nil, gc, meta)
}

// Rosters returns the joined roster for a scraped game.
func (s *Scraper) Rosters(gameID int) ([]pbp.RosterPlayer, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	r, ok := s.store.rosters[gameID]
	return r, ok
}

// APIRosters returns the feed-side roster for a scraped game.
func (s *Scraper) APIRosters(gameID int) ([]pbp.RosterPlayer, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	r, ok := s.store.apiRosters[gameID]
	return r, ok
}

// Shifts returns the repaired shifts for a scraped game.
func (s *Scraper) Shifts(gameID int) ([]pbp.Shift, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	r, ok := s.store.shifts[gameID]
	return r, ok
}

// Changes returns the substitution ticks for a scraped game.
func (s *Scraper) Changes(gameID int) ([]pbp.Change, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	r, ok := s.store.changes[gameID]
	return r, ok
}

// Meta returns the game identity for a scraped game.
func (s *Scraper) Meta(gameID int) (parse.GameMeta, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	m, ok := s.store.meta[gameID]
	return m, ok
}

// ScrapedGames lists the game IDs with a play-by-play in the store.
func (s *Scraper) ScrapedGames() []int {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	ids := make([]int, 0, len(s.store.playByPlay))
	for id := range s.store.playByPlay {
		ids = append(ids, id)
	}
	return ids
}
