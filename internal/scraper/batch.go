package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Result tracks counts and errors from a batch scrape.
type Result struct {
	GamesRequested int
	GamesScraped   int
	GamesSkipped   int
	GamesFailed    int
	Events         int
	Duration       time.Duration
	Errors         []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.GamesRequested += other.GamesRequested
	r.GamesScraped += other.GamesScraped
	r.GamesSkipped += other.GamesSkipped
	r.GamesFailed += other.GamesFailed
	r.Events += other.Events
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the batch.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"requested=%d scraped=%d skipped=%d failed=%d events=%d errors=%d duration=%s",
		r.GamesRequested, r.GamesScraped, r.GamesSkipped, r.GamesFailed,
		r.Events, len(r.Errors), r.Duration.Round(time.Millisecond),
	)
}

// Games scrapes a batch of games with a bounded worker pool. Unplayed and
// unknown games are skipped, not failed; a canceled context fails the games
// still queued. The store ends up holding every game that scraped cleanly.
func (s *Scraper) Games(ctx context.Context, gameIDs []int, workers int) Result {
	start := time.Now()
	result := Result{GamesRequested: len(gameIDs)}
	if len(gameIDs) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	if workers < 1 {
		workers = 1
	}
	if workers > len(gameIDs) {
		workers = len(gameIDs)
	}
	s.progress.Start(len(gameIDs))

	ch := make(chan int, len(gameIDs))
	for _, id := range gameIDs {
		ch <- id
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for gameID := range ch {
				stream, err := s.PlayByPlay(ctx, gameID)

				mu.Lock()
				switch {
				case err == nil:
					result.GamesScraped++
					result.Events += len(stream)
				case errors.Is(err, ErrGameNotFound), errors.Is(err, ErrUnplayedGame):
					result.GamesSkipped++
					s.logger.Info("skipping game", "game_id", gameID, "reason", err)
				default:
					result.GamesFailed++
					result.AddErrorf("game %d: %s", gameID, err)
					s.logger.Error("scrape failed", "game_id", gameID, "error", err)
				}
				mu.Unlock()
				s.progress.Advance(gameID)
			}
		}()
	}

	wg.Wait()
	s.progress.Done()
	result.Duration = time.Since(start)

	s.logger.Info("batch complete", "summary", result.Summary())
	return result
}
