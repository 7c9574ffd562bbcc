package scraper

import (
	"log/slog"
	"sync/atomic"
)

// Progress receives batch lifecycle callbacks. Implementations must be safe
// for concurrent Advance calls.
type Progress interface {
	Start(total int)
	Advance(gameID int)
	Done()
}

// noProgress is the default reporter.
type noProgress struct{}

func (noProgress) Start(int)   {}
func (noProgress) Advance(int) {}
func (noProgress) Done()       {}

// LogProgress reports batch progress through a logger.
type LogProgress struct {
	Logger *slog.Logger

	total int
	done  atomic.Int64
}

func (p *LogProgress) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *LogProgress) Start(total int) {
	p.total = total
	p.done.Store(0)
	p.logger().Info("batch started", "games", total)
}

func (p *LogProgress) Advance(gameID int) {
	n := p.done.Add(1)
	p.logger().Info("game done", "game_id", gameID, "done", n, "total", p.total)
}

func (p *LogProgress) Done() {
	p.logger().Info("batch finished", "done", p.done.Load(), "total", p.total)
}

// WithProgress sets the batch progress reporter.
func (s *Scraper) WithProgress(p Progress) *Scraper {
	if p == nil {
		p = noProgress{}
	}
	s.progress = p
	return s
}
