package nhl

import (
	"context"
	"fmt"

	"github.com/slapshotlabs/rinkline/internal/pbp"
)

// ReportKind selects one of the per-game HTML reports.
type ReportKind string

const (
	ReportRosters    ReportKind = "RO"
	ReportPlays      ReportKind = "PL"
	ReportShiftsHome ReportKind = "TH"
	ReportShiftsAway ReportKind = "TV"
)

// GameCenter fetches the play-by-play feed for a game.
func (c *Client) GameCenter(ctx context.Context, gameID int) (*GameCenter, error) {
	var gc GameCenter
	if err := c.getJSON(ctx, fmt.Sprintf("/gamecenter/%d/play-by-play", gameID), &gc); err != nil {
		return nil, fmt.Errorf("gamecenter %d: %w", gameID, err)
	}
	return &gc, nil
}

// Report fetches one HTML report for a game, transcoded to UTF-8.
func (c *Client) Report(ctx context.Context, kind ReportKind, gameID int) ([]byte, error) {
	path := fmt.Sprintf("/%d/%s%s.HTM", pbp.SeasonOf(gameID), kind, pbp.HTMLID(gameID))
	body, err := c.getHTML(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("report %s %d: %w", kind, gameID, err)
	}
	return body, nil
}

// Schedule fetches the week of games starting at date (YYYY-MM-DD).
func (c *Client) Schedule(ctx context.Context, date string) (*Schedule, error) {
	var s Schedule
	if err := c.getJSON(ctx, "/schedule/"+date, &s); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", date, err)
	}
	return &s, nil
}

// ClubSchedule fetches a team's full season schedule.
func (c *Client) ClubSchedule(ctx context.Context, team string, season int) (*ClubSchedule, error) {
	var s ClubSchedule
	if err := c.getJSON(ctx, fmt.Sprintf("/club-schedule-season/%s/%d", team, season), &s); err != nil {
		return nil, fmt.Errorf("club schedule %s %d: %w", team, season, err)
	}
	return &s, nil
}

// Standings fetches the league standings as of date (YYYY-MM-DD).
func (c *Client) Standings(ctx context.Context, date string) (*Standings, error) {
	var s Standings
	if err := c.getJSON(ctx, "/standings/"+date, &s); err != nil {
		return nil, fmt.Errorf("standings %s: %w", date, err)
	}
	return &s, nil
}
