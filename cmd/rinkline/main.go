// Command rinkline is the NHL play-by-play scraping CLI.
//
// Usage:
//
//	rinkline scrape --game 2023020001
//	rinkline scrape --team TOR --season 20232024 --workers 4
//	rinkline schedule --date 2023-10-10
//	rinkline standings --date 2023-04-14
//	rinkline export --game 2023020001 --format parquet --out ./out
//	rinkline serve
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slapshotlabs/rinkline/internal/api"
	"github.com/slapshotlabs/rinkline/internal/config"
	"github.com/slapshotlabs/rinkline/internal/export"
	"github.com/slapshotlabs/rinkline/internal/nhl"
	"github.com/slapshotlabs/rinkline/internal/schedule"
	"github.com/slapshotlabs/rinkline/internal/scraper"
	"github.com/slapshotlabs/rinkline/internal/stats"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "rinkline",
		Short: "NHL play-by-play scraping and reconciliation CLI",
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// scrape command
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	var (
		gameIDs []int
		team    string
		season  int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape and reconcile games",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, client *nhl.Client) error {
				if workers == 0 {
					workers = cfg.Workers
				}
				ids, err := resolveGameIDs(ctx, client, gameIDs, team, season)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					return fmt.Errorf("no games to scrape; pass --game or --team with --season")
				}

				s := scraper.New(client, logger).WithProgress(&scraper.LogProgress{Logger: logger})
				start := time.Now()
				result := s.Games(ctx, ids, workers)
				logger.Info("Scrape finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("scrape error", "error", e)
				}
				if result.GamesFailed > 0 {
					return fmt.Errorf("%d games failed", result.GamesFailed)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&gameIDs, "game", nil, "Game IDs to scrape (repeatable)")
	cmd.Flags().StringVar(&team, "team", "", "Scrape a team's season (with --season)")
	cmd.Flags().IntVar(&season, "season", 0, "Season, e.g. 20232024")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent worker count (default from SCRAPE_WORKERS)")
	return cmd
}

// resolveGameIDs expands --team/--season into finished game IDs.
func resolveGameIDs(ctx context.Context, client *nhl.Client, ids []int, team string, season int) ([]int, error) {
	if team == "" {
		return ids, nil
	}
	if season == 0 {
		return nil, fmt.Errorf("--team requires --season")
	}
	games, err := schedule.Season(ctx, client, team, season)
	if err != nil {
		return nil, err
	}
	return append(ids, schedule.GameIDs(games, "", true)...), nil
}

// --------------------------------------------------------------------------
// schedule / standings commands
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the week of games starting at a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, client *nhl.Client) error {
				games, err := schedule.Week(ctx, client, date)
				if err != nil {
					return err
				}
				for _, g := range games {
					fmt.Printf("%d  %s %s  %s @ %s  [%s]\n",
						g.GameID, g.GameDate, g.StartTimeET, g.AwayTeam, g.HomeTeam, g.GameState)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Start date (YYYY-MM-DD)")
	return cmd
}

func standingsCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the standings as of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, client *nhl.Client) error {
				rows, err := schedule.Standings(ctx, client, date)
				if err != nil {
					return err
				}
				for _, r := range rows {
					fmt.Printf("%-4s GP %2d  W %2d  L %2d  OTL %2d  PTS %3d  DIFF %+d\n",
						r.Team, r.GamesPlayed, r.Wins, r.Losses, r.OTLosses, r.Points, r.GoalDifference)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", time.Now().Format("2006-01-02"), "Date (YYYY-MM-DD)")
	return cmd
}

// --------------------------------------------------------------------------
// export command
// --------------------------------------------------------------------------

func exportCmd() *cobra.Command {
	var (
		gameIDs []int
		format  string
		outDir  string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Scrape games and write the PBP and aggregate views to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, client *nhl.Client) error {
				if format != "csv" && format != "parquet" {
					return fmt.Errorf("unknown format %q; want csv or parquet", format)
				}
				if len(gameIDs) == 0 {
					return fmt.Errorf("pass at least one --game")
				}
				if outDir == "" {
					outDir = cfg.ExportDir
				}
				if workers == 0 {
					workers = cfg.Workers
				}

				s := scraper.New(client, logger)
				result := s.Games(ctx, gameIDs, workers)
				if result.GamesScraped == 0 {
					return fmt.Errorf("no games scraped: %s", result.Summary())
				}

				for _, id := range s.ScrapedGames() {
					events, err := s.PlayByPlay(ctx, id)
					if err != nil {
						return err
					}
					opts := stats.Options{Level: stats.LevelGame, Strength: true}
					frames := map[string]*export.Frame{
						"pbp":   export.EventFrame(events),
						"ind":   export.IndFrame(stats.Individual(events, opts)),
						"oi":    export.OnIceFrame(stats.OnIce(events, opts)),
						"stats": export.StatsFrame(stats.Stats(events, opts)),
						"lines": export.LinesFrame(stats.Lines(events, stats.LineForwards, opts)),
						"team":  export.TeamFrame(stats.TeamStats(events, opts)),
					}
					for name, frame := range frames {
						path := filepath.Join(outDir, fmt.Sprintf("%d_%s.%s", id, name, format))
						if err := writeFrame(frame, path, format); err != nil {
							return err
						}
						logger.Info("wrote file", "path", path, "rows", frame.Rows())
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&gameIDs, "game", nil, "Game IDs to export (repeatable)")
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or parquet")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from EXPORT_DIR)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent worker count")
	return cmd
}

func writeFrame(frame *export.Frame, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if format == "parquet" {
		return frame.WriteParquet(f)
	}
	return frame.WriteCSV(f)
}

// --------------------------------------------------------------------------
// serve command
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scraped games and aggregate views as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, client *nhl.Client) error {
				s := scraper.New(client, logger)
				router := api.NewRouter(s, client, cfg, logger)

				addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
				srv := &http.Server{
					Addr:         addr,
					Handler:      router,
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 30 * time.Second,
					IdleTimeout:  60 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					logger.Info("Starting rinkline API", "addr", addr, "environment", cfg.Environment)
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						errCh <- err
					}
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}
				logger.Info("Shutting down...")

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Error("Shutdown error", "error", err)
				}
				logger.Info("Server stopped")
				return nil
			})
		},
	}
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, client construction, and context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, client *nhl.Client) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := config.Load()
	client := nhl.NewClient(cfg.APIBase, cfg.HTMLBase, cfg.RequestsPerMinute, logger)
	return fn(ctx, cfg, client)
}
