package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/soccer-analytics/internal/api"
	"github.com/wonny/soccer-analytics/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the JSON API used by the dashboard.

Endpoints:
  GET /health
  GET /api/health/report
  GET /api/digest
  GET /api/leagues
  GET /api/leagues/metrics
  GET /api/leagues/{id}/metrics|table|averages|power-rankings
  GET /api/scorers
  GET /api/teams/{id}/metrics|performance|momentum|possession|defense|xg
  GET /api/teams/{id}/head-to-head/{opponentId}
  GET /api/players/{id}/stats|form|efficiency

Query parameters: season, limit, last, detailed, league.

Example:
  go run ./cmd/soccer api
  go run ./cmd/soccer api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Soccer Analytics API Server ===")

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	log := a.log.Module("api")
	router := api.NewRouter(api.Handlers{
		Leagues: handlers.NewLeagueHandler(a.store, a.engine, a.scorer, a.cache, a.cfg.Analytics, log),
		Teams:   handlers.NewTeamHandler(a.engine, a.scorer, log),
		Players: handlers.NewPlayerHandler(a.engine, a.scorer, log),
		System:  handlers.NewSystemHandler(a.checker(), a.scorer, a.cache, log),
	}, a.cfg.CORSOrigins, log)

	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
