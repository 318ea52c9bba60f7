package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/bondlab/internal/api"
	"github.com/wonny/bondlab/internal/api/handlers"
	"github.com/wonny/bondlab/internal/marketdata"
	"github.com/wonny/bondlab/internal/scheduler"
	"github.com/wonny/bondlab/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- 기준 수익률 곡선 로드 (CURVE_SOURCE)
- CURVE_REFRESH_SCHEDULE 설정 시 곡선 주기적 갱신
- HTTP API 서버 시작
- SIGINT/SIGTERM 수신 시 graceful shutdown

Endpoints:
  GET  /health                  - Health check
  GET  /api/curve               - 기준 곡선 조회
  POST /api/bonds/analyze       - 단일 채권 분석
  POST /api/portfolio/analyze   - 포트폴리오 분석
  POST /api/hedge/optimize      - 부채 헤지 최적화

Example:
  go run ./cmd/bondlab api
  go run ./cmd/bondlab api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== bondlab API Server ===")

	// 1. Load config + logger
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":   cfg.Port,
		"env":    cfg.Env,
		"source": cfg.Curve.Source,
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Load base curve (snapshots are replaced, never mutated)
	provider, err := marketdata.NewProvider(cfg, log)
	if err != nil {
		return err
	}
	snap, err := marketdata.LoadFrom(ctx, provider, cfg, log)
	if err != nil {
		return err
	}
	store := marketdata.NewStore(snap)

	// 3. Optional scheduled refresh
	if cfg.Curve.Refresh != "" {
		sched := scheduler.New(log)
		job := jobs.NewCurveRefreshJob(cfg.Curve.Refresh, provider, cfg.Curve.Source, cfg.Curve.StartTime(), store, log)
		if err := sched.AddJob(job); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// 4. Handler → router → server
	analyticsHandler := handlers.NewAnalyticsHandler(store, cfg.Analytics, log)
	router := api.NewRouter(analyticsHandler, log)
	server := api.New(cfg, log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/curve")
	fmt.Println("  POST /api/bonds/analyze")
	fmt.Println("  POST /api/portfolio/analyze")
	fmt.Println("  POST /api/hedge/optimize")

	// 5. Run until SIGINT/SIGTERM
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("api server: %w", err)
	}

	log.Info("API server stopped")
	return nil
}
