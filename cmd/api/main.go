package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salesdesk/internal/activity"
	"salesdesk/internal/auth"
	"salesdesk/internal/calls"
	"salesdesk/internal/config"
	"salesdesk/internal/leaderboard"
	"salesdesk/internal/leads"
	"salesdesk/internal/script"
	"salesdesk/pkg/logger"
	"salesdesk/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Lead source: local database or the legacy REST backend. The local
	// standings tracker records regardless, but only backs the board when
	// there is no backend aggregation endpoint.
	tracker := leaderboard.NewTracker()
	var source leads.Source
	var boardRepo leaderboard.Repository
	switch cfg.Leads.Backend {
	case config.LeadsBackendRemote:
		source = leads.NewRemoteSource(cfg.Leads.BaseURL, nil, log)
		boardRepo = leaderboard.NewRemoteRepo(cfg.Leads.BaseURL)
	default:
		source = leads.NewPostgresSource(db, log)
		boardRepo = tracker
	}

	store := leads.NewStore(source, log)
	store.Load(rootCtx)

	activitySvc := activity.NewService(activity.NewMemoryRepo(), log)
	activityPoller := activity.NewPoller(activitySvc, cfg.Leads.ActivityPollInterval, log)
	go activityPoller.Run(rootCtx)

	boardSvc := leaderboard.NewService(boardRepo, rdb, cfg.Leads.LeaderboardCacheTTL, log)
	boardPoller := leaderboard.NewPoller(boardSvc, cfg.Leads.LeaderboardPollInterval, log)
	go boardPoller.Run(rootCtx)

	orchestrator := calls.NewOrchestrator(source, script.SalesGraph(), log,
		calls.WithRecorder(fanoutRecorder{activitySvc, tracker}),
	)

	// Reload the collection whenever a finalized call bumps the refresh signal.
	go store.Watch(rootCtx, orchestrator.Refresh().Subscribe(rootCtx))

	// Seeded agent directory; swap for a persistent directory when accounts move to the DB.
	users := auth.NewMemoryDirectory()
	seedUsers(users, log)

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, auth.RequireAccessToken(authManager), handlersOf(authManager, users, store, orchestrator, activityPoller, boardPoller))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "leads_backend", cfg.Leads.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}

// fanoutRecorder forwards each finalized call to every recorder.
type fanoutRecorder []calls.Recorder

func (f fanoutRecorder) RecordCallOutcome(agentName string, lead leads.Lead, outcome string) {
	for _, r := range f {
		r.RecordCallOutcome(agentName, lead, outcome)
	}
}

// seedUsers provisions bootstrap accounts from env so a fresh deployment
// has at least one login. SEED_AGENT_EMAIL/SEED_AGENT_PASSWORD/SEED_AGENT_NAME.
func seedUsers(dir *auth.MemoryDirectory, log *slog.Logger) {
	email := os.Getenv("SEED_AGENT_EMAIL")
	password := os.Getenv("SEED_AGENT_PASSWORD")
	if email == "" || password == "" {
		log.Warn("no seed agent configured; login will reject everything")
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("seed agent hash failed", "err", err)
		return
	}
	name := os.Getenv("SEED_AGENT_NAME")
	if name == "" {
		name = "Agent"
	}
	role := os.Getenv("SEED_AGENT_ROLE")
	if role == "" {
		role = "agent"
	}
	dir.Add(auth.User{ID: "seed-1", Email: email, Name: name, Role: role, PasswordHash: hash})
}
