package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/footpanel/matchsync/external/flashscore"
	"github.com/footpanel/matchsync/internal/config"
	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/infrastructure/repository/memory"
	"github.com/footpanel/matchsync/internal/infrastructure/repository/postgres"
	"github.com/footpanel/matchsync/internal/interfaces/httpapi"
	idgen "github.com/footpanel/matchsync/internal/platform/id"
	"github.com/footpanel/matchsync/internal/platform/logging"
	"github.com/footpanel/matchsync/internal/platform/resilience"
	"github.com/footpanel/matchsync/internal/usecase"
)

// CloseFunc releases resources held by the built server.
type CloseFunc func() error

func NewHTTPServer(cfg config.Config, logger *slog.Logger, serviceLogger *logging.Logger) (*http.Server, CloseFunc, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if serviceLogger == nil {
		serviceLogger = logging.Default()
	}

	teamRepo, matchRepo, closeRepos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	feed := flashscore.NewClient(flashscore.ClientConfig{
		BaseURL:    cfg.FlashscoreBaseURL,
		Host:       cfg.FlashscoreHost,
		APIKey:     cfg.FlashscoreAPIKey,
		Timeout:    cfg.FlashscoreTimeout,
		MaxRetries: cfg.FlashscoreMaxRetries,
		Logger:     serviceLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FlashscoreCircuitEnabled,
			FailureThreshold: cfg.FlashscoreCircuitFailureCount,
			OpenTimeout:      cfg.FlashscoreCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FlashscoreCircuitHalfOpenReq,
		},
		LiveTTL:        cfg.CacheLiveTTL,
		DateTTL:        cfg.CacheDateTTL,
		CacheRetention: cfg.CacheRetention,
	})

	syncSvc := usecase.NewMatchSyncService(feed, teamRepo, matchRepo, nil, idgen.NewRandomGenerator(), serviceLogger)
	syncSvc.SetMaxWorkers(cfg.SyncMaxWorkers)
	viewSvc := usecase.NewMatchViewService(feed, matchRepo, serviceLogger)
	adminSvc := usecase.NewMatchAdminService(teamRepo, matchRepo, idgen.NewRandomGenerator(), serviceLogger)

	handler := httpapi.NewHandler(syncSvc, viewSvc, adminSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeRepos()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeRepos, nil
}

func buildRepositories(cfg config.Config, logger *slog.Logger) (team.Repository, match.Repository, CloseFunc, error) {
	if cfg.DBURL == "" {
		logger.Warn("DB_URL empty, using in-memory repositories")
		return memory.NewTeamRepository(nil), memory.NewMatchRepository(nil), func() error { return nil }, nil
	}

	db, err := connectPostgres(cfg.DBURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("postgres repositories enabled",
		"db_name", dbNameFromURL(cfg.DBURL),
		"db_url", redactDBURL(cfg.DBURL),
	)

	return postgres.NewTeamRepository(db), postgres.NewMatchRepository(db), db.Close, nil
}

func connectPostgres(dbURL string) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
