package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/draftpad/scrimstats/internal/config"
	"github.com/draftpad/scrimstats/internal/domain/herostats"
	"github.com/draftpad/scrimstats/internal/domain/match"
	"github.com/draftpad/scrimstats/internal/domain/roster"
	"github.com/draftpad/scrimstats/internal/domain/team"
	"github.com/draftpad/scrimstats/internal/infrastructure/jobqueue"
	"github.com/draftpad/scrimstats/internal/infrastructure/repository/memory"
	"github.com/draftpad/scrimstats/internal/infrastructure/repository/postgres"
	"github.com/draftpad/scrimstats/internal/interfaces/httpapi"
	idgen "github.com/draftpad/scrimstats/internal/platform/id"
	"github.com/draftpad/scrimstats/internal/platform/logging"
	"github.com/draftpad/scrimstats/internal/usecase"
)

type repositories struct {
	teams  team.Repository
	roster roster.Repository
	match  match.Repository
	stats  herostats.Repository
}

// NewHTTPServer wires repositories, services and the HTTP router into a
// ready-to-run server. The returned cleanup stops the audit scheduler and
// closes the database pool; call it after the server has shut down.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	svcLogger := logging.NewJSON(cfg.LogLevel)

	repos, db, err := buildRepositories(cfg, svcLogger, logger)
	if err != nil {
		return nil, nil, err
	}

	idGen := idgen.NewRandomGenerator()

	statsSvc := usecase.NewStatsService(repos.teams, repos.match, repos.roster, repos.stats, idGen, svcLogger)
	laneSvc := usecase.NewLaneChangeService(repos.match, repos.roster, repos.stats, statsSvc, svcLogger)
	integritySvc := usecase.NewIntegrityService(repos.teams, repos.match, repos.roster, repos.stats, statsSvc, svcLogger)
	maintenanceSvc := usecase.NewMaintenanceService(repos.teams, integritySvc, svcLogger)
	matchSvc := usecase.NewMatchService(repos.teams, repos.match, repos.roster, statsSvc, idGen, svcLogger)

	handler := httpapi.NewHandler(
		repos.teams,
		repos.roster,
		matchSvc,
		statsSvc,
		laneSvc,
		integritySvc,
		maintenanceSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var publisher *jobqueue.QStashPublisher
	if cfg.QStashEnabled {
		publisher = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
		}, logger)
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go runAuditScheduler(schedulerCtx, cfg.AuditInterval, maintenanceSvc, publisher, logger)

	cleanup := func() {
		stopScheduler()
		if db != nil {
			if err := db.Close(); err != nil {
				logger.Error("close database", "error", err)
			}
		}
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, svcLogger *logging.Logger, logger *slog.Logger) (repositories, *sqlx.DB, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL not set, using seeded in-memory repositories")
		matchRepo := memory.NewMatchRepository(memory.SeedMatches())
		return repositories{
			teams:  memory.NewTeamRepository(memory.SeedTeams()),
			roster: memory.NewRosterRepository(memory.SeedPlayers()),
			match:  matchRepo,
			stats:  memory.NewHeroStatsRepository(matchRepo),
		}, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("service.name", cfg.ServiceName),
		),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return repositories{
		teams:  postgres.NewTeamRepository(db),
		roster: postgres.NewRosterRepository(db),
		match:  postgres.NewMatchRepository(db, svcLogger),
		stats:  postgres.NewHeroStatsRepository(db),
	}, db, nil
}

// runAuditScheduler triggers the repairing integrity audit every interval.
// With QStash configured the job round-trips through the queue so retries
// and deduplication apply; otherwise it runs in-process.
func runAuditScheduler(
	ctx context.Context,
	interval time.Duration,
	maintenance *usecase.MaintenanceService,
	publisher *jobqueue.QStashPublisher,
	logger *slog.Logger,
) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if publisher != nil {
			dedupID := fmt.Sprintf("audit-%d", time.Now().Unix()/int64(interval.Seconds()))
			if err := publisher.Enqueue(ctx, "/v1/internal/jobs/audit?repair=true", nil, 0, dedupID); err != nil {
				logger.Error("enqueue audit job", "error", err)
			}
			continue
		}

		result, err := maintenance.RunAudit(ctx, usecase.AuditInput{Repair: true})
		if err != nil {
			logger.Error("scheduled audit failed", "error", err)
			continue
		}
		logger.Info("scheduled audit finished",
			"teams", result.TeamCount,
			"clean", result.CleanCount,
			"dirty", result.DirtyCount,
			"failed", result.FailedCount,
			"records_cleaned", result.RecordsCleaned,
		)
	}
}
