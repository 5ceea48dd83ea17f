package app

import (
	"net/http"

	"church-app-go/internal/config"
	"church-app-go/internal/db"
	branchdomain "church-app-go/internal/domain/branch"
	churchdomain "church-app-go/internal/domain/church"
	familydomain "church-app-go/internal/domain/family"
	groupdomain "church-app-go/internal/domain/group"
	memberdomain "church-app-go/internal/domain/member"
	outboxdomain "church-app-go/internal/domain/outbox"
	pastordomain "church-app-go/internal/domain/pastor"
	"church-app-go/internal/identity"
	branchrepo "church-app-go/internal/repository/postgres/branch"
	churchrepo "church-app-go/internal/repository/postgres/church"
	familyrepo "church-app-go/internal/repository/postgres/family"
	grouprepo "church-app-go/internal/repository/postgres/group"
	memberrepo "church-app-go/internal/repository/postgres/member"
	outboxrepo "church-app-go/internal/repository/postgres/outbox"
	pastorrepo "church-app-go/internal/repository/postgres/pastor"
	"church-app-go/internal/transport/httpserver"
	"church-app-go/internal/transport/httpserver/handler"
	"church-app-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg          config.Config
	httpServer   *http.Server
	db           *gorm.DB
	outboxWorker *outboxdomain.Worker
	log          logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	var provider identity.Provider
	if cfg.Supabase.URL != "" {
		provider = identity.NewGoTrue(cfg.Supabase)
	} else {
		// No hosted provider configured; keep identities in memory so the
		// app stays usable in local development.
		log.Warn("app: no identity provider configured, using in-memory identities")
		provider = identity.NewLocal()
	}

	outboxService := outboxdomain.NewService(
		outboxrepo.NewPostgres(dbConn), log,
		cfg.Outbox.MaxAttempts, cfg.Outbox.RetryBase,
	)

	churches := churchdomain.NewService(churchrepo.NewPostgres(dbConn), provider, log)
	branches := branchdomain.NewService(branchrepo.NewPostgres(dbConn))
	members := memberdomain.NewService(memberrepo.NewPostgres(dbConn))
	families := familydomain.NewService(familyrepo.NewPostgres(dbConn))
	groups := groupdomain.NewService(grouprepo.NewPostgres(dbConn))
	pastors := pastordomain.NewService(pastorrepo.NewPostgres(dbConn), provider, outboxService, log)

	var worker *outboxdomain.Worker
	if cfg.Outbox.Enabled {
		worker, err = outboxdomain.NewWorker(outboxService, cfg.Outbox.Schedule, log)
		if err != nil {
			return nil, err
		}
		worker.Start()
	}

	log.Info("app: initializing router")
	handlers := handler.New(churches, branches, members, families, groups, pastors, outboxService, log)
	router := httpserver.NewRouter(cfg, handlers, provider, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:          cfg,
		httpServer:   srv,
		db:           dbConn,
		outboxWorker: worker,
		log:          log,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.outboxWorker != nil {
		a.outboxWorker.Stop()
	}
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
