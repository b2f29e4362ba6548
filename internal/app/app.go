package app

import (
	"net/http"

	"band-manager-go/internal/config"
	"band-manager-go/internal/db"
	identitydomain "band-manager-go/internal/domain/identity"
	inventorydomain "band-manager-go/internal/domain/inventory"
	musicdomain "band-manager-go/internal/domain/music"
	rosterdomain "band-manager-go/internal/domain/roster"
	scheduledomain "band-manager-go/internal/domain/schedule"
	identityrepo "band-manager-go/internal/repository/postgres/identity"
	inventoryrepo "band-manager-go/internal/repository/postgres/inventory"
	musicrepo "band-manager-go/internal/repository/postgres/music"
	rosterrepo "band-manager-go/internal/repository/postgres/roster"
	schedulerepo "band-manager-go/internal/repository/postgres/schedule"
	"band-manager-go/internal/transport/httpserver"
	"band-manager-go/internal/transport/httpserver/handler"
	"band-manager-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
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

	log.Info("app: running migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	identitySvc := identitydomain.NewService(identityrepo.NewPostgres(dbConn))
	rosterSvc := rosterdomain.NewService(rosterrepo.NewPostgres(dbConn))
	scheduleSvc := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn))
	musicSvc := musicdomain.NewService(musicrepo.NewPostgres(dbConn))
	inventorySvc := inventorydomain.NewService(inventoryrepo.NewPostgres(dbConn))

	handlers := handler.New(identitySvc, rosterSvc, scheduleSvc, musicSvc, inventorySvc, log)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, identitySvc, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
