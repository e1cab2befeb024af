package app

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"nepalidata-go/internal/cache"
	"nepalidata-go/internal/config"
	"nepalidata-go/internal/repositories"
	"nepalidata-go/internal/scheduler"
	"nepalidata-go/internal/services/ingest"
)

type App struct {
	Config        *config.Config
	Pool          *pgxpool.Pool
	Store         repositories.Store
	Scrapers      []ingest.SourceScraper
	IngestService *ingest.Service
	Cache         *cache.Cache
	Scheduler     *scheduler.Scheduler
	Server        *http.Server

	ownsPool bool
}

func (a *App) Start() error {
	if err := a.Scheduler.Start(); err != nil {
		return err
	}

	go func() {
		log.Printf("HTTP server listening on %s", a.Server.Addr)
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	if a.ownsPool {
		a.Pool.Close()
	}
	return nil
}
