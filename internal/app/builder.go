package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"nepalidata-go/internal/cache"
	"nepalidata-go/internal/config"
	"nepalidata-go/internal/db"
	"nepalidata-go/internal/httpapi"
	"nepalidata-go/internal/providers/calendar"
	"nepalidata-go/internal/providers/events"
	"nepalidata-go/internal/providers/forex"
	"nepalidata-go/internal/providers/metals"
	"nepalidata-go/internal/providers/rashifal"
	"nepalidata-go/internal/providers/vegetables"
	"nepalidata-go/internal/reconcile"
	"nepalidata-go/internal/repositories"
	"nepalidata-go/internal/repositories/postgres"
	"nepalidata-go/internal/scheduler"
	"nepalidata-go/internal/services/ingest"
)

type Builder struct {
	cfg          *config.Config
	basePath     string
	ensureSchema bool

	pool     *pgxpool.Pool
	store    repositories.Store
	scrapers []ingest.SourceScraper
	client   *http.Client

	scheduler *scheduler.Scheduler
	server    *http.Server
}

type BuilderOption func(*Builder)

func NewBuilder(cfg *config.Config, options ...BuilderOption) *Builder {
	builder := &Builder{
		cfg:          cfg,
		ensureSchema: true,
	}
	for _, option := range options {
		option(builder)
	}
	return builder
}

func WithBasePath(basePath string) BuilderOption {
	return func(b *Builder) {
		b.basePath = basePath
	}
}

func WithEnsureSchema(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.ensureSchema = enabled
	}
}

func WithDBPool(pool *pgxpool.Pool) BuilderOption {
	return func(b *Builder) {
		b.pool = pool
	}
}

func WithStore(store repositories.Store) BuilderOption {
	return func(b *Builder) {
		b.store = store
	}
}

func WithScrapers(scrapers []ingest.SourceScraper) BuilderOption {
	return func(b *Builder) {
		b.scrapers = scrapers
	}
}

func WithHTTPClient(client *http.Client) BuilderOption {
	return func(b *Builder) {
		b.client = client
	}
}

func WithScheduler(scheduler *scheduler.Scheduler) BuilderOption {
	return func(b *Builder) {
		b.scheduler = scheduler
	}
}

func WithHTTPServer(server *http.Server) BuilderOption {
	return func(b *Builder) {
		b.server = server
	}
}

func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.cfg == nil {
		return nil, errors.New("config is required")
	}

	basePath := b.basePath
	if basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		basePath = wd
	}

	app := &App{Config: b.cfg}
	if b.store == nil && b.pool == nil {
		pool, err := db.NewPool(ctx, b.cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		b.pool = pool
		app.ownsPool = true
	}
	app.Pool = b.pool

	if b.ensureSchema && b.pool != nil {
		path, err := filepath.Abs(basePath)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx, b.pool, path); err != nil {
			return nil, err
		}
	}

	if b.store == nil {
		b.store = postgres.NewStore(b.pool)
	}
	app.Store = b.store

	if b.client == nil {
		b.client = &http.Client{Timeout: 30 * time.Second}
	}

	rec := reconcile.New(app.Store)
	calendarScraper := calendar.NewScraper(b.client, rec)

	if b.scrapers == nil {
		b.scrapers = []ingest.SourceScraper{
			rashifal.NewScraper(b.client, rec),
			vegetables.NewScraper(b.client, rec),
			metals.NewScraper(b.client, rec),
			forex.NewScraper(b.client, rec),
			calendarScraper,
			events.NewScraper(b.client, rec),
		}
	}
	app.Scrapers = b.scrapers

	app.IngestService = ingest.NewService(app.Scrapers)
	app.Cache = cache.New()

	if b.scheduler == nil {
		b.scheduler = scheduler.New(*b.cfg, app.IngestService)
	}
	app.Scheduler = b.scheduler

	if b.server == nil {
		handler := httpapi.NewHandler(app.IngestService, app.Store, app.Cache, calendarScraper)
		b.server = &http.Server{
			Addr:              ":" + b.cfg.HTTPPort,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	app.Server = b.server

	return app, nil
}
