package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"nepalidata-go/internal/cache"
	"nepalidata-go/internal/model"
	"nepalidata-go/internal/providers/calendar"
	"nepalidata-go/internal/providers/rashifal"
	"nepalidata-go/internal/repositories"
	"nepalidata-go/internal/services/ingest"
)

const readTTL = time.Hour

type Handler struct {
	service  *ingest.Service
	store    repositories.Store
	cache    *cache.Cache
	panchang *calendar.Scraper
}

func NewHandler(service *ingest.Service, store repositories.Store, c *cache.Cache, panchang *calendar.Scraper) *Handler {
	return &Handler{service: service, store: store, cache: c, panchang: panchang}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/cron/scrape", h.handleScrape)
	r.Get("/calendar/{year}/{month}", h.handleCalendarMonth)
	r.Get("/today", h.handleToday)
	r.Get("/events/{year}", h.handleEvents)
	r.Get("/rashifal/{sign}", h.handleRashifal)
	r.Get("/prices/metals", h.handleMetalPrices)
	r.Get("/prices/forex", h.handleForexRates)
	r.Get("/prices/vegetables", h.handleVegetablePrices)
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Post("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Get("/allocs", pprof.Handler("allocs").ServeHTTP)
		r.Get("/block", pprof.Handler("block").ServeHTTP)
		r.Get("/goroutine", pprof.Handler("goroutine").ServeHTTP)
		r.Get("/heap", pprof.Handler("heap").ServeHTTP)
		r.Get("/mutex", pprof.Handler("mutex").ServeHTTP)
		r.Get("/threadcreate", pprof.Handler("threadcreate").ServeHTTP)
	})
	return r
}

func (h *Handler) handleScrape(w http.ResponseWriter, r *http.Request) {
	var sources []string
	if raw := r.URL.Query().Get("sources"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sources = append(sources, name)
			}
		}
	}

	report := h.service.Run(r.Context(), ingest.Scope{}, sources...)
	for source, result := range report.Sources {
		if result.Status == "success" {
			h.invalidateSource(source)
		}
	}
	writeJSON(w, http.StatusOK, report)
}

// invalidateSource drops the cached reads a fresh scrape of one source makes
// stale, leaving the other sources' entries to age out on their own TTL.
func (h *Handler) invalidateSource(source string) {
	switch source {
	case "metals":
		h.cache.Invalidate(cache.Key("prices", "metals"))
	case "forex":
		h.cache.Invalidate(cache.Key("prices", "forex"))
	case "vegetables":
		h.cache.Invalidate(cache.Key("prices", "vegetables"))
	case "rashifal":
		h.cache.InvalidatePrefix("rashifal")
	case "calendar":
		h.cache.InvalidatePrefix("calendar")
		h.cache.Invalidate(cache.Key("today"))
	case "events":
		h.cache.InvalidatePrefix("events")
	}
}

func (h *Handler) handleCalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "invalid month")
		return
	}

	days, err := cache.Memoize(h.cache, cache.Key("calendar", year, month), readTTL, func() ([]model.CalendarDay, error) {
		return h.store.ListCalendarDays(r.Context(), year, month)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	today, err := cache.Memoize(h.cache, cache.Key("today"), readTTL, func() (calendar.Panchang, error) {
		return h.panchang.Today(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, today)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month := 0
	if raw := r.URL.Query().Get("month"); raw != "" {
		if month, err = strconv.Atoi(raw); err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
	}

	events, err := cache.Memoize(h.cache, cache.Key("events", year, month), readTTL, func() ([]model.Event, error) {
		return h.store.ListEvents(r.Context(), year, month)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *Handler) handleRashifal(w http.ResponseWriter, r *http.Request) {
	sign := strings.ToLower(chi.URLParam(r, "sign"))
	if !rashifal.ValidSign(sign) {
		writeError(w, http.StatusBadRequest, "unknown sign")
		return
	}

	entry, err := cache.Memoize(h.cache, cache.Key("rashifal", sign), readTTL, func() (model.Rashifal, error) {
		return h.store.LatestRashifal(r.Context(), sign)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no prediction available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleMetalPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := cache.Memoize(h.cache, cache.Key("prices", "metals"), readTTL, func() ([]model.MetalPrice, error) {
		return h.store.LatestMetalPrices(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

func (h *Handler) handleForexRates(w http.ResponseWriter, r *http.Request) {
	rates, err := cache.Memoize(h.cache, cache.Key("prices", "forex"), readTTL, func() ([]model.ForexRate, error) {
		return h.store.LatestForexRates(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

func (h *Handler) handleVegetablePrices(w http.ResponseWriter, r *http.Request) {
	prices, err := cache.Memoize(h.cache, cache.Key("prices", "vegetables"), readTTL, func() ([]model.VegetablePrice, error) {
		return h.store.LatestVegetablePrices(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prices)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
