// Package httpapi serves the read-only rankings API used by dashboards and
// the bot's web embeds.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	matchdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/match/domain"
	ratingdomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/rating/domain"
	seasonservice "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/application"
	seasondomain "github.com/Black-And-White-Club/powerrank-bot/app/modules/season/domain"
	"github.com/Black-And-White-Club/powerrank-bot/app/shared/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Roster reads the player pool.
type Roster interface {
	ListRankings(ctx context.Context) ([]ratingdomain.RankedPlayer, error)
	GetPlayer(ctx context.Context, tag string) (ratingdomain.Player, error)
}

// SettingsReader exposes the active rating configuration.
type SettingsReader interface {
	Settings() ratingdomain.Settings
}

// Seasons reads season standings and renders their exports.
type Seasons interface {
	ListSeasons(ctx context.Context) ([]seasondomain.Summary, error)
	SeasonRankings(ctx context.Context, seasonID string) (seasonservice.Standings, error)
	HeadToHead(ctx context.Context, seasonID, a, b string) (seasondomain.HeadToHeadRecord, error)
	ExportSeasonRankings(ctx context.Context, seasonID string) ([]byte, error)
	RenderSeasonChart(ctx context.Context, seasonID string) ([]byte, error)
}

// Matches reads the match log.
type Matches interface {
	RecentMatches(ctx context.Context, tag string, limit int) ([]matchdomain.MatchRecord, error)
	RenderRatingHistoryChart(ctx context.Context, tag string) ([]byte, error)
}

// Deps are the services the API reads from.
type Deps struct {
	Roster   Roster
	Settings SettingsReader
	Seasons  Seasons
	Matches  Matches
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Options tune the router.
type Options struct {
	RequestsPerSecond float64
	Burst             int
	RequestTimeout    time.Duration
}

func (o Options) withDefaults() Options {
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 10
	}
	if o.Burst <= 0 {
		o.Burst = 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 15 * time.Second
	}
	return o
}

type api struct {
	deps   Deps
	logger *slog.Logger
}

// NewRouter builds the chi router for the API.
func NewRouter(deps Deps, logger *slog.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	a := &api{deps: deps, logger: logger}
	limiter := NewClientRateLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Get("/rankings", a.handleRankings)
		r.Get("/rating/settings", a.handleSettings)

		r.Get("/players/{tag}", a.handlePlayer)
		r.Get("/players/{tag}/matches", a.handlePlayerMatches)
		r.Get("/players/{tag}/history.png", a.handlePlayerHistoryChart)

		r.Get("/seasons", a.handleSeasons)
		r.Route("/seasons/{id}", func(r chi.Router) {
			r.Get("/rankings", a.handleSeasonRankings)
			r.Get("/export.xlsx", a.handleSeasonExport)
			r.Get("/chart.png", a.handleSeasonChart)
		})

		r.Get("/head-to-head", a.handleHeadToHead)
	})

	return r
}

func (a *api) handleRankings(w http.ResponseWriter, r *http.Request) {
	ranked, err := a.deps.Roster.ListRankings(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"system":   a.deps.Settings.Settings().ActiveSystem,
		"rankings": limitSlice(ranked, queryInt(r, "limit")),
	})
}

func (a *api) handleSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.deps.Settings.Settings())
}

func (a *api) handlePlayer(w http.ResponseWriter, r *http.Request) {
	player, err := a.deps.Roster.GetPlayer(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, player)
}

func (a *api) handlePlayerMatches(w http.ResponseWriter, r *http.Request) {
	records, err := a.deps.Matches.RecentMatches(r.Context(), chi.URLParam(r, "tag"), queryInt(r, "limit"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": records})
}

func (a *api) handlePlayerHistoryChart(w http.ResponseWriter, r *http.Request) {
	png, err := a.deps.Matches.RenderRatingHistoryChart(r.Context(), chi.URLParam(r, "tag"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeBytes(w, "image/png", "", png)
}

func (a *api) handleSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := a.deps.Seasons.ListSeasons(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seasons": seasons})
}

// handleSeasonRankings accepts "current" as the id of the open season.
func (a *api) handleSeasonRankings(w http.ResponseWriter, r *http.Request) {
	standings, err := a.deps.Seasons.SeasonRankings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	standings.Rankings = limitSlice(standings.Rankings, queryInt(r, "limit"))
	writeJSON(w, http.StatusOK, standings)
}

func (a *api) handleSeasonExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := a.deps.Seasons.ExportSeasonRankings(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeBytes(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "season-"+id+"-rankings.xlsx", data)
}

func (a *api) handleSeasonChart(w http.ResponseWriter, r *http.Request) {
	png, err := a.deps.Seasons.RenderSeasonChart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeBytes(w, "image/png", "", png)
}

func (a *api) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playerA, playerB := q.Get("a"), q.Get("b")
	if playerA == "" || playerB == "" {
		writeError(w, http.StatusBadRequest, "query parameters a and b are required")
		return
	}
	record, err := a.deps.Seasons.HeadToHead(r.Context(), q.Get("season"), playerA, playerB)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"players": record.Players,
		"wins": map[string]int{
			record.Players[0]: record.WinsFor(record.Players[0]),
			record.Players[1]: record.WinsFor(record.Players[1]),
		},
		"matches": record.Matches,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, seasondomain.ErrSeasonNotFound),
		errors.Is(err, seasondomain.ErrNoActiveSeason),
		errors.Is(err, ratingdomain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ratingdomain.ErrInvalidTag),
		errors.Is(err, ratingdomain.ErrInvalidMatch),
		errors.Is(err, seasondomain.ErrInvalidMatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "API request failed",
			attr.String("path", r.URL.Path),
			attr.String("request_id", middleware.GetReqID(r.Context())),
			attr.Error(err),
		)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeBytes(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func limitSlice[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
