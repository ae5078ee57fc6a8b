// Package server exposes the analysis pipeline as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/alexiusacademia/solarrail/internal/analysis"
	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/errs"
	"github.com/alexiusacademia/solarrail/internal/version"
)

// maxBody bounds request payloads (bytes)
const maxBody = 1 << 20

// Options configures the server
type Options struct {
	Addr         string
	Rate         float64 // requests per second per client, 0 disables limiting
	Burst        int
	CacheTTL     time.Duration
	CacheEntries int // 0 uses DefaultCacheEntries
}

// Server serves analyses over HTTP
type Server struct {
	analyzer *analysis.Analyzer
	cache    *Cache[*analysis.Result]
	metrics  *Metrics
	limiter  *IPRateLimiter
	opts     Options
}

// New creates a server around analyzer.
func New(analyzer *analysis.Analyzer, opts Options) *Server {
	s := &Server{
		analyzer: analyzer,
		metrics:  NewMetrics(),
		opts:     opts,
	}
	s.cache = NewCache[*analysis.Result](opts.CacheTTL, opts.CacheEntries, s.metrics)
	if opts.Rate > 0 {
		s.limiter = NewIPRateLimiter(rate.Limit(opts.Rate), opts.Burst)
	}
	return s
}

// Router returns the API routes without access logging.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	if s.limiter != nil {
		api.Use(s.limiter.LimitMiddleware)
	}
	api.Handle("/analyze", s.metrics.WrapHandler("analyze", http.HandlerFunc(s.handleAnalyze))).Methods(http.MethodPost)
	api.Handle("/beam", s.metrics.WrapHandler("beam", http.HandlerFunc(s.handleBeam))).Methods(http.MethodPost)
	api.Handle("/regions", s.metrics.WrapHandler("regions", http.HandlerFunc(s.handleRegions))).Methods(http.MethodGet)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	return router
}

// Handler returns the full handler chain: CORS and access logging around
// the router.
func (s *Server) Handler(accessLog io.Writer) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.LoggingHandler(accessLog, cors(s.Router()))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	accessLog := log.StandardLogger().WriterLevel(log.InfoLevel)
	defer accessLog.Close()

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(accessLog),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.pruneCache(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.opts.Addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// pruneCache sweeps expired analyses once per TTL until ctx is done
func (s *Server) pruneCache(ctx context.Context) {
	if s.opts.CacheTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.opts.CacheTTL)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.cache.Prune()
			log.WithField("entries", n).Debug("analysis cache pruned")
		}
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var in analysis.Input
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}
	if in.RailFile != "" {
		writeError(w, http.StatusBadRequest, "rail_file is not accepted over HTTP, send the rail inline")
		return
	}

	in.ApplyDefaults(s.analyzer.Defaults())
	key, err := json.Marshal(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if res, ok := s.cache.Get(string(key)); ok {
		w.Header().Set("X-Cache", "hit")
		writeJSON(w, http.StatusOK, res)
		return
	}

	res, err := s.analyzer.Run(in)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.cache.Set(string(key), res)
	s.metrics.Analysis(string(res.CriticalZone().Outcome), res.CriticalZone().OptimalSpan)

	w.Header().Set("X-Cache", "miss")
	writeJSON(w, http.StatusOK, res)
}

// BeamRequest is the payload of POST /api/beam
type BeamRequest struct {
	SpanLength    float64 `json:"span_length"`
	NumSpans      int     `json:"num_spans"`
	Load          float64 `json:"load"`
	PointsPerSpan int     `json:"points_per_span,omitempty"`
}

func (s *Server) handleBeam(w http.ResponseWriter, r *http.Request) {
	var req BeamRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	b := beam.NewContinuous(req.SpanLength, req.NumSpans, req.Load)
	if req.PointsPerSpan != 0 {
		b.PointsPerSpan = req.PointsPerSpan
	}
	res, err := b.Solve()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RegionsResponse lists the reference data selectable by clients
type RegionsResponse struct {
	Regions    []string         `json:"regions"`
	Zones      []asnzs.WindZone `json:"zones"`
	RoofTypes  []asnzs.RoofType `json:"roof_types"`
	Categories []float64        `json:"terrain_categories"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	table := s.analyzer.Resolver().Table()
	writeJSON(w, http.StatusOK, RegionsResponse{
		Regions:    table.Regions(),
		Zones:      table.Zones,
		RoofTypes:  []asnzs.RoofType{asnzs.Monoslope, asnzs.Gable},
		Categories: table.TerrainCategories(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrConfiguration), errors.Is(err, errs.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("writing response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
