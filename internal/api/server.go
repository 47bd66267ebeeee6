// Package api exposes the geospatial query operations over HTTP for the
// browser map UI. Every tool endpoint is a GET returning a
// {success, tool, elapsed_ms, data} envelope.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hannesill/oasis/internal/analysis"
	"github.com/hannesill/oasis/internal/gazetteer"
)

// Server routes HTTP requests to the analysis engine.
type Server struct {
	engine *analysis.Engine
}

// NewServer creates a Server over the given engine.
func NewServer(engine *analysis.Engine) *Server {
	return &Server{engine: engine}
}

// Routes builds the HTTP handler. CORS is permissive so the map UI can be
// served from anywhere during development.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/gaps", s.handleGaps)
	r.Get("/api/distance", s.handleDistance)
	r.Get("/api/count", s.handleCount)
	r.Get("/api/geocode", s.handleGeocode)
	r.Get("/facilities.geojson", s.handleGeoJSON)

	return r
}

type envelope struct {
	Success   bool   `json:"success"`
	Tool      string `json:"tool"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Data      any    `json:"data"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := q.Get("location")
	if location == "" {
		location = "Accra"
	}
	radius, err := queryFloat(q.Get("radius_km"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "radius_km must be a number")
		return
	}
	limit, err := queryInt(q.Get("limit"), 20)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	t0 := time.Now()
	result, err := s.engine.Proximity(r.Context(), analysis.ProximityParams{
		Location:  location,
		RadiusKM:  radius,
		Condition: q.Get("condition"),
		Limit:     limit,
	})
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Tool:      "find_facilities_in_radius",
		ElapsedMS: time.Since(t0).Milliseconds(),
		Data:      result,
	})
}

func (s *Server) handleGaps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	specialty := q.Get("specialty")
	if specialty == "" {
		writeError(w, http.StatusBadRequest, "specialty is required")
		return
	}
	minGap, err := queryFloat(q.Get("min_gap_km"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "min_gap_km must be a number")
		return
	}
	limit, err := queryInt(q.Get("limit"), 10)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	t0 := time.Now()
	result, err := s.engine.CoverageGaps(r.Context(), analysis.GapParams{
		ProcedureOrSpecialty: specialty,
		MinGapKM:             minGap,
		Region:               q.Get("region"),
		Limit:                limit,
	})
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Tool:      "find_coverage_gaps",
		ElapsedMS: time.Since(t0).Milliseconds(),
		Data:      result,
	})
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from_location"), q.Get("to_location")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from_location and to_location are required")
		return
	}

	t0 := time.Now()
	result, err := s.engine.Distance(analysis.DistanceParams{From: from, To: to})
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Tool:      "calculate_distance",
		ElapsedMS: time.Since(t0).Milliseconds(),
		Data:      result,
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	t0 := time.Now()
	result, err := s.engine.Count(r.Context(), analysis.CountParams{
		Condition: q.Get("condition"),
		Region:    q.Get("region"),
	})
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Tool:      "count_facilities",
		ElapsedMS: time.Since(t0).Milliseconds(),
		Data:      result,
	})
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := s.engine.Export(r.Context(), analysis.ExportParams{
		Region:       q.Get("region"),
		FacilityType: q.Get("facility_type"),
		Spread:       q.Get("spread") == "true",
	})
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"tool":               "geocode_facilities",
		"geojson":            result.GeoJSON,
		"total_geocoded":     result.TotalGeocoded,
		"total_not_geocoded": result.TotalNotGeocoded,
	})
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Export(r.Context(), analysis.ExportParams{Spread: true})
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.GeoJSON)
}

// writeToolError maps an engine error to a status code. A location the
// gazetteer cannot resolve is the caller's mistake; everything else is ours.
func writeToolError(w http.ResponseWriter, err error) {
	var resErr *gazetteer.ResolutionError
	if errors.As(err, &resErr) {
		writeError(w, http.StatusBadRequest, resErr.Error())
		return
	}
	zap.L().Error("api: tool call failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("api: encode response", zap.Error(err))
	}
}

func queryFloat(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
