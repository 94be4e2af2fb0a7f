package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jrosariodev/dealscout/internal/models"
	"github.com/jrosariodev/dealscout/internal/pipeline"
	"github.com/jrosariodev/dealscout/internal/search"
)

type Handlers struct {
	store  *pipeline.SnapshotStore
	engine *search.Engine
	logger *slog.Logger
}

func NewHandlers(store *pipeline.SnapshotStore, engine *search.Engine, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		engine: engine,
		logger: logger.With("component", "api"),
	}
}

// SearchResponse carries ranked deals for a query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []*models.Deal `json:"results"`
}

// Search handles GET /api/v1/search?q=...&limit=...&category=...&brand=...
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := search.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	filters, err := filtersFromQuery(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results := h.engine.Search(query, filters, limit)
	h.respondJSON(w, http.StatusOK, SearchResponse{
		Query:   query,
		Total:   len(results),
		Results: results,
	})
}

// SuggestResponse carries autocomplete phrases for a partial query.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// Suggest handles GET /api/v1/suggest?q=...
func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	suggestions := h.engine.Suggestions(query)
	if suggestions == nil {
		suggestions = []string{}
	}
	h.respondJSON(w, http.StatusOK, SuggestResponse{
		Query:       query,
		Suggestions: suggestions,
	})
}

// DealsResponse carries the latest snapshot contents.
type DealsResponse struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Total       int            `json:"total"`
	Deals       []*models.Deal `json:"deals"`
}

// Deals handles GET /api/v1/deals, serving the most recent snapshot.
func (h *Handlers) Deals(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.store.Load()
	if err != nil {
		h.logger.Error("failed to load snapshot", "error", err)
		h.respondError(w, http.StatusServiceUnavailable, "no deal snapshot available")
		return
	}

	deals := snapshot.Deals()
	h.respondJSON(w, http.StatusOK, DealsResponse{
		GeneratedAt: snapshot.Metadata.GeneratedAt,
		Total:       len(deals),
		Deals:       deals,
	})
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func filtersFromQuery(r *http.Request) (*models.Filters, error) {
	q := r.URL.Query()
	filters := &models.Filters{}
	empty := true

	if raw := q.Get("category"); raw != "" {
		category, ok := models.CategoryFromString(raw)
		if !ok {
			return nil, &badFilterError{"unknown category: " + raw}
		}
		filters.Categories = []models.Category{category}
		empty = false
	}
	if raw := q.Get("brand"); raw != "" {
		filters.Brands = []string{raw}
		empty = false
	}
	if raw := q.Get("condition"); raw != "" {
		condition, ok := models.ConditionFromString(raw)
		if !ok {
			return nil, &badFilterError{"unknown condition: " + raw}
		}
		filters.Condition = condition
		empty = false
	}
	if raw := q.Get("min_price"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil || min < 0 {
			return nil, &badFilterError{"min_price must be a non-negative number"}
		}
		if filters.PriceRange == nil {
			filters.PriceRange = &models.PriceRange{}
		}
		filters.PriceRange.Min = min
		empty = false
	}
	if raw := q.Get("max_price"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil || max <= 0 {
			return nil, &badFilterError{"max_price must be a positive number"}
		}
		if filters.PriceRange == nil {
			filters.PriceRange = &models.PriceRange{}
		}
		filters.PriceRange.Max = max
		empty = false
	}

	if empty {
		return nil, nil
	}
	return filters, nil
}

type badFilterError struct{ msg string }

func (e *badFilterError) Error() string { return e.msg }

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
