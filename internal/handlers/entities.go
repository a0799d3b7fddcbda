package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"buyers-backend/internal/domain"
	"buyers-backend/internal/store"
	"buyers-backend/pkg/api"
)

// EntityHandler handles entity browsing, the manual add form and intel notes.
type EntityHandler struct {
	entities *store.Entities
	logger   *zap.Logger
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(entities *store.Entities, logger *zap.Logger) *EntityHandler {
	return &EntityHandler{entities: entities, logger: logger}
}

// List handles GET /api/v1/entities. Filter params (macros, micros,
// countries, industry, industries) accept repeated or comma-separated
// values; a row matches a filter when its value set overlaps the
// filter's, and all supplied filters must match.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.entities.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	query := r.URL.Query()
	filters := []struct {
		values map[string]struct{}
		field  func(domain.EntityView) []string
	}{
		{filterValues(query["macros"]), func(v domain.EntityView) []string { return v.Macros }},
		{filterValues(query["micros"]), func(v domain.EntityView) []string { return v.Micros }},
		{filterValues(query["countries"]), func(v domain.EntityView) []string { return scalarSet(v.Country) }},
		{filterValues(query["industry"]), func(v domain.EntityView) []string { return v.Industry }},
		{filterValues(query["industries"]), func(v domain.EntityView) []string { return v.Industries }},
	}

	response := make([]api.EntityResponse, 0, len(views))
	for _, view := range views {
		if !matchesAll(view, filters) {
			continue
		}
		response = append(response, toEntityResponse(view))
	}
	api.Success(w, http.StatusOK, response)
}

// Create handles POST /api/v1/entities (the manual add form).
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateEntityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	record := domain.EntityRecord{
		Entity:        strings.TrimSpace(req.Entity),
		MiKey:         req.MiKey,
		Ticker:        strings.TrimSpace(req.Ticker),
		Website:       optionalField(req.Website),
		Description:   optionalField(req.Description),
		Country:       optionalField(req.Country),
		City:          optionalField(req.City),
		Industry:      optionalField(req.Industry),
		AllIndustries: optionalField(req.AllIndustries),
	}
	if err := h.entities.Insert(r.Context(), record); err != nil {
		handleServiceError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, nil)
}

// UpdateIntel handles PUT /api/v1/entities/{entityID}/intel.
func (h *EntityHandler) UpdateIntel(w http.ResponseWriter, r *http.Request) {
	entityID, err := strconv.ParseInt(chi.URLParam(r, "entityID"), 10, 64)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid entity id")
		return
	}

	var req api.UpdateIntelRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if err := h.entities.UpdateIntel(r.Context(), domain.EntityID(entityID), req.Intel, date); err != nil {
		handleServiceError(w, err)
		return
	}
	api.Success(w, http.StatusOK, nil)
}

func filterValues(params []string) map[string]struct{} {
	values := make(map[string]struct{})
	for _, param := range params {
		for _, value := range strings.Split(param, ",") {
			if v := strings.TrimSpace(value); v != "" {
				values[v] = struct{}{}
			}
		}
	}
	return values
}

func matchesAll(view domain.EntityView, filters []struct {
	values map[string]struct{}
	field  func(domain.EntityView) []string
}) bool {
	for _, filter := range filters {
		if len(filter.values) == 0 {
			continue
		}
		if !overlaps(filter.field(view), filter.values) {
			return false
		}
	}
	return true
}

func overlaps(values []string, filter map[string]struct{}) bool {
	for _, value := range values {
		if _, ok := filter[strings.TrimSpace(value)]; ok {
			return true
		}
	}
	return false
}

func scalarSet(value *string) []string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return []string{*value}
}

func optionalField(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

func toEntityResponse(view domain.EntityView) api.EntityResponse {
	response := api.EntityResponse{
		ID:         int64(view.ID),
		Entity:     view.Entity,
		Ticker:     view.Ticker,
		Macros:     view.Macros,
		Micros:     view.Micros,
		Industry:   view.Industry,
		Industries: view.Industries,
	}
	if view.Website != nil {
		response.Website = *view.Website
	}
	if view.Description != nil {
		response.Description = *view.Description
	}
	if view.Country != nil {
		response.Country = *view.Country
	}
	if view.City != nil {
		response.City = *view.City
	}
	if view.Intel != nil {
		response.Intel = *view.Intel
	}
	if view.IntelDate != nil {
		response.IntelDate = *view.IntelDate
	}
	if response.Macros == nil {
		response.Macros = []string{}
	}
	if response.Micros == nil {
		response.Micros = []string{}
	}
	return response
}
