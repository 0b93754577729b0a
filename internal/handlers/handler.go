package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dcm-project/hosting-adapter-manager/internal/api/v1alpha1"
	"github.com/dcm-project/hosting-adapter-manager/internal/service"
	"github.com/go-chi/chi/v5"
)

// Handler serves the adapter API over chi.
type Handler struct {
	adapterService *service.AdapterService
}

// NewHandler creates a new Handler with the given adapter service.
func NewHandler(adapterService *service.AdapterService) *Handler {
	return &Handler{adapterService: adapterService}
}

// Register mounts every route this handler serves onto the router.
func (h *Handler) Register(router chi.Router) {
	router.Get("/health", h.GetHealth)
	router.Route("/adapters", func(r chi.Router) {
		r.Get("/", h.ListAdapters)
		r.Post("/", h.CreateAdapter)
		r.Route("/{adapterID}", func(r chi.Router) {
			r.Get("/", h.GetAdapter)
			r.Put("/", h.UpdateAdapter)
			r.Delete("/", h.DeleteAdapter)
			r.Post("/sync", h.TriggerSync)
			r.Get("/catalog", h.GetCatalog)
			r.Get("/sync-runs", h.ListSyncRuns)
			r.Get("/credential-fields", h.ListCredentialFields)
		})
	})
}

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, v1alpha1.Health{Status: "ok", Path: "health"})
}

func (h *Handler) CreateAdapter(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.Adapter
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.problem(w, "validation-error", "Validation failed", "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	adapter, err := h.adapterService.CreateAdapter(r.Context(), &req)
	if err != nil {
		h.serviceProblem(w, err, "Failed to create adapter")
		return
	}

	h.respond(w, http.StatusCreated, adapter)
}

func (h *Handler) ListAdapters(w http.ResponseWriter, r *http.Request) {
	var global *bool
	if raw := r.URL.Query().Get("global"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			h.problem(w, "validation-error", "Validation failed", "invalid global parameter", http.StatusBadRequest)
			return
		}
		global = &value
	}

	pageSize := 0
	if raw := r.URL.Query().Get("max_page_size"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			h.problem(w, "validation-error", "Validation failed", "invalid max_page_size parameter", http.StatusBadRequest)
			return
		}
		pageSize = value
	}

	result, err := h.adapterService.ListAdapters(r.Context(),
		r.URL.Query().Get("user_id"), global, pageSize, r.URL.Query().Get("page_token"))
	if err != nil {
		h.serviceProblem(w, err, "Failed to list adapters")
		return
	}

	h.respond(w, http.StatusOK, v1alpha1.AdapterList{
		Adapters:      result.Adapters,
		NextPageToken: result.NextPageToken,
	})
}

func (h *Handler) GetAdapter(w http.ResponseWriter, r *http.Request) {
	adapter, err := h.adapterService.GetAdapter(r.Context(), chi.URLParam(r, "adapterID"))
	if err != nil {
		h.serviceProblem(w, err, "Failed to get adapter")
		return
	}

	h.respond(w, http.StatusOK, adapter)
}

func (h *Handler) UpdateAdapter(w http.ResponseWriter, r *http.Request) {
	var req v1alpha1.Adapter
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.problem(w, "validation-error", "Validation failed", "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	adapter, err := h.adapterService.UpdateAdapter(r.Context(), chi.URLParam(r, "adapterID"), &req)
	if err != nil {
		h.serviceProblem(w, err, "Failed to update adapter")
		return
	}

	h.respond(w, http.StatusOK, adapter)
}

func (h *Handler) DeleteAdapter(w http.ResponseWriter, r *http.Request) {
	if err := h.adapterService.DeleteAdapter(r.Context(), chi.URLParam(r, "adapterID")); err != nil {
		h.serviceProblem(w, err, "Failed to delete adapter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TriggerSync kicks off a catalog sync in the background and returns 202;
// the outcome is visible via the adapter's sync runs.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	accepted, err := h.adapterService.TriggerSync(r.Context(), chi.URLParam(r, "adapterID"))
	if err != nil {
		h.serviceProblem(w, err, "Failed to trigger sync")
		return
	}

	h.respond(w, http.StatusAccepted, accepted)
}

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	catalog, err := h.adapterService.GetCatalog(r.Context(), chi.URLParam(r, "adapterID"), includeInactive)
	if err != nil {
		h.serviceProblem(w, err, "Failed to get catalog")
		return
	}

	h.respond(w, http.StatusOK, catalog)
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			h.problem(w, "validation-error", "Validation failed", "invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = value
	}

	runs, err := h.adapterService.ListSyncRuns(r.Context(), chi.URLParam(r, "adapterID"), limit)
	if err != nil {
		h.serviceProblem(w, err, "Failed to list sync runs")
		return
	}

	h.respond(w, http.StatusOK, runs)
}

func (h *Handler) ListCredentialFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.adapterService.ListCredentialFields(r.Context(), chi.URLParam(r, "adapterID"))
	if err != nil {
		h.serviceProblem(w, err, "Failed to list credential fields")
		return
	}

	h.respond(w, http.StatusOK, fields)
}

func (h *Handler) respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// serviceProblem translates service error codes into problem responses:
// VALIDATION to 400, NOT_FOUND to 404, CONFLICT to 409, everything else 500.
func (h *Handler) serviceProblem(w http.ResponseWriter, err error, fallbackTitle string) {
	if svcErr, ok := err.(*service.ServiceError); ok {
		switch svcErr.Code {
		case service.ErrCodeValidation:
			h.problem(w, "validation-error", "Validation failed", svcErr.Message, http.StatusBadRequest)
			return
		case service.ErrCodeNotFound:
			h.problem(w, "not-found", "Resource not found", svcErr.Message, http.StatusNotFound)
			return
		case service.ErrCodeConflict:
			h.problem(w, "conflict", "Resource conflict", svcErr.Message, http.StatusConflict)
			return
		}
	}
	h.problem(w, "internal-error", fallbackTitle, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) problem(w http.ResponseWriter, errType, title, detail string, status int) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v1alpha1.Error{
		Type:   errType,
		Title:  title,
		Detail: &detail,
		Status: &status,
	})
}
