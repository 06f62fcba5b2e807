package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"custodian/internal/catalog"
	"custodian/internal/lookup"
	"custodian/internal/metrics"
	"custodian/pkg/logging"
)

// TokenHeader carries the shared webhook secret.
const TokenHeader = "X-Custodian-Token"

const maxBodyBytes = 4 << 20

// Pinger is implemented by stores that can report backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Handler.
type Options struct {
	// Writer receives PUT, DELETE and webhook writes. When nil the API is
	// read-only and write routes answer 405.
	Writer catalog.ReadWriter
	// WebhookToken, when set, must match the X-Custodian-Token header.
	WebhookToken string
	// Health is pinged by /health when set.
	Health Pinger
	// IncludeContextDefault applies when a resource request omits
	// include_context.
	IncludeContextDefault bool
}

// Handler serves the REST API over a lookup service.
type Handler struct {
	service *lookup.Service
	writer  catalog.ReadWriter
	token   string
	health  Pinger

	includeContextDefault bool
}

// NewHandler creates a Handler.
func NewHandler(service *lookup.Service, opts Options) *Handler {
	return &Handler{
		service: service,
		writer:  opts.Writer,
		token:   opts.WebhookToken,
		health:  opts.Health,

		includeContextDefault: opts.IncludeContextDefault,
	}
}

// SetupRoutes registers every route on router.
func SetupRoutes(router *mux.Router, h *Handler) {
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/services", h.ListServices).Methods(http.MethodGet)
	api.HandleFunc("/services/{name}", h.GetService).Methods(http.MethodGet)
	api.HandleFunc("/services/{name}", h.PutService).Methods(http.MethodPut)
	api.HandleFunc("/services/{name}", h.DeleteService).Methods(http.MethodDelete)
	api.HandleFunc("/services/{name}/dependencies", h.GetDependencies).Methods(http.MethodGet)
	api.HandleFunc("/services/{name}/dependents", h.GetDependents).Methods(http.MethodGet)
	api.HandleFunc("/resources/{id}", h.GetResource).Methods(http.MethodGet)
	api.HandleFunc("/resources/{id}/owner", h.GetResourceOwner).Methods(http.MethodGet)
	api.HandleFunc("/webhooks/catalog", h.CatalogWebhook).Methods(http.MethodPost)
}

// Health reports ok, or 503 when the catalog backend does not answer.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListServices handles GET /api/v1/services?team=.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context(), r.URL.Query().Get("team"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, services)
}

// GetService handles GET /api/v1/services/{name}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	record, err := h.service.GetService(r.Context(), name)
	if err != nil {
		respondErr(w, err)
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("service %q not found in catalog", name))
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// PutService handles PUT /api/v1/services/{name}. The body is a full
// service record whose name must match the path.
func (h *Handler) PutService(w http.ResponseWriter, r *http.Request) {
	if h.writer == nil {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeReadOnly, "catalog is read-only")
		return
	}
	name := mux.Vars(r)["name"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
		return
	}
	record, err := decodeRecord(body)
	if err != nil {
		respondErr(w, err)
		return
	}
	if record.Name != name {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest,
			fmt.Sprintf("body name %q does not match path %q", record.Name, name))
		return
	}

	existing, err := h.writer.GetService(r.Context(), name)
	if err != nil {
		respondErr(w, catalog.Unavailable("catalog", err))
		return
	}
	changed, err := h.writer.UpsertService(r.Context(), record)
	if err != nil {
		respondErr(w, err)
		return
	}
	logging.Info("HTTPAPI", "Upserted service %s (changed=%t)", name, changed)

	status := http.StatusOK
	if existing == nil {
		status = http.StatusCreated
	}
	respondJSON(w, status, map[string]interface{}{"service": name, "changed": changed})
}

// DeleteService handles DELETE /api/v1/services/{name}.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if h.writer == nil {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeReadOnly, "catalog is read-only")
		return
	}
	name := mux.Vars(r)["name"]
	if err := h.writer.DeleteService(r.Context(), name); err != nil {
		respondErr(w, err)
		return
	}
	logging.Info("HTTPAPI", "Deleted service %s", name)
	w.WriteHeader(http.StatusNoContent)
}

// GetDependencies handles GET /api/v1/services/{name}/dependencies.
func (h *Handler) GetDependencies(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	edges, found, err := h.service.Dependencies(r.Context(), name)
	if err != nil {
		respondErr(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("service %q not found in catalog", name))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"service": name, "dependencies": edges})
}

// GetDependents handles GET /api/v1/services/{name}/dependents.
func (h *Handler) GetDependents(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	edges, found, err := h.service.Dependents(r.Context(), name)
	if err != nil {
		respondErr(w, err)
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("service %q not found in catalog", name))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"service": name, "dependents": edges})
}

// GetResource handles GET /api/v1/resources/{id}?include_context=<bool>.
// A resource without live status is still 200; status carries not_found.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	includeContext := h.includeContextDefault
	if v := r.URL.Query().Get("include_context"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "include_context must be a boolean")
			return
		}
		includeContext = b
	}

	resp, err := h.service.Lookup(r.Context(), mux.Vars(r)["id"], lookup.LookupOptions{IncludeContext: includeContext})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetResourceOwner handles GET /api/v1/resources/{id}/owner.
func (h *Handler) GetResourceOwner(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.FindResourceOwner(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondErr(w, err)
		return
	}
	status := http.StatusOK
	if resp.Owner == nil {
		status = http.StatusNotFound
	}
	respondJSON(w, status, resp)
}

// webhookPayload is the body of a GitOps catalog push.
type webhookPayload struct {
	Services []json.RawMessage `json:"services"`
	Prune    bool              `json:"prune"`
}

// CatalogWebhook handles POST /api/v1/webhooks/catalog. Every record is
// schema-validated before anything is written.
func (h *Handler) CatalogWebhook(w http.ResponseWriter, r *http.Request) {
	if h.writer == nil {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeReadOnly, "catalog is read-only")
		return
	}
	if h.token != "" {
		got := r.Header.Get(TokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
			respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid "+TokenHeader)
			return
		}
	}

	var payload webhookPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid webhook payload: "+err.Error())
		return
	}

	records := make([]catalog.ServiceRecord, 0, len(payload.Services))
	for i, raw := range payload.Services {
		record, err := decodeRecord(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, fmt.Sprintf("services[%d]: %v", i, err))
			return
		}
		if err := catalog.Validate(record); err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeValidationFailed, fmt.Sprintf("services[%d]: %v", i, err))
			return
		}
		records = append(records, record)
	}

	result, err := catalog.Sync(r.Context(), h.writer, records, payload.Prune)
	if err != nil {
		metrics.CatalogSyncTotal.WithLabelValues("webhook", metrics.OutcomeError).Inc()
		respondErr(w, err)
		return
	}
	metrics.CatalogSyncTotal.WithLabelValues("webhook", metrics.OutcomeOK).Inc()
	logging.Info("HTTPAPI", "Catalog webhook applied: %d created, %d updated, %d unchanged, %d deleted",
		len(result.Created), len(result.Updated), len(result.Unchanged), len(result.Deleted))
	respondJSON(w, http.StatusOK, result)
}

func decodeRecord(data []byte) (catalog.ServiceRecord, error) {
	var record catalog.ServiceRecord
	if err := catalog.ValidateJSON(data); err != nil {
		return record, err
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, catalog.ValidationError{Field: "body", Message: err.Error()}
	}
	return record, nil
}
