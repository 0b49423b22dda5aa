package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/gnarhq/gnarscore/internal/app"
	"github.com/gnarhq/gnarscore/internal/catalog"
	"github.com/gnarhq/gnarscore/internal/metrics"
)

type CatalogHandler struct {
	service *app.Service
}

func NewCatalogHandler(service *app.Service) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// HandleImport consumes one catalog payload and runs the all-or-nothing
// import. A version already on record is a no-op answered with 200.
func (h *CatalogHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusCreated
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			httpStatusLabel(status),
		).Observe(duration)
	}()

	var payload catalog.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.Error.Printf("Failed to decode catalog payload: %v", err)
		status = http.StatusBadRequest
		if errors.Is(err, catalog.ErrMalformedBasePoints) {
			http.Error(w, "Malformed basePoints in payload", status)
			return
		}
		http.Error(w, "Invalid catalog payload", status)
		return
	}

	mountain, imported, err := h.service.ImportCatalog(r.Context(), &payload)
	if err != nil {
		logger.Error.Printf("Catalog import failed for %s: %v", payload.ID, err)
		metrics.CatalogImportsTotal.WithLabelValues(payload.ID, "error").Inc()
		switch {
		case errors.Is(err, catalog.ErrValidation), errors.Is(err, catalog.ErrMalformedBasePoints):
			status = http.StatusBadRequest
			http.Error(w, "Catalog failed validation, nothing was imported", status)
		default:
			status = http.StatusInternalServerError
			http.Error(w, "Failed to import catalog", status)
		}
		return
	}

	if !imported {
		metrics.CatalogImportsTotal.WithLabelValues(payload.ID, "skipped").Inc()
		status = http.StatusOK
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       payload.ID,
			"imported": false,
		})
		return
	}

	metrics.CatalogImportsTotal.WithLabelValues(mountain.ID, "ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":        mountain.ID,
		"imported":  true,
		"lines":     len(mountain.LineWorths),
		"tricks":    len(mountain.TrickBonuses),
		"ecps":      len(mountain.ECPs),
		"penalties": len(mountain.Penalties),
	})
}

func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	mountains, err := h.service.Store.ListMountains()
	if err != nil {
		logger.Error.Printf("Failed to list mountains: %v", err)
		http.Error(w, "Failed to list mountains", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"mountains": mountains,
	}); err != nil {
		logger.Error.Printf("Failed to encode mountains: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("mountain")
	if id == "" {
		http.Error(w, "Invalid mountain id", http.StatusBadRequest)
		return
	}

	mountain, err := h.service.Store.GetMountain(id)
	if err != nil {
		logger.Error.Printf("Failed to get mountain %s: %v", id, err)
		http.Error(w, "Failed to get mountain", http.StatusInternalServerError)
		return
	}
	if mountain == nil {
		http.Error(w, "Mountain not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mountain); err != nil {
		logger.Error.Printf("Failed to encode mountain: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
