package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kozymacro/papara-checkout/internal/catalog"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/kozymacro/papara-checkout/docs" // registers swagger docs
)

// FormFactory creates a fresh checkout form for one API call.
type FormFactory func() (*checkout.Form, error)

// Handler holds dependencies for API handlers.
type Handler struct {
	catalog    *catalog.Catalog
	newForm    FormFactory
	bufferPool *sync.Pool // Pool of bytes.Buffer for JSON encoding
}

// New creates a new API Handler.
func New(cat *catalog.Catalog, newForm FormFactory) (*Handler, error) {
	if cat == nil {
		return nil, errors.New("package catalog is required")
	}
	if newForm == nil {
		return nil, errors.New("form factory is required")
	}
	return &Handler{
		catalog: cat,
		newForm: newForm,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/packages", h.ListPackages)
	mux.HandleFunc("POST /api/v1/checkout", h.Checkout)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	buf := h.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		h.bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error","code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  status,
	})
}

func (h *Handler) writeFieldError(w http.ResponseWriter, field checkout.Field, msg string) {
	h.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: msg,
		Code:  http.StatusUnprocessableEntity,
		Field: string(field),
	})
}
