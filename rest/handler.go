package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Desperationis/penguin/domain"
	"github.com/Desperationis/penguin/errs"
	"github.com/Desperationis/penguin/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse represents the success response structure
type SuccessResponse[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
	Data      *T     `json:"data,omitempty"`
}

type EmptyResponse struct{}

func NewSuccessResponse[T any](data *T) SuccessResponse[T] {
	return SuccessResponse[T]{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

type Params struct {
	fx.In
	Svc domain.Service
}

func NewHandler(params Params) (*Handler, error) {
	return &Handler{
		Svc: params.Svc,
	}, nil
}

type Handler struct {
	Svc domain.Service
}

func (h *Handler) JSONResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logger.Logger(ctx).Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}

func (h *Handler) JSONBind(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	err := decoder.Decode(dst)
	if err != nil {
		return err
	}
	return nil
}

func (h *Handler) ErrorResponse(ctx context.Context, w http.ResponseWriter, status int, errMsg string, err error) {
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg(errMsg)
	}
	resp := ErrorResponse{
		Success: false,
		Error:   errMsg,
	}
	h.JSONResponse(ctx, w, status, resp)
}

// HandleError maps a service error onto an HTTP status.
func (h *Handler) HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	if httpErr, ok := errs.IsHTTPStatusError(err); ok {
		h.ErrorResponse(ctx, w, httpErr.StatusCode, httpErr.Message, httpErr.OriginalErr)
		return
	}

	switch {
	case errors.Is(err, domain.ErrProcessNotFound),
		errors.Is(err, domain.ErrContainerNotFound):
		h.ErrorResponse(ctx, w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrPermissionDenied):
		h.ErrorResponse(ctx, w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, domain.ErrCgroupV2Unsupported):
		h.ErrorResponse(ctx, w, http.StatusNotImplemented, err.Error(), nil)
	default:
		h.ErrorResponse(ctx, w, http.StatusInternalServerError, "Internal server error", err)
	}
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message":   "Penguin Container Introspection API",
		"version":   "1.0.0",
		"endpoints": "/api/v1/auth/token (POST), /api/v1/namespaces/{pid}/processes (GET), /api/v1/containers/{id}/cgroup (GET), /api/v1/containers/{id}/processes (GET), /api/v1/containers/{id}/init (GET), /health (GET), /metrics (GET)",
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "Penguin Container Introspection API",
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}
