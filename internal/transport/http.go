package transport

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/models"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second
)

// HTTPHandler exposes the editor over plain HTTP: POST /execute takes an
// EditRequest and returns a ToolExecResult, GET /health reports liveness.
type HTTPHandler struct {
	editor     editor.Executor
	logger     *zap.Logger
	maxReqSize int64
	Server     *http.Server
}

// NewHTTPHandler creates an HTTPHandler. maxRequestBytes bounds the request
// body size.
func NewHTTPHandler(exec editor.Executor, maxRequestBytes int64, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		editor:     exec,
		logger:     logger,
		maxReqSize: maxRequestBytes,
		Server:     &http.Server{},
	}
}

// RegisterRoutes sets up the HTTP routes for the handler.
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/execute", h.handleExecute)
	mux.HandleFunc("/health", h.handleHealth)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed,
			errors.NewInvalidRequestError(fmt.Sprintf("Method %s not allowed for /execute. Use POST.", r.Method)))
		return
	}
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		h.writeError(w, http.StatusUnsupportedMediaType,
			errors.NewInvalidRequestError("Invalid Content-Type header. Must be 'application/json'."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxReqSize)
	defer r.Body.Close()

	var req models.EditRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	output, errDetail := h.editor.Execute(r.Context(), req)
	if errDetail != nil {
		status := errors.MapErrorToHTTPStatus(errDetail.Code)
		h.writeJSON(w, status, models.ResultFromError(errDetail))
		return
	}
	h.writeJSON(w, http.StatusOK, models.ResultFromOutput(output))
}

func (h *HTTPHandler) writeDecodeError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stdErrors.As(err, &maxBytesErr):
		h.writeError(w, http.StatusRequestEntityTooLarge,
			errors.NewInvalidRequestError(fmt.Sprintf("Request body exceeds maximum size of %d bytes.", h.maxReqSize)))
	case stdErrors.As(err, &syntaxErr):
		h.writeError(w, http.StatusBadRequest,
			errors.NewParseError(fmt.Sprintf("Invalid JSON syntax at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())))
	case stdErrors.As(err, &typeErr):
		h.writeError(w, http.StatusBadRequest,
			errors.NewParseError(fmt.Sprintf("Invalid JSON type for field '%s'. Expected '%s' but got '%s' at offset %d.",
				typeErr.Field, typeErr.Type, typeErr.Value, typeErr.Offset)))
	default:
		h.writeError(w, http.StatusBadRequest,
			errors.NewParseError(fmt.Sprintf("Failed to decode request body: %v", err)))
	}
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.Error("response encode failed", zap.Error(err))
		}
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, statusCode int, errDetail *models.ErrorDetail) {
	if errDetail == nil {
		statusCode = http.StatusInternalServerError
		errDetail = errors.NewInternalError("An unexpected error occurred and error details were lost.")
	}
	h.writeJSON(w, statusCode, errors.ToErrorResponse(errDetail))
}

// StartServer configures and runs the HTTP server. It blocks until the
// server stops; a graceful shutdown returns nil.
func (h *HTTPHandler) StartServer(port int, readTimeoutSec, writeTimeoutSec int) error {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	readTimeout := defaultReadTimeout
	if readTimeoutSec > 0 {
		readTimeout = time.Duration(readTimeoutSec) * time.Second
	}
	writeTimeout := defaultWriteTimeout
	if writeTimeoutSec > 0 {
		writeTimeout = time.Duration(writeTimeoutSec) * time.Second
	}

	h.Server.Addr = fmt.Sprintf(":%d", port)
	h.Server.Handler = mux
	h.Server.ReadTimeout = readTimeout
	h.Server.WriteTimeout = writeTimeout

	h.logger.Info("http server starting",
		zap.Int("port", port),
		zap.Duration("read_timeout", readTimeout),
		zap.Duration("write_timeout", writeTimeout))

	err := h.Server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	h.logger.Info("http server shut down", zap.Int("port", port))
	return nil
}

// Shutdown stops the server gracefully, waiting for in-flight requests up to
// the context deadline.
func (h *HTTPHandler) Shutdown(ctx context.Context) error {
	return h.Server.Shutdown(ctx)
}
