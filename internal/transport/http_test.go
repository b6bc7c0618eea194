package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/models"
	"text-editor-server/internal/pathresolve"
)

func newTestHTTPHandler(t *testing.T) (*HTTPHandler, string) {
	t.Helper()
	dir := t.TempDir()
	fs := filesystem.NewDefaultAdapter()
	resolver := pathresolve.NewWithPlatform(fs, dir, false, nil)
	svc := editor.New(fs, resolver, nil)
	return NewHTTPHandler(svc, 1024*1024, nil), dir
}

func serveExecute(t *testing.T, h *HTTPHandler, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/execute", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.handleExecute(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestHTTPHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestExecuteCreate(t *testing.T) {
	h, dir := newTestHTTPHandler(t)
	path := filepath.Join(dir, "made.txt")

	payload, err := json.Marshal(map[string]interface{}{
		"command":   "create",
		"path":      path,
		"file_text": "over http\n",
	})
	require.NoError(t, err)

	rec := serveExecute(t, h, string(payload), "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)

	var result models.ToolExecResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Contains(t, result.Output, "File created successfully at: "+path)
	assert.Empty(t, result.Error)
	assert.Zero(t, result.ErrorCode)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "over http\n", string(content))
}

func TestExecuteNotFoundMapsTo404(t *testing.T) {
	h, dir := newTestHTTPHandler(t)

	payload, err := json.Marshal(map[string]interface{}{
		"command": "view",
		"path":    filepath.Join(dir, "missing.txt"),
	})
	require.NoError(t, err)

	rec := serveExecute(t, h, string(payload), "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var result models.ToolExecResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, errors.CodeNotFound, result.ErrorCode)
	assert.Contains(t, result.Error, "does not exist")
}

func TestExecuteRejectsGet(t *testing.T) {
	h, _ := newTestHTTPHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/execute", nil)
	rec := httptest.NewRecorder()
	h.handleExecute(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestExecuteRejectsWrongContentType(t *testing.T) {
	h, _ := newTestHTTPHandler(t)
	rec := serveExecute(t, h, `{"command":"view","path":"x"}`, "text/plain")
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestExecuteRejectsMalformedJSON(t *testing.T) {
	h, _ := newTestHTTPHandler(t)
	rec := serveExecute(t, h, `{"command": `, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeParseError, resp.Error.Code)
}

func TestExecuteRejectsUnknownFields(t *testing.T) {
	h, _ := newTestHTTPHandler(t)
	rec := serveExecute(t, h, `{"command":"view","path":"x","bogus":true}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteRejectsOversizedBody(t *testing.T) {
	dir := t.TempDir()
	fs := filesystem.NewDefaultAdapter()
	resolver := pathresolve.NewWithPlatform(fs, dir, false, nil)
	svc := editor.New(fs, resolver, nil)
	h := NewHTTPHandler(svc, 64, nil)

	var buf bytes.Buffer
	buf.WriteString(`{"command":"create","path":"big.txt","file_text":"`)
	buf.WriteString(strings.Repeat("a", 256))
	buf.WriteString(`"}`)

	rec := serveExecute(t, h, buf.String(), "application/json")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
