package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/mcp"
	"text-editor-server/internal/models"
	"text-editor-server/internal/pathresolve"
)

func newTestStdioHandler(t *testing.T) (*StdioHandler, string) {
	t.Helper()
	dir := t.TempDir()
	fs := filesystem.NewDefaultAdapter()
	resolver := pathresolve.NewWithPlatform(fs, dir, false, nil)
	svc := editor.New(fs, resolver, nil)
	processor := mcp.NewProcessor(svc, nil)
	return NewStdioHandler(processor, 1024*1024, nil), dir
}

func runStdio(t *testing.T, h *StdioHandler, input string) []models.JSONRPCResponse {
	t.Helper()
	var output bytes.Buffer
	require.NoError(t, h.Start(context.Background(), strings.NewReader(input), &output))

	var responses []models.JSONRPCResponse
	for _, line := range strings.Split(strings.TrimSpace(output.String()), "\n") {
		if line == "" {
			continue
		}
		var resp models.JSONRPCResponse
		require.NoError(t, json.Unmarshal([]byte(line), &resp), "line: %s", line)
		responses = append(responses, resp)
	}
	return responses
}

func TestStdioInitialize(t *testing.T) {
	h, _ := newTestStdioHandler(t)
	responses := runStdio(t, h, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n")

	require.Len(t, responses, 1)
	assert.Nil(t, responses[0].Error)
	assert.Equal(t, "2.0", responses[0].JSONRPC)
	assert.EqualValues(t, 1, responses[0].ID)
}

func TestStdioToolCall(t *testing.T) {
	h, dir := newTestStdioHandler(t)
	path := filepath.Join(dir, "via-stdio.txt")

	args, err := json.Marshal(map[string]interface{}{
		"name": models.ToolName,
		"arguments": map[string]interface{}{
			"command":   "create",
			"path":      path,
			"file_text": "hi\n",
		},
	})
	require.NoError(t, err)
	req, err := json.Marshal(models.JSONRPCRequest{JSONRPC: "2.0", ID: 7, Method: "tools/call", Params: args})
	require.NoError(t, err)

	responses := runStdio(t, h, string(req)+"\n")
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	result, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	assert.Contains(t, string(result), "File created successfully")
}

func TestStdioMalformedLineDoesNotStopLoop(t *testing.T) {
	h, _ := newTestStdioHandler(t)
	input := "this is not json\n" + `{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n"
	responses := runStdio(t, h, input)

	require.Len(t, responses, 2)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, errors.CodeParseError, responses[0].Error.Code)
	assert.Nil(t, responses[1].Error)
	assert.EqualValues(t, 2, responses[1].ID)
}

func TestStdioRejectsWrongVersion(t *testing.T) {
	h, _ := newTestStdioHandler(t)
	responses := runStdio(t, h, `{"jsonrpc":"1.0","id":3,"method":"initialize"}`+"\n")

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, errors.CodeInvalidRequest, responses[0].Error.Code)
}

func TestStdioRejectsMissingMethod(t *testing.T) {
	h, _ := newTestStdioHandler(t)
	responses := runStdio(t, h, `{"jsonrpc":"2.0","id":4}`+"\n")

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, errors.CodeInvalidRequest, responses[0].Error.Code)
}

func TestStdioSkipsBlankLines(t *testing.T) {
	h, _ := newTestStdioHandler(t)
	input := "\n  \n" + `{"jsonrpc":"2.0","id":5,"method":"tools/list"}` + "\n\n"
	responses := runStdio(t, h, input)
	require.Len(t, responses, 1)
	assert.Nil(t, responses[0].Error)
}
