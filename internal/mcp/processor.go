// Package mcp implements the MCP method surface on top of the editor:
// initialize, tools/list, and tools/call.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"go.uber.org/zap"

	"text-editor-server/internal/editor"
	"text-editor-server/internal/errors"
	"text-editor-server/internal/models"
)

const (
	protocolVersion = "2024-11-05"
	serverVersion   = "1.0.0"
)

// ToolCallParams carries the arguments of a tools/call request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Processor dispatches decoded JSON-RPC requests to the editor. The tool
// schemas are reflected once at construction and reused for every
// tools/list response.
type Processor struct {
	editor editor.Executor
	logger *zap.Logger
	tools  []models.ToolDefinition
}

// NewProcessor creates a Processor.
func NewProcessor(exec editor.Executor, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		editor: exec,
		logger: logger,
		tools:  []models.ToolDefinition{editToolDefinition()},
	}
}

// ProcessRequest handles one decoded request and returns either a result
// object or a JSON-RPC error. Request-level concerns (parsing, version
// checks, response framing) belong to the transport, not here.
func (p *Processor) ProcessRequest(ctx context.Context, req models.JSONRPCRequest) (interface{}, *models.JSONRPCError) {
	switch req.Method {
	case "initialize":
		return &models.InitializeResponse{
			ProtocolVersion: protocolVersion,
			Capabilities:    models.Capabilities{Tools: models.ToolsCapabilities{}},
			ServerInfo: models.ServerInfo{
				Name:        "text-editor-server",
				Version:     serverVersion,
				Description: "Line-oriented file viewing and editing over MCP",
			},
		}, nil
	case "tools/list":
		return &models.ToolsListResponse{Tools: p.tools}, nil
	case "tools/call":
		return p.handleToolCall(ctx, req.Params)
	default:
		return nil, errors.ToJSONRPCError(errors.NewMethodNotFoundError(req.Method))
	}
}

func (p *Processor) handleToolCall(ctx context.Context, rawParams json.RawMessage) (interface{}, *models.JSONRPCError) {
	var params ToolCallParams
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return nil, errors.ToJSONRPCError(
			errors.NewInvalidParamsError("Invalid parameters for tools/call: " + err.Error()))
	}
	if params.Name != models.ToolName {
		return nil, errors.ToJSONRPCError(
			errors.NewInvalidParamsError(fmt.Sprintf("Unknown tool: %s", params.Name)))
	}

	var editReq models.EditRequest
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments, &editReq); err != nil {
			return nil, errors.ToJSONRPCError(
				errors.NewInvalidParamsError("Invalid tool arguments: " + err.Error()))
		}
	}

	p.logger.Debug("tool call",
		zap.String("command", editReq.Command),
		zap.String("path", editReq.Path))

	output, errDetail := p.editor.Execute(ctx, editReq)
	if errDetail != nil {
		// Editor failures are tool results, not protocol errors, so the
		// calling model sees them and can correct its next request.
		return &models.MCPToolResult{
			Content: []models.MCPToolContent{{
				Type: "text",
				Text: fmt.Sprintf("Error: %s (Code: %d)", errDetail.Message, errDetail.Code),
			}},
			IsError: true,
		}, nil
	}
	return &models.MCPToolResult{
		Content: []models.MCPToolContent{{Type: "text", Text: output}},
	}, nil
}

// editToolDefinition builds the single tool advertisement, with both schemas
// reflected from the request and result types so the advertisement cannot
// drift from what the decoder accepts.
func editToolDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name: models.ToolName,
		Description: "Custom editing tool for viewing, creating and editing files. " +
			"`view` shows a file with line numbers or lists a directory two levels deep. " +
			"`create` writes a new file and refuses to overwrite. " +
			"`str_replace` replaces one unique occurrence of old_str. " +
			"`insert` adds new_str after the given line.",
		ArgumentsSchema: reflectSchema(&models.EditRequest{}),
		ResponseSchema:  reflectSchema(&models.ToolExecResult{}),
		Annotations:     models.ToolAnnotations{DestructiveHint: true},
	}
}

func reflectSchema(v interface{}) models.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		// Reflection of our own static types cannot fail at runtime.
		panic(fmt.Sprintf("reflect tool schema: %v", err))
	}
	var schema models.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		panic(fmt.Sprintf("decode tool schema: %v", err))
	}
	return schema
}
