package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/mcp"
	"text-editor-server/internal/models"
)

// StdioHandler speaks newline-delimited JSON-RPC 2.0 over a reader/writer
// pair, one request per line. Malformed input produces an error response on
// the stream; it never terminates the loop.
type StdioHandler struct {
	processor *mcp.Processor
	logger    *zap.Logger
	// maxLineBytes bounds a single request line. Lines beyond it fail the
	// scan and end the session.
	maxLineBytes int
}

// NewStdioHandler creates a StdioHandler. maxRequestBytes bounds the size of
// one request line.
func NewStdioHandler(processor *mcp.Processor, maxRequestBytes int, logger *zap.Logger) *StdioHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StdioHandler{
		processor:    processor,
		logger:       logger,
		maxLineBytes: maxRequestBytes,
	}
}

// Start reads requests from input until EOF or a read error, writing one
// response line per request to output.
func (h *StdioHandler) Start(ctx context.Context, input io.Reader, output io.Writer) error {
	h.logger.Info("stdio handler started")

	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), h.maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var req models.JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			h.writeResponse(output, models.JSONRPCResponse{
				JSONRPC: "2.0",
				Error: errors.ToJSONRPCError(
					errors.NewParseError(fmt.Sprintf("Invalid JSON received: %v", err))),
			})
			continue
		}

		resp := models.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID}
		switch {
		case req.JSONRPC != "2.0":
			resp.Error = errors.ToJSONRPCError(
				errors.NewInvalidRequestError("Invalid JSON-RPC version. Must be '2.0'."))
		case req.Method == "":
			resp.Error = errors.ToJSONRPCError(
				errors.NewInvalidRequestError("Method not specified."))
		default:
			result, rpcErr := h.processor.ProcessRequest(ctx, req)
			if rpcErr != nil {
				resp.Error = rpcErr
			} else {
				resp.Result = result
			}
		}
		h.writeResponse(output, resp)
	}

	if err := scanner.Err(); err != nil {
		h.logger.Error("stdio read failed", zap.Error(err))
		return err
	}
	h.logger.Info("stdio handler finished")
	return nil
}

func (h *StdioHandler) writeResponse(output io.Writer, resp models.JSONRPCResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("response marshal failed", zap.Any("id", resp.ID), zap.Error(err))
		fallback := models.JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error: errors.ToJSONRPCError(
				errors.NewInternalError("Server error: failed to marshal response.")),
		}
		payload, _ = json.Marshal(fallback)
	}
	if _, err := fmt.Fprintln(output, string(payload)); err != nil {
		h.logger.Error("response write failed", zap.Error(err))
	}
}
