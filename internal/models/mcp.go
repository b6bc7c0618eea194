package models

// MCPToolContent is one content block of a tool call result.
type MCPToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MCPToolResult represents the result of a tools/call invocation. Tool-level
// failures are reported here with IsError set, not as protocol errors.
type MCPToolResult struct {
	Content []MCPToolContent `json:"content"`
	IsError bool             `json:"isError"`
}

// InitializeResponse is the result of the "initialize" method.
type InitializeResponse struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// ServerInfo identifies the server to the caller.
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Capabilities advertises what the server supports.
type Capabilities struct {
	Tools ToolsCapabilities `json:"tools"`
}

// ToolsCapabilities is an empty object for now.
type ToolsCapabilities struct{}

// ToolsListResponse is the result of the "tools/list" method.
type ToolsListResponse struct {
	Tools []ToolDefinition `json:"tools"`
}

// ToolDefinition describes a single tool available through the server.
type ToolDefinition struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	ArgumentsSchema Schema          `json:"arguments_schema"`
	ResponseSchema  Schema          `json:"response_schema"`
	Annotations     ToolAnnotations `json:"annotations"`
}

// Schema is a JSON schema, kept as a generic map for flexibility.
type Schema map[string]interface{}

// ToolAnnotations provides hints about the tool's behavior.
type ToolAnnotations struct {
	ReadOnlyHint    bool `json:"readOnlyHint"`
	DestructiveHint bool `json:"destructiveHint"`
}
