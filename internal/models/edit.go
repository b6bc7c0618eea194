package models

// ToolName is the name under which the editor is registered with callers.
const ToolName = "str_replace_based_edit_tool"

// Commands accepted by the edit tool.
const (
	CommandView       = "view"
	CommandCreate     = "create"
	CommandStrReplace = "str_replace"
	CommandInsert     = "insert"
)

// Commands lists the allowed values of EditRequest.Command in the order they
// are advertised to callers.
var Commands = []string{CommandView, CommandCreate, CommandStrReplace, CommandInsert}

// EditRequest is the single argument object of the edit tool. Which of the
// optional fields are required depends on Command; that validation happens
// before any filesystem access. Optional fields are pointers so that an
// absent field can be told apart from an explicit zero value (an empty
// old_str is rejected, a missing one is a different error).
type EditRequest struct {
	// Command selects the operation to run.
	Command string `json:"command" jsonschema:"required,enum=view,enum=create,enum=str_replace,enum=insert,description=The commands to run. Allowed options are: view\\, create\\, str_replace\\, insert."`
	// Path is the target file or directory. It may be a native absolute
	// path, a path relative to the working directory, or a shell-style
	// drive path such as /c/Users/repo/file.txt.
	Path string `json:"path" jsonschema:"required,description=Absolute path to file or directory\\, e.g. /repo/file.py or /repo."`
	// FileText is required for create: the content of the file to be created.
	FileText *string `json:"file_text,omitempty" jsonschema:"description=Required parameter of create command\\, with the content of the file to be created."`
	// OldStr is required for str_replace: the exact text to replace.
	OldStr *string `json:"old_str,omitempty" jsonschema:"description=Required parameter of str_replace command containing the string in path to replace."`
	// NewStr is the replacement text for str_replace (defaults to deletion
	// when absent) and the text to insert for insert (required there).
	NewStr *string `json:"new_str,omitempty" jsonschema:"description=Optional parameter of str_replace command containing the new string (if not given\\, no string will be added). Required parameter of insert command containing the string to insert."`
	// InsertLine is required for insert: the 0-indexed line after which
	// NewStr is inserted. 0 inserts before the first line.
	InsertLine *int `json:"insert_line,omitempty" jsonschema:"description=Required parameter of insert command. The new_str will be inserted AFTER the line insert_line of path."`
	// ViewRange optionally restricts view on a file to [start, end],
	// 1-indexed and inclusive. An end of -1 means through end of file.
	ViewRange []int `json:"view_range,omitempty" jsonschema:"description=Optional parameter of view command when path points to a file. If none is given the full file is shown. [11\\, 12] shows lines 11 and 12. Indexing starts at 1. [start_line\\, -1] shows all lines from start_line to the end of the file."`
}

// ToolExecResult is the only thing returned across the tool boundary:
// Output on success, Error plus a non-zero ErrorCode on failure, never both.
type ToolExecResult struct {
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// ResultFromError converts an ErrorDetail into the boundary result form.
func ResultFromError(detail *ErrorDetail) *ToolExecResult {
	return &ToolExecResult{Error: detail.Message, ErrorCode: detail.Code}
}

// ResultFromOutput wraps successful tool output.
func ResultFromOutput(output string) *ToolExecResult {
	return &ToolExecResult{Output: output}
}
