// Package editor implements the edit tool commands on top of the path
// resolver and the filesystem adapter.
//
// Each request is validated, resolved, and executed in that order; no
// filesystem access happens before validation passes. Writes replace the
// whole file atomically, but no cross-request locking is performed:
// serializing concurrent edits to the same file is the caller's
// responsibility.
package editor

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/format"
	"text-editor-server/internal/models"
	"text-editor-server/internal/pathresolve"
	"text-editor-server/internal/runner"
)

// SnippetLines is the number of context lines shown on each side of an edit
// in the post-edit snippet.
const SnippetLines = 4

// Executor is the boundary the transports call through.
type Executor interface {
	Execute(ctx context.Context, req models.EditRequest) (string, *models.ErrorDetail)
}

// Service executes edit tool requests.
type Service struct {
	fs       filesystem.Adapter
	resolver *pathresolve.Resolver
	logger   *zap.Logger

	// shellListing selects find(1) for directory views. Off on Windows,
	// where the native walk is used instead.
	shellListing bool
}

var _ Executor = (*Service)(nil)

// New creates a Service.
func New(fs filesystem.Adapter, resolver *pathresolve.Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		fs:           fs,
		resolver:     resolver,
		logger:       logger,
		shellListing: runtime.GOOS != "windows",
	}
}

// Execute validates req, resolves its path, and dispatches to the command
// implementation. On success the returned string is the complete
// caller-facing output, already formatted and truncated.
func (s *Service) Execute(ctx context.Context, req models.EditRequest) (string, *models.ErrorDetail) {
	if req.Command == "" {
		return "", errors.NewInvalidParamsError(
			fmt.Sprintf("No command provided for the %s tool", models.ToolName))
	}
	if req.Path == "" {
		return "", errors.NewInvalidParamsError(
			fmt.Sprintf("No path provided for the %s tool", models.ToolName))
	}

	resolved, errDetail := s.resolver.Resolve(req.Command, req.Path)
	if errDetail != nil {
		return "", errDetail
	}

	switch req.Command {
	case models.CommandView:
		return s.view(ctx, resolved, req.ViewRange)
	case models.CommandCreate:
		return s.create(resolved.Path, req.FileText)
	case models.CommandStrReplace:
		return s.strReplace(resolved.Path, req.OldStr, req.NewStr)
	case models.CommandInsert:
		return s.insert(resolved.Path, req.InsertLine, req.NewStr)
	default:
		return "", errors.NewInvalidParamsError(fmt.Sprintf(
			"Unrecognized command %s. The allowed commands for the %s tool are: %s",
			req.Command, models.ToolName, quotedCommands()))
	}
}

func (s *Service) view(ctx context.Context, resolved *pathresolve.Resolved, viewRange []int) (string, *models.ErrorDetail) {
	if resolved.IsDir {
		if len(viewRange) > 0 {
			return "", errors.NewInvalidRangeError(
				"The `view_range` parameter is not allowed when `path` points to a directory.")
		}
		return s.viewDirectory(ctx, resolved.Path)
	}
	return s.viewFile(resolved.Path, viewRange)
}

// viewDirectory lists entries up to two levels deep, excluding hidden ones.
// On Unix-like platforms this defers to find(1); elsewhere the adapter walks
// the tree natively.
func (s *Service) viewDirectory(ctx context.Context, path string) (string, *models.ErrorDetail) {
	var listing string
	if s.shellListing {
		res, err := runner.Run(ctx, fmt.Sprintf("find %q -maxdepth 2 -not -path '*/.*'", path))
		if err != nil {
			return "", errors.NewIOFailureError(path, "list", err)
		}
		if res.ExitCode != 0 || res.Stderr != "" {
			return "", errors.NewIOFailureError(path, "list",
				fmt.Errorf("find exited with status %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr)))
		}
		listing = strings.TrimRight(res.Stdout, "\n")
	} else {
		entries, err := s.fs.ListEntries(path)
		if err != nil {
			return "", errors.NewIOFailureError(path, "list", err)
		}
		lines := make([]string, 0, len(entries)+1)
		lines = append(lines, path)
		for _, entry := range entries {
			lines = append(lines, path+separator()+entry)
		}
		listing = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(
		"Here's the files and directories up to 2 levels deep in %s, excluding hidden items:\n%s\n",
		path, listing), nil
}

func (s *Service) viewFile(path string, viewRange []int) (string, *models.ErrorDetail) {
	content, errDetail := s.readFile(path)
	if errDetail != nil {
		return "", errDetail
	}
	if len(viewRange) == 0 {
		return format.MakeOutput(content, path, 1), nil
	}
	if len(viewRange) != 2 {
		return "", errors.NewInvalidRangeError(
			"Invalid `view_range`. It should be a list of two integers.")
	}

	lines := strings.Split(content, "\n")
	nLines := len(lines)
	initLine, finalLine := viewRange[0], viewRange[1]

	if initLine < 1 || initLine > nLines {
		return "", errors.NewInvalidRangeError(fmt.Sprintf(
			"Invalid `view_range`: %s. Its first element `%d` should be within the range of lines of the file: [1, %d]",
			intList(viewRange), initLine, nLines))
	}
	if finalLine > nLines {
		return "", errors.NewInvalidRangeError(fmt.Sprintf(
			"Invalid `view_range`: %s. Its second element `%d` should be smaller than the number of lines in the file: `%d`",
			intList(viewRange), finalLine, nLines))
	}
	if finalLine != -1 && finalLine < initLine {
		return "", errors.NewInvalidRangeError(fmt.Sprintf(
			"Invalid `view_range`: %s. Its second element `%d` should be larger or equal than its first `%d`",
			intList(viewRange), finalLine, initLine))
	}

	if finalLine == -1 {
		content = strings.Join(lines[initLine-1:], "\n")
	} else {
		content = strings.Join(lines[initLine-1:finalLine], "\n")
	}
	return format.MakeOutput(content, path, initLine), nil
}

func (s *Service) create(path string, fileText *string) (string, *models.ErrorDetail) {
	if fileText == nil {
		return "", errors.NewMissingArgumentError("file_text", models.CommandCreate)
	}
	if errDetail := s.writeFile(path, *fileText); errDetail != nil {
		return "", errDetail
	}
	s.logger.Info("file created", zap.String("path", path), zap.Int("bytes", len(*fileText)))
	return fmt.Sprintf("File created successfully at: %s", path), nil
}

func (s *Service) strReplace(path string, oldStr, newStr *string) (string, *models.ErrorDetail) {
	if oldStr == nil {
		return "", errors.NewMissingArgumentError("old_str", models.CommandStrReplace)
	}

	raw, errDetail := s.readFile(path)
	if errDetail != nil {
		return "", errDetail
	}
	// Tabs are expanded in the file and both patterns before matching, so a
	// pattern with literal tabs matches the same text the caller saw.
	content := format.ExpandTabs(raw)
	old := format.ExpandTabs(*oldStr)
	replacement := ""
	if newStr != nil {
		replacement = format.ExpandTabs(*newStr)
	}

	if old == "" {
		return "", errors.NewEmptyPatternError()
	}
	switch occurrences := strings.Count(content, old); {
	case occurrences == 0:
		return "", errors.NewPatternNotFoundError(old, path)
	case occurrences > 1:
		return "", errors.NewAmbiguousMatchError(old, matchLines(content, old))
	}

	newContent := strings.Replace(content, old, replacement, 1)
	if errDetail := s.writeFile(path, newContent); errDetail != nil {
		return "", errDetail
	}
	s.logger.Info("string replaced", zap.String("path", path))

	// Snippet window around the replacement, computed from the match offset
	// in the pre-edit content.
	replacedLine := strings.Count(content[:strings.Index(content, old)], "\n")
	startLine := maxInt(0, replacedLine-SnippetLines)
	endLine := replacedLine + SnippetLines + strings.Count(replacement, "\n")
	newLines := strings.Split(newContent, "\n")
	if endLine >= len(newLines) {
		endLine = len(newLines) - 1
	}
	snippet := strings.Join(newLines[startLine:endLine+1], "\n")

	var b strings.Builder
	fmt.Fprintf(&b, "The file %s has been edited. ", path)
	b.WriteString(format.MakeOutput(snippet, "a snippet of "+path, startLine+1))
	b.WriteString("Review the changes and make sure they are as expected. Edit the file again if necessary.")
	return b.String(), nil
}

func (s *Service) insert(path string, insertLine *int, newStr *string) (string, *models.ErrorDetail) {
	if insertLine == nil {
		return "", errors.NewMissingArgumentError("insert_line", models.CommandInsert)
	}
	if newStr == nil {
		return "", errors.NewMissingArgumentError("new_str", models.CommandInsert)
	}

	raw, errDetail := s.readFile(path)
	if errDetail != nil {
		return "", errDetail
	}
	content := format.ExpandTabs(raw)
	inserted := format.ExpandTabs(*newStr)

	lines := strings.Split(content, "\n")
	nLines := len(lines)
	at := *insertLine
	if at < 0 || at > nLines {
		return "", errors.NewInvalidLineError(at, nLines)
	}

	insertedLines := strings.Split(inserted, "\n")
	updated := make([]string, 0, nLines+len(insertedLines))
	updated = append(updated, lines[:at]...)
	updated = append(updated, insertedLines...)
	updated = append(updated, lines[at:]...)

	if errDetail := s.writeFile(path, strings.Join(updated, "\n")); errDetail != nil {
		return "", errDetail
	}
	s.logger.Info("lines inserted",
		zap.String("path", path),
		zap.Int("after_line", at),
		zap.Int("lines", len(insertedLines)))

	snippetLines := make([]string, 0, len(insertedLines)+2*SnippetLines)
	snippetLines = append(snippetLines, lines[maxInt(0, at-SnippetLines):at]...)
	snippetLines = append(snippetLines, insertedLines...)
	snippetLines = append(snippetLines, lines[at:minInt(at+SnippetLines, nLines)]...)

	var b strings.Builder
	fmt.Fprintf(&b, "The file %s has been edited. ", path)
	b.WriteString(format.MakeOutput(
		strings.Join(snippetLines, "\n"),
		"a snippet of the edited file",
		maxInt(1, at-SnippetLines+1)))
	b.WriteString("Review the changes and make sure they are as expected (correct indentation, no duplicate lines, etc). Edit the file again if necessary.")
	return b.String(), nil
}

func (s *Service) readFile(path string) (string, *models.ErrorDetail) {
	content, err := s.fs.ReadFileText(path)
	if err != nil {
		return "", errors.NewIOFailureError(path, "read", err)
	}
	return content, nil
}

func (s *Service) writeFile(path, content string) *models.ErrorDetail {
	if err := s.fs.WriteFileText(path, content); err != nil {
		return errors.NewIOFailureError(path, "write to", err)
	}
	return nil
}

// matchLines returns the 1-indexed, deduplicated line numbers at which old
// starts in content, derived from the byte offsets of non-overlapping
// matches. A match spanning several lines is reported at its starting line.
func matchLines(content, old string) []int {
	var lines []int
	seen := make(map[int]bool)
	offset := 0
	for {
		i := strings.Index(content[offset:], old)
		if i < 0 {
			break
		}
		start := offset + i
		line := strings.Count(content[:start], "\n") + 1
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
		offset = start + len(old)
	}
	return lines
}

func quotedCommands() string {
	quoted := make([]string, len(models.Commands))
	for i, c := range models.Commands {
		quoted[i] = "\"" + c + "\""
	}
	return strings.Join(quoted, ", ")
}

func intList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func separator() string {
	if runtime.GOOS == "windows" {
		return "\\"
	}
	return "/"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
