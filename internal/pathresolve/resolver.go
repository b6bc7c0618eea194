// Package pathresolve turns a raw, possibly foreign-styled path string into
// one canonical filesystem location, gated by the operation that will use it.
//
// Raw input falls into exactly one of a small set of shapes: a native
// absolute path, a native relative path, or a shell-style drive path such as
// /c/Users/repo/file.txt on platforms that use drive letters. Classification
// happens once, before any filesystem call, and resolution is a pure
// function of the raw path, the command, the working directory, and the
// existence state of the filesystem.
package pathresolve

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"text-editor-server/internal/errors"
	"text-editor-server/internal/filesystem"
	"text-editor-server/internal/models"
)

// Resolved is the canonical location produced for one request. It is derived
// once, consumed by exactly one operation, and discarded.
type Resolved struct {
	Path  string
	IsDir bool
}

type pathClass int

const (
	classAbsolute pathClass = iota
	classRelative
	classDriveShell    // /c/Users style on a drive-letter platform
	classSlashRelative // leading separator on a drive platform, but no drive letter
)

// Resolver resolves raw path strings. It holds only configuration, no state
// between calls.
type Resolver struct {
	fs         filesystem.Adapter
	workingDir string
	drivePaths bool
	sep        string
	logger     *zap.Logger
}

// New creates a Resolver with platform defaults: drive-letter handling on
// Windows, the native path separator, and the given working directory.
func New(fs filesystem.Adapter, workingDir string, logger *zap.Logger) *Resolver {
	return NewWithPlatform(fs, workingDir, runtime.GOOS == "windows", logger)
}

// NewWithPlatform creates a Resolver with explicit drive-letter behavior.
// Resolution depends only on the arguments given here plus the filesystem,
// so drive-path handling is testable on any platform.
func NewWithPlatform(fs filesystem.Adapter, workingDir string, drivePaths bool, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		fs:         fs,
		workingDir: workingDir,
		drivePaths: drivePaths,
		sep:        string(os.PathSeparator),
		logger:     logger,
	}
}

// Resolve maps rawPath to one canonical location for command, or fails with
// a classified error. For create the target must not exist and the parent
// directory is created; for every other command the target must exist, with
// a bounded list of normalization fallbacks tried before concluding the
// path is absent. Non-view commands may not target a directory.
func (r *Resolver) Resolve(command, rawPath string) (*Resolved, *models.ErrorDetail) {
	if rawPath == "" {
		return nil, errors.NewInvalidPathError(rawPath, "path must not be empty")
	}
	class, candidate := r.classify(rawPath)
	r.logger.Debug("path classified",
		zap.String("raw", rawPath),
		zap.String("candidate", candidate),
		zap.String("command", command))

	if command == models.CommandCreate {
		return r.resolveForCreate(candidate)
	}
	return r.resolveExisting(command, rawPath, class, candidate)
}

// classify assigns rawPath to exactly one shape and produces the canonical
// candidate for that shape. No filesystem access happens here.
func (r *Resolver) classify(raw string) (pathClass, string) {
	if r.drivePaths && (strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, `\`)) {
		trimmed := raw[1:]
		if len(trimmed) >= 2 && isASCIILetter(trimmed[0]) && (trimmed[1] == '/' || trimmed[1] == '\\') {
			drive := unicode.ToUpper(rune(trimmed[0]))
			rest := r.translate(trimmed[2:])
			return classDriveShell, string(drive) + ":" + r.sep + rest
		}
		// Leading separator without a drive letter: treat as relative to
		// the working directory after separator translation.
		return classSlashRelative, filepath.Join(r.workingDir, r.translate(trimmed))
	}
	if filepath.IsAbs(raw) {
		return classAbsolute, filepath.Clean(raw)
	}
	return classRelative, filepath.Join(r.workingDir, raw)
}

// resolveForCreate validates that the candidate does not exist yet and
// ensures its parent directory does.
func (r *Resolver) resolveForCreate(candidate string) (*Resolved, *models.ErrorDetail) {
	exists, err := r.fs.FileExists(candidate)
	if err != nil {
		return nil, errors.NewIOFailureError(candidate, "stat", err)
	}
	if exists {
		stats, statErr := r.fs.GetFileStats(candidate)
		if statErr != nil {
			return nil, errors.NewIOFailureError(candidate, "stat", statErr)
		}
		if stats.IsDir {
			return nil, errors.NewIsADirectoryError(candidate,
				fmt.Sprintf("Path %s is a directory. Cannot create a file with the same name.", candidate))
		}
		return nil, errors.NewAlreadyExistsError(candidate)
	}

	parent := filepath.Dir(candidate)
	parentExists, err := r.fs.FileExists(parent)
	if err != nil {
		return nil, errors.NewIOFailureError(parent, "stat", err)
	}
	if !parentExists {
		if err := r.fs.MkdirAll(parent); err != nil {
			return nil, errors.NewIOFailureError(parent, "create parent directory", err)
		}
		r.logger.Debug("created parent directory", zap.String("dir", parent))
	}
	return &Resolved{Path: candidate}, nil
}

// resolveExisting tries the candidate and then a fixed, bounded list of
// alternates before concluding NotFound. The first candidate that exists
// wins; a directory hit is rejected for every command except view.
func (r *Resolver) resolveExisting(command, raw string, class pathClass, candidate string) (*Resolved, *models.ErrorDetail) {
	for _, p := range r.candidates(raw, class, candidate) {
		exists, err := r.fs.FileExists(p)
		if err != nil {
			return nil, errors.NewIOFailureError(p, "stat", err)
		}
		if !exists {
			r.logger.Debug("candidate does not exist", zap.String("path", p))
			continue
		}
		stats, statErr := r.fs.GetFileStats(p)
		if statErr != nil {
			return nil, errors.NewIOFailureError(p, "stat", statErr)
		}
		if stats.IsDir && command != models.CommandView {
			return nil, errors.NewIsADirectoryError(p,
				fmt.Sprintf("The path %s is a directory and only the `view` command can be used on directories", p))
		}
		r.logger.Debug("path resolved", zap.String("raw", raw), zap.String("resolved", p))
		return &Resolved{Path: p, IsDir: stats.IsDir}, nil
	}
	return nil, errors.NewPathNotFoundError(candidate)
}

// candidates returns the fixed-order probe list for an existing target:
// the classified candidate first, then a working-directory re-join after
// separator translation for drive-shell input, then the historical
// drive-letter joins. Duplicates collapse so each location is checked once.
func (r *Resolver) candidates(raw string, class pathClass, candidate string) []string {
	list := []string{candidate}
	trimmed := strings.TrimLeft(raw, `/\`)
	if class == classDriveShell {
		list = append(list, filepath.Join(r.workingDir, r.translate(trimmed)))
	}
	if r.drivePaths {
		list = append(list,
			filepath.Clean("c:"+r.translate(raw)),
			filepath.Clean("c:"+r.sep+r.translate(trimmed)),
		)
	}

	seen := make(map[string]bool, len(list))
	deduped := list[:0]
	for _, p := range list {
		if seen[p] {
			continue
		}
		seen[p] = true
		deduped = append(deduped, p)
	}
	return deduped
}

func (r *Resolver) translate(s string) string {
	s = strings.ReplaceAll(s, "/", r.sep)
	return strings.ReplaceAll(s, `\`, r.sep)
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
