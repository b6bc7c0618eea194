package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
	"unicode"
)

// FileStats holds basic statistics about a file.
type FileStats struct {
	Size    int64
	IsDir   bool
	ModTime time.Time
	Mode    os.FileMode
}

// Adapter defines the content-access boundary used by the editor. It reads
// and writes whole files as UTF-8 text and performs the defensive
// existence/type checks around every write. Implementations must be safe for
// concurrent use; the adapter itself holds no state between calls.
type Adapter interface {
	// ReadFileText reads the entire file as text. Invalid UTF-8 sequences
	// are replaced with U+FFFD rather than rejected.
	ReadFileText(path string) (string, error)
	// WriteFileText overwrites path with content in one step, creating the
	// parent directory if needed and verifying the result afterwards. The
	// platform strip filter is applied before writing.
	WriteFileText(path, content string) error
	FileExists(path string) (bool, error)
	GetFileStats(path string) (*FileStats, error)
	MkdirAll(path string) error
	// ListEntries lists non-hidden entries of dir up to two levels deep.
	// Each entry is stat-verified before inclusion; entries that vanish
	// between enumeration and verification are dropped silently.
	// Directories carry a trailing separator.
	ListEntries(dir string) ([]string, error)
}

// pictographRanges is the fixed block-list of code points stripped from
// content before writing on platforms whose terminals cannot encode them.
// Emoticons, symbols and pictographs, transport, alchemical, geometric,
// supplemental arrows/symbols, chess, extended pictographs, dingbats.
var pictographRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2702, Hi: 0x27B0, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
		{Lo: 0x1F700, Hi: 0x1F77F, Stride: 1},
		{Lo: 0x1F780, Hi: 0x1F7FF, Stride: 1},
		{Lo: 0x1F800, Hi: 0x1F8FF, Stride: 1},
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1},
		{Lo: 0x1FA00, Hi: 0x1FA6F, Stride: 1},
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1},
	},
}

// DefaultAdapter is the standard implementation of Adapter using the os
// package.
type DefaultAdapter struct {
	// StripSymbols enables the lossy pictograph filter on writes. On by
	// default only where the platform's console encoding chokes on these
	// code points.
	StripSymbols bool
}

// NewDefaultAdapter creates a DefaultAdapter with platform defaults.
func NewDefaultAdapter() *DefaultAdapter {
	return &DefaultAdapter{StripSymbols: runtime.GOOS == "windows"}
}

var _ Adapter = (*DefaultAdapter)(nil)

// ReadFileText reads the entire file into a string, replacing invalid UTF-8
// sequences instead of failing on them.
func (fs *DefaultAdapter) ReadFileText(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s: %w", path, err)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied reading file: %s: %w", path, err)
		}
		return "", fmt.Errorf("failed to read file: %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}

// SanitizeText applies the pictograph strip filter. Lossy and best-effort:
// it removes the listed ranges and nothing else.
func (fs *DefaultAdapter) SanitizeText(content string) string {
	if !fs.StripSymbols {
		return content
	}
	return strings.Map(func(r rune) rune {
		if unicode.Is(pictographRanges, r) {
			return -1
		}
		return r
	}, content)
}

// WriteFileText writes content to path in a single whole-file overwrite.
// The write goes through a temporary file in the target directory followed
// by a rename, so a failure part-way never leaves a half-written target.
func (fs *DefaultAdapter) WriteFileText(path, content string) error {
	content = fs.SanitizeText(content)

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	// Harmless after a successful rename.
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(content); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write to temporary file %s: %w", tempFile.Name(), err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file %s: %w", tempFile.Name(), err)
	}
	if err := os.Rename(tempFile.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temporary file %s to %s: %w", tempFile.Name(), path, err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("file written to %s, but failed to set final permissions: %w", path, err)
	}

	// The original path must now be a regular file.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("file was not created: %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("created path is not a file: %s", path)
	}
	return nil
}

// FileExists checks if a file exists.
func (fs *DefaultAdapter) FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("error checking if file exists %s: %w", path, err)
}

// GetFileStats retrieves statistics for a given path.
func (fs *DefaultAdapter) GetFileStats(path string) (*FileStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found for stats: %s: %w", path, err)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied getting stats for file: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to get file stats for %s: %w", path, err)
	}
	return &FileStats{
		Size:    info.Size(),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
		Mode:    info.Mode().Perm(),
	}, nil
}

// MkdirAll creates path and any missing parents.
func (fs *DefaultAdapter) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// ListEntries lists non-hidden entries of dir up to two levels deep. Every
// entry is stat-verified individually so that files deleted mid-enumeration
// are dropped rather than reported.
func (fs *DefaultAdapter) ListEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s: %w", dir, err)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied reading directory: %s: %w", dir, err)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	sep := string(os.PathSeparator)
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			continue
		}
		if !entry.IsDir() {
			names = append(names, name)
			continue
		}
		names = append(names, name+sep)
		subEntries, err := os.ReadDir(filepath.Join(dir, name))
		if err != nil {
			// Unreadable subdirectory: keep the parent entry only.
			continue
		}
		for _, sub := range subEntries {
			subName := sub.Name()
			if strings.HasPrefix(subName, ".") {
				continue
			}
			if _, err := os.Stat(filepath.Join(dir, name, subName)); err != nil {
				continue
			}
			if sub.IsDir() {
				names = append(names, name+sep+subName+sep)
			} else {
				names = append(names, name+sep+subName)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
