package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileTextRoundTrip(t *testing.T) {
	adapter := NewDefaultAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")

	if err := adapter.WriteFileText(path, "hello\nworld\n"); err != nil {
		t.Fatalf("WriteFileText failed: %v", err)
	}
	got, err := adapter.ReadFileText(path)
	if err != nil {
		t.Fatalf("ReadFileText failed: %v", err)
	}
	if got != "hello\nworld\n" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestReadFileTextMissing(t *testing.T) {
	adapter := NewDefaultAdapter()
	if _, err := adapter.ReadFileText(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadFileTextInvalidUTF8(t *testing.T) {
	adapter := NewDefaultAdapter()
	path := filepath.Join(t.TempDir(), "binaryish.txt")
	if err := os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, '!'}, 0o644); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}

	got, err := adapter.ReadFileText(path)
	if err != nil {
		t.Fatalf("ReadFileText failed: %v", err)
	}
	if !strings.HasPrefix(got, "ok") || !strings.HasSuffix(got, "!") {
		t.Errorf("valid bytes lost: got %q", got)
	}
	if !strings.Contains(got, "�") {
		t.Errorf("invalid bytes not replaced: got %q", got)
	}
}

func TestWriteFileTextCreatesParent(t *testing.T) {
	adapter := NewDefaultAdapter()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.txt")
	if err := adapter.WriteFileText(path, "content"); err != nil {
		t.Fatalf("WriteFileText failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestWriteFileTextOverwrites(t *testing.T) {
	adapter := NewDefaultAdapter()
	path := filepath.Join(t.TempDir(), "f.txt")
	if err := adapter.WriteFileText(path, "old"); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := adapter.WriteFileText(path, "new"); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	got, err := adapter.ReadFileText(path)
	if err != nil {
		t.Fatalf("ReadFileText failed: %v", err)
	}
	if got != "new" {
		t.Errorf("expected overwrite, got %q", got)
	}
}

func TestWriteFileTextLeavesNoTempFiles(t *testing.T) {
	adapter := NewDefaultAdapter()
	dir := t.TempDir()
	if err := adapter.WriteFileText(filepath.Join(dir, "f.txt"), "x"); err != nil {
		t.Fatalf("WriteFileText failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "f.txt" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		strip bool
		in    string
		want  string
	}{
		{"disabled keeps pictographs", false, "done \U0001F600!", "done \U0001F600!"},
		{"enabled strips emoticons", true, "done \U0001F600!", "done !"},
		{"enabled strips dingbats", true, "a✅b", "ab"},
		{"enabled keeps plain text", true, "plain text", "plain text"},
		{"enabled keeps accents", true, "café", "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &DefaultAdapter{StripSymbols: tt.strip}
			if got := adapter.SanitizeText(tt.in); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	adapter := NewDefaultAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}

	exists, err := adapter.FileExists(path)
	if err != nil || !exists {
		t.Errorf("FileExists(%q) = %v, %v; want true, nil", path, exists, err)
	}
	exists, err = adapter.FileExists(filepath.Join(dir, "nope.txt"))
	if err != nil || exists {
		t.Errorf("FileExists on missing = %v, %v; want false, nil", exists, err)
	}
}

func TestGetFileStats(t *testing.T) {
	adapter := NewDefaultAdapter()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("12345"), 0o644); err != nil {
		t.Fatalf("setup write failed: %v", err)
	}

	stats, err := adapter.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats failed: %v", err)
	}
	if stats.Size != 5 || stats.IsDir {
		t.Errorf("unexpected stats: %+v", stats)
	}

	dirStats, err := adapter.GetFileStats(dir)
	if err != nil {
		t.Fatalf("GetFileStats on dir failed: %v", err)
	}
	if !dirStats.IsDir {
		t.Error("expected IsDir for directory")
	}
}

func TestListEntries(t *testing.T) {
	adapter := NewDefaultAdapter()
	dir := t.TempDir()
	mustWrite := func(rel string) {
		t.Helper()
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	mustWrite("top.txt")
	mustWrite(".hidden")
	mustWrite(filepath.Join("sub", "inner.txt"))
	mustWrite(filepath.Join("sub", ".hidden_inner"))
	mustWrite(filepath.Join("sub", "deep", "toodeep.txt"))

	entries, err := adapter.ListEntries(dir)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}

	sep := string(os.PathSeparator)
	want := map[string]bool{
		"top.txt":                  true,
		"sub" + sep:                true,
		"sub" + sep + "inner.txt":  true,
		"sub" + sep + "deep" + sep: true,
	}
	got := make(map[string]bool, len(entries))
	for _, e := range entries {
		got[e] = true
	}
	for name := range want {
		if !got[name] {
			t.Errorf("missing entry %q in %v", name, entries)
		}
	}
	for name := range got {
		if !want[name] {
			t.Errorf("unexpected entry %q (hidden or too deep)", name)
		}
	}
}
