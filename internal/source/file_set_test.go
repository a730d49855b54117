package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.rs", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	// Добавляем тот же файл с новым содержимым
	id2 := fs.Add("test.rs", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("test.rs")
	if !exists || latestID != id2 {
		t.Fatalf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	// старая версия всё ещё доступна
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content 'hello world', got %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "hello universe" {
		t.Errorf("Expected second file content 'hello universe', got %q", got)
	}
}

func TestLineColCountsRunes(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.rs", []byte("/// Fun facets shalld cause some erroris.\nfn ünï() {}\n"))
	f := fs.Get(id)

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"start of file", 0, LineCol{Line: 1, Col: 1}},
		{"shalld", 15, LineCol{Line: 1, Col: 16}},
		{"newline belongs to line 1", 41, LineCol{Line: 1, Col: 42}},
		{"start of line 2", 42, LineCol{Line: 2, Col: 1}},
		{"after multibyte runes", 48, LineCol{Line: 2, Col: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.LineCol(tt.off)
			if got != tt.want {
				t.Fatalf("LineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
			}
			back, ok := f.Offset(got)
			if !ok || back != tt.off {
				t.Fatalf("Offset(%+v) = %d,%v, want %d", got, back, ok, tt.off)
			}
		})
	}
}

func TestLinesAndSlices(t *testing.T) {
	f := NewFile(0, "a.rs", []byte("/// ä\n/// b\n"), 0)
	if f.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", f.LineCount())
	}
	if f.Line(1) != "/// ä" || f.Line(2) != "/// b" {
		t.Fatalf("unexpected lines %q %q", f.Line(1), f.Line(2))
	}
	if f.Line(3) != "" {
		t.Fatalf("line past the end should be empty, got %q", f.Line(3))
	}
	r := f.LineRange(2)
	if r.Start != 6 || r.End != 11 {
		t.Fatalf("LineRange(2) = %v, want 6..11", r)
	}
	if !f.HasLineBreak(2) {
		t.Fatal("line 2 should end with a newline")
	}
	if got := f.Slice(Span{Start: 4, End: 5}); got != "ä" {
		t.Fatalf("Slice = %q, want ä", got)
	}
	if f.RuneCount() != 12 {
		t.Fatalf("RuneCount = %d, want 12", f.RuneCount())
	}
	if f.RuneOffset(f.ByteOffset(5)) != 5 {
		t.Fatal("ByteOffset and RuneOffset must be inverse")
	}
}

func TestLoadNormalizesAndRecordsFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.rs")
	raw := []byte("\xEF\xBB\xBF/// a\r\n/// b\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "/// a\n/// b\n" {
		t.Fatalf("content not normalized: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags not recorded: %b", f.Flags)
	}
	body, hadBOM := CutBOM(raw)
	if !hadBOM || !bytes.Equal(WithBOM(body), raw) {
		t.Fatalf("CutBOM/WithBOM do not round-trip %q", raw)
	}
}

func TestFormatPathBasename(t *testing.T) {
	f := NewFile(0, "/very/long/path/to/some/deeply/nested/directory/file.rs", nil, 0)
	if got := f.FormatPath("auto", ""); got != "file.rs" {
		t.Fatalf("auto format = %q", got)
	}
	if got := f.FormatPath("basename", ""); got != "file.rs" {
		t.Fatalf("basename format = %q", got)
	}
}
