package fsource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskWriteAtomicKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	var d Disk
	if err := d.WriteAtomic(path, []byte("new content")); err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}
	got, err := d.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "new content" {
		t.Fatalf("content = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestDiskReadMissingIsIOError(t *testing.T) {
	_, err := Disk{}.Read(filepath.Join(t.TempDir(), "missing.rs"))
	if !errors.Is(err, ErrIO) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error = %v, want ErrIO wrapping ErrNotExist", err)
	}
	var ioe *IOError
	if !errors.As(err, &ioe) || ioe.Op != "read" {
		t.Fatalf("expected IOError with op read, got %#v", err)
	}
}

func TestDiskWriteIntoMissingDirFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "x.rs")
	if err := (Disk{}).WriteAtomic(path, []byte("x")); !errors.Is(err, ErrIO) {
		t.Fatalf("error = %v, want ErrIO", err)
	}
}

func TestMemorySource(t *testing.T) {
	m := NewMemory(map[string]string{"a.rs": "/// a\n"})
	data, err := m.Read("a.rs")
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'
	if m.Content("a.rs") != "/// a\n" {
		t.Fatal("Read must return a copy")
	}
	if _, err := m.Read("b.rs"); !errors.Is(err, ErrIO) {
		t.Fatalf("missing file error = %v", err)
	}
	if err := m.WriteAtomic("b.rs", []byte("b")); err != nil {
		t.Fatal(err)
	}
	if m.Writes() != 1 || m.Content("b.rs") != "b" {
		t.Fatalf("writes=%d content=%q", m.Writes(), m.Content("b.rs"))
	}
	if p := m.Paths(); len(p) != 2 || p[0] != "a.rs" || p[1] != "b.rs" {
		t.Fatalf("Paths = %v", p)
	}
}

func TestWriteGuardWaits(t *testing.T) {
	g := &WriteGuard{}
	release := g.Acquire()
	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Wait returned while a write was in flight")
	default:
	}
	release()
	release()
	<-done
}
