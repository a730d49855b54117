package fsource

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Disk reads and writes the local filesystem.
type Disk struct{}

// Read returns the raw file content.
func (Disk) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the command line
	return data, ioErr("read", path, err)
}

// WriteAtomic renders content into a temp file next to path, syncs it,
// copies the original mode and renames it over path. The write holds the
// process-wide write guard, so a termination request waits for it.
func (Disk) WriteAtomic(path string, content []byte) (err error) {
	release := Guard.Acquire()
	defer release()

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return ioErr("stat", path, statErr)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return ioErr("write", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(content); err != nil {
		return ioErr("write", path, err)
	}
	if err = f.Sync(); err != nil {
		return ioErr("sync", path, err)
	}
	if err = f.Close(); err != nil {
		return ioErr("write", path, err)
	}
	if err = os.Chmod(tmp, mode); err != nil {
		return ioErr("chmod", path, err)
	}
	// Атомарная замена
	if err = os.Rename(tmp, path); err != nil {
		return ioErr("rename", path, err)
	}
	return nil
}

// WriteGuard counts writes in flight. Signal handling waits on it before
// the process exits.
type WriteGuard struct {
	wg sync.WaitGroup
}

// Guard is shared by every Disk source of the process.
var Guard = &WriteGuard{}

// Acquire marks a write as started; the returned func marks it finished.
func (g *WriteGuard) Acquire() (release func()) {
	g.wg.Add(1)
	var once sync.Once
	return func() { once.Do(g.wg.Done) }
}

// Wait blocks until no write is in flight.
func (g *WriteGuard) Wait() {
	g.wg.Wait()
}
