package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files. It is safe for concurrent use,
// the driver shares one set across its workers.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores a file from normalized content and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	f := NewFile(id, path, content, flags)
	fileSet.files = append(fileSet.files, f)
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[f.Path] = id
	return id
}

// AddRaw normalizes BOM and CRLF in raw file bytes and calls Add.
func (fileSet *FileSet) AddRaw(path string, raw []byte) FileID {
	content, flags := Normalize(raw)
	return fileSet.Add(path, content, flags)
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddRaw(path, content), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	return f.LineCol(span.Start), f.LineCol(span.End)
}

// NewFile builds a standalone File from normalized content.
func NewFile(id FileID, path string, content []byte, flags FileFlags) *File {
	runeIdx, lineIdx := buildIndexes(content)
	return &File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		runeIdx: runeIdx,
		lineIdx: lineIdx,
	}
}

// RuneCount returns the number of runes in the file.
func (f *File) RuneCount() uint32 {
	return uint32(len(f.runeIdx) - 1) // #nosec G115 -- index was built with safecast
}

// ByteOffset maps a rune offset to a byte offset. Offsets past the end clamp to len(Content).
func (f *File) ByteOffset(off uint32) int {
	if int(off) >= len(f.runeIdx) {
		return len(f.Content)
	}
	return int(f.runeIdx[off])
}

// RuneOffset maps a byte offset to the rune that contains it.
func (f *File) RuneOffset(b int) uint32 {
	i := sort.Search(len(f.runeIdx), func(i int) bool { return int(f.runeIdx[i]) > b })
	if i == 0 {
		return 0
	}
	return uint32(i - 1) // #nosec G115 -- bounded by runeIdx length
}

// LineCount returns the number of lines. A trailing newline does not open a new line.
func (f *File) LineCount() uint32 {
	n := uint32(len(f.lineIdx)) // #nosec G115 -- index was built with safecast
	if n > 1 && f.lineIdx[n-1] == f.RuneCount() {
		n--
	}
	return n
}

// LineCol converts a rune offset into a 1-based line/column pair.
func (f *File) LineCol(off uint32) LineCol {
	return toLineCol(f.lineIdx, off)
}

// Offset converts a line/column pair back to a rune offset.
func (f *File) Offset(lc LineCol) (uint32, bool) {
	if lc.Line == 0 || lc.Col == 0 || int(lc.Line) > len(f.lineIdx) {
		return 0, false
	}
	r := f.LineRange(lc.Line)
	off := r.Start + lc.Col - 1
	// позиция сразу за последним символом строки допустима
	if off > r.End {
		return 0, false
	}
	return off, true
}

// LineRange returns the span of line n (1-based) without its newline.
func (f *File) LineRange(n uint32) Span {
	if n == 0 || int(n) > len(f.lineIdx) {
		return Span{File: f.ID, Start: f.RuneCount(), End: f.RuneCount()}
	}
	start := f.lineIdx[n-1]
	end := f.RuneCount()
	if int(n) < len(f.lineIdx) {
		end = f.lineIdx[n] - 1
	}
	return Span{File: f.ID, Start: start, End: end}
}

// Line возвращает строку с заданным номером (1-based) без перевода строки.
// Если строка не существует, возвращает пустую строку.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n) > len(f.lineIdx) {
		return ""
	}
	return f.Slice(f.LineRange(n))
}

// HasLineBreak reports whether line n is terminated by a newline.
func (f *File) HasLineBreak(n uint32) bool {
	return n > 0 && int(n) < len(f.lineIdx)
}

// Slice returns the text covered by span.
func (f *File) Slice(span Span) string {
	return string(f.Content[f.ByteOffset(span.Start):f.ByteOffset(span.End)])
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// mode: "absolute", "relative", "basename", "auto"
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
		return f.Path

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
		return f.Path

	case "basename":
		return BaseName(f.Path)

	case "auto":
		// Auto: если путь короткий или относительный - как есть, иначе basename
		if len(f.Path) < 40 || !filepath.IsAbs(f.Path) {
			return f.Path
		}
		return BaseName(f.Path)

	default:
		return f.Path
	}
}
