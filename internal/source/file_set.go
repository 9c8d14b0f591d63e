package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 4),
		index: make(map[string]FileID),
	}
}

// Add stores already normalized content and returns a new FileID.
// Adding the same path twice yields a new id; GetLatest returns the newest one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(n)
	p := normalizePath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    p,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[p] = id
	return id
}

// Load reads a file from disk, strips a UTF-8 BOM, folds CRLF and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)

	var flags FileFlags
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds an in-memory file (tests, stdin).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, _ = normalizeCRLF(content)
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil when id is out of range.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Len is the number of files ever added.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// GetLatest returns the newest id registered for path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Text returns the source text under span.
func (fs *FileSet) Text(span Span) string {
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	end := min(int(span.End), len(f.Content))
	start := min(int(span.Start), end)
	return string(f.Content[start:end])
}

// Line returns line lineNum (1-based) without its terminator.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lenContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	idx := int(lineNum) - 1
	var start uint32
	if idx > 0 {
		if idx-1 >= len(f.LineIdx) {
			return ""
		}
		start = f.LineIdx[idx-1] + 1
	}
	end := lenContent
	if idx < len(f.LineIdx) {
		end = f.LineIdx[idx]
	}
	if start > lenContent {
		return ""
	}
	return string(f.Content[start:end])
}

// DisplayPath shortens long absolute paths to their base name.
func (f *File) DisplayPath() string {
	if len(f.Path) < 48 || !filepath.IsAbs(f.Path) {
		return f.Path
	}
	return filepath.Base(f.Path)
}
