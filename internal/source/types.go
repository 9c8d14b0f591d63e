package source

import "fmt"

// FileID indexes a File inside its FileSet.
type FileID uint32

// FileFlags records how a file's content was obtained and normalized.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // added from memory, never read from disk
	FileHadBOM                               // a UTF-8 BOM was stripped
	FileNormalizedCRLF                       // CRLF line endings were folded to LF
)

// Has reports whether every flag in mask is set.
func (f FileFlags) Has(mask FileFlags) bool { return f&mask == mask }

// File is one loaded source text. Content is already normalized; spans are
// byte offsets into it.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n', ascending.
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Col) }
