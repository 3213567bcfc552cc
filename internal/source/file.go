package source

type (
	// FileID uniquely identifies a file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about how a file entered the set.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (snapshot payload,
	// test fixture, stdin) rather than loaded from disk.
	FileVirtual FileFlags = 1 << iota
)

// File captures path, content and the precomputed line index for one
// source file referenced by diagnostics.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol is a human-readable position, both components 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}
