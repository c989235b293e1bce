// Package mmap provides the platform memory-mapping calls used to view
// byte ranges of a file.
package mmap

// Map is a single mapped view of a file range.
type Map struct {
	data     []byte // Mapped memory region
	fd       int    // File descriptor or handle the view was created from
	off      int64  // File offset of the first mapped byte
	size     int64  // Mapped size in bytes
	writable bool   // True if mapped with write permission
	// Windows-specific mapping-object handle (zero on Unix)
	mapping uintptr
}

// Data returns the mapped byte slice, or nil after Close.
func (m *Map) Data() []byte {
	return m.data
}

// Offset returns the file offset of the first mapped byte.
func (m *Map) Offset() int64 {
	return m.off
}

// Size returns the mapped size in bytes.
func (m *Map) Size() int64 {
	return m.size
}

// Writable returns true if the mapping is writable.
func (m *Map) Writable() bool {
	return m.writable
}

// Contains reports whether the file offset pos falls inside the view.
func (m *Map) Contains(pos int64) bool {
	return m.data != nil && pos >= m.off && pos < m.off+m.size
}

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrInvalidSize   = &Error{Op: "invalid size"}
	ErrInvalidOffset = &Error{Op: "invalid offset"}
	ErrNotMapped     = &Error{Op: "not mapped"}
)
