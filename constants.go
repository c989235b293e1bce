package aksview

import "math"

// Mode selects how Open accesses the file. Modes combine as bit flags,
// but only four combinations are accepted: ReadOnly, ReadWrite,
// ReadWrite|Create and ReadWrite|Create|Exclusive. Anything else makes
// Open fail with ErrBadMode.
type Mode uint

const (
	// ReadOnly opens an existing file for reading
	ReadOnly Mode = 0x1

	// ReadWrite opens an existing file for reading and writing
	ReadWrite Mode = 0x2

	// Create creates the file if it does not exist. An existing file is
	// opened with its content preserved; use SetLen to shrink it.
	Create Mode = 0x4

	// Exclusive makes Create fail if the file already exists
	Exclusive Mode = 0x8
)

// Viewer limits
const (
	// MaxLen is the largest supported file length in bytes. Offset
	// arithmetic on positions below MaxLen cannot overflow int64.
	MaxLen = math.MaxInt64 / 2

	// DefaultHint is the window-size preference viewers start with (16 MiB)
	DefaultHint = 16 << 20

	// maxWindowSize caps a window at 1 GiB regardless of the hint
	maxWindowSize = 1 << 30
)

// CopyFlag adjusts how Copy writes the destination file.
type CopyFlag uint

const (
	// CopyDefaults writes a plain byte-for-byte copy
	CopyDefaults CopyFlag = 0

	// CopyLZ4 writes the copy as an LZ4 frame
	CopyLZ4 CopyFlag = 0x1
)
