package aksview

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akslib/aksview/mmap"
)

// viewerSignature is the magic number marking live viewers.
const viewerSignature uint32 = 0x414B5356 // "AKSV"

var (
	errInvalidViewer = errors.New("viewer is closed or invalid")
	errReadOnly      = errors.New("viewer is read-only")
)

// Viewer provides random byte and integer access to a file through a
// single bounded memory-mapped window. The window follows the accessed
// offsets transparently; callers never deal with mapping boundaries.
//
// A Viewer is not safe for concurrent use. Callers that share one
// across goroutines must serialize access themselves.
type Viewer struct {
	signature uint32

	file *os.File
	path string

	length   int64 // cached file length
	pageSize int64 // platform mapping granularity, multiple of 8
	hint     int64 // window size preference
	window   int64 // computed window size, multiple of pageSize capped at length

	region *mmap.Map // current window, nil when nothing is mapped

	readOnly bool
	dirty    bool // window has unsynced writes; implies region != nil
	touch    bool // modification timestamp update pending for Close

	reporter Reporter
}

// Option configures a Viewer at Open time.
type Option func(*Viewer)

// WithReporter routes this viewer's faults and warnings to r instead of
// the process-wide reporter.
func WithReporter(r Reporter) Option {
	return func(v *Viewer) {
		if r != nil {
			v.reporter = r
		}
	}
}

// WithHint sets the initial window-size preference, like SetHint but
// before the first mapping. Any value is accepted; the effective window
// size is clamped and aligned per computeWindow.
func WithHint(hint int64) Option {
	return func(v *Viewer) {
		v.hint = hint
	}
}

// Open opens or creates the file at path and returns a viewer over it.
// mode must be one of the four accepted combinations; see Mode. The
// returned error carries an ErrorCode retrievable with Code.
func Open(path string, mode Mode, opts ...Option) (*Viewer, error) {
	var flags int
	switch mode {
	case ReadOnly:
		flags = os.O_RDONLY
	case ReadWrite:
		flags = os.O_RDWR
	case ReadWrite | Create:
		flags = os.O_RDWR | os.O_CREATE
	case ReadWrite | Create | Exclusive:
		flags = os.O_RDWR | os.O_CREATE | os.O_EXCL
	default:
		return nil, NewError(ErrBadMode)
	}

	// The OS layer cannot represent NUL in a path; reject it here so the
	// failure is distinguishable from a plain open failure.
	if strings.IndexByte(path, 0) >= 0 {
		return nil, NewError(ErrTranslate)
	}

	v := &Viewer{
		signature: viewerSignature,
		path:      path,
		hint:      DefaultHint,
		readOnly:  mode == ReadOnly,
		reporter:  DefaultReporter(),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.pageSize = mmap.Granularity()
	if v.pageSize < 8 || v.pageSize%8 != 0 {
		v.fault("Open", fmt.Errorf("mapping granularity %d is not a positive multiple of 8", v.pageSize))
	}

	f, err := os.OpenFile(path, flags, 0666)
	if err != nil {
		return nil, WrapError(ErrOpen, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, WrapError(ErrLenQuery, err)
	}
	if fi.Size() < 0 || fi.Size() > MaxLen {
		f.Close()
		return nil, NewError(ErrLenQuery)
	}

	v.file = f
	v.length = fi.Size()
	v.updateWindow()
	return v, nil
}

// valid returns true if the viewer is live.
func (v *Viewer) valid() bool {
	return v != nil && v.signature == viewerSignature
}

// check faults unless the viewer is live.
func (v *Viewer) check(op string) {
	if !v.valid() {
		v.fault(op, errInvalidViewer)
	}
}

// checkWritable faults unless the viewer is live and writable.
func (v *Viewer) checkWritable(op string) {
	v.check(op)
	if v.readOnly {
		v.fault(op, errReadOnly)
	}
}

// Close releases the window and the file handle. A pending timestamp
// update is applied first; its failure is a fault, while unmap and
// handle-close failures are warnings. Closing a nil or already closed
// viewer is a no-op.
func (v *Viewer) Close() {
	if !v.valid() {
		return
	}
	const op = "Close"

	v.unview(op)

	if v.touch {
		now := time.Now()
		if err := os.Chtimes(v.path, now, now); err != nil {
			v.fault(op, err)
		}
		v.touch = false
	}

	if err := v.file.Close(); err != nil {
		v.warn(op, err)
	}
	v.file = nil
	v.signature = 0
}

// Len returns the cached file length in bytes. No system call is made;
// the viewer owns the handle, so the cache cannot go stale.
func (v *Viewer) Len() int64 {
	v.check("Len")
	return v.length
}

// Writable returns true if the viewer was opened for writing.
func (v *Viewer) Writable() bool {
	v.check("Writable")
	return !v.readOnly
}

// Path returns the path the viewer was opened with.
func (v *Viewer) Path() string {
	v.check("Path")
	return v.path
}

// SetLen grows or shrinks the file to n bytes. Growing materializes the
// final byte so the new range is immediately mappable; intermediate
// bytes read as zero. Shrinking invalidates offsets at and beyond n.
// On an OS failure the length is unchanged and an ErrResize error is
// returned. Calling SetLen on a read-only viewer or with n outside
// [0, MaxLen] is a fault.
func (v *Viewer) SetLen(n int64) error {
	const op = "SetLen"
	v.checkWritable(op)
	if n < 0 || n > MaxLen {
		v.fault(op, fmt.Errorf("length %d out of range [0, %d]", n, int64(MaxLen)))
	}
	if n == v.length {
		return nil
	}

	v.unview(op)

	if n > v.length {
		if _, err := v.file.WriteAt([]byte{0}, n-1); err != nil {
			return WrapError(ErrResize, err)
		}
	} else {
		if err := v.file.Truncate(n); err != nil {
			return WrapError(ErrResize, err)
		}
	}

	v.touch = true
	v.length = n
	v.updateWindow()
	return nil
}

// SetHint changes the window-size preference. The window is dropped
// only when the effective size actually changes; the next access maps a
// window of the new size.
func (v *Viewer) SetHint(hint int64) {
	const op = "SetHint"
	v.check(op)
	if hint == v.hint {
		return
	}
	v.hint = hint
	if v.updateWindow() {
		v.unview(op)
	}
}

// Flush synchronously writes the window's pending modifications to the
// file. It does nothing unless the viewer has unsynced writes. A
// platform sync failure is a warning and leaves the viewer dirty, so a
// later Flush can retry.
func (v *Viewer) Flush() {
	const op = "Flush"
	v.check(op)
	if !v.dirty || v.region == nil {
		return
	}
	if err := v.region.Sync(); err != nil {
		v.warn(op, err)
		return
	}
	v.dirty = false
}
