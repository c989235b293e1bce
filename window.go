package aksview

import (
	"fmt"

	"github.com/akslib/aksview/mmap"
)

// computeWindow derives the window size from the file length, the
// mapping granularity and the caller's hint. The result is a multiple
// of pageSize capped at the file length, so window boundaries are
// always mapping-aligned and any width-aligned access of up to 8 bytes
// falls inside a single window. The result is zero only for an empty
// file. The computation is idempotent: feeding a result back as the
// hint returns the same value.
func computeWindow(length, pageSize, hint int64) int64 {
	w := hint
	if w < pageSize {
		w = pageSize
	}
	if w > maxWindowSize {
		w = maxWindowSize
	}
	if rem := w % pageSize; rem != 0 {
		w += pageSize - rem
	}
	if w > length {
		w = length
	}
	return w
}

// updateWindow recomputes the window size and reports whether it changed.
func (v *Viewer) updateWindow() bool {
	w := computeWindow(v.length, v.pageSize, v.hint)
	if w == v.window {
		return false
	}
	v.window = w
	return true
}

// mapByte makes the byte at pos addressable through v.region, remapping
// the window if pos lies outside the current one. Faults if pos is not
// a valid offset or if the platform refuses the mapping.
func (v *Viewer) mapByte(op string, pos int64) {
	if pos < 0 || pos >= v.length {
		v.fault(op, fmt.Errorf("offset %d out of range [0, %d)", pos, v.length))
	}
	if v.region != nil && v.region.Contains(pos) {
		return
	}
	v.unview(op)

	start := pos / v.window * v.window
	size := v.window
	if start+size > v.length {
		size = v.length - start
	}
	m, err := mmap.New(int(v.file.Fd()), start, size, !v.readOnly)
	if err != nil {
		v.fault(op, err)
	}
	v.region = m
}

// unview drops the current window, if any. A dirty window is synced
// first so its writes reach the file before the pages go away; sync and
// unmap failures are warnings.
func (v *Viewer) unview(op string) {
	if v.region == nil {
		return
	}
	if v.dirty {
		if err := v.region.Sync(); err != nil {
			v.warn(op, err)
		}
		v.dirty = false
	}
	if err := v.region.Close(); err != nil {
		v.warn(op, err)
	}
	v.region = nil
}
