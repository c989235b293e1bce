package aksview

import (
	"errors"
	"io"
)

var errNegativeOffset = errors.New("aksview: negative offset")

// ReadAt implements io.ReaderAt over the file, copying through the
// window. A read reaching the end of the file returns the bytes that
// exist and io.EOF. Unlike the integer accessors, out-of-range requests
// are io errors rather than faults.
func (v *Viewer) ReadAt(p []byte, off int64) (int, error) {
	v.check("ReadAt")
	if off < 0 {
		return 0, errNegativeOffset
	}

	n := 0
	for n < len(p) {
		pos := off + int64(n)
		if pos >= v.length {
			return n, io.EOF
		}
		v.mapByte("ReadAt", pos)
		n += copy(p[n:], v.region.Data()[pos-v.region.Offset():])
	}
	return n, nil
}

// WriteAt implements io.WriterAt over the file. The file never grows:
// bytes past the end are not written and io.ErrShortWrite is returned.
// Use SetLen first to make room. Writing on a read-only viewer is an
// error, matching the io surface of the method.
func (v *Viewer) WriteAt(p []byte, off int64) (int, error) {
	v.check("WriteAt")
	if v.readOnly {
		return 0, errReadOnly
	}
	if off < 0 {
		return 0, errNegativeOffset
	}

	n := 0
	for n < len(p) {
		pos := off + int64(n)
		if pos >= v.length {
			return n, io.ErrShortWrite
		}
		v.mapByte("WriteAt", pos)
		n += copy(v.region.Data()[pos-v.region.Offset():], p[n:])
		v.dirty = true
		v.touch = true
	}
	return n, nil
}
