package aksview

import (
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// WriteTo implements io.WriterTo, streaming the whole file to w one
// window at a time. Pending writes are flushed first so the stream
// matches what a fresh reader of the file would see.
func (v *Viewer) WriteTo(w io.Writer) (int64, error) {
	const op = "WriteTo"
	v.check(op)
	v.Flush()

	var written int64
	for pos := int64(0); pos < v.length; {
		v.mapByte(op, pos)
		chunk := v.region.Data()[pos-v.region.Offset():]
		n, err := w.Write(chunk)
		written += int64(n)
		pos += int64(n)
		if err != nil {
			return written, err
		}
		if n < len(chunk) {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

// Copy writes a point-in-time copy of the file to a new file at path.
// The destination is created exclusively; an existing file makes Copy
// fail with ErrOpen. With CopyLZ4 the copy is written as an LZ4 frame,
// readable by any LZ4 frame decoder.
func (v *Viewer) Copy(path string, flags CopyFlag) error {
	v.check("Copy")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return WrapError(ErrOpen, err)
	}

	if flags&CopyLZ4 != 0 {
		zw := lz4.NewWriter(f)
		if err := zw.Apply(lz4.BlockSizeOption(lz4.Block4Mb)); err != nil {
			f.Close()
			return err
		}
		if _, err := v.WriteTo(zw); err != nil {
			f.Close()
			return err
		}
		if err := zw.Close(); err != nil {
			f.Close()
			return err
		}
	} else {
		if _, err := v.WriteTo(f); err != nil {
			f.Close()
			return err
		}
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
