// Package aksview provides random byte-level read and write access to
// files of arbitrary size through a bounded memory-mapped window.
//
// A Viewer maps one window of the file at a time and moves it
// transparently as offsets are accessed, so memory use stays bounded by
// the window size no matter how large the file is. Window boundaries
// are aligned to the mapping granularity, which means integer accesses
// aligned to their own width never straddle two windows.
//
// Key features:
//   - Byte-addressable reads and writes at any offset
//   - Integer accessors for 8/16/32/64-bit values, signed and unsigned,
//     in either byte order and at arbitrary alignment
//   - One bounded window regardless of file size, tunable via a hint
//   - Dirty tracking with explicit Flush and flush-before-unmap ordering
//   - io.ReaderAt, io.WriterAt and io.WriterTo for bulk access
//   - Point-in-time file copies, optionally LZ4-compressed
//
// Basic usage:
//
//	v, err := aksview.Open("data.bin", aksview.ReadWrite|aksview.Create)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer v.Close()
//
//	if err := v.SetLen(1 << 20); err != nil {
//	    log.Fatal(err)
//	}
//
//	v.WriteUint32(0, true, 0xCAFEBABE)
//	v.WriteUint64(8, false, 42)
//	v.Flush()
//
//	fmt.Println(v.ReadUint32(0, true))
//
// Contract violations, such as reading past the end of the file or
// writing through a read-only viewer, are faults: the viewer's Reporter
// is notified and the operation panics with a *FaultError. Recoverable
// conditions, such as Open failing, are ordinary errors carrying an
// ErrorCode.
//
// A Viewer is not safe for concurrent use; distinct Viewers are
// independent, even over the same file.
package aksview
