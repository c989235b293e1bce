package aksview

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type faultRecord struct {
	op  string
	err error
}

// recordingReporter captures faults and warnings instead of logging
// them, keeping test output quiet and observable.
type recordingReporter struct {
	faults []faultRecord
	warns  []faultRecord
}

func (r *recordingReporter) Fault(op string, err error) {
	r.faults = append(r.faults, faultRecord{op, err})
}

func (r *recordingReporter) Warn(op string, err error) {
	r.warns = append(r.warns, faultRecord{op, err})
}

// catchFault runs fn, which must fault, and returns the recovered
// FaultError.
func catchFault(t *testing.T, fn func()) (fe *FaultError) {
	t.Helper()
	defer func() {
		switch r := recover().(type) {
		case nil:
			t.Fatal("expected a fault")
		case *FaultError:
			fe = r
		default:
			t.Fatalf("panic value is %T, want *FaultError", r)
		}
	}()
	fn()
	return nil
}

func TestOpenBadMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.bin")
	bad := []Mode{
		0,
		Create,
		Exclusive,
		Create | Exclusive,
		ReadOnly | ReadWrite,
		ReadOnly | Create,
		ReadOnly | Exclusive,
		ReadWrite | Exclusive,
		ReadOnly | ReadWrite | Create | Exclusive,
	}
	for _, mode := range bad {
		v, err := Open(path, mode)
		if err == nil {
			v.Close()
			t.Errorf("Open with mode %#x succeeded, want error", uint(mode))
			continue
		}
		if !IsBadMode(err) {
			t.Errorf("Open with mode %#x: got code %d, want ErrBadMode", uint(mode), Code(err))
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bin")
	for _, mode := range []Mode{ReadOnly, ReadWrite} {
		if _, err := Open(path, mode); !IsOpen(err) {
			t.Errorf("Open(missing, %#x): got %v, want ErrOpen", uint(mode), err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed Open left a file behind")
	}
}

func TestOpenExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excl.bin")

	v, err := Open(path, ReadWrite|Create|Exclusive)
	if err != nil {
		t.Fatalf("exclusive create failed: %v", err)
	}
	v.Close()

	if _, err := Open(path, ReadWrite|Create|Exclusive); !IsOpen(err) {
		t.Errorf("exclusive open of existing file: got %v, want ErrOpen", err)
	}
}

func TestOpenNulPath(t *testing.T) {
	_, err := Open("bad\x00path", ReadOnly)
	if Code(err) != ErrTranslate {
		t.Errorf("Open with NUL in path: got %v, want ErrTranslate", err)
	}
}

func TestOpenPreservesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keep.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0666); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Create on an existing file keeps its bytes; it does not truncate.
	v, err := Open(path, ReadWrite|Create)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer v.Close()

	if got := v.Len(); got != 11 {
		t.Fatalf("Len: got %d, want 11", got)
	}
	for i, want := range []byte("hello world") {
		if got := v.ReadUint8(int64(i)); got != want {
			t.Errorf("byte %d: got %#x, want %#x", i, got, want)
		}
	}
}

func TestAccessors(t *testing.T) {
	v, path := newTestViewer(t, 42)
	if got := v.Len(); got != 42 {
		t.Errorf("Len: got %d, want 42", got)
	}
	if !v.Writable() {
		t.Error("Writable: got false for a read-write viewer")
	}
	if got := v.Path(); got != path {
		t.Errorf("Path: got %q, want %q", got, path)
	}
	v.Close()

	r, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	if r.Writable() {
		t.Error("Writable: got true for a read-only viewer")
	}
}

func TestOpenEmptyFile(t *testing.T) {
	rep := &recordingReporter{}
	v, _ := newTestViewer(t, 0, WithReporter(rep))
	defer v.Close()

	if got := v.Len(); got != 0 {
		t.Fatalf("Len: got %d, want 0", got)
	}
	if v.window != 0 {
		t.Errorf("window of empty file: got %d, want 0", v.window)
	}

	fe := catchFault(t, func() { v.ReadUint8(0) })
	if fe.Op != "ReadUint8" {
		t.Errorf("fault op: got %q, want ReadUint8", fe.Op)
	}

	// The file becomes usable once it has a length.
	if err := v.SetLen(8); err != nil {
		t.Fatalf("SetLen failed: %v", err)
	}
	v.WriteUint64(0, true, 7)
	if got := v.ReadUint64(0, true); got != 7 {
		t.Errorf("read after grow: got %d, want 7", got)
	}
}

func TestSetLenGrowAndShrink(t *testing.T) {
	v, path := newTestViewer(t, 0)
	defer v.Close()

	if err := v.SetLen(100); err != nil {
		t.Fatalf("SetLen(100) failed: %v", err)
	}
	if got := v.ReadUint8(99); got != 0 {
		t.Errorf("grown byte: got %#x, want 0", got)
	}

	v.WriteUint32(0, true, 0x11223344)
	v.WriteUint8(99, 0xFF)

	// Growing preserves existing bytes and zero-fills the extension.
	if err := v.SetLen(200); err != nil {
		t.Fatalf("SetLen(200) failed: %v", err)
	}
	if got := v.ReadUint32(0, true); got != 0x11223344 {
		t.Errorf("value after grow: got %#x, want 0x11223344", got)
	}
	if got := v.ReadUint8(99); got != 0xFF {
		t.Errorf("byte 99 after grow: got %#x, want 0xff", got)
	}
	for _, pos := range []int64{100, 150, 199} {
		if got := v.ReadUint8(pos); got != 0 {
			t.Errorf("extended byte %d: got %#x, want 0", pos, got)
		}
	}

	// Shrinking keeps the prefix and invalidates the rest.
	if err := v.SetLen(50); err != nil {
		t.Fatalf("SetLen(50) failed: %v", err)
	}
	if got := v.Len(); got != 50 {
		t.Errorf("Len after shrink: got %d, want 50", got)
	}
	if got := v.ReadUint32(0, true); got != 0x11223344 {
		t.Errorf("value after shrink: got %#x, want 0x11223344", got)
	}
	catchFault(t, func() { v.ReadUint8(50) })

	// The on-disk size tracks the viewer length.
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if fi.Size() != 50 {
		t.Errorf("file size: got %d, want 50", fi.Size())
	}
}

func TestSetLenNoop(t *testing.T) {
	v, _ := newTestViewer(t, 64)
	defer v.Close()

	v.mapByte("test", 0)
	region := v.region
	if err := v.SetLen(64); err != nil {
		t.Fatalf("SetLen to current length failed: %v", err)
	}
	if v.region != region {
		t.Error("SetLen to the current length should not drop the window")
	}
}

func TestSetLenFaults(t *testing.T) {
	rep := &recordingReporter{}
	v, path := newTestViewer(t, 16, WithReporter(rep))
	catchFault(t, func() { v.SetLen(-1) })
	catchFault(t, func() { v.SetLen(MaxLen + 1) })
	v.Close()

	r, err := Open(path, ReadOnly, WithReporter(rep))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()
	fe := catchFault(t, func() { r.SetLen(32) })
	if !errors.Is(fe, errReadOnly) {
		t.Errorf("SetLen on read-only viewer: fault error %v, want errReadOnly", fe.Err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	rep := &recordingReporter{}
	v, _ := newTestViewer(t, 8, WithReporter(rep))
	v.WriteUint8(0, 1)
	v.Close()
	v.Close() // second close is a no-op

	fe := catchFault(t, func() { v.Len() })
	if !errors.Is(fe, errInvalidViewer) {
		t.Errorf("Len after Close: fault error %v, want errInvalidViewer", fe.Err)
	}
	catchFault(t, func() { v.ReadUint8(0) })
	catchFault(t, func() { v.Flush() })

	var nilViewer *Viewer
	nilViewer.Close() // must not panic
}

func TestCloseUpdatesModTime(t *testing.T) {
	v, path := newTestViewer(t, 8)
	v.Close()

	past := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	v, err := Open(path, ReadWrite)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	v.WriteUint8(0, 1)
	v.Close()

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !fi.ModTime().After(past.Add(time.Hour)) {
		t.Errorf("mtime not updated by Close: got %v", fi.ModTime())
	}
}

func TestCloseWithoutWritesKeepsModTime(t *testing.T) {
	v, path := newTestViewer(t, 8)
	v.Close()

	past := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	v, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := v.ReadUint64(0, true); got != 0 {
		t.Fatalf("read: got %d, want 0", got)
	}
	v.Close()

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !fi.ModTime().Equal(past) {
		t.Errorf("read-only close changed mtime: got %v, want %v", fi.ModTime(), past)
	}
}

func TestFlush(t *testing.T) {
	v, path := newTestViewer(t, 16)
	defer v.Close()

	v.Flush() // nothing dirty, no-op
	if v.dirty {
		t.Fatal("viewer dirty before any write")
	}

	v.WriteUint64(0, true, 0xABCDEF)
	if !v.dirty {
		t.Fatal("write did not mark the viewer dirty")
	}

	v.Flush()
	if v.dirty {
		t.Error("Flush left the viewer dirty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 16 {
		t.Fatalf("file size: got %d, want 16", len(data))
	}
	if got := uint64(data[0]) | uint64(data[1])<<8 | uint64(data[2])<<16; got != 0xABCDEF {
		t.Errorf("flushed bytes: got %#x, want 0xabcdef", got)
	}
}

func TestWindowTurnoverSyncsWrites(t *testing.T) {
	v, _ := newTestViewer(t, 8)
	ps := v.pageSize
	v.Close()

	v, path := newTestViewer(t, 2*ps, WithHint(1))
	defer v.Close()

	// Writing in window 0 and then touching window 1 forces an unview,
	// which must carry the write to the file.
	v.WriteUint32(0, false, 0xFEEDFACE)
	v.ReadUint8(ps)
	if v.dirty {
		t.Error("dirty flag survived the window turnover")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]); got != 0xFEEDFACE {
		t.Errorf("bytes after turnover: got %#x, want 0xfeedface", got)
	}
}

func TestDefaultReporter(t *testing.T) {
	rep := &recordingReporter{}
	SetDefaultReporter(rep)
	defer SetDefaultReporter(nil)

	// A viewer opened without WithReporter picks up the process default.
	v, _ := newTestViewer(t, 8)
	defer v.Close()

	catchFault(t, func() { v.ReadUint8(100) })
	if len(rep.faults) != 1 {
		t.Fatalf("recorded faults: got %d, want 1", len(rep.faults))
	}
	if rep.faults[0].op != "ReadUint8" {
		t.Errorf("fault op: got %q, want ReadUint8", rep.faults[0].op)
	}

	SetDefaultReporter(nil)
	if DefaultReporter() == Reporter(rep) {
		t.Error("SetDefaultReporter(nil) did not restore the builtin reporter")
	}
}

func TestWithReporterOverridesDefault(t *testing.T) {
	def := &recordingReporter{}
	SetDefaultReporter(def)
	defer SetDefaultReporter(nil)

	own := &recordingReporter{}
	v, _ := newTestViewer(t, 8, WithReporter(own))
	defer v.Close()

	catchFault(t, func() { v.ReadUint8(-1) })
	if len(own.faults) != 1 {
		t.Errorf("viewer reporter faults: got %d, want 1", len(own.faults))
	}
	if len(def.faults) != 0 {
		t.Errorf("default reporter faults: got %d, want 0", len(def.faults))
	}
}

func TestFaultError(t *testing.T) {
	inner := errors.New("boom")
	fe := &FaultError{Op: "ReadUint32", Err: inner}
	if got, want := fe.Error(), "aksview: ReadUint32: boom"; got != want {
		t.Errorf("Error: got %q, want %q", got, want)
	}
	if !errors.Is(fe, inner) {
		t.Error("errors.Is does not see the wrapped error")
	}
}

func TestVersion(t *testing.T) {
	if got, want := Version(), "aksview 0.1.0"; got != want {
		t.Errorf("Version: got %q, want %q", got, want)
	}
}
