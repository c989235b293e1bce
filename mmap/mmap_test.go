package mmap

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	data := []byte("hello world test data for mmap")
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := f.Sync(); err != nil {
		t.Fatal(err)
	}

	m, err := New(int(f.Fd()), 0, int64(len(data)), false)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if !bytes.Equal(m.Data(), data) {
		t.Errorf("mmap data mismatch: got %q, want %q", m.Data(), data)
	}
	if m.Size() != int64(len(data)) {
		t.Errorf("size mismatch: got %d, want %d", m.Size(), len(data))
	}
	if m.Offset() != 0 {
		t.Errorf("offset mismatch: got %d, want 0", m.Offset())
	}
	if m.Writable() {
		t.Error("read-only view reports writable")
	}
}

func TestNewAtOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	g := Granularity()
	content := make([]byte, 2*g)
	copy(content[g:], []byte("second chunk"))
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	m, err := New(int(f.Fd()), g, g, false)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	if m.Offset() != g {
		t.Errorf("offset mismatch: got %d, want %d", m.Offset(), g)
	}
	if !bytes.HasPrefix(m.Data(), []byte("second chunk")) {
		t.Errorf("offset view content mismatch: got %q", m.Data()[:12])
	}
}

func TestContains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	g := Granularity()
	if err := os.WriteFile(path, make([]byte, 3*g), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	m, err := New(int(f.Fd()), g, g, false)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	cases := []struct {
		pos  int64
		want bool
	}{
		{0, false},
		{g - 1, false},
		{g, true},
		{2*g - 1, true},
		{2 * g, false},
	}
	for _, c := range cases {
		if got := m.Contains(c.pos); got != c.want {
			t.Errorf("Contains(%d): got %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestWritableSync(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	initial := make([]byte, 4096)
	copy(initial, []byte("initial"))
	if err := os.WriteFile(path, initial, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}

	m, err := New(int(f.Fd()), 0, int64(len(initial)), true)
	if err != nil {
		f.Close()
		t.Fatal(err)
	}
	if !m.Writable() {
		t.Error("writable view reports read-only")
	}

	copy(m.Data(), []byte("modified"))

	if err := m.Sync(); err != nil {
		m.Close()
		f.Close()
		t.Fatal(err)
	}

	m.Close()
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("modified")) {
		t.Errorf("expected modified data, got %q", data[:8])
	}
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	if err := os.WriteFile(path, []byte("close test"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	m, err := New(int(f.Fd()), 0, 10, false)
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if m.Data() != nil {
		t.Error("data should be nil after close")
	}
	if err := m.Sync(); err != ErrNotMapped {
		t.Errorf("Sync after close: got %v, want ErrNotMapped", err)
	}

	// Double close should be safe
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.dat")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := f.Truncate(4096); err != nil {
		t.Fatal(err)
	}

	if _, err := New(int(f.Fd()), 0, 0, false); err != ErrInvalidSize {
		t.Errorf("size 0: got %v, want ErrInvalidSize", err)
	}
	if _, err := New(int(f.Fd()), 0, -1, false); err != ErrInvalidSize {
		t.Errorf("size -1: got %v, want ErrInvalidSize", err)
	}
	if _, err := New(int(f.Fd()), -1, 16, false); err != ErrInvalidOffset {
		t.Errorf("offset -1: got %v, want ErrInvalidOffset", err)
	}
	if _, err := New(int(f.Fd()), 1, 16, false); err != ErrInvalidOffset {
		t.Errorf("unaligned offset: got %v, want ErrInvalidOffset", err)
	}
}

func TestGranularity(t *testing.T) {
	g := Granularity()
	if g < 8 {
		t.Fatalf("granularity too small: %d", g)
	}
	if g%8 != 0 {
		t.Fatalf("granularity %d is not a multiple of 8", g)
	}
}
