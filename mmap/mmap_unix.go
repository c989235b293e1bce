//go:build unix

package mmap

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// New maps size bytes of the file underlying fd, starting at the file
// offset off. The offset must be a multiple of Granularity.
func New(fd int, off, size int64, writable bool) (*Map, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if off < 0 || off%Granularity() != 0 {
		return nil, ErrInvalidOffset
	}

	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}

	data, err := unix.Mmap(fd, off, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		return nil, &Error{Op: "mmap", Err: err}
	}

	return &Map{
		data:     data,
		fd:       fd,
		off:      off,
		size:     size,
		writable: writable,
	}, nil
}

// Sync flushes modified pages of the view to the file synchronously.
func (m *Map) Sync() error {
	if m.data == nil {
		return ErrNotMapped
	}
	return unix.Msync(m.data, unix.MS_SYNC)
}

// Close releases the view.
func (m *Map) Close() error {
	if m.data == nil {
		return nil
	}

	err := unix.Munmap(m.data)
	m.data = nil
	m.size = 0
	return err
}

// Granularity returns the alignment required for mapping offsets,
// which on Unix is the system page size.
func Granularity() int64 {
	return int64(syscall.Getpagesize())
}
