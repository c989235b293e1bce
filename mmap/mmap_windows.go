//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
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

	handle := windows.Handle(fd)

	prot := uint32(windows.PAGE_READONLY)
	access := uint32(windows.FILE_MAP_READ)
	if writable {
		prot = windows.PAGE_READWRITE
		access = windows.FILE_MAP_WRITE
	}

	// A zero maximum size keeps the mapping extent at the current file
	// length, so views at any in-range offset stay valid.
	mapping, err := windows.CreateFileMapping(handle, nil, prot, 0, 0, nil)
	if err != nil {
		return nil, &Error{Op: "CreateFileMapping", Err: err}
	}

	addr, err := windows.MapViewOfFile(mapping, access, uint32(uint64(off)>>32), uint32(off), uintptr(size))
	if err != nil {
		windows.CloseHandle(mapping)
		return nil, &Error{Op: "MapViewOfFile", Err: err}
	}

	return &Map{
		data:     unsafe.Slice((*byte)(unsafe.Pointer(addr)), size),
		fd:       fd,
		off:      off,
		size:     size,
		writable: writable,
		mapping:  uintptr(mapping),
	}, nil
}

// Sync flushes modified pages of the view to the file synchronously.
// FlushViewOfFile only queues the dirty pages, so the file buffers are
// flushed as well to match Unix MS_SYNC durability.
func (m *Map) Sync() error {
	if m.data == nil {
		return ErrNotMapped
	}
	if err := windows.FlushViewOfFile(uintptr(unsafe.Pointer(&m.data[0])), uintptr(m.size)); err != nil {
		return &Error{Op: "FlushViewOfFile", Err: err}
	}
	if err := windows.FlushFileBuffers(windows.Handle(m.fd)); err != nil {
		return &Error{Op: "FlushFileBuffers", Err: err}
	}
	return nil
}

// Close releases the view and the mapping object.
func (m *Map) Close() error {
	if m.data == nil {
		return nil
	}

	addr := uintptr(unsafe.Pointer(&m.data[0]))
	err := windows.UnmapViewOfFile(addr)
	if err != nil {
		err = &Error{Op: "UnmapViewOfFile", Err: err}
	}

	if m.mapping != 0 {
		if cerr := windows.CloseHandle(windows.Handle(m.mapping)); cerr != nil && err == nil {
			err = &Error{Op: "CloseHandle", Err: cerr}
		}
		m.mapping = 0
	}

	m.data = nil
	m.size = 0
	return err
}

// Granularity returns the alignment required for mapping offsets, which
// on Windows is the allocation granularity rather than the page size.
func Granularity() int64 {
	var si windows.SystemInfo
	windows.GetNativeSystemInfo(&si)
	return int64(si.AllocationGranularity)
}
