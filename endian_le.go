//go:build amd64 || 386 || arm64 || arm || riscv64 || mips64le || mipsle || ppc64le || wasm

package aksview

import "unsafe"

// On little-endian architectures the word accessors are direct pointer
// casts. Callers guarantee width-aligned positions, so the casts are
// safe on strict-alignment targets too.

// hostWordsLittleEndian reports the byte order the accessors below use.
const hostWordsLittleEndian = true

//go:nosplit
func getWord16(b []byte) uint16 {
	return *(*uint16)(unsafe.Pointer(&b[0]))
}

//go:nosplit
func getWord32(b []byte) uint32 {
	return *(*uint32)(unsafe.Pointer(&b[0]))
}

//go:nosplit
func getWord64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

//go:nosplit
func putWord16(b []byte, v uint16) {
	*(*uint16)(unsafe.Pointer(&b[0])) = v
}

//go:nosplit
func putWord32(b []byte, v uint32) {
	*(*uint32)(unsafe.Pointer(&b[0])) = v
}

//go:nosplit
func putWord64(b []byte, v uint64) {
	*(*uint64)(unsafe.Pointer(&b[0])) = v
}
