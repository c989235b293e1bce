//go:build !amd64 && !386 && !arm64 && !arm && !riscv64 && !mips64le && !mipsle && !ppc64le && !wasm

package aksview

import "encoding/binary"

// Architectures without the little-endian fast path access words in
// big-endian order through encoding/binary. The codec swaps relative to
// that order, so results are identical on every architecture.

// hostWordsLittleEndian reports the byte order the accessors below use.
const hostWordsLittleEndian = false

//go:nosplit
func getWord16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

//go:nosplit
func getWord32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

//go:nosplit
func getWord64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

//go:nosplit
func putWord16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

//go:nosplit
func putWord32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

//go:nosplit
func putWord64(b []byte, v uint64) {
	binary.BigEndian.PutUint64(b, v)
}
