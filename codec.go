package aksview

import "math/bits"

// Integer access comes in every combination of width (8, 16, 32, 64
// bits), signedness and byte order. The le argument selects
// little-endian byte order when true and big-endian when false,
// independent of the host. Positions aligned to the value width are a
// single word access inside one window; unaligned positions decompose
// into two half-width accesses, so any position is valid for any width
// at the cost of extra window lookups. Reads and writes fault when the
// value range [pos, pos+width) is not entirely inside the file, and
// writes fault on read-only viewers.

// readUint returns width bytes at pos as an unsigned integer in the
// requested byte order. Unaligned positions split into two half-width
// reads, which terminates because width 1 is always aligned.
func (v *Viewer) readUint(op string, pos, width int64, le bool) uint64 {
	if pos%width == 0 {
		v.mapByte(op, pos+width-1)
		b := v.region.Data()[pos-v.region.Offset():]
		switch width {
		case 1:
			return uint64(b[0])
		case 2:
			w := getWord16(b)
			if le != hostWordsLittleEndian {
				w = bits.ReverseBytes16(w)
			}
			return uint64(w)
		case 4:
			w := getWord32(b)
			if le != hostWordsLittleEndian {
				w = bits.ReverseBytes32(w)
			}
			return uint64(w)
		default:
			w := getWord64(b)
			if le != hostWordsLittleEndian {
				w = bits.ReverseBytes64(w)
			}
			return w
		}
	}

	half := width / 2
	shift := uint(half * 8)
	head := v.readUint(op, pos, half, le)
	tail := v.readUint(op, pos+half, half, le)
	if le {
		return head | tail<<shift
	}
	return head<<shift | tail
}

// writeUint stores the low width bytes of x at pos in the requested
// byte order. Every leaf store marks the viewer dirty, so a window
// dropped between the halves of an unaligned write is synced first.
func (v *Viewer) writeUint(op string, pos, width int64, le bool, x uint64) {
	if pos%width == 0 {
		v.mapByte(op, pos+width-1)
		b := v.region.Data()[pos-v.region.Offset():]
		switch width {
		case 1:
			b[0] = byte(x)
		case 2:
			w := uint16(x)
			if le != hostWordsLittleEndian {
				w = bits.ReverseBytes16(w)
			}
			putWord16(b, w)
		case 4:
			w := uint32(x)
			if le != hostWordsLittleEndian {
				w = bits.ReverseBytes32(w)
			}
			putWord32(b, w)
		default:
			w := x
			if le != hostWordsLittleEndian {
				w = bits.ReverseBytes64(w)
			}
			putWord64(b, w)
		}
		v.dirty = true
		v.touch = true
		return
	}

	half := width / 2
	shift := uint(half * 8)
	lo := x & (1<<shift - 1)
	hi := x >> shift
	if le {
		v.writeUint(op, pos, half, le, lo)
		v.writeUint(op, pos+half, half, le, hi)
	} else {
		v.writeUint(op, pos, half, le, hi)
		v.writeUint(op, pos+half, half, le, lo)
	}
}

// ReadUint8 returns the byte at pos.
func (v *Viewer) ReadUint8(pos int64) uint8 {
	const op = "ReadUint8"
	v.check(op)
	return uint8(v.readUint(op, pos, 1, false))
}

// ReadInt8 returns the byte at pos as a signed integer.
func (v *Viewer) ReadInt8(pos int64) int8 {
	const op = "ReadInt8"
	v.check(op)
	return int8(v.readUint(op, pos, 1, false))
}

// ReadUint16 returns the 16-bit unsigned integer at pos.
func (v *Viewer) ReadUint16(pos int64, le bool) uint16 {
	const op = "ReadUint16"
	v.check(op)
	return uint16(v.readUint(op, pos, 2, le))
}

// ReadInt16 is ReadUint16 with the bits reinterpreted as signed.
func (v *Viewer) ReadInt16(pos int64, le bool) int16 {
	const op = "ReadInt16"
	v.check(op)
	return int16(v.readUint(op, pos, 2, le))
}

// ReadUint32 returns the 32-bit unsigned integer at pos.
func (v *Viewer) ReadUint32(pos int64, le bool) uint32 {
	const op = "ReadUint32"
	v.check(op)
	return uint32(v.readUint(op, pos, 4, le))
}

// ReadInt32 is ReadUint32 with the bits reinterpreted as signed.
func (v *Viewer) ReadInt32(pos int64, le bool) int32 {
	const op = "ReadInt32"
	v.check(op)
	return int32(v.readUint(op, pos, 4, le))
}

// ReadUint64 returns the 64-bit unsigned integer at pos.
func (v *Viewer) ReadUint64(pos int64, le bool) uint64 {
	const op = "ReadUint64"
	v.check(op)
	return v.readUint(op, pos, 8, le)
}

// ReadInt64 is ReadUint64 with the bits reinterpreted as signed.
func (v *Viewer) ReadInt64(pos int64, le bool) int64 {
	const op = "ReadInt64"
	v.check(op)
	return int64(v.readUint(op, pos, 8, le))
}

// WriteUint8 stores x at pos.
func (v *Viewer) WriteUint8(pos int64, x uint8) {
	const op = "WriteUint8"
	v.checkWritable(op)
	v.writeUint(op, pos, 1, false, uint64(x))
}

// WriteInt8 stores x at pos.
func (v *Viewer) WriteInt8(pos int64, x int8) {
	const op = "WriteInt8"
	v.checkWritable(op)
	v.writeUint(op, pos, 1, false, uint64(uint8(x)))
}

// WriteUint16 stores the 16-bit unsigned integer x at pos.
func (v *Viewer) WriteUint16(pos int64, le bool, x uint16) {
	const op = "WriteUint16"
	v.checkWritable(op)
	v.writeUint(op, pos, 2, le, uint64(x))
}

// WriteInt16 stores the bits of x like WriteUint16.
func (v *Viewer) WriteInt16(pos int64, le bool, x int16) {
	const op = "WriteInt16"
	v.checkWritable(op)
	v.writeUint(op, pos, 2, le, uint64(uint16(x)))
}

// WriteUint32 stores the 32-bit unsigned integer x at pos.
func (v *Viewer) WriteUint32(pos int64, le bool, x uint32) {
	const op = "WriteUint32"
	v.checkWritable(op)
	v.writeUint(op, pos, 4, le, uint64(x))
}

// WriteInt32 stores the bits of x like WriteUint32.
func (v *Viewer) WriteInt32(pos int64, le bool, x int32) {
	const op = "WriteInt32"
	v.checkWritable(op)
	v.writeUint(op, pos, 4, le, uint64(uint32(x)))
}

// WriteUint64 stores the 64-bit unsigned integer x at pos.
func (v *Viewer) WriteUint64(pos int64, le bool, x uint64) {
	const op = "WriteUint64"
	v.checkWritable(op)
	v.writeUint(op, pos, 8, le, x)
}

// WriteInt64 stores the bits of x like WriteUint64.
func (v *Viewer) WriteInt64(pos int64, le bool, x int64) {
	const op = "WriteInt64"
	v.checkWritable(op)
	v.writeUint(op, pos, 8, le, uint64(x))
}
