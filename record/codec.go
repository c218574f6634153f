package record

import (
	"encoding/binary"
	"fmt"
)

// Slot layout, little-endian, no padding:
//   - size   uint64 (8 bytes)
//   - data   Capacity x int32 (4 bytes each)
//
// Unused data slots are written as zeros but never trusted on read.
const (
	sizeFieldLen = 8
	valueLen     = 4
	SlotSize     = sizeFieldLen + Capacity*valueLen
)

// EncodeSlot writes r into dst, which must hold at least SlotSize bytes.
func EncodeSlot(r Record, dst []byte) {
	_ = dst[SlotSize-1]

	binary.LittleEndian.PutUint64(dst[0:], uint64(r.size))
	offset := sizeFieldLen
	for i := 0; i < Capacity; i++ {
		var v int32
		if i < r.size {
			v = r.data[i]
		}
		binary.LittleEndian.PutUint32(dst[offset:], uint32(v))
		offset += valueLen
	}
}

// DecodeSlot reads one record from src, which must hold at least SlotSize bytes.
func DecodeSlot(src []byte) (Record, error) {
	if len(src) < SlotSize {
		return DNE(), fmt.Errorf("%w: %d bytes (want %d)", ErrCorruptSlot, len(src), SlotSize)
	}

	size := binary.LittleEndian.Uint64(src[0:])
	if size > Capacity {
		return DNE(), fmt.Errorf("%w: size field %d exceeds capacity %d", ErrCorruptSlot, size, Capacity)
	}

	r := Sized(int(size))
	offset := sizeFieldLen
	for i := 0; i < r.size; i++ {
		r.data[i] = int32(binary.LittleEndian.Uint32(src[offset:]))
		offset += valueLen
	}
	return r, nil
}
