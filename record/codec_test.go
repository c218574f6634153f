package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotSize(t *testing.T) {
	assert.Equal(t, 68, SlotSize)
}

func TestEncodeSlotLayout(t *testing.T) {
	buf := make([]byte, SlotSize)
	for i := range buf {
		buf[i] = 0xAA
	}
	EncodeSlot(New(-1, 7), buf)

	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(buf[0:]))
	assert.Equal(t, uint32(0xFFFFFFFF), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[12:]))
	// tail slots are zeroed, not left as stale bytes
	for _, b := range buf[16:] {
		assert.Equal(t, byte(0), b)
	}
}

func TestDecodeSlotTrustsSize(t *testing.T) {
	buf := make([]byte, SlotSize)
	EncodeSlot(New(3, 4, 5), buf)
	// garbage past the meaningful prefix must not leak into the record
	binary.LittleEndian.PutUint32(buf[8+3*4:], 999)

	r, err := DecodeSlot(buf)
	require.NoError(t, err)
	assert.True(t, r.Equal(New(3, 4, 5)))
	assert.Equal(t, New(3, 4, 5), r)
}

func TestDecodeSlotDNE(t *testing.T) {
	buf := make([]byte, SlotSize)
	EncodeSlot(DNE(), buf)

	r, err := DecodeSlot(buf)
	require.NoError(t, err)
	assert.False(t, r.IsValid())
}

func TestDecodeSlotCorrupt(t *testing.T) {
	buf := make([]byte, SlotSize)
	binary.LittleEndian.PutUint64(buf, Capacity+1)
	_, err := DecodeSlot(buf)
	assert.ErrorIs(t, err, ErrCorruptSlot)

	_, err = DecodeSlot(buf[:SlotSize-1])
	assert.ErrorIs(t, err, ErrCorruptSlot)
}
