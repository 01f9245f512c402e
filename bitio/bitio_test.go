package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUintRoundTrip(t *testing.T) {
	// 0b1011_0110, 0b1100_0001 -> a 16 bit stream we slice at varying widths
	data := []byte{0xB6, 0xC1}

	r := NewReader(data)
	v, err := r.ReadUint(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xB), v)

	v, err = r.ReadUint(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x6), v)

	v, err = r.ReadUint(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xC1), v)
}

func TestReadUintAllWidths(t *testing.T) {
	for width := 1; width <= 32; width++ {
		data := make([]byte, 4)
		value := uint32(1)<<uint(width) - 1
		if width == 32 {
			value = 0xFFFFFFFF
		}
		// write value left-justified at bit 0 across the 4 bytes
		shifted := value << uint(32-width)
		data[0] = byte(shifted >> 24)
		data[1] = byte(shifted >> 16)
		data[2] = byte(shifted >> 8)
		data[3] = byte(shifted)

		r := NewReader(data)
		got, err := r.ReadUint(width)
		require.NoError(t, err)
		assert.Equalf(t, value, got, "width=%d", width)
		assert.Equal(t, width, r.BitPos())
	}
}

func TestReadUintZeroIsNoop(t *testing.T) {
	r := NewReader([]byte{0xFF})
	v, err := r.ReadUint(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
	assert.Equal(t, 0, r.BitPos())
}

func TestReadUintBadWidth(t *testing.T) {
	r := NewReader([]byte{0x00})
	_, err := r.ReadUint(33)
	assert.ErrorIs(t, err, ErrBitWidth)
}

func TestReadUintUnexpectedEOF(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, err := r.ReadUint(9)
	assert.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestReadIntSignExtension(t *testing.T) {
	// 4-bit two's complement: 0b1000 == -8
	r := NewReader([]byte{0x80})
	v, err := r.ReadInt(4)
	require.NoError(t, err)
	assert.Equal(t, int32(-8), v)
}

func TestReadBytesRequiresAlignment(t *testing.T) {
	r := NewReader([]byte{0xAB, 0xCD, 0xEF})
	_, err := r.ReadUint(4)
	require.NoError(t, err)

	_, err = r.ReadBytes(1)
	assert.Error(t, err)

	r2 := NewReader([]byte{0xAB, 0xCD, 0xEF})
	got, err := r2.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xCD}, got)
	assert.Equal(t, 16, r2.BitPos())
}

func TestSkip(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x00})
	require.NoError(t, r.Skip(8))
	v, err := r.ReadUint(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
}

func TestAssertOffset(t *testing.T) {
	r := NewReader([]byte{0xFF})
	require.NoError(t, r.Skip(4))
	assert.NoError(t, r.AssertOffset(4))
	assert.Error(t, r.AssertOffset(5))
}
