package isp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePrimaryHeader(version, ptype, shf, pid, pcat, seqFlags uint8, seqCount, dataLen uint16) []byte {
	buf := make([]byte, PrimaryHeaderSize)

	word0 := uint16(version)<<13 | uint16(ptype)<<12 | uint16(shf)<<11 | uint16(pid)<<4 | uint16(pcat)
	buf[0] = byte(word0 >> 8)
	buf[1] = byte(word0)

	word1 := uint16(seqFlags)<<14 | (seqCount & 0x3FFF)
	buf[2] = byte(word1 >> 8)
	buf[3] = byte(word1)

	buf[4] = byte(dataLen >> 8)
	buf[5] = byte(dataLen)

	return buf
}

func TestDecodePrimaryHeaderRoundTrip(t *testing.T) {
	buf := encodePrimaryHeader(0, 0, 1, 65, 12, 0b11, 1234, 9999)

	h, err := DecodePrimaryHeader(buf)
	require.NoError(t, err)

	assert.Equal(t, uint8(0), h.Version)
	assert.Equal(t, PacketTypeTelemetry, h.PacketType)
	assert.Equal(t, uint8(1), h.SecondaryHeaderFlag)
	assert.Equal(t, uint8(65), h.Pid)
	assert.Equal(t, uint8(12), h.Pcat)
	assert.Equal(t, SequenceFlagsStandalone, h.SequenceFlags)
	assert.Equal(t, uint16(1234), h.SequenceCount)
	assert.Equal(t, uint16(9999), h.PacketDataLength)
	assert.True(t, h.Sane())
}

func TestPrimaryHeaderTotalPacketSize(t *testing.T) {
	h := PrimaryHeader{PacketDataLength: 99}
	assert.Equal(t, PrimaryHeaderSize+100, h.TotalPacketSize())
}

func TestDecodePrimaryHeaderCheckedFlagsInsanity(t *testing.T) {
	buf := encodePrimaryHeader(1, 0, 1, 65, 12, 0b11, 1234, 9999)

	_, err := DecodePrimaryHeaderChecked(buf, 42)
	require.Error(t, err)

	var invalid *InvalidPacketError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(42), invalid.Offset)
}

func TestDecodePrimaryHeaderShortBuffer(t *testing.T) {
	_, err := DecodePrimaryHeader(make([]byte, 3))
	require.Error(t, err)
}
