package stream

import (
	"bytes"
	"testing"

	"github.com/sixy6e/go-s1isp/isp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePrimary(seqCount uint16, dataLen uint16) []byte {
	buf := make([]byte, isp.PrimaryHeaderSize)
	word0 := uint16(0)<<13 | uint16(0)<<12 | uint16(1)<<11 | uint16(65)<<4 | uint16(12)
	buf[0] = byte(word0 >> 8)
	buf[1] = byte(word0)
	word1 := uint16(0b11)<<14 | (seqCount & 0x3FFF)
	buf[2] = byte(word1 >> 8)
	buf[3] = byte(word1)
	buf[4] = byte(dataLen >> 8)
	buf[5] = byte(dataLen)
	return buf
}

type bitPacker struct {
	buf []byte
	pos int
}

func newBitPacker(n int) *bitPacker { return &bitPacker{buf: make([]byte, n)} }

func (w *bitPacker) writeUint(value uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		bit := (value >> uint(i)) & 1
		byteIdx := w.pos / 8
		bitIdx := 7 - (w.pos % 8)
		if bit == 1 {
			w.buf[byteIdx] |= 1 << uint(bitIdx)
		}
		w.pos++
	}
}

func encodeSecondary(rxChannel uint8, dataWordIndex uint8, numberOfQuads uint16) []byte {
	w := newBitPacker(isp.SecondaryHeaderSize)
	w.writeUint(0, 32) // coarse_time
	w.writeUint(0, 16) // fine_time
	w.writeUint(isp.SyncMarker, 32)
	w.writeUint(0, 32) // data_take_id
	w.writeUint(2, 8)  // ecc_num
	w.writeUint(0, 1)
	w.writeUint(0, 3) // test_mode
	w.writeUint(uint32(rxChannel), 4)
	w.writeUint(0, 32) // instrument_configuration_id
	w.writeUint(uint32(dataWordIndex), 8)
	w.writeUint(777, 16) // data_word
	w.writeUint(0, 32)   // space_packet_count
	w.writeUint(1, 32)   // pri_count
	w.writeUint(0, 1)    // error_flag
	w.writeUint(0, 2)
	w.writeUint(0, 5) // baq_mode bypass
	w.writeUint(0, 8) // baq_block_length
	w.writeUint(4, 8) // range_decimation
	w.writeUint(0, 8) // rx_gain
	w.writeUint(0, 16)
	w.writeUint(0, 16)
	w.writeUint(0, 24) // tx_pulse_length
	w.writeUint(0, 3)
	w.writeUint(0, 5)  // rank
	w.writeUint(0, 24) // pri
	w.writeUint(0, 24) // swst
	w.writeUint(0, 24) // swl
	w.writeUint(0, 1)  // ssb_flag (img)
	w.writeUint(4, 3)  // polarization
	w.writeUint(0, 2)  // temp comp
	w.writeUint(0, 18) // SAS tail
	w.writeUint(0, 2)  // cal_mode
	w.writeUint(0, 1)
	w.writeUint(0, 5) // tx_pulse_number
	w.writeUint(1, 4) // signal_type
	w.writeUint(0, 3)
	w.writeUint(0, 1) // swap
	w.writeUint(2, 8) // swath_number
	w.writeUint(uint32(numberOfQuads), 16)
	w.writeUint(0, 16)
	return w.buf
}

func buildPacket(seqCount uint16, rxChannel uint8, dataWordIndex uint8, numberOfQuads uint16) []byte {
	sh := encodeSecondary(rxChannel, dataWordIndex, numberOfQuads)
	udfLen := 0 // bypass UDF is out of scope for this packet-framing test
	dataLen := uint16(len(sh)+udfLen) - 1
	ph := encodePrimary(seqCount, dataLen)
	return append(ph, sh...)
}

func TestDecoderEmitsRecordsInOrder(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildPacket(0, 0, 1, 0))
	buf.Write(buildPacket(1, 0, 2, 0))
	buf.Write(buildPacket(2, 0, 3, 0))

	r := bytes.NewReader(buf.Bytes())
	d := NewDecoder(r, DecodeOptions{UDFMode: UDFModeNone})

	var seen []uint16
	for {
		result, _, ok, err := d.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		seen = append(seen, result.Record.Primary.SequenceCount)
	}

	assert.Equal(t, []uint16{0, 1, 2}, seen)
}

func TestDecoderHonoursSkipAndMaxCount(t *testing.T) {
	var buf bytes.Buffer
	for i := uint16(0); i < 5; i++ {
		buf.Write(buildPacket(i, 0, 1, 0))
	}

	r := bytes.NewReader(buf.Bytes())
	d := NewDecoder(r, DecodeOptions{SkipPackets: 2, MaxCount: 2, UDFMode: UDFModeNone})

	var seen []uint16
	for {
		result, _, ok, err := d.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		seen = append(seen, result.Record.Primary.SequenceCount)
	}

	assert.Equal(t, []uint16{2, 3}, seen)
}

func TestDecoderReturnsTruncatedStreamMidPacket(t *testing.T) {
	full := buildPacket(0, 0, 1, 0)
	truncated := full[:len(full)-5]

	r := bytes.NewReader(truncated)
	d := NewDecoder(r, DecodeOptions{UDFMode: UDFModeNone})

	_, _, _, err := d.Next()
	require.Error(t, err)
}

func TestDecoderCleanEOFBetweenPacketsIsNotAnError(t *testing.T) {
	r := bytes.NewReader(buildPacket(0, 0, 1, 0))
	d := NewDecoder(r, DecodeOptions{UDFMode: UDFModeNone})

	_, _, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, _, ok, err = d.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDecoderAccumulatesSubComAcrossPackets(t *testing.T) {
	var buf bytes.Buffer
	for idx := uint8(1); idx <= 64; idx++ {
		buf.Write(buildPacket(uint16(idx), 0, idx, 0))
	}

	r := bytes.NewReader(buf.Bytes())
	d := NewDecoder(r, DecodeOptions{UDFMode: UDFModeNone})

	var frames []SubComFrame
	for {
		_, fs, ok, err := d.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		frames = append(frames, fs...)
	}

	require.Len(t, frames, 1)
	assert.False(t, frames[0].Partial)
}

func TestDecoderResyncRecoversFromInvalidPrimaryHeader(t *testing.T) {
	var buf bytes.Buffer
	garbage := bytes.Repeat([]byte{0xFF}, 3)
	buf.Write(garbage)
	buf.Write(buildPacket(0, 0, 1, 0))

	r := bytes.NewReader(buf.Bytes())
	d := NewDecoder(r, DecodeOptions{UDFMode: UDFModeNone, Resync: true})

	result, _, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint16(0), result.Record.Primary.SequenceCount)
}
