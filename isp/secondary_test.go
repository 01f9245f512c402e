package isp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type secondaryHeaderFields struct {
	coarseTime, dataTakeID, instrumentConfigID, spacePacketCount, priCount uint32
	fineTime                                                               uint16
	eccNum                                                                 uint8
	testMode, rxChannel                                                    uint8
	dataWordIndex                                                          uint8
	dataWord                                                               uint16
	errorFlag                                                              uint8
	baqMode                                                                uint8
	baqBlockLength, rangeDecimation, rxGain                                uint8
	txRampRate, txPulseStartFreq                                          uint16
	txPulseLength                                                          uint32
	rank                                                                   uint8
	pri, swst, swl                                                        uint32
	ssbFlag, polarization, tempComp                                       uint8
	sasTail                                                               uint32 // 18 bits
	calMode, txPulseNumber, signalType, swap, swathNumber                 uint8
	numberOfQuads                                                          uint16
}

func encodeSecondaryHeader(f secondaryHeaderFields) []byte {
	w := newBitWriter(SecondaryHeaderSize * 8)

	w.writeUint(f.coarseTime, 32)
	w.writeUint(uint32(f.fineTime), 16)
	w.writeUint(uint32(SyncMarker), 32)
	w.writeUint(f.dataTakeID, 32)
	w.writeUint(uint32(f.eccNum), 8)
	w.writeUint(0, 1)
	w.writeUint(uint32(f.testMode), 3)
	w.writeUint(uint32(f.rxChannel), 4)
	w.writeUint(f.instrumentConfigID, 32)
	w.writeUint(uint32(f.dataWordIndex), 8)
	w.writeUint(uint32(f.dataWord), 16)
	w.writeUint(f.spacePacketCount, 32)
	w.writeUint(f.priCount, 32)
	w.writeUint(uint32(f.errorFlag), 1)
	w.writeUint(0, 2)
	w.writeUint(uint32(f.baqMode), 5)
	w.writeUint(uint32(f.baqBlockLength), 8)
	w.writeUint(uint32(f.rangeDecimation), 8)
	w.writeUint(uint32(f.rxGain), 8)
	w.writeUint(uint32(f.txRampRate), 16)
	w.writeUint(uint32(f.txPulseStartFreq), 16)
	w.writeUint(f.txPulseLength, 24)
	w.writeUint(0, 3)
	w.writeUint(uint32(f.rank), 5)
	w.writeUint(f.pri, 24)
	w.writeUint(f.swst, 24)
	w.writeUint(f.swl, 24)

	w.writeUint(uint32(f.ssbFlag), 1)
	w.writeUint(uint32(f.polarization), 3)
	w.writeUint(uint32(f.tempComp), 2)
	w.writeUint(f.sasTail, 18)

	w.writeUint(uint32(f.calMode), 2)
	w.writeUint(0, 1)
	w.writeUint(uint32(f.txPulseNumber), 5)
	w.writeUint(uint32(f.signalType), 4)
	w.writeUint(0, 3)
	w.writeUint(uint32(f.swap), 1)
	w.writeUint(uint32(f.swathNumber), 8)

	w.writeUint(uint32(f.numberOfQuads), 16)
	w.writeUint(0, 16)

	return w.bytes()
}

func defaultSecondaryFields() secondaryHeaderFields {
	return secondaryHeaderFields{
		eccNum:          uint8(EccStripmap2),
		rangeDecimation: 4,
		baqMode:         uint8(BaqModeFDBAQ0),
		polarization:    uint8(PolarizationVVVH),
		signalType:      uint8(SignalTypeNoise),
		swathNumber:     2,
	}
}

func TestDecodeSecondaryHeaderRoundTrip(t *testing.T) {
	f := defaultSecondaryFields()
	f.pri = 111000
	f.swst = 2000
	f.swl = 6000
	f.rxGain = 10

	buf := encodeSecondaryHeader(f)
	h, err := DecodeSecondaryHeader(buf)
	require.NoError(t, err)

	assert.True(t, h.Sane())
	assert.Equal(t, EccStripmap2, h.EccNum)
	assert.Equal(t, RangeDecimationCode(4), h.RangeDecimation)
	assert.Equal(t, "x4_on_9", h.RangeDecimation.String())
	assert.Equal(t, PolarizationVVVH, h.Sas.Polarization)
	assert.Equal(t, SignalTypeNoise, h.Ses.SignalType)
	assert.Equal(t, SwathNumber(2), h.Ses.SwathNumber)
	assert.Equal(t, "S2", h.Ses.SwathNumber.String())
	assert.InDelta(t, -5.0, h.RxGainDB(), 1e-9)
}

func TestSecondaryHeaderSasDiscriminatesImgVsCal(t *testing.T) {
	fImg := defaultSecondaryFields()
	fImg.ssbFlag = 0
	fImg.sasTail = (3 << 12) | (700 << 2) // elevation_beam=3, azimuth_beam=700

	bufImg := encodeSecondaryHeader(fImg)
	hImg, err := DecodeSecondaryHeader(bufImg)
	require.NoError(t, err)
	require.NotNil(t, hImg.Sas.Img)
	assert.Nil(t, hImg.Sas.Cal)
	assert.Equal(t, uint8(3), hImg.Sas.Img.ElevationBeam)
	assert.Equal(t, uint16(700), hImg.Sas.Img.AzimuthBeam)

	fCal := defaultSecondaryFields()
	fCal.ssbFlag = 1
	fCal.sasTail = (1 << 15) | (5 << 12) | (42 << 2) // sas_test=1, cal_type=5, beam=42

	bufCal := encodeSecondaryHeader(fCal)
	hCal, err := DecodeSecondaryHeader(bufCal)
	require.NoError(t, err)
	require.NotNil(t, hCal.Sas.Cal)
	assert.Nil(t, hCal.Sas.Img)
	assert.Equal(t, SasTestModeTest, hCal.Sas.Cal.SasTest)
	assert.Equal(t, CalTypeEpdnCal, hCal.Sas.Cal.CalType)
	assert.Equal(t, uint16(42), hCal.Sas.Cal.CalibrationBeam)
}

func TestSecondaryHeaderSyncMarkerMismatch(t *testing.T) {
	f := defaultSecondaryFields()
	buf := encodeSecondaryHeader(f)
	buf[8] ^= 0xFF // corrupt a byte inside the sync_marker field

	_, err := DecodeSecondaryHeaderChecked(buf, 7)
	require.Error(t, err)

	var invalid *InvalidPacketError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(7), invalid.Offset)
}

func TestN3RxUsesRangeDecimationTable(t *testing.T) {
	f := defaultSecondaryFields()
	f.rangeDecimation = 4
	f.swl = 6000

	buf := encodeSecondaryHeader(f)
	h, err := DecodeSecondaryHeader(buf)
	require.NoError(t, err)

	n3rx, err := h.N3Rx()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n3rx, 0)
}

func TestN3RxReservedCodeFails(t *testing.T) {
	f := defaultSecondaryFields()
	f.rangeDecimation = 39 // unassigned in RangeDecimationTable

	buf := encodeSecondaryHeader(f)
	h, err := DecodeSecondaryHeader(buf)
	require.NoError(t, err)

	_, err = h.N3Rx()
	require.Error(t, err)
}

func TestBaqBlockLengthSamples(t *testing.T) {
	h := SecondaryHeader{BaqBlockLength: 7}
	assert.Equal(t, 64, h.BaqBlockLengthSamples())
}

func TestFineTimeSeconds(t *testing.T) {
	h := SecondaryHeader{FineTime: 0}
	assert.InDelta(t, 0.5/65536.0, h.FineTimeSeconds(), 1e-12)
}
