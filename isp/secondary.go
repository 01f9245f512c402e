package isp

import (
	"github.com/sixy6e/go-s1isp/bitio"
)

// SasImgData is the SAS block tail used for imaging packets (ssb_flag==0).
type SasImgData struct {
	ElevationBeam uint8
	AzimuthBeam   uint16
}

// SasCalData is the SAS block tail used for calibration packets
// (ssb_flag==1).
type SasCalData struct {
	SasTest          SasTestMode
	CalType          CalType
	CalibrationBeam  uint16
}

// SasData is the 24-bit SAS (Sensor Active Subsystem) block. It is a
// discriminated union tagged by SsbFlag: exactly one of Img or Cal is
// populated, resolved from the tag before the 18-bit tail is decoded
// (§9 design notes: "resolve the tag before decoding the tail rather than
// post-hoc reinterpreting raw integer fields").
type SasData struct {
	SsbFlag                 uint8
	Polarization             Polarization
	TemperatureCompensation  TemperatureCompensation
	Img                      *SasImgData
	Cal                      *SasCalData
}

func decodeSasData(r *bitio.Reader) (SasData, error) {
	var s SasData

	ssb, err := r.ReadUint(1)
	if err != nil {
		return s, err
	}
	s.SsbFlag = uint8(ssb)

	pol, err := r.ReadUint(3)
	if err != nil {
		return s, err
	}
	s.Polarization = Polarization(pol)

	tempComp, err := r.ReadUint(2)
	if err != nil {
		return s, err
	}
	s.TemperatureCompensation = TemperatureCompensation(tempComp)

	if s.SsbFlag == 0 {
		if _, err := r.ReadUint(2); err != nil { // reserved
			return s, err
		}
		elevBeam, err := r.ReadUint(4)
		if err != nil {
			return s, err
		}
		azBeam, err := r.ReadUint(10)
		if err != nil {
			return s, err
		}
		if _, err := r.ReadUint(2); err != nil { // reserved
			return s, err
		}
		s.Img = &SasImgData{ElevationBeam: uint8(elevBeam), AzimuthBeam: uint16(azBeam)}
		return s, nil
	}

	if _, err := r.ReadUint(2); err != nil { // reserved
		return s, err
	}
	sasTest, err := r.ReadUint(1)
	if err != nil {
		return s, err
	}
	calType, err := r.ReadUint(3)
	if err != nil {
		return s, err
	}
	calBeam, err := r.ReadUint(10)
	if err != nil {
		return s, err
	}
	if _, err := r.ReadUint(2); err != nil { // reserved
		return s, err
	}
	s.Cal = &SasCalData{
		SasTest:         SasTestMode(sasTest),
		CalType:         CalType(calType),
		CalibrationBeam: uint16(calBeam),
	}
	return s, nil
}

// SesData is the 24-bit SES (Sensor Electronics Subsystem) block.
type SesData struct {
	CalMode       CalMode
	TxPulseNumber uint8
	SignalType    SignalType
	Swap          uint8
	SwathNumber   SwathNumber
}

func decodeSesData(r *bitio.Reader) (SesData, error) {
	var s SesData

	calMode, err := r.ReadUint(2)
	if err != nil {
		return s, err
	}
	s.CalMode = CalMode(calMode)

	if _, err := r.ReadUint(1); err != nil { // padding
		return s, err
	}

	txPulseNum, err := r.ReadUint(5)
	if err != nil {
		return s, err
	}
	s.TxPulseNumber = uint8(txPulseNum)

	sigType, err := r.ReadUint(4)
	if err != nil {
		return s, err
	}
	s.SignalType = SignalType(sigType)

	if _, err := r.ReadUint(3); err != nil { // padding
		return s, err
	}

	swap, err := r.ReadUint(1)
	if err != nil {
		return s, err
	}
	s.Swap = uint8(swap)

	swathNum, err := r.ReadUint(8)
	if err != nil {
		return s, err
	}
	s.SwathNumber = SwathNumber(swathNum)

	return s, nil
}

// SubCommutation is the per-packet sub-commutated ancillary data slot
// carried by every Secondary Header: one (index, word) pair that the
// stream package's reassembler accumulates across consecutive packets.
type SubCommutation struct {
	DataWordIndex uint8
	DataWord      uint16
}

// SecondaryHeader is the 62-byte, 496-bit Secondary Header, the
// concatenation of six logical services: Datation, Fixed Ancillary,
// Sub-Commutated Ancillary, Counters, Radar Configuration Support, and
// Radar Sample Count.
type SecondaryHeader struct {
	// Datation service
	CoarseTime uint32 `s1isp:"kind=raw"`
	FineTime   uint16 `s1isp:"kind=raw"`

	// Fixed Ancillary Data service
	SyncMarker                uint32  `s1isp:"kind=raw"`
	DataTakeID                uint32  `s1isp:"kind=raw"`
	EccNum                    EccNum  `s1isp:"kind=enum"`
	TestMode                  TestMode `s1isp:"kind=enum"`
	RxChannel                 uint8   `s1isp:"kind=raw"`
	InstrumentConfigurationID uint32  `s1isp:"kind=raw"`

	// Sub-Commutated Ancillary Data service
	SubCommutation SubCommutation `s1isp:"kind=nested"`

	// Counters service
	SpacePacketCount uint32 `s1isp:"kind=raw"`
	PriCount         uint32 `s1isp:"kind=raw"`

	// Radar Configuration Support service
	ErrorFlag        uint8               `s1isp:"kind=raw"`
	BaqMode          BaqMode             `s1isp:"kind=enum"`
	BaqBlockLength   uint8               `s1isp:"kind=raw"`
	RangeDecimation  RangeDecimationCode `s1isp:"kind=enum"`
	RxGain           uint8               `s1isp:"kind=raw"`
	TxRampRate       uint16              `s1isp:"kind=raw"`
	TxPulseStartFreq uint16              `s1isp:"kind=raw"`
	TxPulseLength    uint32              `s1isp:"kind=raw"`
	Rank             uint8               `s1isp:"kind=raw"`
	Pri              uint32              `s1isp:"kind=raw"`
	Swst             uint32              `s1isp:"kind=raw"`
	Swl              uint32              `s1isp:"kind=raw"`
	Sas              SasData             `s1isp:"kind=nested"`
	Ses              SesData             `s1isp:"kind=nested"`

	// Radar Sample Count service
	NumberOfQuads uint16 `s1isp:"kind=raw"`
}

// Sane reports whether the sync marker matches the expected fixed pattern.
func (h *SecondaryHeader) Sane() bool {
	return h.SyncMarker == SyncMarker
}

// DecodeSecondaryHeader decodes a 62-byte buffer into a SecondaryHeader.
// Like DecodePrimaryHeader, it never fails purely on a sanity-check
// violation; use Sane() or DecodeSecondaryHeaderChecked to enforce it.
func DecodeSecondaryHeader(buf []byte) (SecondaryHeader, error) {
	r := bitio.NewReader(buf)
	var h SecondaryHeader

	var err error
	read := func(n int) uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = r.ReadUint(n)
		return v
	}

	h.CoarseTime = read(32)
	h.FineTime = uint16(read(16))
	h.SyncMarker = read(32)
	h.DataTakeID = read(32)
	h.EccNum = EccNum(read(8))

	read(1) // unused
	h.TestMode = TestMode(read(3))
	h.RxChannel = uint8(read(4))

	h.InstrumentConfigurationID = read(32)

	h.SubCommutation.DataWordIndex = uint8(read(8))
	h.SubCommutation.DataWord = uint16(read(16))

	h.SpacePacketCount = read(32)
	h.PriCount = read(32)

	h.ErrorFlag = uint8(read(1))
	read(2) // padding
	h.BaqMode = BaqMode(read(5))
	h.BaqBlockLength = uint8(read(8))
	h.RangeDecimation = RangeDecimationCode(read(8))
	h.RxGain = uint8(read(8))
	h.TxRampRate = uint16(read(16))
	h.TxPulseStartFreq = uint16(read(16))
	h.TxPulseLength = read(24)
	read(3) // padding
	h.Rank = uint8(read(5))
	h.Pri = read(24)
	h.Swst = read(24)
	h.Swl = read(24)

	if err != nil {
		return h, err
	}

	sas, err2 := decodeSasData(r)
	if err2 != nil {
		return h, err2
	}
	h.Sas = sas

	ses, err2 := decodeSesData(r)
	if err2 != nil {
		return h, err2
	}
	h.Ses = ses

	h.NumberOfQuads = uint16(read(16))
	read(16) // padding
	if err != nil {
		return h, err
	}

	if err := r.AssertOffset(SecondaryHeaderSize * 8); err != nil {
		return h, err
	}

	return h, nil
}

// DecodeSecondaryHeaderChecked decodes the header and additionally returns
// an *InvalidPacketError when the sync marker sanity check fails.
func DecodeSecondaryHeaderChecked(buf []byte, byteOffset int64) (SecondaryHeader, error) {
	h, err := DecodeSecondaryHeader(buf)
	if err != nil {
		return h, err
	}
	if !h.Sane() {
		return h, NewInvalidPacketError(byteOffset, "secondary header sync marker mismatch")
	}
	return h, nil
}

// BaqBlockLengthSamples returns the number of samples per BAQ block,
// 8*(baq_block_length+1).
func (h *SecondaryHeader) BaqBlockLengthSamples() int {
	return 8 * (int(h.BaqBlockLength) + 1)
}

// FineTimeSeconds returns the fractional-second datation value:
// (fine_time + 0.5) * 2^-16.
func (h *SecondaryHeader) FineTimeSeconds() float64 {
	return (float64(h.FineTime) + 0.5) / 65536.0
}

// PriSeconds returns the Pulse Repetition Interval in seconds.
func (h *SecondaryHeader) PriSeconds() float64 {
	return float64(h.Pri) / FRefHz
}

// SwstSeconds returns the Sampling Window Start Time in seconds.
func (h *SecondaryHeader) SwstSeconds() float64 {
	return float64(h.Swst) / FRefHz
}

// SwlSeconds returns the Sampling Window Length in seconds.
func (h *SecondaryHeader) SwlSeconds() float64 {
	return float64(h.Swl) / FRefHz
}

// RxGainDB returns the receiver gain in dB: -0.5 * rx_gain.
func (h *SecondaryHeader) RxGainDB() float64 {
	return -0.5 * float64(h.RxGain)
}

// TxPulseStartFreqHz returns the TX pulse start frequency in Hz, decoded
// from the sign (bit 15) and 15-bit magnitude of the raw field.
func (h *SecondaryHeader) TxPulseStartFreqHz() float64 {
	raw := h.TxPulseStartFreq
	sign := 1.0
	if raw&0x8000 != 0 {
		sign = -1.0
	}
	value := float64(raw & 0x7FFF)
	rampRate := h.TxRampRateHz()
	return (rampRate/(4*FRefMHz) + sign*value*FRefMHz/16384.0) * 1e6
}

// TxRampRateHz returns the raw tx_ramp_rate field reinterpreted as a
// signed value expressed in the same units as the formula for
// TxPulseStartFreqHz expects (MHz/us, per the ICD's ramp rate encoding).
func (h *SecondaryHeader) TxRampRateHz() float64 {
	raw := int16(h.TxRampRate)
	return float64(raw)
}

// N3Rx computes the post-decimation sample count from SWL and the Range
// Decimation LUT. See isp/tables.go for the provenance of the LUT
// coefficients. The sample count is truncated toward zero and clamped at 0
// (spec §9 Open Question).
func (h *SecondaryHeader) N3Rx() (int, error) {
	info, ok := RangeDecimationTable[h.RangeDecimation]
	if !ok || info.Reserved {
		return 0, NewInvalidPacketError(0, "range decimation code has no LUT entry")
	}
	raw := h.SwlSeconds() * info.SamplingFrequencyHz
	n3rx := int(raw) - info.FilterOutputOffset // truncation toward zero
	if n3rx < 0 {
		n3rx = 0
	}
	return n3rx, nil
}
