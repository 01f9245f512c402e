package isp

import "fmt"

// Every enumerated header field in this package follows the same shape:
// a small integer-backed type, a table of known symbolic names, and a
// decode constructor that preserves reserved-but-unassigned codes as
// Unknown(u) rather than rejecting them outright — real flight telemetry
// routinely carries reserved values the ICD hasn't caught up to (§9 of the
// design notes this module was distilled from).

// PacketType distinguishes telemetry (0) from telecommand (1) packets.
// Every ISP this decoder handles is telemetry.
type PacketType uint8

const (
	PacketTypeTelemetry  PacketType = 0
	PacketTypeTelecommand PacketType = 1
)

func (p PacketType) String() string {
	switch p {
	case PacketTypeTelemetry:
		return "TELEMETRY"
	case PacketTypeTelecommand:
		return "TELECOMMAND"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(p))
	}
}

// SequenceFlags indicates packet segmentation. Sentinel-1 ISPs are always
// standalone (0b11); any other value fails the Primary Header sanity check
// but is still decoded and reported.
type SequenceFlags uint8

const (
	SequenceFlagsStandalone SequenceFlags = 0b11
)

func (s SequenceFlags) String() string {
	switch s {
	case SequenceFlagsStandalone:
		return "STANDALONE"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// EccNum identifies the Sentinel-1 SAR instrument operational mode under
// which a packet was acquired (S1-IF-ASD-PL-0007 table 3-21). The table
// below covers the modes named by this decoder's reference scenarios;
// unlisted codes decode as Unknown rather than erroring, since ECC
// assignments have grown over the mission lifetime.
type EccNum uint8

const (
	EccStripmap1          EccNum = 1
	EccStripmap2          EccNum = 2
	EccStripmap3          EccNum = 3
	EccStripmap4          EccNum = 4
	EccStripmap5          EccNum = 5
	EccStripmap6          EccNum = 6
	EccRFC                EccNum = 7
	EccTest               EccNum = 8
	EccElevationNotch     EccNum = 9
	EccAzimuthNotch       EccNum = 10
	EccStripmapRFC        EccNum = 11
	EccInterferometricWide1 EccNum = 12
	EccWave1              EccNum = 13
	EccWave2              EccNum = 14
	EccExtraWide          EccNum = 15
)

var eccNames = map[EccNum]string{
	EccStripmap1:            "S1",
	EccStripmap2:            "S2",
	EccStripmap3:            "S3",
	EccStripmap4:            "S4",
	EccStripmap5:            "S5",
	EccStripmap6:            "S6",
	EccRFC:                  "RFC",
	EccTest:                 "TEST",
	EccElevationNotch:       "EN_SM",
	EccAzimuthNotch:         "AN_SM",
	EccStripmapRFC:          "S_RFC",
	EccInterferometricWide1: "IW",
	EccWave1:                "WV1",
	EccWave2:                "WV2",
	EccExtraWide:            "EW",
}

func (e EccNum) String() string {
	if name, ok := eccNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(e))
}

// BaqMode selects the onboard compression applied to the User Data Field.
type BaqMode uint8

const (
	BaqModeBypass BaqMode = 0
	BaqMode3Bit   BaqMode = 3
	BaqMode4Bit   BaqMode = 4
	BaqMode5Bit   BaqMode = 5
	BaqModeFDBAQ0 BaqMode = 12
	BaqModeFDBAQ1 BaqMode = 13
	BaqModeFDBAQ2 BaqMode = 14
)

var baqModeNames = map[BaqMode]string{
	BaqModeBypass: "BYPASS",
	BaqMode3Bit:   "BAQ_3_BIT",
	BaqMode4Bit:   "BAQ_4_BIT",
	BaqMode5Bit:   "BAQ_5_BIT",
	BaqModeFDBAQ0: "FDBAQ_MODE_0",
	BaqModeFDBAQ1: "FDBAQ_MODE_1",
	BaqModeFDBAQ2: "FDBAQ_MODE_2",
}

func (b BaqMode) String() string {
	if name, ok := baqModeNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(b))
}

// IsFDBAQ reports whether this BAQ mode selects the Huffman-coded FDBAQ
// pipeline.
func (b BaqMode) IsFDBAQ() bool {
	return b == BaqModeFDBAQ0 || b == BaqModeFDBAQ1 || b == BaqModeFDBAQ2
}

// IsSimpleBAQ reports whether this mode selects the 3/4/5-bit Simple
// Reconstruction Method BAQ pipeline.
func (b BaqMode) IsSimpleBAQ() bool {
	return b == BaqMode3Bit || b == BaqMode4Bit || b == BaqMode5Bit
}

// BitWidth returns the per-sample code width for a Simple BAQ mode. The
// second value is false for any mode that is not 3/4/5-bit BAQ.
func (b BaqMode) BitWidth() (int, bool) {
	switch b {
	case BaqMode3Bit:
		return 3, true
	case BaqMode4Bit:
		return 4, true
	case BaqMode5Bit:
		return 5, true
	default:
		return 0, false
	}
}

// TestMode identifies whether the instrument was in nominal or test
// acquisition mode. A test_mode of TestModeBypass forces the UDF decoder
// into the 10-bit bypass pipeline regardless of the BaqMode field.
type TestMode uint8

const (
	TestModeDefault TestMode = 0
	TestModeBypass  TestMode = 4
)

var testModeNames = map[TestMode]string{
	TestModeDefault: "DEFAULT",
	TestModeBypass:  "BYPASS",
}

func (t TestMode) String() string {
	if name, ok := testModeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// Polarization identifies the transmit/receive antenna polarization
// combination for a packet.
type Polarization uint8

const (
	PolarizationHH    Polarization = 0
	PolarizationHHHV  Polarization = 1
	PolarizationVH    Polarization = 2
	PolarizationVV    Polarization = 3
	PolarizationVVVH  Polarization = 4
	PolarizationHV    Polarization = 5
)

var polarizationNames = map[Polarization]string{
	PolarizationHH:   "HH",
	PolarizationHHHV: "HH_HV",
	PolarizationVH:   "VH",
	PolarizationVV:   "VV",
	PolarizationVVVH: "V_VH",
	PolarizationHV:   "HV",
}

func (p Polarization) String() string {
	if name, ok := polarizationNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(p))
}

// TemperatureCompensation identifies which front-end temperature
// compensation paths were active.
type TemperatureCompensation uint8

const (
	TempCompFeOffFeOff TemperatureCompensation = 0
	TempCompFeOnFeOff  TemperatureCompensation = 1
	TempCompFeOffFeOn  TemperatureCompensation = 2
	TempCompFeOnFeOn   TemperatureCompensation = 3
)

var tempCompNames = map[TemperatureCompensation]string{
	TempCompFeOffFeOff: "FE_OFF_FE_OFF",
	TempCompFeOnFeOff:  "FE_ON_FE_OFF",
	TempCompFeOffFeOn:  "FE_OFF_FE_ON",
	TempCompFeOnFeOn:   "FE_ON_FE_ON",
}

func (t TemperatureCompensation) String() string {
	if name, ok := tempCompNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// CalType identifies the type of calibration signal present when the SAS
// block's ssb_flag indicates a calibration (not imaging) packet.
type CalType uint8

const (
	CalTypeTxCalPeriodic    CalType = 0
	CalTypeTxCalInterleaved CalType = 1
	CalTypeTxCalSwitched    CalType = 2
	CalTypeTxCalInterPulse  CalType = 3
	CalTypeRxCal            CalType = 4
	CalTypeEpdnCal          CalType = 5
	CalTypeTaCal            CalType = 6
	CalTypeApcCal           CalType = 7
)

var calTypeNames = map[CalType]string{
	CalTypeTxCalPeriodic:    "TX_CAL_PERIODIC",
	CalTypeTxCalInterleaved: "TX_CAL_INTERLEAVED",
	CalTypeTxCalSwitched:    "TX_CAL_SWITCHED",
	CalTypeTxCalInterPulse:  "TX_CAL_INTER_PULSE",
	CalTypeRxCal:            "RX_CAL",
	CalTypeEpdnCal:          "EPDN_CAL",
	CalTypeTaCal:            "TA_CAL",
	CalTypeApcCal:           "APC_CAL",
}

func (c CalType) String() string {
	if name, ok := calTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(c))
}

// SasTestMode indicates whether the SAS (Sensor Active Subsystem) test
// signal path was engaged for a calibration packet.
type SasTestMode uint8

const (
	SasTestModeStandard SasTestMode = 0
	SasTestModeTest      SasTestMode = 1
)

func (s SasTestMode) String() string {
	switch s {
	case SasTestModeStandard:
		return "STANDARD"
	case SasTestModeTest:
		return "TEST"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// CalMode identifies the calibration sequencing mode captured by the SES
// block.
type CalMode uint8

const (
	CalModeNone CalMode = 0
	CalModeTxCal CalMode = 1
	CalModeRxCal CalMode = 2
	CalModeEpdnCal CalMode = 3
)

var calModeNames = map[CalMode]string{
	CalModeNone:    "NONE",
	CalModeTxCal:   "TX_CAL",
	CalModeRxCal:   "RX_CAL",
	CalModeEpdnCal: "EPDN_CAL",
}

func (c CalMode) String() string {
	if name, ok := calModeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(c))
}

// SignalType identifies the kind of signal carried by a packet's UDF:
// radar echo, instrument noise measurement, or one of several onboard
// calibration signals.
type SignalType uint8

const (
	SignalTypeEcho    SignalType = 0
	SignalTypeNoise   SignalType = 1
	SignalTypeTxCal   SignalType = 8
	SignalTypeRxCal   SignalType = 9
	SignalTypeEpdnCal SignalType = 10
	SignalTypeTaCal   SignalType = 11
	SignalTypeApcCal  SignalType = 12
	SignalTypeTxHCalIso SignalType = 15
)

var signalTypeNames = map[SignalType]string{
	SignalTypeEcho:      "ECHO",
	SignalTypeNoise:     "NOISE",
	SignalTypeTxCal:     "TX_CAL",
	SignalTypeRxCal:     "RX_CAL",
	SignalTypeEpdnCal:   "EPDN_CAL",
	SignalTypeTaCal:     "TA_CAL",
	SignalTypeApcCal:    "APC_CAL",
	SignalTypeTxHCalIso: "TXH_CAL_ISO",
}

func (s SignalType) String() string {
	if name, ok := signalTypeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}

// RangeDecimationCode selects the onboard decimation filter applied to the
// receive window; it indexes the Range-Decimation LUT in tables.go.
type RangeDecimationCode uint8

func (r RangeDecimationCode) String() string {
	if info, ok := RangeDecimationTable[r]; ok && info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(r))
}

// SwathNumber indexes the swath-name LUT in tables.go.
type SwathNumber uint8

func (s SwathNumber) String() string {
	if name, ok := SwathNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}
