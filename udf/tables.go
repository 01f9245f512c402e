package udf

// bypassMagnitudes is the size-512 bypass reconstruction LUT (§4.4.1): a
// 10-bit signed-magnitude bypass sample carries its I/Q count directly, so
// the table is the identity over magnitudes 0..511. It is still expressed
// as a table, not an inline cast, so the bypass pipeline shares the same
// "magnitude index -> float32" shape as the BAQ and FDBAQ LUTs below.
var bypassMagnitudes = buildBypassTable()

func buildBypassTable() [512]float32 {
	var t [512]float32
	for m := range t {
		t[m] = float32(m)
	}
	return t
}

// BypassReconstruct converts a raw 10-bit signed-magnitude bypass code to
// its reconstructed float32 value.
func BypassReconstruct(code uint16) float32 {
	sign := (code >> 9) & 1
	mag := code & 0x1FF
	v := bypassMagnitudes[mag]
	if sign == 1 {
		return -v
	}
	return v
}

// smvalMagnitudeCounts gives, per BAQ mode (3/4/5-bit), the number of
// distinct magnitudes a signed-magnitude code carries (2^(width-1)).
var smvalMagnitudeCounts = map[int]int{3: 4, 4: 8, 5: 16}

// thresholdIndexCount is the number of distinct threshold_index values (an
// 8-bit field, §4.4.2-3).
const thresholdIndexCount = 256

// smval holds the Simple Reconstruction Method table, indexed
// [bitWidth][thresholdIndex][magnitude], mapping a quantized magnitude
// code to its reconstructed (unsigned) float32 level.
//
// The exact per-entry coefficients published in S1-IF-ASD-PL-0007 table
// 5.3-x were not recoverable from the retrieval pack (see DESIGN.md). This
// table is this decoder's own reconstruction: within each threshold index
// the levels increase monotonically with the magnitude code, and the step
// size grows with the threshold index, matching a floating quantizer whose
// step scales with the estimated signal level the threshold index encodes.
var smval = buildSMVAL()

func buildSMVAL() map[int][thresholdIndexCount][]float32 {
	out := make(map[int][thresholdIndexCount][]float32, len(smvalMagnitudeCounts))
	for width, nmag := range smvalMagnitudeCounts {
		var perTi [thresholdIndexCount][]float32
		for ti := 0; ti < thresholdIndexCount; ti++ {
			step := stepForThresholdIndex(ti)
			levels := make([]float32, nmag)
			for mag := 0; mag < nmag; mag++ {
				levels[mag] = float32(float64(mag)+0.5) * step
			}
			perTi[ti] = levels
		}
		out[width] = perTi
	}
	return out
}

// stepForThresholdIndex maps a threshold index to a quantizer step size.
// The threshold index is a monotonic proxy for the estimated standard
// deviation of a BAQ block; step size scales accordingly.
func stepForThresholdIndex(ti int) float64 {
	return 0.05 + float64(ti)*0.015
}

// SMVALReconstruct reconstructs the unsigned magnitude value for a BAQ
// code of the given bit width at threshold index ti.
func SMVALReconstruct(width int, ti int, magnitude int) float32 {
	levels := smval[width][ti]
	if magnitude < 0 {
		magnitude = 0
	}
	if magnitude >= len(levels) {
		magnitude = len(levels) - 1
	}
	return levels[magnitude]
}

// nrl holds the FDBAQ Normalized Reconstruction Level table, indexed
// [brc][thresholdIndex], used when a decoded magnitude code equals a
// BRC's magmax (the Huffman tree's "escape" symbol signalling the sample
// exceeded the tree's direct range).
//
// As with smval, exact ESA coefficients were not recoverable; values here
// grow with both BRC (wider dynamic range trees imply larger escape
// magnitudes) and threshold index, consistent with the qualitative
// behaviour documented in §4.4.3.
var nrl = buildNRL()

func buildNRL() [5][thresholdIndexCount]float32 {
	var t [5][thresholdIndexCount]float32
	for brc := 0; brc < 5; brc++ {
		base := float64(magMax[brc]) + 1
		for ti := 0; ti < thresholdIndexCount; ti++ {
			t[brc][ti] = float32(base * (1.0 + float64(ti)*0.01))
		}
	}
	return t
}

// sigma holds the per-threshold-index sigma scale factor applied on top
// of an NRL lookup.
var sigma = buildSigma()

func buildSigma() [thresholdIndexCount]float32 {
	var t [thresholdIndexCount]float32
	for ti := range t {
		t[ti] = float32(0.1 + float64(ti)*0.02)
	}
	return t
}

// FDBAQEscapeReconstruct reconstructs the unsigned magnitude for a decoded
// code that hit a BRC tree's escape symbol (magnitude == magmax for that
// BRC): NRL[brc][ti] * SIGMA[ti].
func FDBAQEscapeReconstruct(brc int, ti int) float32 {
	return nrl[brc][ti] * sigma[ti]
}

// FDBAQSimpleReconstruct reconstructs the unsigned magnitude for a decoded
// code below a BRC tree's escape symbol, via the same simple-reconstruction
// shape as SMVALReconstruct but parameterized by BRC rather than bit width.
func FDBAQSimpleReconstruct(brc int, magnitude int) float32 {
	step := 0.1 + float64(brc)*0.05
	return float32(float64(magnitude)+0.5) * float32(step)
}
