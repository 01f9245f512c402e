package udf

import (
	"errors"

	"github.com/sixy6e/go-s1isp/bitio"
	"github.com/sixy6e/go-s1isp/isp"
)

// ErrUnexpectedEOF is returned when the UDF buffer is shorter than the
// pipeline selected by (baq_mode, test_mode, number_of_quads) requires.
var ErrUnexpectedEOF = errors.New("udf: unexpected end of user data field")

const fdbaqBlockSamples = 128

// alignTo16 skips bits until the reader's cursor sits on a 16-bit
// boundary, the per-interleave padding every UDF pipeline applies.
func alignTo16(r *bitio.Reader) error {
	rem := r.BitPos() % 16
	if rem == 0 {
		return nil
	}
	return r.Skip(16 - rem)
}

// Decode decodes a packet's User Data Field into 2*numberOfQuads complex
// baseband samples, selecting the bypass, Simple BAQ, or FDBAQ pipeline
// from (baqMode, testMode) per §4.4. baqBlockLengthSamples is the Radar
// Configuration Support service's derived block length (8*(field+1)),
// needed by the Simple BAQ pipeline.
func Decode(data []byte, numberOfQuads int, baqMode isp.BaqMode, testMode isp.TestMode, baqBlockLengthSamples int) ([]complex64, error) {
	if numberOfQuads == 0 {
		return []complex64{}, nil
	}

	r := bitio.NewReader(data)

	var ie, io, qe, qo []float32
	var err error

	switch {
	case testMode == isp.TestModeBypass || baqMode == isp.BaqModeBypass:
		ie, io, qe, qo, err = decodeBypass(r, numberOfQuads)
	case baqMode.IsSimpleBAQ():
		width, _ := baqMode.BitWidth()
		ie, io, qe, qo, err = decodeSimpleBAQ(r, numberOfQuads, width, baqBlockLengthSamples)
	case baqMode.IsFDBAQ():
		ie, io, qe, qo, err = decodeFDBAQ(r, numberOfQuads)
	default:
		return nil, errors.New("udf: unsupported baq mode")
	}
	if err != nil {
		return nil, err
	}

	return interleaveComplex(ie, io, qe, qo), nil
}

// interleaveComplex re-assembles the four interleaves into acquisition
// order: complex[2k] = Ie[k] + j*Qe[k], complex[2k+1] = Io[k] + j*Qo[k].
func interleaveComplex(ie, io, qe, qo []float32) []complex64 {
	nq := len(ie)
	out := make([]complex64, 2*nq)
	for k := 0; k < nq; k++ {
		out[2*k] = complex(ie[k], qe[k])
		out[2*k+1] = complex(io[k], qo[k])
	}
	return out
}

func decodeBypass(r *bitio.Reader, nq int) (ie, io, qe, qo []float32, err error) {
	interleaves := make([][]float32, 4)
	for i := range interleaves {
		vals := make([]float32, nq)
		for s := 0; s < nq; s++ {
			code, err := r.ReadUint(10)
			if err != nil {
				return nil, nil, nil, nil, ErrUnexpectedEOF
			}
			vals[s] = BypassReconstruct(uint16(code))
		}
		if err := alignTo16(r); err != nil {
			return nil, nil, nil, nil, ErrUnexpectedEOF
		}
		interleaves[i] = vals
	}
	return interleaves[0], interleaves[1], interleaves[2], interleaves[3], nil
}

func decodeSimpleBAQ(r *bitio.Reader, nq int, width int, blockLen int) (ie, io, qe, qo []float32, err error) {
	if blockLen <= 0 {
		blockLen = nq
	}

	var ti int
	interleaves := make([][]float32, 4)
	for i := range interleaves {
		vals := make([]float32, nq)
		for s := 0; s < nq; {
			if i == 0 && s == 0 {
				tiRaw, err := r.ReadUint(8)
				if err != nil {
					return nil, nil, nil, nil, ErrUnexpectedEOF
				}
				ti = int(tiRaw)
			}

			n := blockLen
			if s+n > nq {
				n = nq - s
			}
			for b := 0; b < n; b++ {
				code, err := r.ReadUint(width)
				if err != nil {
					return nil, nil, nil, nil, ErrUnexpectedEOF
				}
				sign := (code >> (uint(width) - 1)) & 1
				mag := int(code) & ((1 << (uint(width) - 1)) - 1)
				val := SMVALReconstruct(width, ti, mag)
				if sign == 1 {
					val = -val
				}
				vals[s+b] = val
			}
			s += n
		}
		if err := alignTo16(r); err != nil {
			return nil, nil, nil, nil, ErrUnexpectedEOF
		}
		interleaves[i] = vals
	}
	return interleaves[0], interleaves[1], interleaves[2], interleaves[3], nil
}

// fdbaqBlockHeader is the per-128-sample-block BRC selector (from Ie) and
// threshold index (from Qe/Qo), shared across all four interleaves' same
// block index.
type fdbaqBlockHeader struct {
	brc int
	ti  int
}

func decodeFDBAQ(r *bitio.Reader, nq int) (ie, io, qe, qo []float32, err error) {
	nblocks := (nq + fdbaqBlockSamples - 1) / fdbaqBlockSamples
	headers := make([]fdbaqBlockHeader, nblocks)

	// Ie and Io are read before Qe/Qo carries the block's threshold_index,
	// so any escape-coded sample (mag == magmax) in them can't be
	// reconstructed yet; decodeFDBAQInterleave defers those and returns
	// them as pending, to be finished once headers[*].ti is known.
	ieVals, iePending, err := decodeFDBAQInterleave(r, nq, headers, true, false)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := alignTo16(r); err != nil {
		return nil, nil, nil, nil, ErrUnexpectedEOF
	}

	ioVals, ioPending, err := decodeFDBAQInterleave(r, nq, headers, false, false)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := alignTo16(r); err != nil {
		return nil, nil, nil, nil, ErrUnexpectedEOF
	}

	qeVals, _, err := decodeFDBAQInterleave(r, nq, headers, false, true)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := alignTo16(r); err != nil {
		return nil, nil, nil, nil, ErrUnexpectedEOF
	}

	qoVals, _, err := decodeFDBAQInterleave(r, nq, headers, false, true)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := alignTo16(r); err != nil {
		return nil, nil, nil, nil, ErrUnexpectedEOF
	}

	// headers[*].ti now holds every block's threshold_index (Qe, overwritten
	// by Qo); resolve Ie/Io's deferred escape samples against it.
	resolvePendingEscapes(ieVals, iePending, headers)
	resolvePendingEscapes(ioVals, ioPending, headers)

	return ieVals, ioVals, qeVals, qoVals, nil
}

// pendingEscape is an Ie/Io sample whose code was escape-coded (mag ==
// magmax) but whose block's threshold_index wasn't known yet at read time.
type pendingEscape struct {
	idx      int
	blockIdx int
	sign     uint32
}

// resolvePendingEscapes fills in vals[p.idx] for every deferred escape
// sample now that headers carries each block's threshold_index.
func resolvePendingEscapes(vals []float32, pending []pendingEscape, headers []fdbaqBlockHeader) {
	for _, p := range pending {
		h := headers[p.blockIdx]
		val := FDBAQEscapeReconstruct(h.brc, h.ti)
		if p.sign == 1 {
			val = -val
		}
		vals[p.idx] = val
	}
}

// decodeFDBAQInterleave decodes one of the four FDBAQ interleaves.
// readsBRC is true only for Ie, which carries the block's BRC selector;
// readsTI is true for Qe/Qo, which carry the block's threshold index.
// Io/Qe/Qo reuse the BRC Ie selected for the same block index. When a
// sample is escape-coded and the block's threshold_index isn't known yet
// (Ie, Io), it's reported as a pendingEscape instead of reconstructed.
func decodeFDBAQInterleave(r *bitio.Reader, nq int, headers []fdbaqBlockHeader, readsBRC bool, readsTI bool) ([]float32, []pendingEscape, error) {
	vals := make([]float32, nq)
	var pending []pendingEscape

	for s, blockIdx := 0, 0; s < nq; blockIdx++ {
		n := fdbaqBlockSamples
		if s+n > nq {
			n = nq - s
		}

		if readsBRC {
			brcRaw, err := r.ReadUint(3)
			if err != nil {
				return nil, nil, ErrUnexpectedEOF
			}
			if brcRaw > 4 {
				return nil, nil, ErrInvalidBRC
			}
			headers[blockIdx].brc = int(brcRaw)
		}
		if readsTI {
			tiRaw, err := r.ReadUint(8)
			if err != nil {
				return nil, nil, ErrUnexpectedEOF
			}
			headers[blockIdx].ti = int(tiRaw)
		}

		brc := headers[blockIdx].brc
		magmax := magMax[brc]

		for i := 0; i < n; i++ {
			code, err := readSignMagnitude(r, magmax)
			if err != nil {
				return nil, nil, ErrUnexpectedEOF
			}

			sign, mag := SplitSignMagnitude(code, magmax)
			if mag < magmax {
				val := FDBAQSimpleReconstruct(brc, mag)
				if sign == 1 {
					val = -val
				}
				vals[s+i] = val
				continue
			}

			if readsTI {
				// ti for this block is already known (just read above).
				val := FDBAQEscapeReconstruct(brc, headers[blockIdx].ti)
				if sign == 1 {
					val = -val
				}
				vals[s+i] = val
				continue
			}

			pending = append(pending, pendingEscape{idx: s + i, blockIdx: blockIdx, sign: sign})
		}

		s += n
	}

	return vals, pending, nil
}
