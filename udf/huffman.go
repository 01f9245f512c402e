// Package udf decodes the User Data Field of a Sentinel-1 Instrument
// Source Packet: the bypass, BAQ 3/4/5-bit, and FDBAQ compression
// pipelines, and the Huffman tree walkers FDBAQ rides on.
package udf

import (
	"errors"

	"github.com/sixy6e/go-s1isp/bitio"
)

// ErrInvalidBRC is returned when a BRC selector falls outside 0..4.
var ErrInvalidBRC = errors.New("udf: baq rate code out of range 0..4")

// magMax gives the largest representable magnitude per BRC (S1-IF-ASD-PL-0007
// table 5.2-1: BRC0..4 -> 3,4,6,9,15).
var magMax = [5]int{3, 4, 6, 9, 15}

// SignMagnitude packs a sign and magnitude into the 5-bit signed-magnitude
// code convention used throughout this package: codes 0..magmax are
// +0..+magmax, codes magmax+1..2*magmax+1 are -0..-magmax, preserving the
// distinct +0/-0 codes a naive sign*magnitude reconstruction would collapse.
func SignMagnitude(sign int, mag int, magmax int) uint8 {
	if sign == 0 {
		return uint8(mag)
	}
	return uint8(magmax + 1 + mag)
}

// SplitSignMagnitude is the inverse of SignMagnitude.
func SplitSignMagnitude(code uint8, magmax int) (sign int, mag int) {
	if int(code) <= magmax {
		return 0, int(code)
	}
	return 1, int(code) - magmax - 1
}

// walkMagnitude reads one magnitude from an unpacked-bit sequence (one bit
// per byte, values 0 or 1) starting at pos. The code is a run of 1 bits
// terminated by a 0 (the zero bit resolves earlier than a further 1 at
// equal tree depth, per the BRC trees' tie-break rule); a run of exactly
// magmax ones needs no terminator, since magmax is the last code point.
// Returns the decoded magnitude and the position just past the consumed
// bits, or ok=false if bits was exhausted first.
func walkMagnitude(bits []byte, pos int, magmax int) (mag int, newPos int, ok bool) {
	for mag = 0; mag < magmax; mag++ {
		if pos >= len(bits) {
			return 0, pos, false
		}
		b := bits[pos]
		pos++
		if b == 0 {
			return mag, pos, true
		}
	}
	return magmax, pos, true
}

// readSignMagnitude reads one sign bit followed by one magnitude codeword
// directly from a bit cursor, the shape the UDF FDBAQ pipeline uses since
// it does not know a block's bit length up front. It is the same walk as
// walkMagnitude, against a live reader instead of a pre-unpacked slice.
func readSignMagnitude(r *bitio.Reader, magmax int) (uint8, error) {
	sign, err := r.ReadUint(1)
	if err != nil {
		return 0, err
	}

	mag := 0
	for mag < magmax {
		b, err := r.ReadUint(1)
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		mag++
	}

	return SignMagnitude(int(sign), mag, magmax), nil
}

// decodeBRC runs the shared sign+magnitude walk nout times, writing one
// signed-magnitude code per sample into out. It returns the number of
// input bits consumed, or the negated bit position at which bits was
// exhausted before nout samples were produced.
func decodeBRC(magmax int, bits []byte, nout int, out []uint8) int {
	pos := 0
	for i := 0; i < nout; i++ {
		if pos >= len(bits) {
			return -pos
		}
		sign := int(bits[pos])
		pos++

		mag, next, ok := walkMagnitude(bits, pos, magmax)
		if !ok {
			return -next
		}
		pos = next

		out[i] = SignMagnitude(sign, mag, magmax)
	}
	return pos
}

// HuffmanBRC0 decodes nout BRC0 (magmax 3) samples.
func HuffmanBRC0(bits []byte, nout int, out []uint8) int { return decodeBRC(magMax[0], bits, nout, out) }

// HuffmanBRC1 decodes nout BRC1 (magmax 4) samples.
func HuffmanBRC1(bits []byte, nout int, out []uint8) int { return decodeBRC(magMax[1], bits, nout, out) }

// HuffmanBRC2 decodes nout BRC2 (magmax 6) samples.
func HuffmanBRC2(bits []byte, nout int, out []uint8) int { return decodeBRC(magMax[2], bits, nout, out) }

// HuffmanBRC3 decodes nout BRC3 (magmax 9) samples.
func HuffmanBRC3(bits []byte, nout int, out []uint8) int { return decodeBRC(magMax[3], bits, nout, out) }

// HuffmanBRC4 decodes nout BRC4 (magmax 15) samples.
func HuffmanBRC4(bits []byte, nout int, out []uint8) int { return decodeBRC(magMax[4], bits, nout, out) }

// HuffmanDecode dispatches to the BRC0..4 tree walker selected by brc.
func HuffmanDecode(brc int, bits []byte, nout int, out []uint8) (int, error) {
	switch brc {
	case 0:
		return HuffmanBRC0(bits, nout, out), nil
	case 1:
		return HuffmanBRC1(bits, nout, out), nil
	case 2:
		return HuffmanBRC2(bits, nout, out), nil
	case 3:
		return HuffmanBRC3(bits, nout, out), nil
	case 4:
		return HuffmanBRC4(bits, nout, out), nil
	default:
		return 0, ErrInvalidBRC
	}
}

// encodeMagnitude is the test-only inverse of walkMagnitude: it appends
// the unpacked-bit codeword for mag to bits.
func encodeMagnitude(bits []byte, mag int, magmax int) []byte {
	for i := 0; i < mag; i++ {
		bits = append(bits, 1)
	}
	if mag < magmax {
		bits = append(bits, 0)
	}
	return bits
}

// EncodeBRC is the test-only inverse of decodeBRC: it serializes codes
// (signed-magnitude bytes as produced by decodeBRC) back into an
// unpacked-bit sequence, used to verify the encode/decode round trip.
func EncodeBRC(brc int, codes []uint8) ([]byte, error) {
	if brc < 0 || brc > 4 {
		return nil, ErrInvalidBRC
	}
	magmax := magMax[brc]
	var bits []byte
	for _, code := range codes {
		sign, mag := SplitSignMagnitude(code, magmax)
		bits = append(bits, byte(sign))
		bits = encodeMagnitude(bits, mag, magmax)
	}
	return bits, nil
}
