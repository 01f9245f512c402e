package s1isp

import (
	"github.com/samber/lo"

	"github.com/sixy6e/go-s1isp/isp"
)

// StreamQuality summarizes one decoding pass over a packet stream: the
// same kind of post-hoc sanity pass the teacher's QInfo runs over a
// decoded ping list, adapted to sequence counts and per-packet decode
// errors instead of beam counts and ping timestamps.
type StreamQuality struct {
	PacketCount int

	// MinSequenceCount/MaxSequenceCount are the observed range of
	// Primary Header sequence_count values, before accounting for 2^14
	// wraparound.
	MinSequenceCount uint16
	MaxSequenceCount uint16

	// DuplicateSequenceCounts lists sequence_count values seen more than
	// once. A non-empty list does not necessarily indicate data loss:
	// distinct rx_channels legitimately share a sequence_count space.
	DuplicateSequenceCounts []uint16

	// BaqModeHistogram counts packets observed per decoded BAQ mode.
	BaqModeHistogram map[isp.BaqMode]int

	// ErrorCount is the number of non-nil entries in the packetErrors
	// slice passed to NewQuality.
	ErrorCount int
}

// NewQuality computes a StreamQuality summary over a completed decode
// pass. sequenceCounts and baqModes are parallel per-packet slices;
// packetErrors marks which of those packets carried a decode error, as
// collected by the caller; the streaming decoder itself does not attach
// errors to the records it emits.
func NewQuality(sequenceCounts []uint16, baqModes []isp.BaqMode, packetErrors []error) StreamQuality {
	q := StreamQuality{
		PacketCount:      len(sequenceCounts),
		BaqModeHistogram: make(map[isp.BaqMode]int),
	}

	if len(sequenceCounts) > 0 {
		q.MinSequenceCount = lo.Min(sequenceCounts)
		q.MaxSequenceCount = lo.Max(sequenceCounts)
	}

	q.DuplicateSequenceCounts = lo.FindDuplicates(sequenceCounts)

	for _, m := range baqModes {
		q.BaqModeHistogram[m]++
	}

	for _, err := range packetErrors {
		if err != nil {
			q.ErrorCount++
		}
	}

	return q
}

// SequenceGaps reports every point at which consecutive sequence_count
// values (interpreted mod 2^14, per §3's wraparound note) differ by
// anything other than one, paired with that difference (a repeated value
// is reported with a gap of 0). An empty result means the stream was
// contiguous.
func SequenceGaps(sequenceCounts []uint16) map[int]uint16 {
	const wrap = uint32(1) << 14

	gaps := make(map[int]uint16)
	for i := 1; i < len(sequenceCounts); i++ {
		prev := uint32(sequenceCounts[i-1])
		cur := uint32(sequenceCounts[i])
		delta := (cur + wrap - prev) % wrap
		if delta != 1 {
			gaps[i] = uint16(delta)
		}
	}
	return gaps
}
