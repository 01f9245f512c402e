package s1isp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sixy6e/go-s1isp/isp"
)

func TestNewQualitySummarizesSequenceCountsAndModes(t *testing.T) {
	seqs := []uint16{0, 1, 1, 2}
	modes := []isp.BaqMode{isp.BaqModeBypass, isp.BaqModeBypass, isp.BaqModeFDBAQ0, isp.BaqModeFDBAQ0}
	errs := []error{nil, errors.New("boom"), nil, nil}

	q := NewQuality(seqs, modes, errs)

	assert.Equal(t, 4, q.PacketCount)
	assert.Equal(t, uint16(0), q.MinSequenceCount)
	assert.Equal(t, uint16(2), q.MaxSequenceCount)
	assert.Equal(t, []uint16{1}, q.DuplicateSequenceCounts)
	assert.Equal(t, 2, q.BaqModeHistogram[isp.BaqModeBypass])
	assert.Equal(t, 2, q.BaqModeHistogram[isp.BaqModeFDBAQ0])
	assert.Equal(t, 1, q.ErrorCount)
}

func TestNewQualityEmptyStream(t *testing.T) {
	q := NewQuality(nil, nil, nil)
	assert.Equal(t, 0, q.PacketCount)
	assert.Empty(t, q.DuplicateSequenceCounts)
}

func TestSequenceGapsDetectsSkips(t *testing.T) {
	gaps := SequenceGaps([]uint16{5, 6, 7, 9})
	assert.Equal(t, map[int]uint16{3: 2}, gaps)
}

func TestSequenceGapsHandlesWraparound(t *testing.T) {
	gaps := SequenceGaps([]uint16{16382, 16383, 0, 1})
	assert.Empty(t, gaps)
}

func TestSequenceGapsContiguousIsEmpty(t *testing.T) {
	gaps := SequenceGaps([]uint16{0, 1, 2, 3})
	assert.Empty(t, gaps)
}
