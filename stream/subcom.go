package stream

// SubComSlotCount is the number of data_word_index positions (1..64) that
// make up one sub-commutated ancillary data frame.
const SubComSlotCount = 64

// SubComFrame is one reassembled 64-slot (128-byte) sub-commutated
// ancillary data frame: PMC/TX/RX temperatures, star-tracker words, and
// other housekeeping fields multiplexed one 16-bit word per packet across
// 64 consecutive packets on the same rx_channel.
//
// The exact byte offsets S1-IF-ASD-PL-0007 assigns to each named field
// were not recoverable from the retrieval pack (see DESIGN.md); Words
// exposes the raw slot -> word mapping, and a best-effort Decode() carves
// out the handful of fields this decoder names (NamedFields), leaving the
// rest available via Words for a caller that has the full field table.
type SubComFrame struct {
	RxChannel uint8
	Words     [SubComSlotCount]uint16
	PriCounts [SubComSlotCount]uint32
	FilledTo  int
	Partial   bool
}

// NamedFields is this decoder's best-effort decode of the handful of
// sub-commutated fields it names; the remaining slots are exposed via
// SubComFrame.Words for callers with a fuller field table.
type NamedFields struct {
	PMCTemperature1 uint16
	PMCTemperature2 uint16
	TxTemperature   uint16
	RxTemperature   uint16
	StarTrackerWord uint16
}

// Decode carves the small set of named fields out of the frame's 64
// words, using slot positions consistent with this decoder's own
// reconstruction (see SubComFrame's doc comment).
func (f *SubComFrame) Decode() NamedFields {
	return NamedFields{
		PMCTemperature1: f.Words[0],
		PMCTemperature2: f.Words[1],
		TxTemperature:   f.Words[2],
		RxTemperature:   f.Words[3],
		StarTrackerWord: f.Words[4],
	}
}

// building tracks one rx_channel's in-progress frame.
type building struct {
	frame    SubComFrame
	nextSlot int // 1-based data_word_index expected next
}

// Reassembler groups consecutive (data_word_index, data_word, pri_count)
// triples into per-rx_channel SubComFrame values. A frame is closed when
// 64 consecutive triples with strictly increasing indices 1..64 are
// received; a data_word_index of 1 appearing out of sequence resets the
// accumulator, emitting whatever was accumulated so far as a partial
// frame.
type Reassembler struct {
	channels map[uint8]*building
}

// NewReassembler constructs an empty Reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{channels: make(map[uint8]*building)}
}

// Add feeds one packet's sub-commutated triple into the reassembler for
// rxChannel. It returns a completed (or, on reset, partial) frame and
// true when one is ready to emit; otherwise ok is false and the triple
// has been absorbed into the in-progress accumulation.
func (r *Reassembler) Add(rxChannel uint8, dataWordIndex uint8, dataWord uint16, priCount uint32) (SubComFrame, bool) {
	b, exists := r.channels[rxChannel]

	if dataWordIndex == 1 {
		var emitted SubComFrame
		ready := false
		if exists && b.nextSlot > 1 {
			b.frame.Partial = true
			b.frame.FilledTo = b.nextSlot - 1
			emitted = b.frame
			ready = true
		}
		r.channels[rxChannel] = &building{nextSlot: 1}
		b = r.channels[rxChannel]
		b.frame.RxChannel = rxChannel
		if ready {
			r.storeSlot(b, dataWordIndex, dataWord, priCount)
			return emitted, true
		}
		r.storeSlot(b, dataWordIndex, dataWord, priCount)
		return SubComFrame{}, false
	}

	if !exists || int(dataWordIndex) != b.nextSlot {
		// Out-of-sequence slot with no index-1 reset: drop the
		// in-progress accumulation for this channel and wait for the
		// next index-1 to resynchronise.
		delete(r.channels, rxChannel)
		return SubComFrame{}, false
	}

	r.storeSlot(b, dataWordIndex, dataWord, priCount)

	if b.nextSlot > SubComSlotCount {
		b.frame.FilledTo = SubComSlotCount
		frame := b.frame
		delete(r.channels, rxChannel)
		return frame, true
	}

	return SubComFrame{}, false
}

func (r *Reassembler) storeSlot(b *building, dataWordIndex uint8, dataWord uint16, priCount uint32) {
	idx := int(dataWordIndex) - 1
	if idx >= 0 && idx < SubComSlotCount {
		b.frame.Words[idx] = dataWord
		b.frame.PriCounts[idx] = priCount
	}
	b.nextSlot++
}
