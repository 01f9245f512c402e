package stream

import (
	"errors"
	"io"

	"github.com/sixy6e/go-s1isp/isp"
	"github.com/sixy6e/go-s1isp/udf"
)

// ErrTruncatedStream is returned when a packet starts but the stream ends
// before a complete Primary+Secondary Header and UDF have been read.
var ErrTruncatedStream = errors.New("stream: truncated packet")

// UDFMode selects how much of a packet's User Data Field the streaming
// decoder materializes.
type UDFMode int

const (
	// UDFModeNone discards the UDF entirely; only headers are emitted.
	UDFModeNone UDFMode = iota
	// UDFModeExtract stores the raw UDF bytes without decoding samples.
	UDFModeExtract
	// UDFModeDecode fully decodes the UDF into complex baseband samples.
	UDFModeDecode
)

// DecodeOptions configures one streaming decode pass.
type DecodeOptions struct {
	SkipPackets int64
	MaxCount    int64
	BytesOffset int64
	UDFMode     UDFMode
	// Resync, when true, recovers from an InvalidPacket Primary Header by
	// advancing byte-by-byte until the next plausible header rather than
	// terminating the stream.
	Resync bool
}

// state is the streaming decoder's lifecycle, §4.6.
type state int

const (
	stateScanning state = iota
	stateDecoding
	stateDone
)

// PacketResult is one decoded packet plus its raw UDF bytes when
// UDFMode is UDFModeExtract.
type PacketResult struct {
	Record  isp.Record
	RawUDF  []byte
	Partial bool
}

// Decoder runs the streaming packet loop (§4.5/§4.6) over a Stream,
// producing decoded records, their byte offsets, and reassembled
// sub-commutated frames. It is single-threaded and synchronous; nothing
// here performs implicit concurrency.
type Decoder struct {
	s       Stream
	opts    DecodeOptions
	state   state
	pos     int64
	emitted int64
	reasm   *Reassembler

	// Cancel is a cooperative cancellation flag checked once per
	// iteration of Next; set it from another goroutine to stop early.
	Cancel *bool
}

// NewDecoder constructs a Decoder over s with the given options. It does
// not perform any IO until the first call to Next.
func NewDecoder(s Stream, opts DecodeOptions) *Decoder {
	return &Decoder{
		s:     s,
		opts:  opts,
		state: stateScanning,
		reasm: NewReassembler(),
	}
}

// Done reports whether the decoder has reached its terminal state
// (max-count satisfied or the underlying stream is exhausted).
func (d *Decoder) Done() bool {
	return d.state == stateDone
}

// scan performs the one-time skip-packets warmup: seek to BytesOffset,
// then read only Primary Headers to advance past SkipPackets packets.
func (d *Decoder) scan() error {
	if _, err := d.s.Seek(d.opts.BytesOffset, 0); err != nil {
		return err
	}
	d.pos = d.opts.BytesOffset

	for i := int64(0); i < d.opts.SkipPackets; i++ {
		var phBuf [isp.PrimaryHeaderSize]byte
		if err := ReadExact(d.s, phBuf[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				d.state = stateDone
				return nil
			}
			return err
		}

		ph, err := isp.DecodePrimaryHeader(phBuf[:])
		if err != nil {
			return err
		}

		remaining := ph.TotalPacketSize() - isp.PrimaryHeaderSize
		if _, err := d.s.Seek(int64(remaining), 1); err != nil {
			return err
		}
		d.pos += int64(ph.TotalPacketSize())
	}

	d.state = stateDecoding
	return nil
}

// Next advances the decoder by one packet. It returns (result, subFrames,
// true, nil) for each decoded packet, and ok=false with a nil error
// once the decoder reaches Done normally (max-count reached or clean
// EOF). A non-nil error is fatal per §4.6's failure semantics, except
// when Resync is enabled and the failure was an *isp.InvalidPacketError,
// in which case Next recovers internally and the caller simply sees the
// next successfully decoded packet.
func (d *Decoder) Next() (PacketResult, []SubComFrame, bool, error) {
	if d.state == stateScanning {
		if err := d.scan(); err != nil {
			d.state = stateDone
			return PacketResult{}, nil, false, err
		}
	}

	for {
		if d.state == stateDone {
			return PacketResult{}, nil, false, nil
		}

		if d.Cancel != nil && *d.Cancel {
			d.state = stateDone
			return PacketResult{}, nil, false, nil
		}

		if d.opts.MaxCount > 0 && d.emitted >= d.opts.MaxCount {
			d.state = stateDone
			return PacketResult{}, nil, false, nil
		}

		result, frames, err := d.decodeOne()
		if err == nil {
			d.emitted++
			return result, frames, true, nil
		}

		var invalid *isp.InvalidPacketError
		if errors.As(err, &invalid) && d.opts.Resync {
			if resyncErr := d.resync(); resyncErr != nil {
				d.state = stateDone
				return PacketResult{}, nil, false, resyncErr
			}
			continue
		}

		if errors.Is(err, io.EOF) {
			d.state = stateDone
			return PacketResult{}, nil, false, nil
		}

		d.state = stateDone
		return PacketResult{}, nil, false, err
	}
}

// decodeOne reads and decodes exactly one packet starting at the
// stream's current position.
func (d *Decoder) decodeOne() (PacketResult, []SubComFrame, error) {
	offset := d.pos

	var phBuf [isp.PrimaryHeaderSize]byte
	if err := ReadExact(d.s, phBuf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return PacketResult{}, nil, io.EOF
		}
		return PacketResult{}, nil, ErrTruncatedStream
	}

	ph, err := isp.DecodePrimaryHeaderChecked(phBuf[:], offset)
	if err != nil {
		// Leave d.pos at offset: resync() scans byte-by-byte starting
		// here, rather than skipping a header's worth of bytes that may
		// have overrun the real next header.
		return PacketResult{}, nil, err
	}

	var shBuf [isp.SecondaryHeaderSize]byte
	if err := ReadExact(d.s, shBuf[:]); err != nil {
		return PacketResult{}, nil, ErrTruncatedStream
	}

	sh, err := isp.DecodeSecondaryHeaderChecked(shBuf[:], offset+isp.PrimaryHeaderSize)

	rec := isp.Record{ByteOffset: offset, Primary: ph, Secondary: sh}

	udfSize := rec.UDFSize()
	var rawUDF []byte
	if udfSize > 0 {
		rawUDF = make([]byte, udfSize)
		if readErr := ReadExact(d.s, rawUDF); readErr != nil {
			return PacketResult{}, nil, ErrTruncatedStream
		}
	}

	d.pos += int64(ph.TotalPacketSize())

	frames := d.accumulateSubCom(&sh)

	if err != nil {
		return PacketResult{Record: rec}, frames, err
	}

	result := PacketResult{Record: rec}

	switch d.opts.UDFMode {
	case UDFModeExtract:
		result.RawUDF = rawUDF
	case UDFModeDecode:
		nq := int(sh.NumberOfQuads)
		samples, decodeErr := udf.Decode(rawUDF, nq, sh.BaqMode, sh.TestMode, sh.BaqBlockLengthSamples())
		if decodeErr != nil {
			return result, frames, decodeErr
		}
		rec.Samples = samples
		result.Record = rec
	}

	return result, frames, nil
}

func (d *Decoder) accumulateSubCom(sh *isp.SecondaryHeader) []SubComFrame {
	frame, ok := d.reasm.Add(sh.RxChannel, sh.SubCommutation.DataWordIndex, sh.SubCommutation.DataWord, sh.PriCount)
	if !ok {
		return nil
	}
	return []SubComFrame{frame}
}

// resync advances the stream byte-by-byte searching for the next
// plausible Primary Header (sane version/type/sequence-flags bits).
func (d *Decoder) resync() error {
	var window [isp.PrimaryHeaderSize]byte
	for {
		d.pos++
		if _, err := d.s.Seek(d.pos, 0); err != nil {
			return err
		}
		if err := ReadExact(d.s, window[:]); err != nil {
			return err
		}

		ph, err := isp.DecodePrimaryHeader(window[:])
		if err == nil && ph.Sane() {
			// Leave the stream positioned back at d.pos so decodeOne
			// re-reads the header fresh instead of continuing past
			// the verification window.
			_, seekErr := d.s.Seek(d.pos, 0)
			return seekErr
		}
	}
}
