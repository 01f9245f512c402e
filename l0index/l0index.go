// Package l0index reads the fixed-layout Level-0 index file that
// accompanies a raw telemetry file: a short header followed by one
// fixed-size entry per space packet, each recording where the packet
// lives in the raw file and its acquisition time.
package l0index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/sixy6e/go-s1isp/stream"
)

// ErrSizeMismatch is returned by Open when the file size check is enabled
// and the file's actual length does not match header.Count entries plus
// the header.
var ErrSizeMismatch = errors.New("l0index: file size does not match header entry count")

// HeaderSize is the byte length of the fixed leading header: an entry
// count followed by a reserved word, mirroring the reserved padding the
// raw telemetry format's own headers carry.
const HeaderSize = 16

// EntrySize is the byte length of one index entry.
const EntrySize = 36

// Header is the fixed preamble of an index file: how many entries follow.
type Header struct {
	Count    uint64
	Reserved uint64
}

// Entry is one companion-index record: where a packet lives in the raw
// file and when it was acquired.
type Entry struct {
	// DateTime is the packet acquisition time, in whatever epoch the
	// producing ground segment uses (seconds as a float64).
	DateTime float64
	// TimeDelta is the time elapsed since the previous entry, seconds.
	TimeDelta float64
	// DataSize is the packet's total byte length in the raw file.
	DataSize uint64
	// Channel is the originating rx_channel.
	Channel uint32
	// Vcid is the spacecraft virtual channel ID the packet arrived on.
	Vcid uint32
	// Counter is a monotonically increasing per-channel packet counter.
	Counter uint32
}

// wireEntry is the on-disk shape of Entry; binary.Read decodes directly
// into it since every field is already fixed-width and big-endian.
type wireEntry struct {
	DateTime  float64
	TimeDelta float64
	DataSize  uint64
	Channel   uint32
	Vcid      uint32
	Counter   uint32
}

// DecodeHeader reads the fixed 16-byte header from the front of an index
// file.
func DecodeHeader(r io.Reader) (Header, error) {
	var raw [HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Header{}, err
	}

	buf := bytes.NewReader(raw[:])
	var h Header
	if err := binary.Read(buf, binary.BigEndian, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// DecodeEntry reads one 36-byte index entry.
func DecodeEntry(r io.Reader) (Entry, error) {
	var we wireEntry
	if err := binary.Read(r, binary.BigEndian, &we); err != nil {
		return Entry{}, err
	}
	return Entry{
		DateTime:  we.DateTime,
		TimeDelta: we.TimeDelta,
		DataSize:  we.DataSize,
		Channel:   we.Channel,
		Vcid:      we.Vcid,
		Counter:   we.Counter,
	}, nil
}

// Index is a decoded companion index file: its header plus every entry,
// in file order.
type Index struct {
	Header  Header
	Entries []Entry
}

// Reader produces an ordered, lazy sequence of Entry values from a
// stream.Stream positioned at the start of an index file.
type Reader struct {
	s       stream.Stream
	header  Header
	read    uint64
	fileLen int64
}

// Open decodes the header of an index file opened as s and returns a
// Reader positioned to yield its entries in order. When checkSize is
// true, fileSize (the stream's total byte length, e.g. from os.Stat or
// stream.File.Size) is validated against HeaderSize + header.Count *
// EntrySize; a mismatch is reported as ErrSizeMismatch rather than
// surfacing later as a truncated read.
func Open(s stream.Stream, fileSize int64, checkSize bool) (*Reader, error) {
	header, err := DecodeHeader(streamReader{s})
	if err != nil {
		return nil, fmt.Errorf("l0index: decoding header: %w", err)
	}

	if checkSize {
		want := int64(HeaderSize) + int64(header.Count)*int64(EntrySize)
		if want != fileSize {
			return nil, ErrSizeMismatch
		}
	}

	return &Reader{s: s, header: header, fileLen: fileSize}, nil
}

// streamReader adapts a stream.Stream to io.Reader for DecodeHeader.
type streamReader struct{ s stream.Stream }

func (r streamReader) Read(p []byte) (int, error) { return r.s.Read(p) }

// Header returns the index file's decoded header.
func (r *Reader) Header() Header { return r.header }

// Next decodes and returns the next entry in file order. It returns
// io.EOF once header.Count entries have been produced, matching the
// header-declared length rather than relying on the underlying stream's
// own EOF.
func (r *Reader) Next() (Entry, error) {
	if r.read >= r.header.Count {
		return Entry{}, io.EOF
	}

	entry, err := DecodeEntry(streamReader{r.s})
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.ErrUnexpectedEOF
		}
		return Entry{}, err
	}

	r.read++
	return entry, nil
}

// ReadAll drains the Reader into an Index holding every remaining entry.
func ReadAll(r *Reader) (Index, error) {
	idx := Index{Header: r.header, Entries: make([]Entry, 0, r.header.Count-r.read)}
	for {
		entry, err := r.Next()
		if errors.Is(err, io.EOF) {
			return idx, nil
		}
		if err != nil {
			return idx, err
		}
		idx.Entries = append(idx.Entries, entry)
	}
}
