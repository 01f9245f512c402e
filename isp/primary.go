package isp

import (
	"github.com/sixy6e/go-s1isp/bitio"
)

// PrimaryHeader is the 6-byte CCSDS Primary Header prefixing every packet.
type PrimaryHeader struct {
	Version             uint8         `s1isp:"kind=raw"`
	PacketType          PacketType    `s1isp:"kind=enum"`
	SecondaryHeaderFlag uint8         `s1isp:"kind=raw"`
	Pid                 uint8         `s1isp:"kind=raw"`
	Pcat                uint8         `s1isp:"kind=raw"`
	SequenceFlags       SequenceFlags `s1isp:"kind=enum"`
	SequenceCount       uint16        `s1isp:"kind=raw"`
	PacketDataLength    uint16        `s1isp:"kind=raw"`
}

// TotalPacketSize returns the total on-wire size of the packet this header
// prefixes: the 6-byte Primary Header plus packet_data_length+1 bytes.
func (h *PrimaryHeader) TotalPacketSize() int {
	return PrimaryHeaderSize + int(h.PacketDataLength) + 1
}

// Sane reports whether the header passes the Primary Header sanity checks:
// version == 0, secondary_header_flag == 1, sequence_flags == standalone.
func (h *PrimaryHeader) Sane() bool {
	return h.Version == 0 && h.SecondaryHeaderFlag == 1 && h.SequenceFlags == SequenceFlagsStandalone
}

// DecodePrimaryHeader decodes a 6-byte buffer into a PrimaryHeader. It
// never fails on sanity-check violations (§4.2); callers that need to
// reject malformed packets should inspect Sane() themselves or use
// DecodePrimaryHeaderChecked.
func DecodePrimaryHeader(buf []byte) (PrimaryHeader, error) {
	r := bitio.NewReader(buf)

	var h PrimaryHeader

	version, err := r.ReadUint(3)
	if err != nil {
		return h, err
	}
	h.Version = uint8(version)

	ptype, err := r.ReadUint(1)
	if err != nil {
		return h, err
	}
	h.PacketType = PacketType(ptype)

	shf, err := r.ReadUint(1)
	if err != nil {
		return h, err
	}
	h.SecondaryHeaderFlag = uint8(shf)

	pid, err := r.ReadUint(7)
	if err != nil {
		return h, err
	}
	h.Pid = uint8(pid)

	pcat, err := r.ReadUint(4)
	if err != nil {
		return h, err
	}
	h.Pcat = uint8(pcat)

	seqFlags, err := r.ReadUint(2)
	if err != nil {
		return h, err
	}
	h.SequenceFlags = SequenceFlags(seqFlags)

	seqCount, err := r.ReadUint(14)
	if err != nil {
		return h, err
	}
	h.SequenceCount = uint16(seqCount)

	dataLen, err := r.ReadUint(16)
	if err != nil {
		return h, err
	}
	h.PacketDataLength = uint16(dataLen)

	if err := r.AssertOffset(48); err != nil {
		return h, err
	}

	return h, nil
}

// DecodePrimaryHeaderChecked decodes the header and additionally returns an
// *InvalidPacketError (wrapping no other error) when a sanity check fails,
// alongside the fully decoded record so callers can still inspect it.
func DecodePrimaryHeaderChecked(buf []byte, byteOffset int64) (PrimaryHeader, error) {
	h, err := DecodePrimaryHeader(buf)
	if err != nil {
		return h, err
	}
	if !h.Sane() {
		return h, NewInvalidPacketError(byteOffset, "primary header sanity check failed")
	}
	return h, nil
}
