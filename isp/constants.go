// Package isp decodes the Primary and Secondary headers of a Sentinel-1 SAR
// Instrument Source Packet per S1-IF-ASD-PL-0007, following the same
// declarative-layout, enum-with-Unknown-fallback style the teacher codec
// uses for its own record headers (decode/record.go, decode/ping.go).
package isp

// FRefMHz is the instrument reference frequency in MHz, used to convert
// clock-cycle counted fields (PRI, SWST, SWL) into seconds.
const FRefMHz = 37.53472224

// FRefHz is FRefMHz expressed in Hz.
const FRefHz = FRefMHz * 1e6

// SyncMarker is the fixed 32 bit pattern every Secondary Header must carry
// at byte offset 6, right after the datation fields (coarse and fine time),
// used as the primary resynchronization anchor when scanning a corrupted
// stream.
const SyncMarker uint32 = 0x352EF853

// PrimaryHeaderSize is the byte length of the Primary Header.
const PrimaryHeaderSize = 6

// SecondaryHeaderSize is the byte length of the Secondary Header.
const SecondaryHeaderSize = 62
