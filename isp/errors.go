package isp

import "fmt"

// InvalidPacketError reports a Primary/Secondary Header sanity-check
// failure (wrong sync marker, bad version, bad sequence flags). Per
// spec, the record is still returned alongside this error so that callers
// may choose to skip, count, or halt.
type InvalidPacketError struct {
	Reason string
	Offset int64
}

func (e *InvalidPacketError) Error() string {
	return fmt.Sprintf("isp: invalid packet at offset %d: %s", e.Offset, e.Reason)
}

// NewInvalidPacketError constructs an InvalidPacketError for the given byte
// offset and reason.
func NewInvalidPacketError(offset int64, reason string) *InvalidPacketError {
	return &InvalidPacketError{Reason: reason, Offset: offset}
}
