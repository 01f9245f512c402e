package isp

// Record is one fully decoded Instrument Source Packet: the Primary and
// Secondary Headers plus, when requested, the decoded complex baseband
// samples from the User Data Field. ByteOffset is the packet's starting
// position within its source stream, used by callers to resume a scan or
// report a failure location.
type Record struct {
	ByteOffset int64

	Primary   PrimaryHeader
	Secondary SecondaryHeader

	// Samples holds the decoded complex baseband samples in acquisition
	// order when the caller requested UDF decoding; nil otherwise (header
	// only mode, see stream.DecodeOptions.UDFMode).
	Samples []complex64
}

// DerivedFields collects the Record's computed (non-verbatim) quantities,
// kept separate from the verbatim header fields per the output record
// format (derived values are flagged as such, never mixed silently with
// raw bitfields).
type DerivedFields struct {
	FineTimeSeconds       float64 `s1isp:"kind=derived"`
	PriSeconds            float64 `s1isp:"kind=derived"`
	SwstSeconds           float64 `s1isp:"kind=derived"`
	SwlSeconds            float64 `s1isp:"kind=derived"`
	RxGainDB              float64 `s1isp:"kind=derived"`
	TxPulseStartFreqHz    float64 `s1isp:"kind=derived"`
	BaqBlockLengthSamples int     `s1isp:"kind=derived"`
	N3Rx                  int     `s1isp:"kind=derived"`
}

// Derived computes the Record's derived quantities. It returns an error
// only when the Range Decimation code has no LUT entry (N3Rx undefined).
func (r *Record) Derived() (DerivedFields, error) {
	n3rx, err := r.Secondary.N3Rx()
	if err != nil {
		return DerivedFields{}, err
	}
	return DerivedFields{
		FineTimeSeconds:       r.Secondary.FineTimeSeconds(),
		PriSeconds:            r.Secondary.PriSeconds(),
		SwstSeconds:           r.Secondary.SwstSeconds(),
		SwlSeconds:            r.Secondary.SwlSeconds(),
		RxGainDB:              r.Secondary.RxGainDB(),
		TxPulseStartFreqHz:    r.Secondary.TxPulseStartFreqHz(),
		BaqBlockLengthSamples: r.Secondary.BaqBlockLengthSamples(),
		N3Rx:                  n3rx,
	}, nil
}

// DecodeRecord decodes one packet starting at buf[0], given that buf holds
// at least a full Primary+Secondary Header. byteOffset is recorded on the
// Record and used for any InvalidPacketError raised along the way.
func DecodeRecord(buf []byte, byteOffset int64) (Record, error) {
	var rec Record
	rec.ByteOffset = byteOffset

	if len(buf) < PrimaryHeaderSize+SecondaryHeaderSize {
		return rec, NewInvalidPacketError(byteOffset, "buffer shorter than primary+secondary header")
	}

	primary, err := DecodePrimaryHeaderChecked(buf[:PrimaryHeaderSize], byteOffset)
	rec.Primary = primary
	if err != nil {
		return rec, err
	}

	secondary, err := DecodeSecondaryHeaderChecked(buf[PrimaryHeaderSize:PrimaryHeaderSize+SecondaryHeaderSize], byteOffset+PrimaryHeaderSize)
	rec.Secondary = secondary
	if err != nil {
		return rec, err
	}

	return rec, nil
}

// UDFSize returns the size in bytes of this record's User Data Field,
// derived from the Primary Header's packet_data_length.
func (r *Record) UDFSize() int {
	return r.Primary.TotalPacketSize() - PrimaryHeaderSize - SecondaryHeaderSize
}
