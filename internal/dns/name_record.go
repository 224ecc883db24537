package dns

import "fmt"

// NameRecord represents DNS records whose data is a single domain name
// (NS, CNAME). The name in the record data may be compressed; it is
// decoded against the whole message at the record data's own offset.
type NameRecord struct {
	H      RRHeader
	T      RecordType
	Target string
}

// NewNSRecord creates a new NS record.
func NewNSRecord(h RRHeader, target string) *NameRecord {
	return &NameRecord{H: h, T: TypeNS, Target: target}
}

// NewCNAMERecord creates a new CNAME record.
func NewCNAMERecord(h RRHeader, target string) *NameRecord {
	return &NameRecord{H: h, T: TypeCNAME, Target: target}
}

// Type returns the record type (NS or CNAME).
func (r *NameRecord) Type() RecordType { return r.T }

// Header returns the record header.
func (r *NameRecord) Header() RRHeader { return r.H }

// SetHeader sets the record header.
func (r *NameRecord) SetHeader(h RRHeader) { r.H = h }

// MarshalRData marshals the target name to wire format (uncompressed).
func (r *NameRecord) MarshalRData() ([]byte, error) {
	return EncodeName(r.Target)
}

// ParseNameRData parses NS or CNAME record RDATA from wire format.
// The declared rdata length must equal the bytes consumed by the name.
func ParseNameRData(msg []byte, off *int, start, rdlen int, rt RecordType) (*NameRecord, error) {
	n, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off-start != rdlen {
		return nil, fmt.Errorf("%w: name record rdata length mismatch (declared %d, consumed %d)",
			ErrMalformedName, rdlen, *off-start)
	}
	return &NameRecord{Target: n, T: rt}, nil
}
