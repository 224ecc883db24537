package dns

import (
	"encoding/binary"
	"fmt"

	"github.com/hazadus/network-learn/internal/helpers"
)

// RRHeader contains common metadata for DNS resource records.
// This is distinct from Header, which is the DNS message header.
type RRHeader struct {
	Name  string
	Class RecordClass
	TTL   uint32
}

// Record is the interface for DNS resource records.
//
// Each known record type is represented by an explicit type (IPRecord,
// NameRecord, OpaqueRecord) rather than a generic struct, so the record
// data carries its interpretation with it.
type Record interface {
	// Type returns the DNS record type.
	Type() RecordType

	// Header returns the record's metadata.
	Header() RRHeader

	// SetHeader sets the record's metadata.
	SetHeader(h RRHeader)

	// MarshalRData marshals the record-specific data (RDATA) to wire format.
	MarshalRData() ([]byte, error)
}

// ParseRecord parses a resource record from wire format.
// It advances *off past the parsed record on success.
//
// The record-data length declared in the record must equal the number of
// bytes actually consumed when interpreting record-data for known types;
// a mismatch is an error, not a silent truncation.
func ParseRecord(msg []byte, off *int) (Record, error) {
	name, err := DecodeName(msg, off)
	if err != nil {
		return nil, err
	}
	if *off+10 > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF while reading record", ErrTruncatedMessage)
	}
	rrType := RecordType(binary.BigEndian.Uint16(msg[*off : *off+2]))
	rrClass := RecordClass(binary.BigEndian.Uint16(msg[*off+2 : *off+4]))
	ttl := binary.BigEndian.Uint32(msg[*off+4 : *off+8])
	rdlen := int(binary.BigEndian.Uint16(msg[*off+8 : *off+10]))
	*off += 10
	start := *off
	if start+rdlen > len(msg) {
		return nil, fmt.Errorf("%w: unexpected EOF while reading record rdata", ErrTruncatedMessage)
	}

	r, err := parseRData(rrType, msg, off, start, rdlen)
	if err != nil {
		return nil, err
	}
	r.SetHeader(RRHeader{Name: name, Class: rrClass, TTL: ttl})
	return r, nil
}

// parseRData parses RDATA into a Record based on record type.
//
// Only the types the resolver acts on are interpreted:
//   - A, AAAA: addresses (answers and glue)
//   - NS, CNAME: domain names, possibly compressed
//
// Everything else is carried opaquely without address interpretation.
func parseRData(rt RecordType, msg []byte, off *int, start, rdlen int) (Record, error) {
	switch rt {
	case TypeA, TypeAAAA:
		return ParseIPRData(msg, off, rdlen)
	case TypeNS, TypeCNAME:
		return ParseNameRData(msg, off, start, rdlen, rt)
	default:
		return ParseOpaqueRData(msg, off, rdlen, rt)
	}
}

// MarshalRecord converts a Record to wire-format bytes.
func MarshalRecord(r Record) ([]byte, error) {
	rdata, err := r.MarshalRData()
	if err != nil {
		return nil, err
	}
	h := r.Header()

	nameWire, err := EncodeName(h.Name)
	if err != nil {
		return nil, err
	}
	if len(rdata) > 65535 {
		return nil, fmt.Errorf("rdata too large: %d bytes (max 65535)", len(rdata))
	}

	out := make([]byte, 0, len(nameWire)+10+len(rdata))
	out = append(out, nameWire...)
	fixed := make([]byte, 10)
	binary.BigEndian.PutUint16(fixed[0:2], uint16(r.Type()))
	binary.BigEndian.PutUint16(fixed[2:4], uint16(h.Class))
	binary.BigEndian.PutUint32(fixed[4:8], h.TTL)
	binary.BigEndian.PutUint16(fixed[8:10], helpers.ClampIntToUint16(len(rdata)))
	out = append(out, fixed...)
	out = append(out, rdata...)
	return out, nil
}
