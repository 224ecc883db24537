package dns

import "math/rand/v2"

// NewID returns a fresh pseudo-random 16-bit transaction ID. Random IDs
// disambiguate concurrent queries and make blind response spoofing
// harder. Callers that need deterministic IDs (tests) supply their own
// source instead of calling this.
func NewID() uint16 {
	return uint16(rand.Uint32())
}

// EncodeQuery builds a wire-format query for the given domain and query
// type: QR=0, opcode QUERY, recursion-desired cleared (the iterative
// resolver walks delegations itself), one question, and empty answer,
// authority, and additional sections.
//
// The transaction ID is supplied by the caller so an injected source can
// make queries reproducible.
func EncodeQuery(domain string, qtype RecordType, id uint16) ([]byte, error) {
	m := Message{
		Header: Header{ID: id},
		Questions: []Question{
			{Name: domain, Type: qtype, Class: ClassIN},
		},
	}
	return m.Marshal()
}
