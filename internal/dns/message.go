package dns

// MaxMessageSize is the largest DNS-over-UDP message the resolver
// accepts or expects to receive.
const MaxMessageSize = 4096

// maxRRPerSection caps initial slice allocation so a header with huge
// counts but a tiny body cannot force a large allocation before the
// parser notices the truncation.
const maxRRPerSection = 100

// Message represents a complete DNS message (RFC 1035 Section 4.1).
//
// DNS messages are composed of five sections:
//   - Header: Transaction ID, flags, section counts
//   - Questions: What is being asked
//   - Answers: Resource records answering the question
//   - Authorities: Name servers authoritative for the domain
//   - Additionals: Extra records, typically glue addresses for the
//     nameservers named in the authority section
//
// A Message is constructed fresh per query/response cycle and is not
// mutated after decoding.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Marshal serializes the message to DNS wire format (big-endian).
// Section counts in the emitted header come from the actual section
// lengths, not from the Header field.
func (m Message) Marshal() ([]byte, error) {
	h := m.Header
	h.QDCount = uint16(len(m.Questions))
	h.ANCount = uint16(len(m.Answers))
	h.NSCount = uint16(len(m.Authorities))
	h.ARCount = uint16(len(m.Additionals))

	estimatedSize := HeaderSize + len(m.Questions)*50 +
		(len(m.Answers)+len(m.Authorities)+len(m.Additionals))*100
	out := make([]byte, 0, estimatedSize)
	out = append(out, h.Marshal()...)

	for _, q := range m.Questions {
		qb, err := q.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, qb...)
	}

	for _, section := range [][]Record{m.Answers, m.Authorities, m.Additionals} {
		for _, r := range section {
			b, err := MarshalRecord(r)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// ParseMessage decodes a full DNS message from wire format.
//
// Decoding proceeds sequentially through the four sections; each
// section's element count comes from the header, and a buffer that runs
// out before the declared counts are satisfied fails with
// ErrTruncatedMessage rather than returning a partial message.
func ParseMessage(msg []byte) (Message, error) {
	off := 0
	h, err := ParseHeader(msg, &off)
	if err != nil {
		return Message{}, err
	}

	m := Message{Header: h}

	m.Questions = make([]Question, 0, min(int(h.QDCount), maxRRPerSection))
	for range h.QDCount {
		q, err := ParseQuestion(msg, &off)
		if err != nil {
			return Message{}, err
		}
		m.Questions = append(m.Questions, q)
	}
	if m.Answers, err = parseSection(msg, &off, h.ANCount); err != nil {
		return Message{}, err
	}
	if m.Authorities, err = parseSection(msg, &off, h.NSCount); err != nil {
		return Message{}, err
	}
	if m.Additionals, err = parseSection(msg, &off, h.ARCount); err != nil {
		return Message{}, err
	}
	return m, nil
}

// parseSection parses count records starting at *off.
func parseSection(msg []byte, off *int, count uint16) ([]Record, error) {
	records := make([]Record, 0, min(int(count), maxRRPerSection))
	for range count {
		r, err := ParseRecord(msg, off)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// FirstAnswerAddress returns the rendered address of the first
// answer-section record whose type is A or AAAA. When multiple address
// records are present, the first in section order wins regardless of
// address family.
func (m Message) FirstAnswerAddress() (string, bool) {
	return firstAddress(m.Answers)
}

// FirstGlueAddress returns the rendered address of the first
// additional-section record of type A or AAAA. Glue lets the resolver
// query the delegated nameserver without resolving its name first.
func (m Message) FirstGlueAddress() (string, bool) {
	return firstAddress(m.Additionals)
}

// FirstDelegatedNameserver returns the target domain name of the first
// authority-section record of type NS.
func (m Message) FirstDelegatedNameserver() (string, bool) {
	for _, r := range m.Authorities {
		if ns, ok := r.(*NameRecord); ok && ns.T == TypeNS {
			return ns.Target, true
		}
	}
	return "", false
}

func firstAddress(records []Record) (string, bool) {
	for _, r := range records {
		if ip, ok := r.(*IPRecord); ok {
			return ip.Address(), true
		}
	}
	return "", false
}
