package dns

import (
	"net"
	"testing"

	miekg "github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cross-checks against github.com/miekg/dns: queries we encode must be
// readable by a widely deployed implementation, and messages it packs
// (including compressed names) must decode with our parser.

func TestEncodedQueryParsesWithMiekg(t *testing.T) {
	b, err := EncodeQuery("example.com", TypeA, 0x1337)
	require.NoError(t, err)

	var m miekg.Msg
	require.NoError(t, m.Unpack(b))

	assert.Equal(t, uint16(0x1337), m.Id)
	assert.False(t, m.Response)
	assert.False(t, m.RecursionDesired)
	require.Len(t, m.Question, 1)
	assert.Equal(t, "example.com.", m.Question[0].Name)
	assert.Equal(t, miekg.TypeA, m.Question[0].Qtype)
	assert.Equal(t, uint16(miekg.ClassINET), m.Question[0].Qclass)
}

func TestMiekgPackedResponseDecodes(t *testing.T) {
	q := new(miekg.Msg)
	q.SetQuestion("example.com.", miekg.TypeA)
	q.Id = 0xabcd

	reply := new(miekg.Msg)
	reply.SetReply(q)
	reply.Compress = true
	reply.Answer = []miekg.RR{
		&miekg.AAAA{
			Hdr:  miekg.RR_Header{Name: "example.com.", Rrtype: miekg.TypeAAAA, Class: miekg.ClassINET, Ttl: 300},
			AAAA: net.ParseIP("2606:2800:220:1:248:1893:25c8:1946"),
		},
		&miekg.A{
			Hdr: miekg.RR_Header{Name: "example.com.", Rrtype: miekg.TypeA, Class: miekg.ClassINET, Ttl: 300},
			A:   net.ParseIP("93.184.216.34"),
		},
	}
	reply.Ns = []miekg.RR{
		&miekg.NS{
			Hdr: miekg.RR_Header{Name: "com.", Rrtype: miekg.TypeNS, Class: miekg.ClassINET, Ttl: 172800},
			Ns:  "a.gtld-servers.net.",
		},
	}
	reply.Extra = []miekg.RR{
		&miekg.A{
			Hdr: miekg.RR_Header{Name: "a.gtld-servers.net.", Rrtype: miekg.TypeA, Class: miekg.ClassINET, Ttl: 172800},
			A:   net.ParseIP("192.5.6.30"),
		},
	}

	b, err := reply.Pack()
	require.NoError(t, err)

	m, err := ParseMessage(b)
	require.NoError(t, err)

	assert.Equal(t, uint16(0xabcd), m.Header.ID)
	assert.True(t, m.Header.IsResponse())

	addr, ok := m.FirstAnswerAddress()
	require.True(t, ok)
	assert.Equal(t, "2606:2800:220:1:248:1893:25c8:1946", addr, "first answer in section order wins")

	glue, ok := m.FirstGlueAddress()
	require.True(t, ok)
	assert.Equal(t, "192.5.6.30", glue)

	ns, ok := m.FirstDelegatedNameserver()
	require.True(t, ok)
	assert.Equal(t, "a.gtld-servers.net", ns)
}

func TestMarshalledMessageParsesWithMiekg(t *testing.T) {
	msg := Message{
		Header: Header{ID: 7, Flags: QRFlag | AAFlag},
		Questions: []Question{
			{Name: "example.com", Type: TypeA, Class: ClassIN},
		},
		Answers: []Record{
			NewIPRecord(RRHeader{Name: "example.com", Class: ClassIN, TTL: 300}, net.ParseIP("93.184.216.34")),
		},
		Authorities: []Record{
			NewNSRecord(RRHeader{Name: "example.com", Class: ClassIN, TTL: 172800}, "a.iana-servers.net"),
		},
	}
	b, err := msg.Marshal()
	require.NoError(t, err)

	var m miekg.Msg
	require.NoError(t, m.Unpack(b))

	require.Len(t, m.Answer, 1)
	a, ok := m.Answer[0].(*miekg.A)
	require.True(t, ok)
	assert.Equal(t, "93.184.216.34", a.A.String())

	require.Len(t, m.Ns, 1)
	ns, ok := m.Ns[0].(*miekg.NS)
	require.True(t, ok)
	assert.Equal(t, "a.iana-servers.net.", ns.Ns)
}
