package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeQueryDecodesBack(t *testing.T) {
	for _, tt := range []struct {
		domain string
		qtype  RecordType
	}{
		{"example.com", TypeA},
		{"www.example.com", TypeAAAA},
		{"MiXeD.CaSe.net", TypeA},
	} {
		t.Run(tt.domain, func(t *testing.T) {
			b, err := EncodeQuery(tt.domain, tt.qtype, 0x4242)
			require.NoError(t, err)

			m, err := ParseMessage(b)
			require.NoError(t, err)

			assert.Equal(t, uint16(0x4242), m.Header.ID)
			assert.True(t, m.Header.IsQuery())
			assert.False(t, m.Header.RecursionDesired(), "iterative queries must not request recursion")
			assert.Zero(t, m.Header.Flags&ZMask)

			require.Len(t, m.Questions, 1)
			assert.Equal(t, tt.domain, m.Questions[0].Name)
			assert.Equal(t, tt.qtype, m.Questions[0].Type)
			assert.Equal(t, ClassIN, m.Questions[0].Class)

			assert.Empty(t, m.Answers)
			assert.Empty(t, m.Authorities)
			assert.Empty(t, m.Additionals)
		})
	}
}

func TestEncodeQueryRejectsMalformedDomain(t *testing.T) {
	for _, domain := range []string{"", "a..b", ".leading.dot"} {
		_, err := EncodeQuery(domain, TypeA, 1)
		assert.ErrorIs(t, err, ErrMalformedName, "domain %q", domain)
	}
}

func TestNewIDVaries(t *testing.T) {
	seen := map[uint16]struct{}{}
	for range 64 {
		seen[NewID()] = struct{}{}
	}
	// 64 draws from a 16-bit space colliding down to one value would
	// mean the source is broken.
	assert.Greater(t, len(seen), 1)
}
