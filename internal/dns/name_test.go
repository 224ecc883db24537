package dns

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		expected []byte
	}{
		{"simple", "example.com", []byte("\x07example\x03com\x00")},
		{"three labels", "www.example.com", []byte("\x03www\x07example\x03com\x00")},
		{"trailing dot", "example.com.", []byte("\x07example\x03com\x00")},
		{"root", ".", []byte{0}},
		{"case preserved", "ExAmPle.COM", []byte("\x07ExAmPle\x03COM\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := EncodeName(tt.domain)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b)
		})
	}
}

func TestEncodeNameRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		domain string
	}{
		{"empty", ""},
		{"empty label", "www..com"},
		{"leading dot", ".example.com"},
		{"label too long", strings.Repeat("a", 64) + ".com"},
		{"name too long", strings.Repeat(strings.Repeat("a", 63)+".", 5) + "com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeName(tt.domain)
			assert.ErrorIs(t, err, ErrMalformedName)
		})
	}
}

func TestEncodeNameMaxLabelAccepted(t *testing.T) {
	b, err := EncodeName(strings.Repeat("a", 63) + ".com")
	require.NoError(t, err)
	assert.Equal(t, byte(63), b[0])
}

func TestDecodeNameRoundTrip(t *testing.T) {
	for _, domain := range []string{"example.com", "www.example.com", "a.b.c.d.e", "MiXeD.CaSe.Org"} {
		t.Run(domain, func(t *testing.T) {
			b, err := EncodeName(domain)
			require.NoError(t, err)

			off := 0
			got, err := DecodeName(b, &off)
			require.NoError(t, err)
			assert.Equal(t, domain, got)
			assert.Equal(t, len(b), off)
		})
	}
}

func TestDecodeNameCompressed(t *testing.T) {
	// Offset 0: "example.com"; offset 13: "www" + pointer to offset 0.
	msg := []byte("\x07example\x03com\x00" + "\x03www\xc0\x00")

	off := 13
	got, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", got)
	assert.Equal(t, len(msg), off)
}

func TestDecodeNamePointerChain(t *testing.T) {
	// Pointer to a name that itself ends in a pointer.
	msg := []byte("\x03com\x00" + "\x07example\xc0\x00" + "\x03www\xc0\x05")

	off := 15
	got, err := DecodeName(msg, &off)
	require.NoError(t, err)
	assert.Equal(t, "www.example.com", got)
}

func TestDecodeNameCompressionLoops(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
		off  int
	}{
		{"self reference", []byte{0xC0, 0x00}, 0},
		{"two pointer cycle", []byte{0xC0, 0x02, 0xC0, 0x00}, 0},
		{"forward then back", []byte{0x01, 'a', 0xC0, 0x04, 0x01, 'b', 0xC0, 0x00}, 0},
		{"pointer out of range", []byte{0xC0, 0x7F}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := tt.off
			_, err := DecodeName(tt.msg, &off)
			assert.ErrorIs(t, err, ErrCompressionLoop)
		})
	}
}

func TestDecodeNameTruncated(t *testing.T) {
	tests := []struct {
		name string
		msg  []byte
	}{
		{"empty", []byte{}},
		{"missing terminator", []byte{0x03, 'w', 'w', 'w'}},
		{"label overruns buffer", []byte{0x07, 'e', 'x'}},
		{"pointer cut short", []byte{0xC0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := 0
			_, err := DecodeName(tt.msg, &off)
			assert.ErrorIs(t, err, ErrTruncatedMessage)
		})
	}
}

func TestDecodeNameReservedLabelType(t *testing.T) {
	for _, b := range []byte{0x40, 0x80} {
		off := 0
		_, err := DecodeName([]byte{b, 'x', 0x00}, &off)
		assert.ErrorIs(t, err, ErrMalformedName, "label byte 0x%02x", b)
	}
}
