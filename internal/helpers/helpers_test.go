package helpers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampInt(t *testing.T) {
	tests := []struct {
		name     string
		v        int
		lower    int
		upper    int
		expected int
	}{
		{"within range", 5, 0, 10, 5},
		{"below lower", -3, 0, 10, 0},
		{"above upper", 42, 0, 10, 10},
		{"at lower bound", 0, 0, 10, 0},
		{"at upper bound", 10, 0, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClampInt(tt.v, tt.lower, tt.upper))
		})
	}
}

func TestClampIntToUint16(t *testing.T) {
	assert.Equal(t, uint16(0), ClampIntToUint16(-1))
	assert.Equal(t, uint16(1234), ClampIntToUint16(1234))
	assert.Equal(t, uint16(math.MaxUint16), ClampIntToUint16(math.MaxUint16+1))
}

func TestClampIntToUint32(t *testing.T) {
	assert.Equal(t, uint32(0), ClampIntToUint32(-100))
	assert.Equal(t, uint32(300), ClampIntToUint32(300))
}
