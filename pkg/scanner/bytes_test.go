package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDigits(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  uint64
		ok    bool
	}{
		{"zeros", "00000", 0, true},
		{"leading zeros", "00235", 235, true},
		{"seven digits", "0001234", 1234, true},
		{"empty", "", 0, false},
		{"space", "00 35", 0, false},
		{"sign", "+0235", 0, false},
		{"letter", "0A235", 0, false},
		{"overflow", "99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDigits([]byte(tt.field))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUint32Digits(t *testing.T) {
	v, ok := ParseUint32Digits([]byte("4294967295"))
	assert.True(t, ok)
	assert.Equal(t, uint32(4294967295), v)

	_, ok = ParseUint32Digits([]byte("4294967296"))
	assert.False(t, ok)
}

func TestIsASCII(t *testing.T) {
	assert.True(t, IsASCII([]byte("KR4101F30003")))
	assert.False(t, IsASCII([]byte{'K', 0xc3, 0xa9}))
}

func TestTrimRightSpace(t *testing.T) {
	assert.Equal(t, "KR41", string(TrimRightSpace([]byte("KR41  \t"))))
	assert.Equal(t, "", string(TrimRightSpace([]byte("   "))))
}
