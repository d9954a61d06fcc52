package sui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"Short", "0x6", "0x" + strings.Repeat("0", 63) + "6", false},
		{"OddLength", "0xabc", "0x" + strings.Repeat("0", 61) + "abc", false},
		{"Full", "0x" + strings.Repeat("ab", 32), "0x" + strings.Repeat("ab", 32), false},
		{"Uppercase", "0xABCD", "0x" + strings.Repeat("0", 60) + "abcd", false},
		{"NoPrefix", "ff", "0x" + strings.Repeat("0", 62) + "ff", false},
		{"Empty", "", "", true},
		{"JustPrefix", "0x", "", true},
		{"TooLong", "0x" + strings.Repeat("a", 65), "", true},
		{"NotHex", "0xzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAddress(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0x"+strings.Repeat("0", 63)+"6", NormalizeAddress("0x6"))
	assert.Equal(t, "garbage", NormalizeAddress("garbage"))
}

func TestAddress_IsZero(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	assert.False(t, MustParseAddress("0x1").IsZero())
}

func TestMustParseAddress_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseAddress("nope") })
}
