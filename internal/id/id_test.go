package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	assert.Len(t, a, Length)
	assert.NotEqual(t, a, b)
	assert.True(t, Valid(a))
	assert.NotContains(t, a, "-")
}

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0b9f1e4d2c3a4b5c8d7e6f5a4b3c2d1e", true},
		{"0B9F1E4D2C3A4B5C8D7E6F5A4B3C2D1E", true},
		{"0b9f1e4d-2c3a-4b5c-8d7e-6f5a4b3c2d1e", false},
		{"0b9f1e4d2c3a4b5c8d7e6f5a4b3c2d1", false},
		{"zz9f1e4d2c3a4b5c8d7e6f5a4b3c2d1e", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.input), "input %q", tt.input)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("0B9F1E4D-2C3A-4B5C-8D7E-6F5A4B3C2D1E")
	require.NoError(t, err)
	assert.Equal(t, "0b9f1e4d2c3a4b5c8d7e6f5a4b3c2d1e", got)

	got, err = Normalize(" 0b9f1e4d2c3a4b5c8d7e6f5a4b3c2d1e ")
	require.NoError(t, err)
	assert.Equal(t, "0b9f1e4d2c3a4b5c8d7e6f5a4b3c2d1e", got)

	_, err = Normalize("inv-1")
	assert.Error(t, err)
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0b9f1e4d", Short("0b9f1e4d2c3a4b5c8d7e6f5a4b3c2d1e"))
	assert.Equal(t, "inv-1", Short("inv-1"))
	assert.Equal(t, "", Short(""))
}
