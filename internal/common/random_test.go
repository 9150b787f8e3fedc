package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandBase36String(t *testing.T) {
	s, err := MakeRandBase36String(4)
	require.NoError(t, err)
	assert.Len(t, s, 4)
	for _, r := range s {
		assert.Contains(t, base36Alphabet, string(r))
	}

	other, err := MakeRandBase36String(16)
	require.NoError(t, err)
	assert.Len(t, other, 16)
}

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	for _, v := range b {
		assert.Equal(t, byte(0), v)
	}

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
