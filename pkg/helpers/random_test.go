package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	b, err := RandomHex(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.Regexp(t, "^[0-9a-f]+$", a)
	assert.NotEqual(t, a, b)
}
