package auth

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDigitCode(t *testing.T) {
	t.Parallel()

	for i := 0; i < 500; i++ {
		code, err := GenerateDigitCode(4)
		require.NoError(t, err)
		assert.NotEmpty(t, code)
		assert.LessOrEqual(t, len(code), 4)
		for _, r := range code {
			assert.True(t, unicode.IsDigit(r), "unexpected rune %q in %q", r, code)
		}
	}
}

func TestGenerateDigitCode_NonPositive(t *testing.T) {
	t.Parallel()

	code, err := GenerateDigitCode(0)
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestGenerateDigitCode_LongerThanSource(t *testing.T) {
	t.Parallel()

	code, err := GenerateDigitCode(12)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(code), 8)
}
