package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateItemCode(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		code := GenerateItemCode("product")
		// Expected format: PRO-YYMMDD-RRRR

		parts := strings.Split(code, "-")
		if assert.Len(t, parts, 3, "Should have 3 parts separated by hyphens") {
			assert.Equal(t, "PRO", parts[0])
			assert.Len(t, parts[1], 6, "Date part YYMMDD should be 6 chars")
			assert.Len(t, parts[2], 4, "Random part should be 4 chars")
		}
	})

	t.Run("ShortPrefix", func(t *testing.T) {
		code := GenerateItemCode("md")
		assert.True(t, strings.HasPrefix(code, "MD-"))
	})

	t.Run("EmptyPrefix", func(t *testing.T) {
		code := GenerateItemCode("  ")
		assert.True(t, strings.HasPrefix(code, "ITM-"))
	})
}
