package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDiscountCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeDiscountCode("  save10 "))
	assert.Equal(t, "", NormalizeDiscountCode("   "))
}

func TestDiscountRate(t *testing.T) {
	rate, ok := DiscountRate("free100")
	assert.True(t, ok)
	assert.Equal(t, 1.0, rate)

	rate, ok = DiscountRate("SAVE10")
	assert.True(t, ok)
	assert.Equal(t, 0.10, rate)

	_, ok = DiscountRate("NOPE")
	assert.False(t, ok)
}
