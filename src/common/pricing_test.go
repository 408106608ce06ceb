package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceBreakdownWithInsurance(t *testing.T) {
	b := CalculatePriceBreakdown(1000, 2, true, 0)

	assert.Equal(t, float64(2000), b.Subtotal)
	assert.Equal(t, float64(100), b.ServiceFee)
	assert.Equal(t, float64(40), b.InsuranceFee)
	assert.Equal(t, float64(0), b.Discount)
	assert.Equal(t, float64(2140), b.Total)
}

func TestPriceBreakdownWithoutInsurance(t *testing.T) {
	b := CalculatePriceBreakdown(1000, 2, false, 0)

	assert.Equal(t, float64(0), b.InsuranceFee)
	assert.Equal(t, float64(2100), b.Total)
}

func TestPriceBreakdownFeesRoundedIndependently(t *testing.T) {
	// 3 x 333 = 999; 5% = 49.95 -> 50, 2% = 19.98 -> 20
	b := CalculatePriceBreakdown(333, 3, true, 0)

	assert.Equal(t, float64(999), b.Subtotal)
	assert.Equal(t, float64(50), b.ServiceFee)
	assert.Equal(t, float64(20), b.InsuranceFee)
	assert.Equal(t, float64(1069), b.Total)
}

func TestPriceBreakdownFullDiscountLeavesFees(t *testing.T) {
	// A 100% discount zeroes the subtotal but fees still apply.
	b := CalculatePriceBreakdown(500, 1, false, 500)

	assert.Equal(t, float64(500), b.Subtotal)
	assert.Equal(t, float64(25), b.ServiceFee)
	assert.Equal(t, float64(500), b.Discount)
	assert.Equal(t, float64(25), b.Total)
}

func TestPriceBreakdownFreeEvent(t *testing.T) {
	b := CalculatePriceBreakdown(0, 4, true, 0)

	assert.Equal(t, float64(0), b.Subtotal)
	assert.Equal(t, float64(0), b.Total)
}
