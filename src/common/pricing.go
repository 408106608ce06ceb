package common

import "math"

const (
	serviceFeeRate   = 0.05
	insuranceFeeRate = 0.02
)

type PriceBreakdown struct {
	Subtotal     float64 `json:"subtotal"`
	ServiceFee   float64 `json:"service_fee"`
	InsuranceFee float64 `json:"insurance_fee"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// CalculatePriceBreakdown derives the totals for a draft. Service and
// insurance fees are rounded to whole currency units independently so each
// line item displays as a whole amount. The discount was computed from the
// subtotal at application time and is subtracted as-is.
func CalculatePriceBreakdown(unitPrice float64, tickets int, insurance bool, discount float64) *PriceBreakdown {
	subtotal := unitPrice * float64(tickets)
	serviceFee := math.Round(subtotal * serviceFeeRate)
	insuranceFee := 0.0
	if insurance {
		insuranceFee = math.Round(subtotal * insuranceFeeRate)
	}
	return &PriceBreakdown{
		Subtotal:     subtotal,
		ServiceFee:   serviceFee,
		InsuranceFee: insuranceFee,
		Discount:     discount,
		Total:        subtotal + serviceFee + insuranceFee - discount,
	}
}
