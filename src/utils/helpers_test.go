package utils

import (
	"testing"

	"descubre/src/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "Entrada Gratuita", FormatPrice(0))
	assert.Equal(t, "RD$ 500", FormatPrice(500))
	assert.Equal(t, "RD$ 2,500", FormatPrice(2500))
	assert.Equal(t, "RD$ 1,250,000", FormatPrice(1250000))
}

func TestEventSlug(t *testing.T) {
	assert.Equal(t, "concierto-de-juan-luis-guerra", EventSlug("Concierto de Juan Luis Guerra"))
	assert.Equal(t, "festival-gastronomico-del-cibao", EventSlug("Festival Gastronómico del Cibao"))
}

func TestMinPriceDisplay(t *testing.T) {
	event := &models.Event{Price: 2500}

	assert.Equal(t, "RD$ 2,500", MinPriceDisplay(event, nil))

	tiers := []models.TicketType{
		{Name: "General", Price: 1000, Quantity: 10, Active: true},
		{Name: "VIP", Price: 2000, Quantity: 5, Active: true},
	}
	assert.Equal(t, "Desde RD$ 1,000", MinPriceDisplay(event, tiers))

	// Sold out and inactive tiers are ignored.
	tiers[0].Quantity = 0
	assert.Equal(t, "RD$ 2,000", MinPriceDisplay(event, tiers))
	tiers[1].Active = false
	assert.Equal(t, "RD$ 2,500", MinPriceDisplay(event, tiers))
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "05:00", FormatCountdown(300))
	assert.Equal(t, "02:00", FormatCountdown(120))
	assert.Equal(t, "00:09", FormatCountdown(9))
}

func TestRandomPassword(t *testing.T) {
	a := RandomPassword(12)
	b := RandomPassword(12)

	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
}

func TestIssueToken(t *testing.T) {
	user := &models.User{ID: 7, Name: "Ana", Email: "ana@example.com"}
	token, err := IssueToken(user)

	assert.Nil(t, err)
	assert.NotEmpty(t, token)
}
