package utils

import (
	"crypto/rand"
	"fmt"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"
	"time"

	"descubre/src/models"
	"descubre/src/types"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gosimple/slug"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func IssueToken(user *models.User) (string, error) {
	claims := &types.Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(user.ID)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtKey)
	if err != nil {
		log.Printf("Error signing token: %s\n", err.Error())
		return "", err
	}
	return signed, nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func RandomPassword(length int) string {
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			// crypto/rand should not fail; fall back to a fixed index
			// rather than returning a short credential.
			n = big.NewInt(int64(i % len(passwordAlphabet)))
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out)
}

func EventSlug(title string) string {
	return slug.Make(title)
}

// FormatPrice renders an amount in Dominican pesos with thousands
// separators; zero means free entry.
func FormatPrice(price float64) string {
	if price == 0 {
		return "Entrada Gratuita"
	}
	return fmt.Sprintf("RD$ %s", groupThousands(int64(math.Round(price))))
}

func groupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}

// MinPriceDisplay mirrors the event card price label: the lowest price
// among available active tiers, prefixed with "Desde" when tiers differ,
// falling back to the event's base price when nothing is available.
func MinPriceDisplay(event *models.Event, ticketTypes []models.TicketType) string {
	var available []models.TicketType
	for _, t := range ticketTypes {
		if t.Active && t.Quantity > 0 {
			available = append(available, t)
		}
	}
	if len(available) == 0 {
		return FormatPrice(event.Price)
	}
	minPrice := available[0].Price
	uniform := true
	for _, t := range available[1:] {
		if t.Price < minPrice {
			minPrice = t.Price
		}
		if t.Price != available[0].Price {
			uniform = false
		}
	}
	if uniform {
		return FormatPrice(minPrice)
	}
	return fmt.Sprintf("Desde %s", FormatPrice(minPrice))
}

// FormatCountdown renders remaining seconds as MM:SS.
func FormatCountdown(seconds int) string {
	mins := seconds / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
