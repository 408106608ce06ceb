package common

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type CreditCard struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// CardErrors holds one message per field; an empty string means the field
// is valid.
type CardErrors struct {
	Number     string `json:"number,omitempty"`
	Expiry     string `json:"expiry,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	HolderName string `json:"holder_name,omitempty"`
}

func (e CardErrors) Valid() bool {
	return e.Number == "" && e.Expiry == "" && e.CVV == "" && e.HolderName == ""
}

var (
	cardNumberPattern = regexp.MustCompile(`^\d{13,19}$`)
	cardGroupPattern  = regexp.MustCompile(`\d{4,16}`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^\d{3,4}$`)
	nonDigitPattern   = regexp.MustCompile(`\D`)
)

// ValidateCreditCard runs the format checks against the current card
// fields. No payment gateway is contacted; expiry is compared against the
// supplied reference time using two-digit years.
func ValidateCreditCard(card CreditCard, now time.Time) CardErrors {
	var errs CardErrors

	number := strings.ReplaceAll(card.Number, " ", "")
	if number == "" {
		errs.Number = "Número de tarjeta requerido"
	} else if !cardNumberPattern.MatchString(number) {
		errs.Number = "Número de tarjeta inválido (13-19 dígitos)"
	}

	if card.Expiry == "" {
		errs.Expiry = "Fecha de expiración requerida"
	} else if !expiryPattern.MatchString(card.Expiry) {
		errs.Expiry = "Formato inválido (MM/YY)"
	} else {
		parts := strings.Split(card.Expiry, "/")
		expMonth, _ := strconv.Atoi(parts[0])
		expYear, _ := strconv.Atoi(parts[1])
		currentYear := now.Year() % 100
		currentMonth := int(now.Month())
		if expMonth < 1 || expMonth > 12 {
			errs.Expiry = "Mes inválido"
		} else if expYear < currentYear || (expYear == currentYear && expMonth < currentMonth) {
			errs.Expiry = "Tarjeta expirada"
		}
	}

	if card.CVV == "" {
		errs.CVV = "CVV requerido"
	} else if !cvvPattern.MatchString(card.CVV) {
		errs.CVV = "CVV inválido (3-4 dígitos)"
	}

	if strings.TrimSpace(card.HolderName) == "" {
		errs.HolderName = "Nombre del titular requerido"
	}

	return errs
}

// FormatCardNumber strips non-digits and regroups the number into blocks
// of four separated by single spaces.
func FormatCardNumber(value string) string {
	v := nonDigitPattern.ReplaceAllString(value, "")
	match := cardGroupPattern.FindString(v)
	if match == "" {
		return v
	}
	var parts []string
	for i := 0; i < len(match); i += 4 {
		end := i + 4
		if end > len(match) {
			end = len(match)
		}
		parts = append(parts, match[i:end])
	}
	return strings.Join(parts, " ")
}

// FormatExpiry normalizes raw expiry entry into MM/YY, inserting the
// separator after the second digit.
func FormatExpiry(value string) string {
	v := nonDigitPattern.ReplaceAllString(value, "")
	if len(v) >= 2 {
		end := len(v)
		if end > 4 {
			end = 4
		}
		return v[:2] + "/" + v[2:end]
	}
	return v
}
