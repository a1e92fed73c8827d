package payments

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	nonNumericRegex = regexp.MustCompile(`[^0-9]`)
	separatorRegex  = regexp.MustCompile(`[\s-]`)
	expiryRegex     = regexp.MustCompile(`^(\d{2})\s*/\s*(\d{2}|\d{4})$`)
)

// Card is what the payment form collects. It is checked locally and never
// leaves this tier; only the method label is forwarded.
type Card struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
}

// FieldErrors maps a form field to what is wrong with it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "invalid card: " + strings.Join(parts, "; ")
}

// SanitizeCardNumber strips spaces and dashes. Any other non-digit makes the
// number invalid.
func SanitizeCardNumber(number string) (string, error) {
	sanitized := separatorRegex.ReplaceAllString(number, "")
	if sanitized == "" {
		return "", errors.New("card number is required")
	}
	if nonNumericRegex.MatchString(sanitized) {
		return "", errors.New("card number must be numeric")
	}
	if len(sanitized) < 12 || len(sanitized) > 19 {
		return "", errors.New("card number must have 12 to 19 digits")
	}
	if !luhn(sanitized) {
		return "", errors.New("card number is not valid")
	}
	return sanitized, nil
}

// ParseExpiry accepts MM/YY or MM/YYYY and returns the first instant after the
// card's last valid month.
func ParseExpiry(expiry string) (time.Time, error) {
	m := expiryRegex.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return time.Time{}, errors.New("expiry must be MM/YY")
	}
	month, _ := strconv.Atoi(m[1])
	if month < 1 || month > 12 {
		return time.Time{}, errors.New("expiry month must be 01 to 12")
	}
	year, _ := strconv.Atoi(m[2])
	if len(m[2]) == 2 {
		year += 2000
	}
	return time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC), nil
}

// Validate checks every field and reports all problems at once.
func (c Card) Validate(now time.Time) error {
	errs := FieldErrors{}

	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "cardholder name is required"
	}
	if _, err := SanitizeCardNumber(c.Number); err != nil {
		errs["number"] = err.Error()
	}
	if end, err := ParseExpiry(c.Expiry); err != nil {
		errs["expiry"] = err.Error()
	} else if !now.Before(end) {
		errs["expiry"] = "card has expired"
	}
	cvc := strings.TrimSpace(c.CVC)
	if nonNumericRegex.MatchString(cvc) || len(cvc) < 3 || len(cvc) > 4 {
		errs["cvc"] = "cvc must be 3 or 4 digits"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Last4 is safe to log and to show on receipts.
func (c Card) Last4() string {
	digits := nonNumericRegex.ReplaceAllString(c.Number, "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

func luhn(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}
