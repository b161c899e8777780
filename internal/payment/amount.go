package payment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseAmount parses a gateway gross amount such as "1200000" or
// "1200000.00". Only plain digits with an optional fraction are accepted,
// so signs, exponents and separators are rejected. Non-zero fractions finer
// than two decimal places are rejected rather than rounded.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty gross amount", ErrInvalidNotification)
	}
	if !amountPattern.MatchString(s) {
		if strings.HasPrefix(s, "-") {
			return decimal.Zero, fmt.Errorf("%w: negative gross amount %q", ErrInvalidNotification, s)
		}
		return decimal.Zero, fmt.Errorf("%w: malformed gross amount %q", ErrInvalidNotification, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: malformed gross amount %q", ErrInvalidNotification, s)
	}
	if !d.Equal(d.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("%w: gross amount %q has more than two decimal places", ErrInvalidNotification, s)
	}
	return d, nil
}
