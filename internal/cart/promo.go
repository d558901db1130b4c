package cart

import (
	"fmt"
	"strings"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

// PromoRule yields either a percentage of the subtotal or a flat amount.
type PromoRule struct {
	Percent float64
	Flat    float64
}

func (r PromoRule) Discount(subtotal float64) float64 {
	if r.Percent > 0 {
		return subtotal * r.Percent / 100
	}
	return r.Flat
}

// PromoBook maps normalized codes to rules.
type PromoBook map[string]PromoRule

func DefaultPromoBook() PromoBook {
	return PromoBook{
		"WELCOME10": {Percent: 10},
		"SAVE5":     {Flat: 5},
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve turns a code into an absolute discount for subtotal. No code means
// no discount and no error; an unknown code means no discount and
// ErrInvalidPromoCode.
func (b PromoBook) Resolve(code string, subtotal float64) (float64, error) {
	code = NormalizeCode(code)
	if code == "" {
		return 0, nil
	}
	rule, ok := b[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidPromoCode, code)
	}
	return rule.Discount(subtotal), nil
}
