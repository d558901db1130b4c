package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

// DeliveryFee is charged once per order.
const DeliveryFee = 2.99

// PricedCart holds the totals derived from a cart. Amounts are kept unrounded;
// use Display for two-decimal presentation.
type PricedCart struct {
	Subtotal    float64
	DeliveryFee float64
	Discount    float64
	Total       float64
}

// Price derives the totals for lines with an absolute discount. The discount
// is clamped into [0, subtotal], so Total never drops below DeliveryFee.
func Price(lines []domain.CartLine, discount float64) PricedCart {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.Subtotal()
	}

	switch {
	case discount < 0:
		discount = 0
	case discount > subtotal:
		discount = subtotal
	}

	return PricedCart{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Discount:    discount,
		Total:       subtotal + DeliveryFee - discount,
	}
}

type DisplayPrice struct {
	Subtotal    string `json:"subtotal"`
	DeliveryFee string `json:"delivery_fee"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
}

func (p PricedCart) Display() DisplayPrice {
	return DisplayPrice{
		Subtotal:    FormatAmount(p.Subtotal),
		DeliveryFee: FormatAmount(p.DeliveryFee),
		Discount:    FormatAmount(p.Discount),
		Total:       FormatAmount(p.Total),
	}
}

// FormatAmount rounds half away from zero to cents.
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
