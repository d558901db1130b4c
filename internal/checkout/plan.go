package checkout

import (
	"encoding/json"

	"github.com/jcmexdev/foodcart/internal/cart"
	"github.com/jcmexdev/foodcart/internal/core/domain"
)

// plan is everything a checkout writes, frozen from the cart at the moment
// the user checked out. It is the saga payload, so a partial checkout can be
// completed without the cart.
type plan struct {
	UserID         string               `json:"user_id"`
	RestaurantID   string               `json:"restaurant_id"`
	RestaurantName string               `json:"restaurant_name"`
	Address        string               `json:"delivery_address"`
	PaymentMethod  domain.PaymentMethod `json:"payment_method"`
	Total          float64              `json:"total"`
	PromoCode      string               `json:"promo_code,omitempty"`
	Items          []planItem           `json:"items"`
}

type planItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

func newPlan(snap cart.Snapshot, address string, method domain.PaymentMethod) plan {
	p := plan{
		UserID:        snap.UserID,
		RestaurantID:  snap.RestaurantID(),
		Address:       address,
		PaymentMethod: method,
		Total:         snap.Priced.Total,
		PromoCode:     snap.PromoCode,
		Items:         make([]planItem, 0, len(snap.Lines)),
	}
	if len(snap.Lines) > 0 {
		p.RestaurantName = snap.Lines[0].RestaurantName
	}
	for _, l := range snap.Lines {
		p.Items = append(p.Items, planItem{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	return p
}

func decodePlan(payload string) (plan, error) {
	var p plan
	err := json.Unmarshal([]byte(payload), &p)
	return p, err
}

func (p plan) encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (p plan) orderItems(orderID string) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, domain.OrderItem{
			OrderID:     orderID,
			MenuItemID:  it.MenuItemID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			PriceAtTime: it.UnitPrice,
		})
	}
	return items
}

func (p plan) placedEvent(orderID string) domain.OrderPlaced {
	ev := domain.OrderPlaced{
		OrderID:       orderID,
		UserID:        p.UserID,
		RestaurantID:  p.RestaurantID,
		TotalAmount:   p.Total,
		PaymentMethod: p.PaymentMethod,
	}
	for _, it := range p.Items {
		ev.Items = append(ev.Items, domain.OrderedItem{
			MenuItemID:  it.MenuItemID,
			Quantity:    it.Quantity,
			PriceAtTime: it.UnitPrice,
		})
	}
	return ev
}
