package httpx

import (
	"time"

	"github.com/jcmexdev/foodcart/internal/cart"
	"github.com/jcmexdev/foodcart/internal/checkout"
	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/orders"
)

type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

type PromoRequest struct {
	Code string `json:"code"`
}

type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type RatingRequest struct {
	Rating int `json:"rating"`
}

type ProfileRequest struct {
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Vegetarian bool   `json:"vegetarian"`
}

type CartResponse struct {
	RestaurantID   string             `json:"restaurant_id,omitempty"`
	RestaurantName string             `json:"restaurant_name,omitempty"`
	PromoCode      string             `json:"promo_code,omitempty"`
	Lines          []CartLineResponse `json:"lines"`
	Price          cart.DisplayPrice  `json:"price"`
}

type CartLineResponse struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	ImageURL   string `json:"image_url,omitempty"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	Subtotal   string `json:"subtotal"`
}

type PromoResponse struct {
	Discount string       `json:"discount"`
	Cart     CartResponse `json:"cart"`
}

type CheckoutResponse struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
	Resumed bool   `json:"resumed"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	RestaurantID    string              `json:"restaurant_id"`
	RestaurantName  string              `json:"restaurant_name"`
	Status          domain.OrderStatus  `json:"status"`
	StatusLabel     string              `json:"status_label"`
	Total           string              `json:"total"`
	DeliveryAddress string              `json:"delivery_address"`
	PaymentMethod   string              `json:"payment_method"`
	CanRate         bool                `json:"can_rate"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
}

type OrderItemResponse struct {
	MenuItemID  string `json:"menu_item_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	PriceAtTime string `json:"price_at_time"`
	Subtotal    string `json:"subtotal"`
}

type RatingResponse struct {
	OrderID string `json:"order_id"`
	Rating  int    `json:"rating"`
}

type ProfileResponse struct {
	UserID     string `json:"user_id"`
	FullName   string `json:"full_name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	Vegetarian bool   `json:"vegetarian"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// OrderID is set when an order row exists although the request failed.
	OrderID string `json:"order_id,omitempty"`
}

func mapCart(snap cart.Snapshot) CartResponse {
	resp := CartResponse{
		PromoCode: snap.PromoCode,
		Lines:     make([]CartLineResponse, len(snap.Lines)),
		Price:     snap.Priced.Display(),
	}
	if !snap.Empty() {
		resp.RestaurantID = snap.RestaurantID()
		resp.RestaurantName = snap.Lines[0].RestaurantName
	}
	for i, l := range snap.Lines {
		resp.Lines[i] = CartLineResponse{
			MenuItemID: l.MenuItemID,
			Name:       l.Name,
			ImageURL:   l.ImageURL,
			Quantity:   l.Quantity,
			UnitPrice:  cart.FormatAmount(l.UnitPrice),
			Subtotal:   cart.FormatAmount(l.Subtotal()),
		}
	}
	return resp
}

func mapCheckout(res *checkout.Result) CheckoutResponse {
	return CheckoutResponse{
		OrderID: res.OrderID,
		Total:   cart.FormatAmount(res.Total),
		Resumed: res.Resumed,
	}
}

func mapOrder(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			MenuItemID:  it.MenuItemID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			PriceAtTime: cart.FormatAmount(it.PriceAtTime),
			Subtotal:    cart.FormatAmount(it.Subtotal()),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		RestaurantID:    o.RestaurantID,
		RestaurantName:  o.RestaurantName,
		Status:          o.Status,
		StatusLabel:     o.Status.Label(),
		Total:           cart.FormatAmount(o.TotalAmount),
		DeliveryAddress: o.DeliveryAddress,
		PaymentMethod:   string(o.PaymentMethod),
		CanRate:         orders.CanRate(o),
		Items:           items,
		CreatedAt:       o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapProfile(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:     p.UserID,
		FullName:   p.FullName,
		Address:    p.Address,
		Phone:      p.Phone,
		Vegetarian: p.Vegetarian,
	}
}
