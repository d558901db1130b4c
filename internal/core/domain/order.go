package domain

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus accepts exactly the five lifecycle states. There is no
// fallback value: anything else is ErrInvalidStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusPreparing, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Terminal reports whether no further fulfillment transition can happen.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Label is the display form, e.g. "ON THE WAY".
func (s OrderStatus) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
)

// ParsePaymentMethod defaults an empty label to cash. The label is stored
// with the order and never processed.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); pm {
	case "":
		return PaymentCash, nil
	case PaymentCash, PaymentCard, PaymentUPI:
		return pm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

type Order struct {
	ID              string
	UserID          string
	RestaurantID    string
	RestaurantName  string
	TotalAmount     float64
	Status          OrderStatus
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	CreatedAt       time.Time
	Items           []OrderItem
}

// OrderItem freezes the unit price of a cart line at checkout.
type OrderItem struct {
	OrderID     string
	MenuItemID  string
	Name        string
	Quantity    int
	PriceAtTime float64
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.PriceAtTime
}

type Profile struct {
	UserID     string
	FullName   string
	Address    string
	Phone      string
	Vegetarian bool
}
