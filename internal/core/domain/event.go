package domain

type OrderPlaced struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	RestaurantID  string        `json:"restaurant_id"`
	TotalAmount   float64       `json:"total_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Items         []OrderedItem `json:"items"`
}

type OrderedItem struct {
	MenuItemID  string  `json:"menu_item_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

func (e OrderPlaced) Type() string { return "order.placed" }

type OrderStatusChanged struct {
	OrderID string      `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

func (e OrderStatusChanged) Type() string { return "order.status_changed" }
