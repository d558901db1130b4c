package domain

// MaxLineQuantity is the ceiling for a single cart line.
const MaxLineQuantity = 5

// MenuItem is the subset of a catalog entry the cart needs.
type MenuItem struct {
	ID             string
	RestaurantID   string
	RestaurantName string
	Name           string
	Price          float64
	ImageURL       string
	Vegetarian     bool
}

// CartLine is one (menu item, quantity) row of a user's cart, joined with the
// catalog fields it is displayed with. UnitPrice is the catalog price at the
// time the cart was last reconciled.
type CartLine struct {
	CartRowID      string
	MenuItemID     string
	Quantity       int
	UnitPrice      float64
	RestaurantID   string
	RestaurantName string
	Name           string
	ImageURL       string
}

func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

type Restaurant struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
}
