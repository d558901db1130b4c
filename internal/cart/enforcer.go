package cart

import (
	"fmt"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

type MutationKind int

const (
	MutationNone MutationKind = iota
	MutationInsert
	MutationSetQuantity
	MutationRemove
)

func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationSetQuantity:
		return "set_quantity"
	case MutationRemove:
		return "remove"
	}
	return "none"
}

// Mutation is the verdict of the enforcer: what the store must write for the
// requested change to keep the cart valid.
type Mutation struct {
	Kind       MutationKind
	MenuItemID string
	Quantity   int
}

// ValidateAdd checks adding quantity units of item to the cart given by lines.
// A zero quantity means one; a negative one is refused. The cart is never
// modified.
func ValidateAdd(lines []domain.CartLine, item domain.MenuItem, quantity int) (Mutation, error) {
	switch {
	case quantity < 0:
		return Mutation{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, quantity)
	case quantity == 0:
		quantity = 1
	}

	for _, l := range lines {
		if l.RestaurantID != item.RestaurantID {
			return Mutation{}, fmt.Errorf("%w: cart is from restaurant %s", domain.ErrConflictingRestaurant, l.RestaurantID)
		}
	}

	if existing, ok := findLine(lines, item.ID); ok {
		next := existing.Quantity + quantity
		if next > domain.MaxLineQuantity {
			return Mutation{}, fmt.Errorf("%w: %d requested", domain.ErrQuantityLimitExceeded, next)
		}
		return Mutation{Kind: MutationSetQuantity, MenuItemID: item.ID, Quantity: next}, nil
	}

	if quantity > domain.MaxLineQuantity {
		return Mutation{}, fmt.Errorf("%w: %d requested", domain.ErrQuantityLimitExceeded, quantity)
	}
	return Mutation{Kind: MutationInsert, MenuItemID: item.ID, Quantity: quantity}, nil
}

// ValidateUpdate checks changing the quantity of an existing line by delta.
// Reaching zero or below turns into a removal.
func ValidateUpdate(lines []domain.CartLine, menuItemID string, delta int) (Mutation, error) {
	existing, ok := findLine(lines, menuItemID)
	if !ok {
		return Mutation{}, domain.ErrCartLineNotFound
	}
	if delta == 0 {
		return Mutation{Kind: MutationNone, MenuItemID: menuItemID, Quantity: existing.Quantity}, nil
	}

	next := existing.Quantity + delta
	switch {
	case next <= 0:
		return Mutation{Kind: MutationRemove, MenuItemID: menuItemID}, nil
	case next > domain.MaxLineQuantity:
		return Mutation{}, fmt.Errorf("%w: %d requested", domain.ErrQuantityLimitExceeded, next)
	}
	return Mutation{Kind: MutationSetQuantity, MenuItemID: menuItemID, Quantity: next}, nil
}

func findLine(lines []domain.CartLine, menuItemID string) (domain.CartLine, bool) {
	for _, l := range lines {
		if l.MenuItemID == menuItemID {
			return l, true
		}
	}
	return domain.CartLine{}, false
}
