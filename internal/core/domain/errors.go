package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConflictingRestaurant  = errors.New("cart already holds items from another restaurant")
	ErrQuantityLimitExceeded  = errors.New("quantity per item cannot exceed 5")
	ErrMissingDeliveryProfile = errors.New("no delivery address on profile")
	ErrInvalidPromoCode       = errors.New("invalid promo code")
	ErrPartialOrder           = errors.New("order created without its items")
	ErrRemoteStore            = errors.New("record store failure")

	ErrCartLineNotFound     = errors.New("item is not in the cart")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrOrderNotFound        = errors.New("order not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrMenuItemNotFound     = errors.New("menu item not found")
	ErrRatingNotAllowed     = errors.New("order can only be rated once delivered")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus        = errors.New("unknown order status")
	ErrInvalidTransition    = errors.New("order status transition not allowed")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrCheckoutInProgress   = errors.New("a checkout is already running for this user")
)

// PartialOrderError reports that the order row exists durably but its items
// were not written. OrderID is what a retry must target.
type PartialOrderError struct {
	OrderID string
	Err     error
}

func (e *PartialOrderError) Error() string {
	return fmt.Sprintf("order %s: items not written: %v", e.OrderID, e.Err)
}

func (e *PartialOrderError) Unwrap() error { return e.Err }

func (e *PartialOrderError) Is(target error) bool { return target == ErrPartialOrder }

// RemoteError tags a record-store failure so callers can match ErrRemoteStore
// while keeping the driver error in the chain.
func RemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrRemoteStore) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteStore, err)
}

// Kind is the closed set of failure categories callers switch on.
type Kind int

const (
	KindNone Kind = iota
	KindConflictingRestaurant
	KindQuantityLimitExceeded
	KindMissingDeliveryProfile
	KindInvalidPromoCode
	KindPartialOrderFailure
	KindRemoteStoreFailure
	KindNotFound
	KindInvalidInput
	KindNotAllowed
	KindConflict
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNone:                   "none",
	KindConflictingRestaurant:  "conflicting_restaurant",
	KindQuantityLimitExceeded:  "quantity_limit_exceeded",
	KindMissingDeliveryProfile: "missing_delivery_profile",
	KindInvalidPromoCode:       "invalid_promo_code",
	KindPartialOrderFailure:    "partial_order_failure",
	KindRemoteStoreFailure:     "remote_store_failure",
	KindNotFound:               "not_found",
	KindInvalidInput:           "invalid_input",
	KindNotAllowed:             "not_allowed",
	KindConflict:               "conflict",
	KindUnknown:                "unknown",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// KindOf classifies err. The order of checks matters: a partial order is
// also caused by a remote failure but must be reported as partial.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrPartialOrder):
		return KindPartialOrderFailure
	case errors.Is(err, ErrConflictingRestaurant):
		return KindConflictingRestaurant
	case errors.Is(err, ErrQuantityLimitExceeded):
		return KindQuantityLimitExceeded
	case errors.Is(err, ErrMissingDeliveryProfile):
		return KindMissingDeliveryProfile
	case errors.Is(err, ErrInvalidPromoCode):
		return KindInvalidPromoCode
	case errors.Is(err, ErrCartLineNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrMenuItemNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPaymentMethod):
		return KindInvalidInput
	case errors.Is(err, ErrRatingNotAllowed),
		errors.Is(err, ErrInvalidTransition):
		return KindNotAllowed
	case errors.Is(err, ErrCheckoutInProgress):
		return KindConflict
	case errors.Is(err, ErrRemoteStore):
		return KindRemoteStoreFailure
	}
	return KindUnknown
}
