package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/foodcart/internal/core/domain"
)

func TestValidateAdd(t *testing.T) {
	existing := []domain.CartLine{{MenuItemID: pizza.ID, Quantity: 3, RestaurantID: "r-1"}}

	t.Run("new line into empty cart", func(t *testing.T) {
		m, err := ValidateAdd(nil, sushi, 2)
		require.NoError(t, err)
		assert.Equal(t, Mutation{Kind: MutationInsert, MenuItemID: sushi.ID, Quantity: 2}, m)
	})

	t.Run("zero quantity means one", func(t *testing.T) {
		m, err := ValidateAdd(nil, pizza, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, m.Quantity)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := ValidateAdd(existing, pizza, -2)
		require.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
	})

	t.Run("existing line is merged", func(t *testing.T) {
		m, err := ValidateAdd(existing, pizza, 2)
		require.NoError(t, err)
		assert.Equal(t, Mutation{Kind: MutationSetQuantity, MenuItemID: pizza.ID, Quantity: 5}, m)
	})

	t.Run("merge above ceiling", func(t *testing.T) {
		_, err := ValidateAdd(existing, pizza, 3)
		assert.ErrorIs(t, err, domain.ErrQuantityLimitExceeded)
	})

	t.Run("insert above ceiling", func(t *testing.T) {
		_, err := ValidateAdd(nil, pizza, 6)
		assert.ErrorIs(t, err, domain.ErrQuantityLimitExceeded)
	})

	t.Run("other restaurant", func(t *testing.T) {
		_, err := ValidateAdd(existing, sushi, 1)
		assert.ErrorIs(t, err, domain.ErrConflictingRestaurant)
		assert.Equal(t, domain.KindConflictingRestaurant, domain.KindOf(err))
	})
}

func TestValidateUpdate(t *testing.T) {
	lines := []domain.CartLine{{MenuItemID: pizza.ID, Quantity: 1, RestaurantID: "r-1"}}

	tests := []struct {
		name    string
		id      string
		delta   int
		want    Mutation
		wantErr error
	}{
		{name: "increment", id: pizza.ID, delta: 1, want: Mutation{Kind: MutationSetQuantity, MenuItemID: pizza.ID, Quantity: 2}},
		{name: "to zero removes", id: pizza.ID, delta: -1, want: Mutation{Kind: MutationRemove, MenuItemID: pizza.ID}},
		{name: "below zero removes", id: pizza.ID, delta: -4, want: Mutation{Kind: MutationRemove, MenuItemID: pizza.ID}},
		{name: "zero delta", id: pizza.ID, delta: 0, want: Mutation{Kind: MutationNone, MenuItemID: pizza.ID, Quantity: 1}},
		{name: "above ceiling", id: pizza.ID, delta: 5, wantErr: domain.ErrQuantityLimitExceeded},
		{name: "unknown line", id: salad.ID, delta: 1, wantErr: domain.ErrCartLineNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ValidateUpdate(lines, tt.id, tt.delta)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}
