package checkout

import (
	"context"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/core/ports"
)

const (
	stepCreateOrder = "create_order"
	stepInsertItems = "insert_items"
)

// --- createOrderStep ---

// createOrderStep writes the order row. It has no compensation: once the row
// exists the checkout can only move forward.
type createOrderStep struct {
	repo  ports.OrderRepository
	order *domain.Order
}

func (s *createOrderStep) Name() string { return stepCreateOrder }

func (s *createOrderStep) Execute(ctx context.Context) error {
	id, err := s.repo.InsertOrder(ctx, s.order)
	if err != nil {
		return domain.RemoteError("insert order", err)
	}
	s.order.ID = id
	return nil
}

// --- insertItemsStep ---

// insertItemsStep writes all items of the order in one batch. It does nothing
// when the order already has items, which makes retries safe.
type insertItemsStep struct {
	repo    ports.OrderRepository
	orderID string
	items   []domain.OrderItem
}

func (s *insertItemsStep) Name() string { return stepInsertItems }

func (s *insertItemsStep) Execute(ctx context.Context) error {
	existing, err := s.repo.ListItems(ctx, s.orderID)
	if err != nil {
		return domain.RemoteError("list order items", err)
	}
	if len(existing) > 0 {
		return nil
	}
	return domain.RemoteError("insert order items", s.repo.InsertItems(ctx, s.orderID, s.items))
}
