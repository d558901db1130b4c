package fulfillment

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/pkg/interceptors"
)

type fakeApplier struct {
	orders    map[string]domain.OrderStatus
	requestID string
}

func (f *fakeApplier) ApplyStatus(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	f.requestID = interceptors.RequestIDFromContext(ctx)
	from, ok := f.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if from.Terminal() {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	f.orders[orderID] = to
	return &domain.Order{ID: orderID, Status: to}, nil
}

func startServer(t *testing.T, applier StatusApplier) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(NewServer(applier))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := Dial("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	applier := &fakeApplier{orders: map[string]domain.OrderStatus{
		"o-1": domain.StatusOnTheWay,
		"o-2": domain.StatusDelivered,
	}}
	client := startServer(t, applier)

	t.Run("applies the transition", func(t *testing.T) {
		up, err := client.UpdateOrderStatus(interceptors.WithRequestID(ctx, "req-1"), "o-1", domain.StatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdate{OrderID: "o-1", Status: domain.StatusDelivered, Label: "DELIVERED"}, up)
		assert.Equal(t, "req-1", applier.requestID)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := client.UpdateOrderStatus(ctx, "nope", domain.StatusPreparing)
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("terminal order", func(t *testing.T) {
		_, err := client.UpdateOrderStatus(ctx, "o-2", domain.StatusCancelled)
		assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := client.UpdateOrderStatus(ctx, "o-1", domain.OrderStatus("lost"))
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestUpdateOrderStatusRequiresOrderID(t *testing.T) {
	s := NewServer(&fakeApplier{})
	_, err := s.UpdateOrderStatus(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
