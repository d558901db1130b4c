package fulfillment

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/jcmexdev/foodcart/internal/core/domain"
	"github.com/jcmexdev/foodcart/internal/pkg/interceptors"
)

// Client is the operator side of the fulfillment endpoint.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to addr without TLS. Extra options are appended, which is
// how tests pass a bufconn dialer.
func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(interceptors.RequestIDClientInterceptor()),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("fulfillment: could not connect to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, to domain.OrderStatus) (StatusUpdate, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, updateOrderStatusMethod, statusRequest(orderID, to), out); err != nil {
		return StatusUpdate{}, fmt.Errorf("grpc UpdateOrderStatus: %w", err)
	}
	return structToUpdate(out), nil
}
