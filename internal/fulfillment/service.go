// Package fulfillment is the gRPC endpoint through which the external
// fulfillment process moves orders along their status lifecycle.
//
// Messages are google.protobuf.Struct values, so the service needs no
// generated code:
//
//	UpdateOrderStatus({"order_id": "...", "status": "preparing"})
//	  -> {"order_id": "...", "status": "preparing", "label": "PREPARING"}
package fulfillment

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	serviceName             = "foodcart.fulfillment.v1.Fulfillment"
	updateOrderStatusMethod = "/" + serviceName + "/UpdateOrderStatus"
)

type FulfillmentServer interface {
	UpdateOrderStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FulfillmentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UpdateOrderStatus", Handler: updateOrderStatusHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "foodcart/fulfillment/v1",
}

func RegisterFulfillmentServer(s grpc.ServiceRegistrar, srv FulfillmentServer) {
	s.RegisterService(&serviceDesc, srv)
}

func updateOrderStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FulfillmentServer).UpdateOrderStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: updateOrderStatusMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(FulfillmentServer).UpdateOrderStatus(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
