package fulfillment

import (
	"github.com/jcmexdev/foodcart/internal/core/domain"
	"google.golang.org/protobuf/types/known/structpb"
)

func statusRequest(orderID string, status domain.OrderStatus) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"order_id": structpb.NewStringValue(orderID),
		"status":   structpb.NewStringValue(string(status)),
	}}
}

func parseStatusRequest(req *structpb.Struct) (orderID, status string) {
	f := req.GetFields()
	return f["order_id"].GetStringValue(), f["status"].GetStringValue()
}

func orderToStruct(o *domain.Order) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"order_id": structpb.NewStringValue(o.ID),
		"status":   structpb.NewStringValue(string(o.Status)),
		"label":    structpb.NewStringValue(o.Status.Label()),
	}}
}

// StatusUpdate is the client-side view of an UpdateOrderStatus reply.
type StatusUpdate struct {
	OrderID string
	Status  domain.OrderStatus
	Label   string
}

func structToUpdate(s *structpb.Struct) StatusUpdate {
	f := s.GetFields()
	return StatusUpdate{
		OrderID: f["order_id"].GetStringValue(),
		Status:  domain.OrderStatus(f["status"].GetStringValue()),
		Label:   f["label"].GetStringValue(),
	}
}
