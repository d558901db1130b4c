package sagalog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// ctx carries no valid span (e.g. in unit tests).
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// Header is the part of an entry that stays the same for a whole saga run.
type Header struct {
	SagaID  string
	OwnerID string
	Payload string
}

// NewEntry builds a SagaLog row with the trace info taken from ctx.
//
//	entry := sagalog.NewEntry(ctx, h, sagalog.StatusStepDone, "insert_items", nil)
//	_ = repo.Save(ctx, entry)
func NewEntry(ctx context.Context, h Header, status Status, currentStep string, errs []string) *SagaLog {
	ti := ExtractTraceInfo(ctx)

	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	return &SagaLog{
		SagaID:        h.SagaID,
		OwnerID:       h.OwnerID,
		Status:        status,
		CurrentStep:   currentStep,
		Payload:       h.Payload,
		ErrorMessages: errJSON,
		TraceID:       ti.TraceID,
		SpanID:        ti.SpanID,
		UpdatedAt:     time.Now().UTC(),
	}
}
