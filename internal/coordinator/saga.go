package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/foodcart/internal/coordinator/sagalog"
)

// Step represents a single unit of work in the Saga. Steps are permanent:
// nothing is undone, so a failure after a finished step leaves the saga
// PARTIAL for Resume to finish.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
}

// Saga is one execution: the steps to run and what identifies them in the
// journal.
type Saga struct {
	ID      string
	OwnerID string
	Payload string
	Steps   []Step

	// Completed names steps finished by an earlier run of the same saga.
	// They are not executed again.
	Completed []string
}

// Failure is returned by Start and Resume when a step fails.
type Failure struct {
	SagaID string
	Step   string
	// Partial is set when earlier steps had already finished, so the saga
	// ended PARTIAL and must be resumed.
	Partial bool
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("saga %s: step %s: %v", f.SagaID, f.Step, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Orchestrator runs sagas and journals every transition.
type Orchestrator struct {
	journal sagalog.Repository
	tracer  trace.Tracer
}

func NewOrchestrator(journal sagalog.Repository) *Orchestrator {
	return &Orchestrator{
		journal: journal,
		tracer:  otel.Tracer("github.com/jcmexdev/foodcart/internal/coordinator"),
	}
}

// Start journals STARTED and runs the saga steps sequentially. The STARTED row
// must be durable before any step runs; failing to write it aborts the saga.
func (o *Orchestrator) Start(ctx context.Context, s Saga) error {
	ctx, span := o.tracer.Start(ctx, "saga.start", trace.WithAttributes(attribute.String("saga.id", s.ID)))
	defer span.End()

	h := header(s)
	if err := o.journal.Save(ctx, sagalog.NewEntry(ctx, h, sagalog.StatusStarted, "", nil)); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("journal saga %s: %w", s.ID, err)
	}
	return o.run(ctx, s)
}

// Resume runs the remaining steps of a saga that already has journal rows.
func (o *Orchestrator) Resume(ctx context.Context, s Saga) error {
	ctx, span := o.tracer.Start(ctx, "saga.resume", trace.WithAttributes(attribute.String("saga.id", s.ID)))
	defer span.End()

	slog.InfoContext(ctx, "resuming saga", "saga_id", s.ID, "completed", s.Completed)
	return o.run(ctx, s)
}

// run executes the steps in order and stops at the first failure. The saga
// ends FAILED when nothing had finished yet and PARTIAL otherwise.
func (o *Orchestrator) run(ctx context.Context, s Saga) error {
	h := header(s)
	done := len(s.Completed)

	for _, step := range s.Steps {
		slog.InfoContext(ctx, "executing step", "saga_id", s.ID, "step", step.Name())
		if err := o.execute(ctx, step); err != nil {
			slog.ErrorContext(ctx, "step failed", "saga_id", s.ID, "step", step.Name(), "error", err)
			msgs := []string{fmt.Sprintf("step %s failed: %v", step.Name(), err)}

			status := sagalog.StatusFailed
			if done > 0 {
				status = sagalog.StatusPartial
			}
			o.save(ctx, h, status, step.Name(), msgs)
			return &Failure{SagaID: s.ID, Step: step.Name(), Partial: done > 0, Err: err}
		}

		done++
		o.save(ctx, h, sagalog.StatusStepDone, step.Name(), nil)
	}

	o.save(ctx, h, sagalog.StatusCompleted, "", nil)
	slog.InfoContext(ctx, "saga completed", "saga_id", s.ID)
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := o.tracer.Start(ctx, "saga.step", trace.WithAttributes(attribute.String("saga.step", step.Name())))
	defer span.End()

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// save journals a transition. Only the STARTED row is mandatory; later rows
// are best effort and a failed write is logged.
func (o *Orchestrator) save(ctx context.Context, h sagalog.Header, status sagalog.Status, step string, errs []string) {
	if err := o.journal.Save(ctx, sagalog.NewEntry(ctx, h, status, step, errs)); err != nil {
		slog.ErrorContext(ctx, "failed to journal saga transition",
			"saga_id", h.SagaID, "status", status, "step", step, "error", err)
	}
}

func header(s Saga) sagalog.Header {
	return sagalog.Header{SagaID: s.ID, OwnerID: s.OwnerID, Payload: s.Payload}
}
