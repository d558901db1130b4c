package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jcmexdev/foodcart/internal/coordinator/sagalog"
)

// SagaLogRepository is the relational implementation of sagalog.Repository.
// saga_logs is append-only: each row is an immutable event in the saga's
// lifecycle and the row with the highest id is the current state.
type SagaLogRepository struct {
	db *sqlx.DB
}

func NewSagaLogRepository(db *sqlx.DB) *SagaLogRepository {
	return &SagaLogRepository{db: db}
}

type sagaLogRow struct {
	SagaID        string    `db:"saga_id"`
	OwnerID       string    `db:"owner_id"`
	Status        string    `db:"status"`
	CurrentStep   string    `db:"current_step"`
	Payload       string    `db:"payload"`
	ErrorMessages string    `db:"error_messages"`
	TraceID       string    `db:"trace_id"`
	SpanID        string    `db:"span_id"`
	UpdatedAt     timestamp `db:"updated_at"`
}

func (row sagaLogRow) toEntry() sagalog.SagaLog {
	return sagalog.SagaLog{
		SagaID:        row.SagaID,
		OwnerID:       row.OwnerID,
		Status:        sagalog.Status(row.Status),
		CurrentStep:   row.CurrentStep,
		Payload:       row.Payload,
		ErrorMessages: row.ErrorMessages,
		TraceID:       row.TraceID,
		SpanID:        row.SpanID,
		UpdatedAt:     row.UpdatedAt.Time(),
	}
}

const selectSagaLog = `
	SELECT l.saga_id, l.owner_id, l.status, l.current_step, COALESCE(l.payload, '') AS payload,
	       l.error_messages, l.trace_id, l.span_id, l.updated_at
	FROM   saga_logs l`

// Save inserts a new saga log entry. It is safe to call concurrently.
func (r *SagaLogRepository) Save(ctx context.Context, entry *sagalog.SagaLog) error {
	const q = `
		INSERT INTO saga_logs
			(saga_id, owner_id, status, current_step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(q),
		entry.SagaID,
		entry.OwnerID,
		string(entry.Status),
		entry.CurrentStep,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		timestamp(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("store: save saga log for %q: %w", entry.SagaID, err)
	}
	return nil
}

func (r *SagaLogRepository) GetLatest(ctx context.Context, sagaID string) (*sagalog.SagaLog, error) {
	q := selectSagaLog + `
		WHERE  l.saga_id = ?
		ORDER  BY l.id DESC
		LIMIT  1`

	var row sagaLogRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(q), sagaID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sagalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get latest for %q: %w", sagaID, err)
	}
	entry := row.toEntry()
	return &entry, nil
}

func (r *SagaLogRepository) FindLatest(ctx context.Context, ownerID string, status sagalog.Status) ([]sagalog.SagaLog, error) {
	q := selectSagaLog + `
		WHERE  l.owner_id = ?
		AND    l.status = ?
		AND    l.id = (SELECT MAX(x.id) FROM saga_logs x WHERE x.saga_id = l.saga_id)
		ORDER  BY l.id DESC`

	var rows []sagaLogRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), ownerID, string(status)); err != nil {
		return nil, fmt.Errorf("store: find %s sagas of %q: %w", status, ownerID, err)
	}

	out := make([]sagalog.SagaLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntry())
	}
	return out, nil
}

// nullableString stores NULL instead of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
