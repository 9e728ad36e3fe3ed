package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

const outboxColumns = `id, kind, aggregate_id, payload, created_at, processed_at, attempts, last_error`

// OutboxRepo eventos pendientes sobre PostgreSQL.
type OutboxRepo struct {
	q Querier
}

// NewOutboxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboxRepository(q Querier) *OutboxRepo {
	return &OutboxRepo{q: q}
}

// Enqueue inserta el evento (debe llamarse dentro de la tx que lo origina).
func (r *OutboxRepo) Enqueue(ctx context.Context, e *entity.OutboxEvent) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO outbox_events (`+outboxColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Kind, e.AggregateID, []byte(e.Payload), e.CreatedAt, e.ProcessedAt, e.Attempts, e.LastError,
	)
	if err != nil {
		return fmt.Errorf("enqueue outbox event: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (*entity.OutboxEvent, error) {
	var e entity.OutboxEvent
	var payload []byte
	err := row.Scan(&e.ID, &e.Kind, &e.AggregateID, &payload, &e.CreatedAt, &e.ProcessedAt, &e.Attempts, &e.LastError)
	e.Payload = payload
	return &e, err
}

// GetByID obtiene un evento por ID.
func (r *OutboxRepo) GetByID(ctx context.Context, id string) (*entity.OutboxEvent, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, `SELECT `+outboxColumns+` FROM outbox_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outbox event: %w", err)
	}
	return e, nil
}

// FindByAggregate obtiene el último evento del tipo para el agregado.
func (r *OutboxRepo) FindByAggregate(ctx context.Context, kind, aggregateID string) (*entity.OutboxEvent, error) {
	e, err := scanEvent(r.q.QueryRow(ctx,
		`SELECT `+outboxColumns+` FROM outbox_events
		WHERE kind = $1 AND aggregate_id = $2 ORDER BY created_at DESC, id DESC LIMIT 1`,
		kind, aggregateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find outbox event by aggregate: %w", err)
	}
	return e, nil
}

// ListPending devuelve eventos sin procesar del tipo dado, más antiguos primero.
func (r *OutboxRepo) ListPending(ctx context.Context, kind string, offset, limit int) ([]*entity.OutboxEvent, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+outboxColumns+` FROM outbox_events
		WHERE kind = $1 AND processed_at IS NULL ORDER BY created_at, id OFFSET $2 LIMIT $3`,
		kind, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending outbox events: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.OutboxEvent, error) {
		return scanEvent(row)
	})
}

// MarkProcessed marca el evento como consumido.
func (r *OutboxRepo) MarkProcessed(ctx context.Context, id string, at time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE outbox_events SET processed_at = $2, attempts = attempts + 1, last_error = '' WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark outbox event processed: %w", err)
	}
	return nil
}

// MarkFailed registra un intento fallido; el evento sigue pendiente.
func (r *OutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE outbox_events SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, reason)
	if err != nil {
		return fmt.Errorf("mark outbox event failed: %w", err)
	}
	return nil
}
