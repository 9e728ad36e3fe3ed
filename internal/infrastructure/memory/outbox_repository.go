package memory

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain"
	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
	"github.com/jhoicas/estoque-pdv/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo eventos en memoria, en orden de inserción.
type OutboxRepo struct {
	a accessor
}

func (r *OutboxRepo) Enqueue(_ context.Context, e *entity.OutboxEvent) error {
	return r.a.write(func(st *state) error {
		st.outbox = append(st.outbox, *e)
		return nil
	})
}

func (r *OutboxRepo) GetByID(_ context.Context, id string) (*entity.OutboxEvent, error) {
	var out *entity.OutboxEvent
	r.a.read(func(st *state) {
		for _, e := range st.outbox {
			if e.ID == id {
				out = &e
				return
			}
		}
	})
	return out, nil
}

func (r *OutboxRepo) FindByAggregate(_ context.Context, kind, aggregateID string) (*entity.OutboxEvent, error) {
	var out *entity.OutboxEvent
	r.a.read(func(st *state) {
		for i := len(st.outbox) - 1; i >= 0; i-- {
			if e := st.outbox[i]; e.Kind == kind && e.AggregateID == aggregateID {
				out = &e
				return
			}
		}
	})
	return out, nil
}

func (r *OutboxRepo) ListPending(_ context.Context, kind string, offset, limit int) ([]*entity.OutboxEvent, error) {
	var out []*entity.OutboxEvent
	r.a.read(func(st *state) {
		skipped := 0
		for _, e := range st.outbox {
			if e.Kind != kind || e.ProcessedAt != nil {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			out = append(out, &e)
			if limit > 0 && len(out) == limit {
				return
			}
		}
	})
	return out, nil
}

func (r *OutboxRepo) update(id string, fn func(e *entity.OutboxEvent)) error {
	return r.a.write(func(st *state) error {
		for i := range st.outbox {
			if st.outbox[i].ID == id {
				fn(&st.outbox[i])
				return nil
			}
		}
		return domain.NewFieldError(domain.ErrNotFound, "event_id", id, "")
	})
}

func (r *OutboxRepo) MarkProcessed(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(e *entity.OutboxEvent) {
		e.ProcessedAt = &at
		e.Attempts++
		e.LastError = ""
	})
}

func (r *OutboxRepo) MarkFailed(_ context.Context, id string, reason string) error {
	return r.update(id, func(e *entity.OutboxEvent) {
		e.Attempts++
		e.LastError = reason
	})
}
