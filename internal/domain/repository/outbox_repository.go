package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-pdv/internal/domain/entity"
)

// OutboxRepository puerto para eventos pendientes de consumo.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event *entity.OutboxEvent) error
	GetByID(ctx context.Context, id string) (*entity.OutboxEvent, error)
	// FindByAggregate devuelve el evento más reciente del tipo para el agregado, o nil.
	FindByAggregate(ctx context.Context, kind, aggregateID string) (*entity.OutboxEvent, error)
	// ListPending pagina los pendientes más antiguos primero; offset salta los que siguen fallando.
	ListPending(ctx context.Context, kind string, offset, limit int) ([]*entity.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
}
