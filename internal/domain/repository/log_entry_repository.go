package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LogEntryRepository define el puerto de persistencia (solo anexar) para la bitácora de stock.
type LogEntryRepository interface {
	Append(ctx context.Context, entry *entity.LogEntry) error
	// ListByItem devuelve la historia de un artículo, más reciente primero.
	ListByItem(ctx context.Context, itemID int64, limit, offset int) ([]*entity.LogEntry, error)
	// List devuelve la bitácora completa, más reciente primero.
	List(ctx context.Context, limit, offset int) ([]*entity.LogEntry, error)
	// SumDeltaByItem suma los Delta registrados para el artículo (0 si no hay registros).
	SumDeltaByItem(ctx context.Context, itemID int64) (int64, error)
	MaxID(ctx context.Context) (int64, error)
	NextID(ctx context.Context) (int64, error)
}
