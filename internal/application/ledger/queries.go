package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// lowStockPageSize tamaño de página al recorrer todos los artículos.
const lowStockPageSize = 500

// GetItem obtiene un artículo por ID. Lectura puntual, sin bloqueo.
func (l *Ledger) GetItem(ctx context.Context, id int64) (*entity.Item, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := l.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewStoreError("get item", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems lista artículos ordenados por ID.
func (l *Ledger) ListItems(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	items, err := l.itemRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.NewStoreError("list items", err)
	}
	return items, nil
}

// ListLowStock devuelve todos los artículos en o por debajo de su punto de reorden.
func (l *Ledger) ListLowStock(ctx context.Context) ([]*entity.Item, error) {
	var low []*entity.Item
	for offset := 0; ; offset += lowStockPageSize {
		page, err := l.itemRepo.List(ctx, lowStockPageSize, offset)
		if err != nil {
			return nil, domain.NewStoreError("list items", err)
		}
		for _, item := range page {
			if inventory.IsLowStock(*item) {
				low = append(low, item)
			}
		}
		if len(page) < lowStockPageSize {
			break
		}
	}
	return low, nil
}

// History devuelve la bitácora de un artículo, más reciente primero.
func (l *Ledger) History(ctx context.Context, itemID int64, limit, offset int) ([]*entity.LogEntry, error) {
	if _, err := l.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	entries, err := l.logRepo.ListByItem(ctx, itemID, limit, offset)
	if err != nil {
		return nil, domain.NewStoreError("list item log", err)
	}
	return entries, nil
}

// ListLog devuelve la bitácora completa, más reciente primero.
func (l *Ledger) ListLog(ctx context.Context, limit, offset int) ([]*entity.LogEntry, error) {
	entries, err := l.logRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.NewStoreError("list log", err)
	}
	return entries, nil
}
