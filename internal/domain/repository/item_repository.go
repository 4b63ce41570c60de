package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el artículo no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id int64) (*entity.Item, error)
	// GetForUpdate lee el artículo y lo bloquea hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, id int64) (*entity.Item, error)
	// List devuelve artículos ordenados por ID ascendente.
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	// UpdateQuantity devuelve domain.ErrNotFound si no hay fila con ese ID.
	UpdateQuantity(ctx context.Context, id, quantity int64) error
	// MaxID devuelve el mayor ID existente, 0 si no hay artículos.
	MaxID(ctx context.Context) (int64, error)
	// NextID reserva el siguiente ID de artículo en la secuencia del almacenamiento.
	NextID(ctx context.Context) (int64, error)
}
