package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo del almacenamiento, pasando
// repositorios atados a ella. Si fn devuelve error no queda ninguna escritura confirmada.
// Garantiza atomicidad entre la escritura de cantidad y el registro en la bitácora.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		logRepo repository.LogEntryRepository,
	) error) error
}

// IdempotencyStore reserva identificadores de petición para rechazar reintentos duplicados.
type IdempotencyStore interface {
	// Reserve devuelve false si la clave ya estaba reservada y no ha expirado.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release libera la clave (el movimiento falló y puede reintentarse).
	Release(ctx context.Context, key string) error
}
