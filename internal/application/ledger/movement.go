package ledger

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementInput entrada de ApplyMovement. ItemID se pasa explícito en cada llamada.
type MovementInput struct {
	ItemID    int64
	Action    entity.Action // INBOUND | OUTBOUND
	Quantity  int64         // siempre positivo; el signo lo da Action
	RequestID string        // opcional, para rechazar reintentos duplicados
}

// MovementResult resultado de un movimiento confirmado.
type MovementResult struct {
	Item     *entity.Item
	LogEntry *entity.LogEntry
	LowStock bool
}

// NewQuantity cantidad del artículo tras el movimiento.
func (r *MovementResult) NewQuantity() int64 { return r.Item.Quantity }

func (in MovementInput) validate() error {
	if in.ItemID <= 0 || in.Quantity <= 0 || !in.Action.IsMovement() {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyMovement aplica una entrada o salida a un único artículo.
// Lee el artículo con bloqueo, calcula la nueva cantidad, rechaza con ErrInsufficientStock si
// quedaría negativa, y escribe cantidad y registro de bitácora en la misma unidad de trabajo.
func (l *Ledger) ApplyMovement(ctx context.Context, in MovementInput) (res *MovementResult, err error) {
	ctx, span := l.tracer.Start(ctx, "ledger.ApplyMovement", trace.WithAttributes(
		attribute.Int64("item.id", in.ItemID),
		attribute.String("movement.action", string(in.Action)),
		attribute.Int64("movement.quantity", in.Quantity),
	))
	defer func() {
		endSpan(span, err)
		l.record(ctx, in.Action, resultLabel(err))
	}()

	if err := in.validate(); err != nil {
		return nil, err
	}

	if in.RequestID != "" && l.idem != nil {
		ok, rerr := l.idem.Reserve(ctx, in.RequestID, l.idemTTL)
		if rerr != nil {
			return nil, domain.NewStoreError("reserve request id", rerr)
		}
		if !ok {
			l.log.Info().Str("request_id", in.RequestID).Int64("item_id", in.ItemID).Msg("movimiento duplicado rechazado")
			return nil, domain.ErrDuplicate
		}
		defer func() {
			if err == nil {
				return
			}
			if relErr := l.idem.Release(context.WithoutCancel(ctx), in.RequestID); relErr != nil {
				l.log.Error().Err(relErr).Str("request_id", in.RequestID).Msg("liberar request id")
			}
		}()
	}

	err = l.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, logRepo repository.LogEntryRepository) error {
		// Bloquea el artículo hasta el fin de la unidad de trabajo para evitar actualizaciones perdidas
		item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return domain.NewStoreError("get item for update", err)
		}
		if item == nil {
			return domain.ErrNotFound
		}

		delta := in.Quantity
		if in.Action == entity.ActionOutbound {
			delta = -in.Quantity
		}
		candidate := item.Quantity + delta
		if candidate < 0 {
			return domain.ErrInsufficientStock
		}

		now := l.now()
		if err := itemRepo.UpdateQuantity(ctx, item.ID, candidate); err != nil {
			return domain.NewStoreError("update item quantity", err)
		}
		entry, err := l.appendLog(ctx, logRepo, in.Action, item, delta, now)
		if err != nil {
			return domain.NewStoreError("append log entry", err)
		}

		item.Quantity = candidate
		item.UpdatedAt = now
		res = &MovementResult{Item: item, LogEntry: entry, LowStock: inventory.IsLowStock(*item)}
		return nil
	})
	if err != nil {
		err = domain.NewStoreError("apply movement", err)
		l.logFailure(err, "movimiento rechazado", in.ItemID, string(in.Action), in.Quantity)
		return nil, err
	}

	l.log.Debug().
		Int64("item_id", in.ItemID).
		Str("action", string(in.Action)).
		Int64("delta", res.LogEntry.Delta).
		Int64("new_quantity", res.Item.Quantity).
		Int64("log_id", res.LogEntry.ID).
		Bool("low_stock", res.LowStock).
		Msg("movimiento aplicado")
	return res, nil
}

func (l *Ledger) logFailure(err error, msg string, itemID int64, action string, quantity int64) {
	ev := l.log.Info()
	if errors.Is(err, domain.ErrStore) || !domain.IsDomainError(err) {
		ev = l.log.Error()
	}
	ev.Err(err).Int64("item_id", itemID).Str("action", action).Int64("quantity", quantity).Msg(msg)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	default:
		return "error"
	}
}
