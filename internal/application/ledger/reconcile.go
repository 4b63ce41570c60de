package ledger

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReconcileResult compara la cantidad almacenada con la suma de la bitácora.
// La bitácora es la fuente de verdad; Quantity es una caché de esa suma.
type ReconcileResult struct {
	ItemID         int64
	StoredQuantity int64
	LogQuantity    int64
	Drift          int64 // StoredQuantity - LogQuantity
	Repaired       bool
}

// Consistent indica si no hay desviación.
func (r ReconcileResult) Consistent() bool { return r.Drift == 0 }

// Reconcile bloquea el artículo, suma sus Delta y reporta la desviación. Con repair=true
// reescribe la cantidad con la suma de la bitácora, salvo que esa suma sea negativa.
func (l *Ledger) Reconcile(ctx context.Context, itemID int64, repair bool) (res ReconcileResult, err error) {
	ctx, span := l.tracer.Start(ctx, "ledger.Reconcile", trace.WithAttributes(
		attribute.Int64("item.id", itemID),
		attribute.Bool("reconcile.repair", repair),
	))
	defer func() { endSpan(span, err) }()

	if itemID <= 0 {
		return res, domain.ErrInvalidInput
	}

	err = l.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, logRepo repository.LogEntryRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return domain.NewStoreError("get item for update", err)
		}
		if item == nil {
			return domain.ErrNotFound
		}
		sum, err := logRepo.SumDeltaByItem(ctx, itemID)
		if err != nil {
			return domain.NewStoreError("sum item log", err)
		}
		res = ReconcileResult{
			ItemID:         itemID,
			StoredQuantity: item.Quantity,
			LogQuantity:    sum,
			Drift:          item.Quantity - sum,
		}
		if res.Consistent() || !repair || sum < 0 {
			return nil
		}
		if err := itemRepo.UpdateQuantity(ctx, itemID, sum); err != nil {
			return domain.NewStoreError("repair item quantity", err)
		}
		res.Repaired = true
		return nil
	})
	if err != nil {
		return ReconcileResult{}, domain.NewStoreError("reconcile", err)
	}

	span.SetAttributes(attribute.Int64("reconcile.drift", res.Drift))
	if !res.Consistent() {
		ev := l.log.Warn().
			Int64("item_id", itemID).
			Int64("stored_quantity", res.StoredQuantity).
			Int64("log_quantity", res.LogQuantity).
			Int64("drift", res.Drift).
			Bool("repaired", res.Repaired)
		if res.LogQuantity < 0 {
			ev = ev.Bool("negative_log_sum", true)
		}
		ev.Msg("desviación entre stock y bitácora")
	}
	return res, nil
}
