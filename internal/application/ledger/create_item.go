package ledger

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CreateItemInput datos de alta de un artículo. Name y Publisher son obligatorios.
type CreateItemInput struct {
	Name             string
	Publisher        string
	ISBN             string
	Location         string
	InitialQuantity  int64
	ReorderThreshold int64
}

func (in *CreateItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Location = strings.TrimSpace(in.Location)
	if in.Name == "" || in.Publisher == "" {
		return domain.ErrInvalidInput
	}
	if in.InitialQuantity < 0 || in.ReorderThreshold < 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// CreateItem asigna el siguiente ID de artículo, persiste el artículo y registra el evento CREATED
// con Delta = InitialQuantity, todo en la misma unidad de trabajo.
func (l *Ledger) CreateItem(ctx context.Context, in CreateItemInput) (item *entity.Item, err error) {
	ctx, span := l.tracer.Start(ctx, "ledger.CreateItem")
	defer func() {
		endSpan(span, err)
		l.record(ctx, entity.ActionCreated, resultLabel(err))
	}()

	if err := in.normalize(); err != nil {
		return nil, err
	}

	err = l.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, logRepo repository.LogEntryRepository) error {
		id, err := itemRepo.NextID(ctx)
		if err != nil {
			return domain.NewStoreError("allocate item id", err)
		}
		now := l.now()
		created := &entity.Item{
			ID:               id,
			Name:             in.Name,
			Publisher:        in.Publisher,
			ISBN:             in.ISBN,
			Location:         in.Location,
			Quantity:         in.InitialQuantity,
			ReorderThreshold: in.ReorderThreshold,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := itemRepo.Create(ctx, created); err != nil {
			return domain.NewStoreError("create item", err)
		}
		if _, err := l.appendLog(ctx, logRepo, entity.ActionCreated, created, in.InitialQuantity, now); err != nil {
			return domain.NewStoreError("append log entry", err)
		}
		item = created
		return nil
	})
	if err != nil {
		err = domain.NewStoreError("create item", err)
		l.logFailure(err, "alta de artículo rechazada", 0, string(entity.ActionCreated), in.InitialQuantity)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("item.id", item.ID))
	l.log.Debug().Int64("item_id", item.ID).Str("name", item.Name).Int64("quantity", item.Quantity).Msg("artículo creado")
	return item, nil
}
