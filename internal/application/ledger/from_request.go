package ledger

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ApplyMovementFromRequest adapta el request HTTP al caso de uso ApplyMovement(ctx, MovementInput).
func (l *Ledger) ApplyMovementFromRequest(ctx context.Context, itemID int64, in dto.MovementRequest) (*MovementResult, error) {
	action := entity.Action(strings.ToUpper(strings.TrimSpace(in.Type)))
	if !action.IsMovement() {
		return nil, domain.ErrInvalidInput
	}
	return l.ApplyMovement(ctx, MovementInput{
		ItemID:    itemID,
		Action:    action,
		Quantity:  in.Quantity,
		RequestID: strings.TrimSpace(in.RequestID),
	})
}

// CreateItemFromRequest adapta el request HTTP al caso de uso CreateItem.
func (l *Ledger) CreateItemFromRequest(ctx context.Context, in dto.CreateItemRequest) (*entity.Item, error) {
	return l.CreateItem(ctx, CreateItemInput{
		Name:             in.Name,
		Publisher:        in.Publisher,
		ISBN:             in.ISBN,
		Location:         in.Location,
		InitialQuantity:  in.InitialQuantity,
		ReorderThreshold: in.ReorderThreshold,
	})
}
