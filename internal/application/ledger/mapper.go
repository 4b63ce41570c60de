package ledger

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// ToItemResponse mapea un artículo a su DTO, con la alerta evaluada.
func ToItemResponse(item *entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Publisher:        item.Publisher,
		ISBN:             item.ISBN,
		Location:         item.Location,
		Quantity:         item.Quantity,
		ReorderThreshold: item.ReorderThreshold,
		LowStock:         inventory.IsLowStock(*item),
		Shortfall:        inventory.Shortfall(*item),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ToItemResponses mapea una lista; nunca devuelve nil (JSON []).
func ToItemResponses(items []*entity.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToItemResponse(item))
	}
	return out
}

// ToLogEntryResponse mapea un registro de bitácora.
func ToLogEntryResponse(e *entity.LogEntry) dto.LogEntryResponse {
	return dto.LogEntryResponse{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		Timestamp:     e.Timestamp,
		Action:        string(e.Action),
		ItemID:        e.ItemID,
		ItemName:      e.ItemName,
		Delta:         e.Delta,
	}
}

// ToLogEntryResponses mapea una lista; nunca devuelve nil.
func ToLogEntryResponses(entries []*entity.LogEntry) []dto.LogEntryResponse {
	out := make([]dto.LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToLogEntryResponse(e))
	}
	return out
}

// ToMovementResponse mapea el resultado de ApplyMovement.
func ToMovementResponse(res *MovementResult) dto.MovementResponse {
	return dto.MovementResponse{
		ItemID:      res.Item.ID,
		NewQuantity: res.NewQuantity(),
		LowStock:    res.LowStock,
		LogEntry:    ToLogEntryResponse(res.LogEntry),
	}
}

// ToReconcileResponse mapea el resultado de Reconcile.
func ToReconcileResponse(res ReconcileResult) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		ItemID:         res.ItemID,
		StoredQuantity: res.StoredQuantity,
		LogQuantity:    res.LogQuantity,
		Drift:          res.Drift,
		Repaired:       res.Repaired,
	}
}
