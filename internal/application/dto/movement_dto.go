package dto

import "time"

// MovementRequest body para POST /api/items/:id/movements.
// RequestID opcional: si se repite, el movimiento se rechaza como duplicado.
type MovementRequest struct {
	Type      string `json:"type"` // INBOUND | OUTBOUND
	Quantity  int64  `json:"quantity"`
	RequestID string `json:"request_id,omitempty"`
}

// MovementResponse resultado de un movimiento confirmado.
type MovementResponse struct {
	ItemID      int64            `json:"item_id"`
	NewQuantity int64            `json:"new_quantity"`
	LowStock    bool             `json:"low_stock"`
	LogEntry    LogEntryResponse `json:"log_entry"`
}

// LogEntryResponse registro de la bitácora.
type LogEntryResponse struct {
	ID            int64     `json:"id"`
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	ItemID        int64     `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Delta         int64     `json:"delta"`
}

// LogListResponse listado paginado de la bitácora.
type LogListResponse struct {
	Logs []LogEntryResponse `json:"logs"`
	Page PageResponse       `json:"page"`
}

// ReconcileResponse resultado de conciliar un artículo contra su bitácora.
type ReconcileResponse struct {
	ItemID         int64 `json:"item_id"`
	StoredQuantity int64 `json:"stored_quantity"`
	LogQuantity    int64 `json:"log_quantity"`
	Drift          int64 `json:"drift"`
	Repaired       bool  `json:"repaired"`
}
