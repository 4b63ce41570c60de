package entity

import "time"

// Action tipo de evento registrado en la bitácora.
type Action string

// Acciones de la bitácora de stock.
const (
	ActionCreated  Action = "CREATED"  // alta del artículo con stock inicial
	ActionInbound  Action = "INBOUND"  // entrada
	ActionOutbound Action = "OUTBOUND" // salida
)

// Valid indica si la acción es conocida.
func (a Action) Valid() bool {
	switch a {
	case ActionCreated, ActionInbound, ActionOutbound:
		return true
	}
	return false
}

// IsMovement indica si la acción es un movimiento (entrada o salida) aplicable a un artículo existente.
func (a Action) IsMovement() bool {
	return a == ActionInbound || a == ActionOutbound
}

// LogEntry registro inmutable de una mutación confirmada.
// ItemName es una copia del nombre al momento de la mutación, no una referencia viva.
type LogEntry struct {
	ID            int64
	TransactionID string
	Timestamp     time.Time
	Action        Action
	ItemID        int64
	ItemName      string
	Delta         int64 // positivo en CREATED/INBOUND, negativo en OUTBOUND
}
