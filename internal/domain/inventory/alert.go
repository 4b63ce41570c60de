package inventory

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// IsLowStock implementa la alerta de stock bajo (servicio de dominio puro).
// El límite es inclusivo: Quantity == ReorderThreshold ya es alerta.
func IsLowStock(item entity.Item) bool {
	return item.Quantity <= item.ReorderThreshold
}

// Shortfall devuelve las unidades que faltan para salir de la zona de alerta
// (ReorderThreshold - Quantity + 1), o 0 si el artículo no está en alerta.
func Shortfall(item entity.Item) int64 {
	if !IsLowStock(item) {
		return 0
	}
	return item.ReorderThreshold - item.Quantity + 1
}
