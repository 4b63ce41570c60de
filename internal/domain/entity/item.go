package entity

import "time"

// Item representa un artículo del inventario (un título de libro de texto en el catálogo original).
// Quantity solo la modifica el Ledger; ReorderThreshold se fija al crear el artículo.
type Item struct {
	ID               int64
	Name             string
	Publisher        string
	ISBN             string
	Location         string // ubicación física (estante, bodega)
	Quantity         int64  // stock disponible, nunca negativo
	ReorderThreshold int64  // punto de reorden: en o por debajo se marca alerta
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
