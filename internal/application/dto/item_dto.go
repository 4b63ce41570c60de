package dto

import "time"

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name             string `json:"name"`
	Publisher        string `json:"publisher"`
	ISBN             string `json:"isbn"`
	Location         string `json:"location"`
	InitialQuantity  int64  `json:"initial_quantity"`
	ReorderThreshold int64  `json:"reorder_threshold"`
}

// ItemResponse representación de un artículo con su alerta evaluada.
type ItemResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Publisher        string    `json:"publisher"`
	ISBN             string    `json:"isbn"`
	Location         string    `json:"location"`
	Quantity         int64     `json:"quantity"`
	ReorderThreshold int64     `json:"reorder_threshold"`
	LowStock         bool      `json:"low_stock"`
	Shortfall        int64     `json:"shortfall"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LowStockResponse artículos en o por debajo del punto de reorden.
type LowStockResponse struct {
	Total int            `json:"total"`
	Items []ItemResponse `json:"items"`
}
