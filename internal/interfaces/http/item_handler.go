package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// ItemHandler maneja las peticiones HTTP de artículos.
type ItemHandler struct {
	ledger *ledger.Ledger
}

// NewItemHandler construye el handler.
func NewItemHandler(l *ledger.Ledger) *ItemHandler {
	return &ItemHandler{ledger: l}
}

// Create godoc
// @Summary      Dar de alta un artículo
// @Description  Crea el artículo con un ID nuevo y registra CREATED en la bitácora con delta = initial_quantity.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name y publisher requeridos"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.ledger.CreateItemFromRequest(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ledger.ToItemResponse(item))
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Produce      json
// @Param        id   path  int  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	item, err := h.ledger.GetItem(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ledger.ToItemResponse(item))
}

// List godoc
// @Summary      Listar artículos
// @Tags         items
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	items, err := h.ledger.ListItems(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ItemListResponse{
		Items: ledger.ToItemResponses(items),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	})
}

// LowStock godoc
// @Summary      Artículos en alerta de stock bajo
// @Description  Artículos con quantity <= reorder_threshold, con el faltante para salir de la alerta.
// @Tags         items
// @Produce      json
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.ledger.ListLowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LowStockResponse{
		Total: len(items),
		Items: ledger.ToItemResponses(items),
	})
}
