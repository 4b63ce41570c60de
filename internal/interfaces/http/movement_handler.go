package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// MovementHandler maneja movimientos, bitácora y conciliación.
type MovementHandler struct {
	ledger *ledger.Ledger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(l *ledger.Ledger) *MovementHandler {
	return &MovementHandler{ledger: l}
}

// Apply godoc
// @Summary      Registrar entrada o salida
// @Description  La cantidad y el registro de bitácora se confirman juntos; una salida mayor al stock se rechaza.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        id    path  int                  true  "ID del artículo"
// @Param        body  body  dto.MovementRequest  true  "type INBOUND|OUTBOUND, quantity > 0, request_id opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [post]
func (h *MovementHandler) Apply(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.ledger.ApplyMovementFromRequest(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ledger.ToMovementResponse(res))
}

// History godoc
// @Summary      Bitácora de un artículo
// @Tags         movements
// @Produce      json
// @Param        id      path   int  true   "ID del artículo"
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.LogListResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/items/{id}/logs [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	page := pageFromQuery(c)
	entries, err := h.ledger.History(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LogListResponse{
		Logs: ledger.ToLogEntryResponses(entries),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(entries)},
	})
}

// ListLog godoc
// @Summary      Bitácora completa
// @Tags         movements
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.LogListResponse
// @Router       /api/logs [get]
func (h *MovementHandler) ListLog(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	entries, err := h.ledger.ListLog(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LogListResponse{
		Logs: ledger.ToLogEntryResponses(entries),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(entries)},
	})
}

// Reconcile godoc
// @Summary      Conciliar stock con la bitácora
// @Description  Compara quantity con la suma de deltas. Con repair=true reescribe quantity con esa suma.
// @Tags         movements
// @Produce      json
// @Param        id      path   int   true   "ID del artículo"
// @Param        repair  query  bool  false  "Reparar la desviación"  default(false)
// @Success      200     {object}  dto.ReconcileResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/items/{id}/reconcile [post]
func (h *MovementHandler) Reconcile(c *fiber.Ctx) error {
	id, err := itemID(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.ledger.Reconcile(c.UserContext(), id, c.QueryBool("repair", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ledger.ToReconcileResponse(res))
}
