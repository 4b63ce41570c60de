package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger *ledger.Ledger
	Log    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log.Component("http")))

	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Ledger)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	// Antes de /:id para que "low-stock" no se interprete como ID
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/:id", itemHandler.GetByID)

	movementHandler := NewMovementHandler(deps.Ledger)
	items.Post("/:id/movements", movementHandler.Apply)
	items.Get("/:id/logs", movementHandler.History)
	items.Post("/:id/reconcile", movementHandler.Reconcile)

	api.Get("/logs", movementHandler.ListLog)
}
