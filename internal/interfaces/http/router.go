package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ledger-api/internal/application/ledger"
	"github.com/jhoicas/Ledger-api/internal/application/query"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *ledger.UseCase
	Facade    *query.Facade
	JWTSecret string
}

// Router registra las rutas de la API. Todas las rutas de stock requieren
// Bearer Token: el actor del token queda como created_by en el ledger.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/stock", AuthMiddleware(deps.JWTSecret))
	handler := NewStockHandler(deps.LedgerUC, deps.Facade)

	protected.Post("/movements", handler.AppendMovement)
	protected.Delete("/movements/:id", handler.DeleteMovement)
	protected.Get("/products/:id/snapshot", handler.GetSnapshot)
	protected.Get("/products/:id/movements", handler.ListMovements)
	protected.Get("/alerts", handler.ListAlerts)
}
