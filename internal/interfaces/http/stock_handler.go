package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ledger-api/internal/application/dto"
	"github.com/jhoicas/Ledger-api/internal/application/ledger"
	"github.com/jhoicas/Ledger-api/internal/application/query"
	"github.com/jhoicas/Ledger-api/internal/domain"
	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

// StockHandler maneja las peticiones HTTP del motor de ledger (protegido).
type StockHandler struct {
	ledgerUC *ledger.UseCase
	facade   *query.Facade
}

// NewStockHandler construye el handler.
func NewStockHandler(ledgerUC *ledger.UseCase, facade *query.Facade) *StockHandler {
	return &StockHandler{ledgerUC: ledgerUC, facade: facade}
}

// AppendMovement godoc
// @Summary      Registrar movimiento en el ledger de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendMovementRequest  true  "product_id, movement_type, quantity_change, affects_forecast, reference opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) AppendMovement(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AppendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.ledgerUC.AppendMovement(c.Context(), ledger.AppendMovementInput{
		ProductID:       in.ProductID,
		Type:            entity.MovementType(in.MovementType),
		QuantityChange:  in.QuantityChange,
		AffectsForecast: in.AffectsForecast,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		UnitCost:        in.UnitCost,
		Notes:           in.Notes,
	}, actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// DeleteMovement godoc
// @Summary      Eliminar un movimiento manual del ledger
// @Description  Solo se admiten ajustes manuales reales; los movimientos
//
//	previsionales o vinculados a pedidos se rechazan con el motivo exacto.
//
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id} [delete]
func (h *StockHandler) DeleteMovement(c *fiber.Ctx) error {
	actor := GetUserID(c)
	if actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.ledgerUC.DeleteMovement(c.Context(), c.Params("id"), actor); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSnapshot godoc
// @Summary      Estado de stock materializado de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.SnapshotResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/snapshot [get]
func (h *StockHandler) GetSnapshot(c *fiber.Ctx) error {
	snap, err := h.facade.GetSnapshot(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SnapshotFromEntity(snap))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto (cronológico inverso)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id                path   string  true   "ID del producto"
// @Param        movement_type     query  string  false  "Filtrar por tipo de movimiento"
// @Param        affects_forecast  query  bool    false  "Filtrar reales/previsionales"
// @Param        limit             query  int     false  "Máximo de filas (default 20)"
// @Param        offset            query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.MovementFilter{
		Type:   entity.MovementType(c.Query("movement_type")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if raw := c.Query("affects_forecast"); raw != "" {
		affects := raw == "true" || raw == "1"
		filter.AffectsForecast = &affects
	}

	movs, err := h.facade.ListMovements(c.Context(), c.Params("id"), filter)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}

// ListAlerts godoc
// @Summary      Alertas de stock activas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        alert_type  query  string  false  "no_stock_but_ordered | out_of_stock | low_stock"
// @Success      200  {object}  dto.AlertListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/alerts [get]
func (h *StockHandler) ListAlerts(c *fiber.Ctx) error {
	alertsList, err := h.facade.ListAlerts(c.Context(), entity.AlertType(c.Query("alert_type")))
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.AlertListResponse{Alerts: make([]dto.AlertResponse, 0, len(alertsList))}
	for _, a := range alertsList {
		resp.Alerts = append(resp.Alerts, dto.AlertFromEntity(a))
		switch a.Severity {
		case entity.SeverityCritical:
			resp.Critical++
		case entity.SeverityWarning:
			resp.Warning++
		}
	}
	resp.Total = len(resp.Alerts)
	return c.JSON(resp)
}

// writeError mapea errores de dominio a HTTP. Los rechazos del guard llevan
// código y mensaje propios para que el operador vea el motivo exacto, no un
// error genérico.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrMovementLinkedToReference):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "MOVEMENT_LINKED_TO_REFERENCE",
			Message: "el movimiento pertenece a un pedido o compra: revierta desde el workflow de origen con un movimiento compensatorio",
		})
	case errors.Is(err, domain.ErrMovementIsForecast):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code:    "MOVEMENT_IS_FORECAST",
			Message: "el movimiento es previsional: se libera cancelando el pedido que lo creó",
		})
	case errors.Is(err, domain.ErrForbiddenOperation):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "operación no permitida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o movimiento no encontrado"})
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrConsistency):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONSISTENCY", Message: "no se pudo reconciliar el snapshot; la operación fue revertida"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
