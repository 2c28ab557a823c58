package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
)

// AppendMovementRequest body para POST /api/stock/movements.
type AppendMovementRequest struct {
	ProductID       string           `json:"product_id"`
	MovementType    string           `json:"movement_type"`
	QuantityChange  int64            `json:"quantity_change"`
	AffectsForecast bool             `json:"affects_forecast"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// MovementResponse representación HTTP de una entrada del ledger.
type MovementResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	MovementType    string           `json:"movement_type"`
	QuantityChange  int64            `json:"quantity_change"`
	AffectsForecast bool             `json:"affects_forecast"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost       *decimal.Decimal `json:"total_cost,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	CreatedBy       string           `json:"created_by,omitempty"`
}

// MovementFromEntity mapea la entidad al DTO, valorando el movimiento si
// lleva costo unitario (total = |cantidad| * costo).
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		MovementType:    string(m.Type),
		QuantityChange:  m.QuantityChange,
		AffectsForecast: m.AffectsForecast,
		ReferenceType:   m.ReferenceType,
		ReferenceID:     m.ReferenceID,
		UnitCost:        m.UnitCost,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
	if m.UnitCost != nil {
		qty := m.QuantityChange
		if qty < 0 {
			qty = -qty
		}
		total := m.UnitCost.Mul(decimal.NewFromInt(qty))
		resp.TotalCost = &total
	}
	return resp
}

// SnapshotResponse estado de stock materializado de un producto.
type SnapshotResponse struct {
	ProductID          string    `json:"product_id"`
	StockReal          int64     `json:"stock_real"`
	StockForecastedIn  int64     `json:"stock_forecasted_in"`
	StockForecastedOut int64     `json:"stock_forecasted_out"`
	MinStock           int64     `json:"min_stock"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SnapshotFromEntity mapea la entidad al DTO.
func SnapshotFromEntity(s *entity.ProductStockSnapshot) SnapshotResponse {
	return SnapshotResponse{
		ProductID:          s.ProductID,
		StockReal:          s.StockReal,
		StockForecastedIn:  s.StockForecastedIn,
		StockForecastedOut: s.StockForecastedOut,
		MinStock:           s.MinStock,
		UpdatedAt:          s.UpdatedAt,
	}
}

// RelatedOrderDTO pedido pendiente que consume el producto alertado.
type RelatedOrderDTO struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// AlertResponse alerta de stock activa.
type AlertResponse struct {
	ProductID        string            `json:"product_id"`
	AlertType        string            `json:"alert_type"`
	Severity         string            `json:"severity"`
	StockReal        int64             `json:"stock_real"`
	MinStock         int64             `json:"min_stock"`
	ShortageQuantity int64             `json:"shortage_quantity"`
	RelatedOrders    []RelatedOrderDTO `json:"related_orders,omitempty"`
}

// AlertFromEntity mapea la entidad al DTO.
func AlertFromEntity(a entity.StockAlert) AlertResponse {
	resp := AlertResponse{
		ProductID:        a.ProductID,
		AlertType:        string(a.Type),
		Severity:         string(a.Severity),
		StockReal:        a.StockReal,
		MinStock:         a.MinStock,
		ShortageQuantity: a.ShortageQuantity,
	}
	for _, o := range a.RelatedOrders {
		resp.RelatedOrders = append(resp.RelatedOrders, RelatedOrderDTO{
			OrderID:     o.OrderID,
			OrderNumber: o.OrderNumber,
			Quantity:    o.Quantity,
		})
	}
	return resp
}

// AlertListResponse listado de alertas con contadores para badges del dashboard.
type AlertListResponse struct {
	Total    int             `json:"total"`
	Critical int             `json:"critical"`
	Warning  int             `json:"warning"`
	Alerts   []AlertResponse `json:"alerts"`
}
