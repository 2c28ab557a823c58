package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType causa cerrada de un movimiento de stock.
// Unión etiquetada: cada tipo tiene un emparejamiento esperado con AffectsForecast
// para que el guard y el agregador puedan hacer match exhaustivo.
type MovementType string

const (
	MovementManualAdjustment MovementType = "manual_adjustment" // ajuste manual de inventario
	MovementManualEntry      MovementType = "manual_entry"      // entrada manual (conteo inicial)
	MovementSaleReserved     MovementType = "sale_reserved"     // venta confirmada, pendiente de envío
	MovementSaleShipped      MovementType = "sale_shipped"      // venta enviada (stock real)
	MovementPurchaseReceived MovementType = "purchase_received" // compra recibida (stock real)
	MovementPurchaseOrdered  MovementType = "purchase_ordered"  // compra emitida, pendiente de recepción
	MovementReturn           MovementType = "return"            // devolución recibida (stock real)
	MovementCancellation     MovementType = "cancellation"      // anulación compensatoria (real o previsional)
)

// Known indica si el tipo pertenece a la unión cerrada.
func (t MovementType) Known() bool {
	switch t {
	case MovementManualAdjustment, MovementManualEntry,
		MovementSaleReserved, MovementSaleShipped,
		MovementPurchaseReceived, MovementPurchaseOrdered,
		MovementReturn, MovementCancellation:
		return true
	}
	return false
}

// AllowsForecast valida el emparejamiento tipo ↔ affects_forecast.
// sale_reserved y purchase_ordered son siempre previsionales; cancellation
// puede compensar tanto movimientos reales como previsionales; el resto
// afecta únicamente al stock real.
func (t MovementType) AllowsForecast(affectsForecast bool) bool {
	switch t {
	case MovementSaleReserved, MovementPurchaseOrdered:
		return affectsForecast
	case MovementCancellation:
		return true
	default:
		return !affectsForecast
	}
}

// IsManualReference indica si un reference_type corresponde a una acción
// humana directa (y por tanto reversible vía borrado).
func IsManualReference(referenceType string) bool {
	return referenceType == "" ||
		referenceType == string(MovementManualAdjustment) ||
		referenceType == string(MovementManualEntry)
}

// StockMovement entrada del ledger de stock. Inmutable una vez escrita;
// solo el guard puede autorizar su eliminación.
type StockMovement struct {
	ID              string
	ProductID       string
	Type            MovementType
	QuantityChange  int64  // con signo: positivo suma, negativo resta
	AffectsForecast bool   // true = previsional, false = real
	ReferenceType   string // objeto de negocio origen ("" = manual puro)
	ReferenceID     string
	UnitCost        *decimal.Decimal // costo unitario opcional (valoración)
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string // UserID del actor
}
