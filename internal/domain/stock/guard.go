package stock

import (
	"github.com/jhoicas/Ledger-api/internal/domain"
	"github.com/jhoicas/Ledger-api/internal/domain/entity"
)

// CanDelete decide si un movimiento del ledger puede eliminarse sin romper la
// trazabilidad. Solo los ajustes manuales reales (affects_forecast = false y
// reference_type nulo o manual) son reversibles por borrado; todo lo demás se
// corrige emitiendo un movimiento compensatorio desde el workflow de origen.
//
// Devuelve nil si el borrado es seguro, o el motivo concreto de rechazo
// (ambos motivos cumplen errors.Is(err, domain.ErrForbiddenOperation)).
func CanDelete(m *entity.StockMovement) error {
	if m == nil {
		return domain.ErrNotFound
	}
	if m.AffectsForecast {
		return domain.ErrMovementIsForecast
	}
	if !entity.IsManualReference(m.ReferenceType) {
		return domain.ErrMovementLinkedToReference
	}
	return nil
}
