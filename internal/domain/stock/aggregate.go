package stock

import (
	"time"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
)

// ComputeSnapshot calcula los agregados de stock de un producto a partir de la
// lista completa de sus movimientos. Es el espejo puro del recálculo SQL del
// repositorio de snapshots: cualquier mutación confirmada del ledger debe
// dejar la fila materializada igual al resultado de esta función.
//
// Invariantes:
//   - stock_real = Σ quantity_change de los movimientos con affects_forecast = false
//   - stock_forecasted_out = Σ |quantity_change| de los previsionales negativos
//   - stock_forecasted_in  = Σ quantity_change de los previsionales positivos
//
// Todo en enteros; un stock real negativo se conserva tal cual (señala una
// sobreventa o una carrera de captura, y ocultarlo sería peor que mostrarlo).
func ComputeSnapshot(productID string, minStock int64, movements []*entity.StockMovement, at time.Time) entity.ProductStockSnapshot {
	snap := entity.ProductStockSnapshot{
		ProductID: productID,
		MinStock:  minStock,
		UpdatedAt: at,
	}
	for _, m := range movements {
		if m.ProductID != productID {
			continue
		}
		if !m.AffectsForecast {
			snap.StockReal += m.QuantityChange
			continue
		}
		if m.QuantityChange < 0 {
			snap.StockForecastedOut += -m.QuantityChange
		} else {
			snap.StockForecastedIn += m.QuantityChange
		}
	}
	return snap
}
