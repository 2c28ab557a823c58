package alerts

import (
	"context"

	"github.com/jhoicas/Ledger-api/internal/domain"
	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

// evaluateAllBatchSize tamaño de lote para recorrer el catálogo sin
// materializarlo entero en memoria.
const evaluateAllBatchSize = 200

// Evaluator clasifica productos en alertas de stock a partir del snapshot
// materializado y la demanda viva de pedidos. Solo lectura e idempotente:
// con el mismo estado de entrada produce siempre el mismo resultado.
type Evaluator struct {
	snapRepo   repository.StockSnapshotRepository
	demandRepo repository.PendingOrderDemandRepository
}

// NewEvaluator construye el evaluador.
func NewEvaluator(snapRepo repository.StockSnapshotRepository, demandRepo repository.PendingOrderDemandRepository) *Evaluator {
	return &Evaluator{snapRepo: snapRepo, demandRepo: demandRepo}
}

// Evaluate devuelve la alerta del producto o nil si no hay ninguna
// (stock_real >= min_stock sin sobreventa).
func (e *Evaluator) Evaluate(ctx context.Context, productID string) (*entity.StockAlert, error) {
	snap, err := e.snapRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrNotFound
	}
	return e.alertFor(ctx, snap)
}

// EvaluateAll recorre los snapshots por lotes y devuelve las alertas activas,
// opcionalmente filtradas por tipo ("" = todas).
func (e *Evaluator) EvaluateAll(ctx context.Context, filter entity.AlertType) ([]entity.StockAlert, error) {
	var out []entity.StockAlert
	for offset := 0; ; offset += evaluateAllBatchSize {
		batch, err := e.snapRepo.List(ctx, evaluateAllBatchSize, offset)
		if err != nil {
			return nil, err
		}
		for _, snap := range batch {
			alert, err := e.alertFor(ctx, snap)
			if err != nil {
				return nil, err
			}
			if alert == nil {
				continue
			}
			if filter != "" && alert.Type != filter {
				continue
			}
			out = append(out, *alert)
		}
		if len(batch) < evaluateAllBatchSize {
			return out, nil
		}
	}
}

// alertFor aplica la precedencia de categorías sobre un snapshot.
// La demanda de pedidos solo se consulta cuando hace falta (no_stock_but_ordered).
func (e *Evaluator) alertFor(ctx context.Context, snap *entity.ProductStockSnapshot) (*entity.StockAlert, error) {
	alertType, severity, shortage, ok := Classify(snap)
	if !ok {
		return nil, nil
	}
	alert := &entity.StockAlert{
		ProductID:        snap.ProductID,
		Type:             alertType,
		Severity:         severity,
		StockReal:        snap.StockReal,
		MinStock:         snap.MinStock,
		ShortageQuantity: shortage,
	}
	if alertType == entity.AlertNoStockButOrdered {
		orders, err := e.demandRepo.ListPendingByProduct(ctx, snap.ProductID)
		if err != nil {
			return nil, err
		}
		alert.RelatedOrders = orders
	}
	return alert, nil
}

// Classify es la clasificación pura de un snapshot, en orden estricto de
// precedencia (un producto cae como máximo en una categoría):
//
//  1. no_stock_but_ordered: stock_real <= 0 con salidas previsionales comprometidas
//  2. out_of_stock: stock_real <= 0 sin compromisos pendientes
//  3. low_stock: 0 < stock_real < min_stock
//
// ok=false significa que no aplica ninguna alerta.
func Classify(snap *entity.ProductStockSnapshot) (alertType entity.AlertType, severity entity.AlertSeverity, shortage int64, ok bool) {
	switch {
	case snap.StockReal <= 0 && snap.StockForecastedOut > 0:
		// Faltante = todo lo comprometido, el stock real ya no cubre nada.
		return entity.AlertNoStockButOrdered, entity.SeverityCritical, snap.StockForecastedOut, true
	case snap.StockReal <= 0:
		shortage = 0
		if snap.MinStock > snap.StockReal {
			shortage = snap.MinStock - snap.StockReal
		}
		return entity.AlertOutOfStock, entity.SeverityCritical, shortage, true
	case snap.StockReal < snap.MinStock:
		return entity.AlertLowStock, entity.SeverityWarning, snap.MinStock - snap.StockReal, true
	default:
		return "", "", 0, false
	}
}
