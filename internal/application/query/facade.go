package query

import (
	"context"

	"github.com/jhoicas/Ledger-api/internal/application/alerts"
	"github.com/jhoicas/Ledger-api/internal/domain"
	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

// Facade vista de solo lectura del motor de stock para colaboradores externos
// (UI, dashboards). No expone ninguna vía de escritura: toda mutación pasa por
// el caso de uso del ledger.
type Facade struct {
	snapRepo  repository.StockSnapshotRepository
	movRepo   repository.StockMovementRepository
	evaluator *alerts.Evaluator
}

// NewFacade construye la fachada de consulta.
func NewFacade(snapRepo repository.StockSnapshotRepository, movRepo repository.StockMovementRepository, evaluator *alerts.Evaluator) *Facade {
	return &Facade{snapRepo: snapRepo, movRepo: movRepo, evaluator: evaluator}
}

// GetSnapshot devuelve el estado de stock materializado de un producto.
func (f *Facade) GetSnapshot(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	snap, err := f.snapRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, domain.ErrNotFound
	}
	return snap, nil
}

// ListMovements devuelve el historial de movimientos de un producto en orden
// cronológico inverso.
func (f *Facade) ListMovements(ctx context.Context, productID string, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Type != "" && !filter.Type.Known() {
		return nil, domain.ErrValidation
	}
	return f.movRepo.ListByProduct(ctx, productID, filter)
}

// ListAlerts devuelve las alertas activas, opcionalmente filtradas por tipo.
func (f *Facade) ListAlerts(ctx context.Context, filter entity.AlertType) ([]entity.StockAlert, error) {
	if filter != "" && !filter.Known() {
		return nil, domain.ErrValidation
	}
	return f.evaluator.EvaluateAll(ctx, filter)
}
