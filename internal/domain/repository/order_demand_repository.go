package repository

import (
	"context"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
)

// PendingOrderDemandRepository puerto de solo lectura hacia el workflow de
// pedidos: pedidos activos que consumen un producto. No forma parte del
// ledger; el evaluador de alertas lo usa para enriquecer no_stock_but_ordered.
type PendingOrderDemandRepository interface {
	ListPendingByProduct(ctx context.Context, productID string) ([]entity.PendingOrderRef, error)
}
