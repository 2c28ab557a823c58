package repository

import (
	"context"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
)

// StockSnapshotRepository puerto para la vista materializada de stock.
// La fila de snapshot es además el punto de serialización por producto:
// GetForUpdate la bloquea (SELECT FOR UPDATE) durante toda la transacción
// que muta el ledger.
type StockSnapshotRepository interface {
	Get(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error)
	// GetForUpdate crea la fila si no existe y la bloquea para la transacción actual.
	GetForUpdate(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error)
	// Recompute recalcula los agregados desde el ledger y actualiza la fila en sitio.
	Recompute(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ProductStockSnapshot, error)
}
