package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo consulta mínima al catálogo de productos (tabla externa al motor).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Exists indica si el producto existe y no está archivado.
func (r *ProductRepo) Exists(ctx context.Context, productID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND archived_at IS NULL)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("product exists: %w", err)
	}
	return exists, nil
}
