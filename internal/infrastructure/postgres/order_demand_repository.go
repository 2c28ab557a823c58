package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

var _ repository.PendingOrderDemandRepository = (*OrderDemandRepo)(nil)

// OrderDemandRepo lectura de la demanda viva del workflow de pedidos
// (tablas sales_orders / sales_order_items, propiedad del workflow).
type OrderDemandRepo struct {
	q Querier
}

// NewOrderDemandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderDemandRepository(q Querier) *OrderDemandRepo {
	return &OrderDemandRepo{q: q}
}

// ListPendingByProduct devuelve los pedidos confirmados aún no enviados que
// consumen el producto, con la cantidad comprometida por pedido.
func (r *OrderDemandRepo) ListPendingByProduct(ctx context.Context, productID string) ([]entity.PendingOrderRef, error) {
	query := `
		SELECT so.id, so.order_number, SUM(soi.quantity)
		FROM sales_orders so
		JOIN sales_order_items soi ON soi.sales_order_id = so.id
		WHERE soi.product_id = $1
		  AND so.status IN ('confirmed', 'processing', 'partially_shipped')
		GROUP BY so.id, so.order_number
		ORDER BY so.created_at`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	defer rows.Close()
	var refs []entity.PendingOrderRef
	for rows.Next() {
		var ref entity.PendingOrderRef
		if err := rows.Scan(&ref.OrderID, &ref.OrderNumber, &ref.Quantity); err != nil {
			return nil, fmt.Errorf("scan pending order: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
