package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

var _ repository.StockSnapshotRepository = (*StockSnapshotRepo)(nil)

// StockSnapshotRepo vista materializada de stock sobre PostgreSQL
// (tabla product_stock_snapshots, una fila por producto).
type StockSnapshotRepo struct {
	q Querier
}

// NewStockSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockSnapshotRepository(q Querier) *StockSnapshotRepo {
	return &StockSnapshotRepo{q: q}
}

const snapshotColumns = `product_id, stock_real, stock_forecasted_in, stock_forecasted_out, min_stock, updated_at`

// Get obtiene el snapshot de un producto. Devuelve nil, nil si no existe.
func (r *StockSnapshotRepo) Get(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM product_stock_snapshots WHERE product_id = $1`
	s, err := scanSnapshot(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return s, nil
}

// GetForUpdate bloquea la fila del producto para la transacción actual
// (SELECT FOR UPDATE). Si el producto aún no tiene fila, la crea en ceros
// dentro de la misma transacción; el primer escritor gana y los demás quedan
// serializados detrás del lock.
func (r *StockSnapshotRepo) GetForUpdate(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	insert := `
		INSERT INTO product_stock_snapshots (product_id, stock_real, stock_forecasted_in, stock_forecasted_out, min_stock, updated_at)
		VALUES ($1, 0, 0, 0, 0, now())
		ON CONFLICT (product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, productID); err != nil {
		return nil, fmt.Errorf("init snapshot: %w", err)
	}
	query := `SELECT ` + snapshotColumns + ` FROM product_stock_snapshots WHERE product_id = $1 FOR UPDATE`
	s, err := scanSnapshot(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("get snapshot for update: %w", err)
	}
	return s, nil
}

// Recompute recalcula los agregados desde el ledger y actualiza la fila en
// sitio, preservando min_stock (configurado externamente). Debe invocarse con
// la fila ya bloqueada, en la misma transacción que la mutación del ledger.
func (r *StockSnapshotRepo) Recompute(ctx context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	query := `
		UPDATE product_stock_snapshots s SET
			stock_real = COALESCE((
				SELECT SUM(m.quantity_change) FROM stock_movements m
				WHERE m.product_id = s.product_id AND NOT m.affects_forecast), 0),
			stock_forecasted_in = COALESCE((
				SELECT SUM(m.quantity_change) FROM stock_movements m
				WHERE m.product_id = s.product_id AND m.affects_forecast AND m.quantity_change > 0), 0),
			stock_forecasted_out = COALESCE((
				SELECT SUM(-m.quantity_change) FROM stock_movements m
				WHERE m.product_id = s.product_id AND m.affects_forecast AND m.quantity_change < 0), 0),
			updated_at = now()
		WHERE s.product_id = $1
		RETURNING ` + snapshotColumns
	s, err := scanSnapshot(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("recompute snapshot: %w", err)
	}
	return s, nil
}

// List pagina los snapshots por product_id (orden estable para el recorrido
// por lotes del evaluador).
func (r *StockSnapshotRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductStockSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM product_stock_snapshots ORDER BY product_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductStockSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSnapshot(row pgx.Row) (*entity.ProductStockSnapshot, error) {
	var s entity.ProductStockSnapshot
	if err := row.Scan(
		&s.ProductID, &s.StockReal, &s.StockForecastedIn, &s.StockForecastedOut,
		&s.MinStock, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
