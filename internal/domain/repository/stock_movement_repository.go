package repository

import (
	"context"

	"github.com/jhoicas/Ledger-api/internal/domain/entity"
)

// MovementFilter filtros de listado de movimientos.
type MovementFilter struct {
	Type            entity.MovementType // "" = todos
	AffectsForecast *bool               // nil = ambos
	Limit           int
	Offset          int
}

// StockMovementRepository define el puerto de persistencia del ledger.
// El ledger es append-only: no hay Update; Delete existe solo para el caso
// autorizado por el guard.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	Delete(ctx context.Context, id string) error
	// ListByProduct devuelve movimientos en orden cronológico inverso.
	ListByProduct(ctx context.Context, productID string, filter MovementFilter) ([]*entity.StockMovement, error)
}
