package ledger

import (
	"context"

	"github.com/jhoicas/Ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el ledger y su snapshot se
// confirman o revierten juntos (nunca divergen).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		snapRepo repository.StockSnapshotRepository,
	) error) error
}
