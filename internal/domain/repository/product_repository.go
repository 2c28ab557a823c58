package repository

import "context"

// ProductRepository puerto mínimo hacia el catálogo (colaborador externo).
// El motor de ledger solo necesita saber si el producto existe.
type ProductRepository interface {
	Exists(ctx context.Context, productID string) (bool, error)
}
