package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ledger-api/internal/domain"
	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
	"github.com/jhoicas/Ledger-api/internal/domain/stock"
	"github.com/jhoicas/Ledger-api/pkg/logger"
)

// UseCase es la única vía de escritura sobre el estado de stock: valida el
// movimiento, lo persiste y recalcula el snapshot del producto dentro de una
// misma transacción con la fila de snapshot bloqueada (SELECT FOR UPDATE),
// de modo que dos escritores concurrentes sobre el mismo producto quedan
// serializados y productos distintos no se bloquean entre sí.
type UseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewUseCase construye el caso de uso del ledger.
func NewUseCase(txRunner TxRunner, productRepo repository.ProductRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, log: log}
}

// AppendMovementInput entrada para registrar un movimiento en el ledger.
type AppendMovementInput struct {
	ProductID       string
	Type            entity.MovementType
	QuantityChange  int64
	AffectsForecast bool
	ReferenceType   string
	ReferenceID     string
	UnitCost        *decimal.Decimal
	Notes           string
}

// AppendMovement registra un movimiento y deja el snapshot consistente con el
// ledger antes de confirmar. actor es el UserID que origina la operación
// (siempre explícito, nunca estado ambiente).
func (uc *UseCase) AppendMovement(ctx context.Context, input AppendMovementInput, actor string) (*entity.StockMovement, error) {
	if err := validateInput(input, actor); err != nil {
		return nil, err
	}

	exists, err := uc.productRepo.Exists(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       input.ProductID,
		Type:            input.Type,
		QuantityChange:  input.QuantityChange,
		AffectsForecast: input.AffectsForecast,
		ReferenceType:   input.ReferenceType,
		ReferenceID:     input.ReferenceID,
		UnitCost:        input.UnitCost,
		Notes:           input.Notes,
		CreatedAt:       time.Now(),
		CreatedBy:       actor,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		snapRepo repository.StockSnapshotRepository,
	) error {
		// Bloquea la fila de snapshot del producto: serializa los escritores
		// concurrentes del mismo producto durante toda la transacción.
		if _, err := snapRepo.GetForUpdate(ctx, mov.ProductID); err != nil {
			return err
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if _, err := snapRepo.Recompute(ctx, mov.ProductID); err != nil {
			// El rollback de la tx revierte también el insert: ledger y
			// snapshot nunca divergen.
			return fmt.Errorf("%w: %v", domain.ErrConsistency, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("type", string(mov.Type)).
		Int64("quantity_change", mov.QuantityChange).
		Bool("affects_forecast", mov.AffectsForecast).
		Str("actor", actor).
		Msg("movimiento registrado")
	return mov, nil
}

// DeleteMovement elimina un movimiento si el guard lo autoriza y recalcula el
// snapshot en la misma transacción. Los rechazos llevan el motivo concreto
// (previsional / vinculado a referencia / no encontrado).
func (uc *UseCase) DeleteMovement(ctx context.Context, id, actor string) error {
	if id == "" || actor == "" {
		return domain.ErrValidation
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		snapRepo repository.StockSnapshotRepository,
	) error {
		mov, err := movRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if _, err := snapRepo.GetForUpdate(ctx, mov.ProductID); err != nil {
			return err
		}
		if err := stock.CanDelete(mov); err != nil {
			return err
		}
		if err := movRepo.Delete(ctx, id); err != nil {
			return err
		}
		if _, err := snapRepo.Recompute(ctx, mov.ProductID); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrConsistency, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.log.Info().
		Str("movement_id", id).
		Str("actor", actor).
		Msg("movimiento eliminado")
	return nil
}

// validateInput valida cantidad, tipo y emparejamiento tipo ↔ affects_forecast.
func validateInput(input AppendMovementInput, actor string) error {
	if input.ProductID == "" || actor == "" {
		return domain.ErrValidation
	}
	if input.QuantityChange == 0 {
		return fmt.Errorf("%w: quantity_change no puede ser cero", domain.ErrValidation)
	}
	if !input.Type.Known() {
		return fmt.Errorf("%w: movement_type desconocido %q", domain.ErrValidation, input.Type)
	}
	if !input.Type.AllowsForecast(input.AffectsForecast) {
		return fmt.Errorf("%w: %s no admite affects_forecast=%t", domain.ErrValidation, input.Type, input.AffectsForecast)
	}
	// reference_type y reference_id van juntos: una referencia a medias no es trazable.
	if (input.ReferenceType == "") != (input.ReferenceID == "") {
		return fmt.Errorf("%w: reference_type y reference_id deben ir juntos", domain.ErrValidation)
	}
	if input.UnitCost != nil && input.UnitCost.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: unit_cost negativo", domain.ErrValidation)
	}
	return nil
}
