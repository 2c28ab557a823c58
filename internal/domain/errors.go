package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound    = errors.New("recurso no encontrado")
	ErrValidation  = errors.New("movimiento inválido")
	ErrDuplicate   = errors.New("recurso duplicado")
	ErrConsistency = errors.New("el snapshot no pudo reconciliarse con el ledger")

	// ErrForbiddenOperation agrupa los rechazos del guard de movimientos.
	// Las variantes concretas lo envuelven para que el caller pueda distinguir
	// el motivo exacto con errors.Is y mostrarlo al operador.
	ErrForbiddenOperation = errors.New("operación no permitida sobre el ledger")

	// ErrMovementLinkedToReference el movimiento fue generado por un workflow
	// de negocio (pedido/compra): se revierte con un movimiento compensatorio,
	// nunca borrando historial.
	ErrMovementLinkedToReference = fmt.Errorf("%w: movimiento vinculado a un objeto de negocio", ErrForbiddenOperation)

	// ErrMovementIsForecast los movimientos previsionales se liberan desde el
	// workflow que los creó, no por borrado manual.
	ErrMovementIsForecast = fmt.Errorf("%w: movimiento previsional", ErrForbiddenOperation)
)
