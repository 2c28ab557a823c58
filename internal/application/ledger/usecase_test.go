package ledger_test

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ledger-api/internal/application/ledger"
	"github.com/jhoicas/Ledger-api/internal/domain"
	"github.com/jhoicas/Ledger-api/internal/domain/entity"
	"github.com/jhoicas/Ledger-api/internal/domain/repository"
	"github.com/jhoicas/Ledger-api/internal/domain/stock"
	"github.com/jhoicas/Ledger-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: mismo contrato que los adaptadores de PostgreSQL, con el
// Recompute implementado sobre el espejo puro del agregador y un TxRunner que
// restaura el estado completo ante cualquier error (simula el rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	movements map[string]*entity.StockMovement
	order     []string // ids en orden de inserción
	snapshots map[string]*entity.ProductStockSnapshot
}

func newMemStore() *memStore {
	return &memStore{
		movements: map[string]*entity.StockMovement{},
		snapshots: map[string]*entity.ProductStockSnapshot{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, m := range s.movements {
		cp := *m
		c.movements[id] = &cp
	}
	c.order = append([]string(nil), s.order...)
	for id, snap := range s.snapshots {
		cp := *snap
		c.snapshots[id] = &cp
	}
	return c
}

func (s *memStore) movementsOf(productID string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, id := range s.order {
		if m, ok := s.movements[id]; ok && m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	if _, ok := r.s.movements[m.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *m
	r.s.movements[m.ID] = &cp
	r.s.order = append(r.s.order, m.ID)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	m, ok := r.s.movements[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMovementRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.movements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.movements, id)
	for i, mid := range r.s.order {
		if mid == id {
			r.s.order = append(r.s.order[:i], r.s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, productID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	movs := r.s.movementsOf(productID)
	// cronológico inverso
	var out []*entity.StockMovement
	for i := len(movs) - 1; i >= 0; i-- {
		m := movs[i]
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.AffectsForecast != nil && m.AffectsForecast != *f.AffectsForecast {
			continue
		}
		out = append(out, m)
	}
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

type memSnapshotRepo struct {
	s            *memStore
	recomputeErr error // simula un fallo de persistencia en el recálculo
}

func (r *memSnapshotRepo) Get(_ context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	snap, ok := r.s.snapshots[productID]
	if !ok {
		return nil, nil
	}
	cp := *snap
	return &cp, nil
}

func (r *memSnapshotRepo) GetForUpdate(_ context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	if _, ok := r.s.snapshots[productID]; !ok {
		r.s.snapshots[productID] = &entity.ProductStockSnapshot{ProductID: productID, UpdatedAt: time.Now()}
	}
	cp := *r.s.snapshots[productID]
	return &cp, nil
}

func (r *memSnapshotRepo) Recompute(_ context.Context, productID string) (*entity.ProductStockSnapshot, error) {
	if r.recomputeErr != nil {
		return nil, r.recomputeErr
	}
	minStock := int64(0)
	if prev, ok := r.s.snapshots[productID]; ok {
		minStock = prev.MinStock
	}
	snap := stock.ComputeSnapshot(productID, minStock, r.s.movementsOf(productID), time.Now())
	r.s.snapshots[productID] = &snap
	cp := snap
	return &cp, nil
}

func (r *memSnapshotRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductStockSnapshot, error) {
	ids := make([]string, 0, len(r.s.snapshots))
	for id := range r.s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*entity.ProductStockSnapshot
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		cp := *r.s.snapshots[ids[i]]
		out = append(out, &cp)
	}
	return out, nil
}

// memTxRunner ejecuta fn y, si falla, restaura el estado previo completo.
type memTxRunner struct {
	s        *memStore
	snapRepo *memSnapshotRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	snapRepo repository.StockSnapshotRepository,
) error) error {
	backup := r.s.clone()
	if err := fn(&memMovementRepo{s: r.s}, r.snapRepo); err != nil {
		*r.s = *backup
		return err
	}
	return nil
}

type memProductRepo struct{ existing map[string]bool }

func (r *memProductRepo) Exists(_ context.Context, productID string) (bool, error) {
	return r.existing[productID], nil
}

type fixture struct {
	store    *memStore
	snapRepo *memSnapshotRepo
	uc       *ledger.UseCase
}

func newFixture(products ...string) *fixture {
	store := newMemStore()
	snapRepo := &memSnapshotRepo{s: store}
	existing := map[string]bool{}
	for _, p := range products {
		existing[p] = true
	}
	uc := ledger.NewUseCase(
		&memTxRunner{s: store, snapRepo: snapRepo},
		&memProductRepo{existing: existing},
		logger.Nop(),
	)
	return &fixture{store: store, snapRepo: snapRepo, uc: uc}
}

func (f *fixture) append(t *testing.T, productID string, movType entity.MovementType, qty int64, forecast bool) *entity.StockMovement {
	t.Helper()
	mov, err := f.uc.AppendMovement(context.Background(), ledger.AppendMovementInput{
		ProductID:       productID,
		Type:            movType,
		QuantityChange:  qty,
		AffectsForecast: forecast,
	}, "user-1")
	require.NoError(t, err)
	return mov
}

func (f *fixture) snapshot(t *testing.T, productID string) *entity.ProductStockSnapshot {
	t.Helper()
	snap, ok := f.store.snapshots[productID]
	require.True(t, ok, "el producto %s debe tener snapshot", productID)
	return snap
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de movimientos
// ──────────────────────────────────────────────────────────────────────────────

// Escenario: entrada manual +10 deja stock real 10; una reserva de venta -3
// previsional no toca el real y aparece como salida comprometida.
func TestAppendMovement_RealYPrevisional(t *testing.T) {
	f := newFixture("p1")

	f.append(t, "p1", entity.MovementManualEntry, 10, false)
	snap := f.snapshot(t, "p1")
	assert.Equal(t, int64(10), snap.StockReal)
	assert.Zero(t, snap.StockForecastedOut)

	f.append(t, "p1", entity.MovementSaleReserved, -3, true)
	snap = f.snapshot(t, "p1")
	assert.Equal(t, int64(10), snap.StockReal, "la reserva no cambia el stock real")
	assert.Equal(t, int64(3), snap.StockForecastedOut)
}

func TestAppendMovement_AsignaIDActorYFecha(t *testing.T) {
	f := newFixture("p1")

	mov := f.append(t, "p1", entity.MovementManualEntry, 5, false)

	assert.NotEmpty(t, mov.ID)
	assert.Equal(t, "user-1", mov.CreatedBy)
	assert.WithinDuration(t, time.Now(), mov.CreatedAt, time.Minute)
}

func TestAppendMovement_Validaciones(t *testing.T) {
	f := newFixture("p1")
	ctx := context.Background()

	cases := []struct {
		name  string
		input ledger.AppendMovementInput
		actor string
		want  error
	}{
		{
			name:  "cantidad cero",
			input: ledger.AppendMovementInput{ProductID: "p1", Type: entity.MovementManualEntry},
			actor: "user-1",
			want:  domain.ErrValidation,
		},
		{
			name:  "tipo desconocido",
			input: ledger.AppendMovementInput{ProductID: "p1", Type: "teleport", QuantityChange: 1},
			actor: "user-1",
			want:  domain.ErrValidation,
		},
		{
			name: "sale_shipped no puede ser previsional",
			input: ledger.AppendMovementInput{
				ProductID: "p1", Type: entity.MovementSaleShipped,
				QuantityChange: -1, AffectsForecast: true,
			},
			actor: "user-1",
			want:  domain.ErrValidation,
		},
		{
			name: "sale_reserved debe ser previsional",
			input: ledger.AppendMovementInput{
				ProductID: "p1", Type: entity.MovementSaleReserved,
				QuantityChange: -1, AffectsForecast: false,
			},
			actor: "user-1",
			want:  domain.ErrValidation,
		},
		{
			name: "referencia a medias",
			input: ledger.AppendMovementInput{
				ProductID: "p1", Type: entity.MovementSaleShipped,
				QuantityChange: -1, ReferenceType: "sales_order",
			},
			actor: "user-1",
			want:  domain.ErrValidation,
		},
		{
			name:  "actor vacío",
			input: ledger.AppendMovementInput{ProductID: "p1", Type: entity.MovementManualEntry, QuantityChange: 1},
			want:  domain.ErrValidation,
		},
		{
			name:  "producto inexistente",
			input: ledger.AppendMovementInput{ProductID: "nope", Type: entity.MovementManualEntry, QuantityChange: 1},
			actor: "user-1",
			want:  domain.ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.AppendMovement(ctx, tc.input, tc.actor)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.store.movements, "ningún movimiento inválido debe persistirse")
}

func TestAppendMovement_CancellationAdmiteAmbosModos(t *testing.T) {
	f := newFixture("p1")

	// compensa una reserva previsional
	f.append(t, "p1", entity.MovementSaleReserved, -3, true)
	f.append(t, "p1", entity.MovementCancellation, 3, true)
	// compensa un envío real
	f.append(t, "p1", entity.MovementSaleShipped, -2, false)
	f.append(t, "p1", entity.MovementCancellation, 2, false)

	snap := f.snapshot(t, "p1")
	assert.Zero(t, snap.StockReal)
	assert.Zero(t, snap.StockForecastedOut)
	assert.Equal(t, int64(3), snap.StockForecastedIn, "la cancelación previsional entra como contrapartida positiva")
}

// Si el recálculo del snapshot falla, la escritura del ledger se revierte
// entera: nunca un ledger con snapshot desfasado.
func TestAppendMovement_FalloDeRecalculoRevierteTodo(t *testing.T) {
	f := newFixture("p1")
	f.append(t, "p1", entity.MovementManualEntry, 10, false)

	f.snapRepo.recomputeErr = fmt.Errorf("disco lleno")
	_, err := f.uc.AppendMovement(context.Background(), ledger.AppendMovementInput{
		ProductID: "p1", Type: entity.MovementSaleShipped, QuantityChange: -4,
	}, "user-1")

	assert.ErrorIs(t, err, domain.ErrConsistency)
	assert.Len(t, f.store.movements, 1, "el movimiento fallido no debe quedar en el ledger")
	assert.Equal(t, int64(10), f.snapshot(t, "p1").StockReal)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado guardado
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteMovement_ManualActualizaSnapshot(t *testing.T) {
	f := newFixture("p1")
	f.append(t, "p1", entity.MovementManualEntry, 10, false)
	adj := f.append(t, "p1", entity.MovementManualAdjustment, -4, false)
	require.Equal(t, int64(6), f.snapshot(t, "p1").StockReal)

	err := f.uc.DeleteMovement(context.Background(), adj.ID, "user-1")

	require.NoError(t, err)
	assert.Equal(t, int64(10), f.snapshot(t, "p1").StockReal, "el snapshot se recalcula tras el borrado")
	assert.Len(t, f.store.movements, 1)
}

// Escenario: el envío de la venta quedó trazado al pedido; el borrado manual
// se rechaza con el motivo exacto y el ledger queda intacto.
func TestDeleteMovement_VinculadoAPedidoRechazado(t *testing.T) {
	f := newFixture("p1")
	f.append(t, "p1", entity.MovementManualEntry, 3, false)
	shipped, err := f.uc.AppendMovement(context.Background(), ledger.AppendMovementInput{
		ProductID:      "p1",
		Type:           entity.MovementSaleShipped,
		QuantityChange: -3,
		ReferenceType:  "sales_order",
		ReferenceID:    "so-99",
	}, "user-1")
	require.NoError(t, err)

	err = f.uc.DeleteMovement(context.Background(), shipped.ID, "user-1")

	assert.ErrorIs(t, err, domain.ErrMovementLinkedToReference)
	assert.ErrorIs(t, err, domain.ErrForbiddenOperation)
	assert.Len(t, f.store.movements, 2, "el rechazo no debe tocar el ledger")
	assert.Equal(t, int64(0), f.snapshot(t, "p1").StockReal)
}

func TestDeleteMovement_PrevisionalRechazado(t *testing.T) {
	f := newFixture("p1")
	reserved := f.append(t, "p1", entity.MovementSaleReserved, -2, true)

	err := f.uc.DeleteMovement(context.Background(), reserved.ID, "user-1")

	assert.ErrorIs(t, err, domain.ErrMovementIsForecast)
	assert.Equal(t, int64(2), f.snapshot(t, "p1").StockForecastedOut)
}

func TestDeleteMovement_NoEncontrado(t *testing.T) {
	f := newFixture("p1")

	err := f.uc.DeleteMovement(context.Background(), "missing", "user-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad de invariante: tras cualquier secuencia de altas y borrados
// permitidos, stock_real iguala la suma de los movimientos reales vivos.
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_InvarianteBajoSecuenciasAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := newFixture("p1")
	ctx := context.Background()

	var deletable []string // ids de ajustes manuales (borrables)
	for i := 0; i < 300; i++ {
		if len(deletable) > 0 && rng.Intn(3) == 0 {
			idx := rng.Intn(len(deletable))
			id := deletable[idx]
			require.NoError(t, f.uc.DeleteMovement(ctx, id, "user-1"))
			deletable = append(deletable[:idx], deletable[idx+1:]...)
		} else {
			qty := int64(rng.Intn(21) - 10)
			if qty == 0 {
				qty = 1
			}
			var movType entity.MovementType
			var forecast bool
			switch rng.Intn(3) {
			case 0:
				movType, forecast = entity.MovementManualAdjustment, false
			case 1:
				movType, forecast = entity.MovementSaleReserved, true
				if qty > 0 {
					qty = -qty
				}
			default:
				movType, forecast = entity.MovementPurchaseReceived, false
			}
			mov, err := f.uc.AppendMovement(ctx, ledger.AppendMovementInput{
				ProductID:       "p1",
				Type:            movType,
				QuantityChange:  qty,
				AffectsForecast: forecast,
			}, "user-1")
			require.NoError(t, err)
			if movType == entity.MovementManualAdjustment {
				deletable = append(deletable, mov.ID)
			}
		}

		// I1: el snapshot materializado coincide con la suma directa.
		var wantReal int64
		for _, m := range f.store.movements {
			if !m.AffectsForecast {
				wantReal += m.QuantityChange
			}
		}
		require.Equal(t, wantReal, f.snapshot(t, "p1").StockReal, "paso %d", i)
	}
}
