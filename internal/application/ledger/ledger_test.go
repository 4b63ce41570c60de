package ledger_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 4, 1, 8, 30, 0, 0, time.UTC)

func newLedger(t *testing.T, opts ...ledger.Option) (*ledger.Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	opts = append([]ledger.Option{ledger.WithClock(func() time.Time { return fixedNow })}, opts...)
	return ledger.New(store, store.Items(), store.Logs(), nil, opts...), store
}

// createItem da de alta un artículo con la cantidad y umbral indicados.
func createItem(t *testing.T, l *ledger.Ledger, qty, threshold int64) *entity.Item {
	t.Helper()
	item, err := l.CreateItem(context.Background(), ledger.CreateItemInput{
		Name:             "Matemáticas I",
		Publisher:        "Editorial Norma",
		ISBN:             "978-958-04-0000-1",
		Location:         "A-1",
		InitialQuantity:  qty,
		ReorderThreshold: threshold,
	})
	require.NoError(t, err)
	return item
}

func outbound(l *ledger.Ledger, id, qty int64) (*ledger.MovementResult, error) {
	return l.ApplyMovement(context.Background(), ledger.MovementInput{ItemID: id, Action: entity.ActionOutbound, Quantity: qty})
}

func inbound(l *ledger.Ledger, id, qty int64) (*ledger.MovementResult, error) {
	return l.ApplyMovement(context.Background(), ledger.MovementInput{ItemID: id, Action: entity.ActionInbound, Quantity: qty})
}

// assertLedgerInvariant verifica que la cantidad de cada artículo es la suma de sus Delta.
func assertLedgerInvariant(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	items, err := store.Items().List(ctx, 0, 0)
	require.NoError(t, err)
	for _, it := range items {
		sum, err := store.Logs().SumDeltaByItem(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, sum, it.Quantity, "item %d: quantity debe ser la suma de la bitácora", it.ID)
		assert.GreaterOrEqual(t, it.Quantity, int64(0), "item %d: quantity nunca negativa", it.ID)
	}
}

// failingLogRunner envuelve un TxRunner y hace fallar cada Append de la bitácora.
type failingLogRunner struct {
	inner ledger.TxRunner
	err   error
}

func (r failingLogRunner) Run(ctx context.Context, fn func(repository.ItemRepository, repository.LogEntryRepository) error) error {
	return r.inner.Run(ctx, func(items repository.ItemRepository, logs repository.LogEntryRepository) error {
		return fn(items, failingLogs{LogEntryRepository: logs, err: r.err})
	})
}

type failingLogs struct {
	repository.LogEntryRepository
	err error
}

func (f failingLogs) Append(context.Context, *entity.LogEntry) error { return f.err }

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: salida de 3 sobre 10 deja 7, un registro OUTBOUND -3, sin alerta.
func TestApplyMovement_SalidaValida(t *testing.T) {
	l, store := newLedger(t)
	item := createItem(t, l, 10, 5)

	res, err := outbound(l, item.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(7), res.NewQuantity())
	assert.False(t, res.LowStock)
	assert.Equal(t, entity.ActionOutbound, res.LogEntry.Action)
	assert.Equal(t, int64(-3), res.LogEntry.Delta)
	assert.Equal(t, "Matemáticas I", res.LogEntry.ItemName)
	assert.Equal(t, fixedNow, res.LogEntry.Timestamp)
	assert.NotEmpty(t, res.LogEntry.TransactionID)

	history, err := l.History(context.Background(), item.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, history, 2, "CREATED + OUTBOUND")
	assert.Equal(t, entity.ActionOutbound, history[0].Action)
	assertLedgerInvariant(t, store)
}

// Escenario B: salida de 15 sobre 10 se rechaza sin cambios ni registro.
func TestApplyMovement_StockInsuficiente(t *testing.T) {
	l, store := newLedger(t)
	item := createItem(t, l, 10, 5)

	_, err := outbound(l, item.ID, 15)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := l.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)

	logs, _ := l.ListLog(context.Background(), 10, 0)
	assert.Len(t, logs, 1, "solo el registro de alta")
	assertLedgerInvariant(t, store)
}

// Salida 8 sobre 10 es válida (deja 2).
func TestApplyMovement_SalidaDejaDos(t *testing.T) {
	l, _ := newLedger(t)
	item := createItem(t, l, 10, 5)

	res, err := outbound(l, item.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.NewQuantity())
	assert.True(t, res.LowStock)
}

// Escenario C: 6 con umbral 5, salida de 2 deja 4 en alerta.
func TestApplyMovement_EntraEnAlerta(t *testing.T) {
	l, _ := newLedger(t)
	item := createItem(t, l, 6, 5)

	res, err := outbound(l, item.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.NewQuantity())
	assert.True(t, res.LowStock)
	assert.True(t, inventory.IsLowStock(*res.Item))
}

// Escenario D: alta con 20 unidades registra CREATED +20.
func TestCreateItem_RegistraAlta(t *testing.T) {
	l, store := newLedger(t)
	item := createItem(t, l, 20, 5)

	assert.Equal(t, int64(1), item.ID, "almacén vacío: el primer ID es 1")
	assert.Equal(t, int64(20), item.Quantity)

	logs, err := l.History(context.Background(), item.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionCreated, logs[0].Action)
	assert.Equal(t, int64(20), logs[0].Delta)
	assert.Equal(t, item.ID, logs[0].ItemID)
	assertLedgerInvariant(t, store)
}

// Escenario E: dos salidas concurrentes de 5 sobre 5, exactamente una gana.
func TestApplyMovement_ConcurrenciaSinActualizacionPerdida(t *testing.T) {
	for round := 0; round < 50; round++ {
		l, store := newLedger(t)
		item := createItem(t, l, 5, 1)

		var (
			wg    sync.WaitGroup
			start = make(chan struct{})
			errs  = make([]error, 2)
		)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = outbound(l, item.ID, 5)
			}(i)
		}
		close(start)
		wg.Wait()

		var ok, insufficient int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient++
			default:
				t.Fatalf("error inesperado: %v", err)
			}
		}
		require.Equal(t, 1, ok, "exactamente una salida debe confirmarse")
		require.Equal(t, 1, insufficient, "la otra debe fallar por stock insuficiente")

		got, _ := l.GetItem(context.Background(), item.ID)
		require.Equal(t, int64(0), got.Quantity)
		assertLedgerInvariant(t, store)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_SumaDeDeltasIgualACantidad(t *testing.T) {
	l, store := newLedger(t)
	rng := rand.New(rand.NewSource(42))

	ids := []int64{
		createItem(t, l, 0, 2).ID,
		createItem(t, l, 7, 3).ID,
		createItem(t, l, 30, 10).ID,
	}
	for i := 0; i < 400; i++ {
		id := ids[rng.Intn(len(ids))]
		qty := int64(rng.Intn(12) + 1)
		before, _ := l.GetItem(context.Background(), id)
		var err error
		if rng.Intn(2) == 0 {
			_, err = inbound(l, id, qty)
		} else {
			_, err = outbound(l, id, qty)
		}
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			require.Greater(t, qty, before.Quantity)
			after, _ := l.GetItem(context.Background(), id)
			require.Equal(t, before.Quantity, after.Quantity, "un rechazo no modifica la cantidad")
		}
	}
	assertLedgerInvariant(t, store)
}

func TestLedger_InvarianteBajoConcurrencia(t *testing.T) {
	l, store := newLedger(t)
	ids := []int64{createItem(t, l, 50, 5).ID, createItem(t, l, 10, 5).ID}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < 100; i++ {
				id := ids[rng.Intn(len(ids))]
				qty := int64(rng.Intn(6) + 1)
				if rng.Intn(2) == 0 {
					_, _ = inbound(l, id, qty)
				} else {
					_, _ = outbound(l, id, qty)
				}
			}
		}(int64(w))
	}
	wg.Wait()
	assertLedgerInvariant(t, store)

	// IDs de bitácora estrictamente crecientes y sin repetir
	all, err := l.ListLog(context.Background(), 0, 0)
	require.NoError(t, err)
	for i := 1; i < len(all); i++ {
		require.Greater(t, all[i-1].ID, all[i].ID)
	}
}

func TestGetItem_LecturasIdempotentes(t *testing.T) {
	l, _ := newLedger(t)
	item := createItem(t, l, 3, 1)

	first, err := l.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	second, err := l.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y errores
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_Validacion(t *testing.T) {
	l, _ := newLedger(t)
	item := createItem(t, l, 3, 1)
	ctx := context.Background()

	cases := []ledger.MovementInput{
		{ItemID: item.ID, Action: entity.ActionInbound, Quantity: 0},
		{ItemID: item.ID, Action: entity.ActionOutbound, Quantity: -2},
		{ItemID: item.ID, Action: entity.ActionCreated, Quantity: 1},
		{ItemID: item.ID, Action: "ADJUSTMENT", Quantity: 1},
		{ItemID: 0, Action: entity.ActionInbound, Quantity: 1},
	}
	for _, in := range cases {
		_, err := l.ApplyMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestApplyMovement_ArticuloInexistente(t *testing.T) {
	l, _ := newLedger(t)
	_, err := inbound(l, 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	logs, _ := l.ListLog(context.Background(), 10, 0)
	assert.Empty(t, logs)
}

func TestCreateItem_Validacion(t *testing.T) {
	l, _ := newLedger(t)
	ctx := context.Background()

	cases := []ledger.CreateItemInput{
		{Name: "", Publisher: "Norma"},
		{Name: "Física", Publisher: "   "},
		{Name: "Física", Publisher: "Norma", InitialQuantity: -1},
		{Name: "Física", Publisher: "Norma", ReorderThreshold: -1},
	}
	for _, in := range cases {
		_, err := l.CreateItem(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestCreateItem_IDsCrecientes(t *testing.T) {
	l, store := newLedger(t)
	require.NoError(t, store.Seed([]entity.Item{{ID: 7, Name: "Importado", Publisher: "X"}}, nil))

	item := createItem(t, l, 0, 0)
	assert.Equal(t, int64(8), item.ID, "max existente + 1")

	got, err := l.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, inventory.IsLowStock(*got), "0 <= 0 es alerta")
}

func TestApplyMovement_FalloDeBitacoraRevierteCantidad(t *testing.T) {
	store := memory.NewStore()
	base := ledger.New(store, store.Items(), store.Logs(), nil)
	item := createItem(t, base, 10, 2)

	cause := errors.New("quota exceeded")
	l := ledger.New(failingLogRunner{inner: store, err: cause}, store.Items(), store.Logs(), nil)

	_, err := outbound(l, item.ID, 4)
	require.ErrorIs(t, err, domain.ErrStore)
	require.ErrorIs(t, err, cause)

	got, _ := l.GetItem(context.Background(), item.ID)
	assert.Equal(t, int64(10), got.Quantity, "sin registro no queda cantidad escrita")
	assertLedgerInvariant(t, store)
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia de peticiones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_RequestIDDuplicado(t *testing.T) {
	l, _ := newLedger(t, ledger.WithIdempotency(memory.NewIdempotencyStore(), time.Hour))
	item := createItem(t, l, 10, 1)
	ctx := context.Background()
	in := ledger.MovementInput{ItemID: item.ID, Action: entity.ActionOutbound, Quantity: 2, RequestID: "req-1"}

	_, err := l.ApplyMovement(ctx, in)
	require.NoError(t, err)

	_, err = l.ApplyMovement(ctx, in)
	require.ErrorIs(t, err, domain.ErrDuplicate)

	got, _ := l.GetItem(ctx, item.ID)
	assert.Equal(t, int64(8), got.Quantity, "el reintento no se aplica dos veces")
}

func TestApplyMovement_RequestIDSeLiberaSiFalla(t *testing.T) {
	l, _ := newLedger(t, ledger.WithIdempotency(memory.NewIdempotencyStore(), time.Hour))
	item := createItem(t, l, 1, 0)
	ctx := context.Background()

	_, err := l.ApplyMovement(ctx, ledger.MovementInput{ItemID: item.ID, Action: entity.ActionOutbound, Quantity: 5, RequestID: "req-2"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	res, err := l.ApplyMovement(ctx, ledger.MovementInput{ItemID: item.ID, Action: entity.ActionInbound, Quantity: 5, RequestID: "req-2"})
	require.NoError(t, err, "un RequestID de un movimiento fallido puede reutilizarse")
	assert.Equal(t, int64(6), res.NewQuantity())
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas y conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestListLowStock(t *testing.T) {
	l, _ := newLedger(t)
	ok := createItem(t, l, 10, 5)
	edge := createItem(t, l, 5, 5)
	low := createItem(t, l, 1, 5)

	list, err := l.ListLowStock(context.Background())
	require.NoError(t, err)

	ids := make([]int64, 0, len(list))
	for _, it := range list {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []int64{edge.ID, low.ID}, ids)
	assert.NotContains(t, ids, ok.ID)
}

func TestHistory_ArticuloInexistente(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.History(context.Background(), 5, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_Consistente(t *testing.T) {
	l, _ := newLedger(t)
	item := createItem(t, l, 10, 5)
	_, err := inbound(l, item.ID, 4)
	require.NoError(t, err)

	res, err := l.Reconcile(context.Background(), item.ID, true)
	require.NoError(t, err)
	assert.True(t, res.Consistent())
	assert.Equal(t, int64(14), res.LogQuantity)
	assert.False(t, res.Repaired)
}

func TestReconcile_DetectaYReparaDesviacion(t *testing.T) {
	l, store := newLedger(t)
	// Estado importado con una escritura de cantidad sin registro en la bitácora
	require.NoError(t, store.Seed(
		[]entity.Item{{ID: 1, Name: "Química", Publisher: "SM", Quantity: 12, ReorderThreshold: 3}},
		[]entity.LogEntry{{ID: 1, Action: entity.ActionCreated, ItemID: 1, ItemName: "Química", Delta: 10}},
	))
	ctx := context.Background()

	res, err := l.Reconcile(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Drift)
	assert.False(t, res.Repaired)

	got, _ := l.GetItem(ctx, 1)
	assert.Equal(t, int64(12), got.Quantity, "sin repair no se escribe")

	res, err = l.Reconcile(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, res.Repaired)

	got, _ = l.GetItem(ctx, 1)
	assert.Equal(t, int64(10), got.Quantity, "la bitácora es la fuente de verdad")
	assertLedgerInvariant(t, store)
}

func TestReconcile_NoEscribeSumaNegativa(t *testing.T) {
	l, store := newLedger(t)
	require.NoError(t, store.Seed(
		[]entity.Item{{ID: 1, Name: "Biología", Publisher: "SM", Quantity: 3}},
		[]entity.LogEntry{{ID: 1, Action: entity.ActionOutbound, ItemID: 1, Delta: -2}},
	))

	res, err := l.Reconcile(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), res.LogQuantity)
	assert.False(t, res.Repaired)
}

func TestReconcile_ArticuloInexistente(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.Reconcile(context.Background(), 3, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Adaptadores de request y mapeo a DTO
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovementFromRequest(t *testing.T) {
	l, _ := newLedger(t)
	item := createItem(t, l, 2, 1)
	ctx := context.Background()

	res, err := l.ApplyMovementFromRequest(ctx, item.ID, dto.MovementRequest{Type: " inbound ", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.NewQuantity())

	_, err = l.ApplyMovementFromRequest(ctx, item.ID, dto.MovementRequest{Type: "CREATED", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out := ledger.ToMovementResponse(res)
	assert.Equal(t, item.ID, out.ItemID)
	assert.Equal(t, int64(5), out.NewQuantity)
	assert.Equal(t, "INBOUND", out.LogEntry.Action)
	assert.Equal(t, int64(3), out.LogEntry.Delta)
}

func TestToItemResponse(t *testing.T) {
	out := ledger.ToItemResponse(&entity.Item{ID: 3, Name: "Historia", Quantity: 4, ReorderThreshold: 5})
	assert.True(t, out.LowStock)
	assert.Equal(t, int64(2), out.Shortfall)

	assert.NotNil(t, ledger.ToItemResponses(nil), "lista vacía serializa como []")
	assert.NotNil(t, ledger.ToLogEntryResponses(nil))
}
