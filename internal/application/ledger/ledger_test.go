package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistock/logistock-api/internal/application/ledger"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	itemX    = "item-x"
	techA    = "tech-a"
	svcFibra = "svc-fibra"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: itemX, Code: "X", Description: "Cabo drop", Unit: "m"}))
	require.NoError(t, r.Technicians.Create(ctx, &entity.Technician{ID: techA, Name: "Ana", Registration: "M-1", Status: entity.TechnicianActive}))
	return s
}

func centralQty(t *testing.T, r repository.Repos, key entity.StockKey) int64 {
	t.Helper()
	s, err := r.Stock.Get(context.Background(), key)
	require.NoError(t, err)
	if s == nil {
		return 0
	}
	return s.Quantity
}

func techQty(t *testing.T, r repository.Repos, key entity.BalanceKey) int64 {
	t.Helper()
	b, err := r.Balances.GetForUpdate(context.Background(), key)
	require.NoError(t, err)
	if b == nil {
		return 0
	}
	return b.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Estoque central
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveThenDebit_FinalEqualsReceivedMinusDebited(t *testing.T) {
	cases := []struct {
		name     string
		receipts []int64
		debits   []int64
	}{
		{"una entrada", []int64{10}, []int64{3, 7}},
		{"varias entradas", []int64{5, 5, 20}, []int64{1, 2, 3, 4}},
		{"sin débitos", []int64{8}, nil},
		{"débito total", []int64{4, 6}, []int64{10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			r := s.Repos()
			l := ledger.New(r, "")
			ctx := context.Background()
			key := entity.StockKey{ItemID: itemX, ServiceTypeID: svcFibra}

			var received, debited int64
			for _, q := range tc.receipts {
				_, err := l.Receive(ctx, key, q, "")
				require.NoError(t, err)
				received += q
			}
			for _, q := range tc.debits {
				_, err := l.DebitCentral(ctx, key, q)
				require.NoError(t, err)
				debited += q
			}
			assert.Equal(t, received-debited, centralQty(t, r, key))
		})
	}
}

func TestDebitCentral_InsufficientLeavesStockUnchanged(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "")
	ctx := context.Background()
	key := entity.StockKey{ItemID: itemX}

	_, err := l.Receive(ctx, key, 10, "A1")
	require.NoError(t, err)

	st, err := l.DebitCentral(ctx, key, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(4), st.Quantity)

	_, err = l.DebitCentral(ctx, key, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(4), centralQty(t, r, key), "la fila no cambia si el débito falla")
}

func TestDebitCentral_MissingRow(t *testing.T) {
	s := newStore(t)
	l := ledger.New(s.Repos(), "")

	_, err := l.DebitCentral(context.Background(), entity.StockKey{ItemID: itemX}, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestReceive_ScopedByServiceType(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "")
	ctx := context.Background()

	_, err := l.Receive(ctx, entity.StockKey{ItemID: itemX, ServiceTypeID: svcFibra}, 5, "")
	require.NoError(t, err)
	_, err = l.Receive(ctx, entity.StockKey{ItemID: itemX}, 2, "B3")
	require.NoError(t, err)

	assert.Equal(t, int64(5), centralQty(t, r, entity.StockKey{ItemID: itemX, ServiceTypeID: svcFibra}))
	assert.Equal(t, int64(2), centralQty(t, r, entity.StockKey{ItemID: itemX}))

	_, err = l.DebitCentral(ctx, entity.StockKey{ItemID: itemX}, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "no toma estoque de otro tipo de servicio")
}

func TestReceive_RejectsNonPositive(t *testing.T) {
	s := newStore(t)
	l := ledger.New(s.Repos(), "")

	_, err := l.Receive(context.Background(), entity.StockKey{ItemID: itemX}, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldos de técnicos y transferencias
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ConservesTotal(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "doc-1")
	ctx := context.Background()
	stockKey := entity.StockKey{ItemID: itemX, ServiceTypeID: svcFibra}
	balKey := entity.BalanceKey{TechnicianID: techA, ItemID: itemX, ServiceTypeID: svcFibra, Address: "Centro"}

	_, err := l.Receive(ctx, stockKey, 12, "")
	require.NoError(t, err)

	from := ledger.Central(itemX, svcFibra)
	to := ledger.Technician(techA, itemX, svcFibra, "Centro")
	for _, q := range []int64{3, 4, 5} {
		require.NoError(t, l.Transfer(ctx, from, to, q))
		assert.Equal(t, int64(12), centralQty(t, r, stockKey)+techQty(t, r, balKey))
	}

	err = l.Transfer(ctx, from, to, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(0), centralQty(t, r, stockKey))
	assert.Equal(t, int64(12), techQty(t, r, balKey))

	// Devolución técnico -> central
	require.NoError(t, l.Transfer(ctx, to, from, 2))
	assert.Equal(t, int64(2), centralQty(t, r, stockKey))
	assert.Equal(t, int64(10), techQty(t, r, balKey))
}

func TestTransfer_CreditFailureRollsBackDebit(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	key := entity.StockKey{ItemID: itemX}

	require.NoError(t, s.Run(ctx, func(r repository.Repos) error {
		_, err := ledger.New(r, "").Receive(ctx, key, 5, "")
		return err
	}))

	err := s.Run(ctx, func(r repository.Repos) error {
		return ledger.New(r, "").Transfer(ctx,
			ledger.Central(itemX, ""),
			ledger.Technician("tecnico-inexistente", itemX, "", ""),
			2,
		)
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), centralQty(t, s.Repos(), key), "el débito se descarta con la transacción")
}

func TestDebitTechnician_ExactRow(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "")
	ctx := context.Background()
	key := entity.BalanceKey{TechnicianID: techA, ItemID: itemX, Address: "Rua 1"}

	_, err := l.DebitTechnician(ctx, key, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	_, err = l.CreditTechnician(ctx, key, 3)
	require.NoError(t, err)

	_, err = l.DebitTechnician(ctx, entity.BalanceKey{TechnicianID: techA, ItemID: itemX, Address: "Rua 2"}, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance, "otra dirección es otra fila")

	b, err := l.DebitTechnician(ctx, key, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), b.Quantity)
}

func TestDebitTechnicianAnyAddress_SpreadsOverRows(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "")
	ctx := context.Background()
	k1 := entity.BalanceKey{TechnicianID: techA, ItemID: itemX, Address: "Rua 1"}
	k2 := entity.BalanceKey{TechnicianID: techA, ItemID: itemX, Address: "Rua 2"}

	_, err := l.CreditTechnician(ctx, k1, 2)
	require.NoError(t, err)
	_, err = l.CreditTechnician(ctx, k2, 5)
	require.NoError(t, err)

	assert.ErrorIs(t, l.DebitTechnicianAnyAddress(ctx, techA, itemX, "", 8), domain.ErrInsufficientBalance)
	assert.Equal(t, int64(2), techQty(t, r, k1))
	assert.Equal(t, int64(5), techQty(t, r, k2))

	require.NoError(t, l.DebitTechnicianAnyAddress(ctx, techA, itemX, "", 4))
	assert.Equal(t, int64(0), techQty(t, r, k1), "la fila más antigua se consume primero")
	assert.Equal(t, int64(3), techQty(t, r, k2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conteos y asientos
// ──────────────────────────────────────────────────────────────────────────────

func TestSetCentral_ReturnsPreviousAndRecordsDelta(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "count-1")
	ctx := context.Background()
	key := entity.StockKey{ItemID: itemX}

	before, err := l.SetCentral(ctx, key, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before)

	before, err = l.SetCentral(ctx, key, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(7), before)
	assert.Equal(t, int64(4), centralQty(t, r, key))

	entries, err := r.Ledger.ListByDocument(ctx, "count-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(7), entries[0].Delta)
	assert.Equal(t, int64(-3), entries[1].Delta)
	assert.Equal(t, int64(4), entries[1].Resulting)
}

func TestSetTechnician_CreatesRow(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	l := ledger.New(r, "")
	ctx := context.Background()
	key := entity.BalanceKey{TechnicianID: techA, ItemID: itemX}

	before, err := l.SetTechnician(ctx, key, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), before)
	assert.Equal(t, int64(9), techQty(t, r, key))

	_, err = l.SetTechnician(ctx, key, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEntries_CarryLineAndSide(t *testing.T) {
	s := newStore(t)
	r := s.Repos()
	ctx := context.Background()
	l := ledger.New(r, "doc-9")

	_, err := l.Receive(ctx, entity.StockKey{ItemID: itemX}, 3, "")
	require.NoError(t, err)
	require.NoError(t, l.ForLine("line-1").Transfer(ctx, ledger.Central(itemX, ""), ledger.Technician(techA, itemX, "", ""), 2))

	entries, err := r.Ledger.ListByDocument(ctx, "doc-9")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "", entries[0].LineID)
	assert.Equal(t, entity.SideCentral, entries[1].Side)
	assert.Equal(t, "line-1", entries[1].LineID)
	assert.Equal(t, int64(-2), entries[1].Delta)
	assert.Equal(t, entity.SideTechnician, entries[2].Side)
	assert.Equal(t, int64(2), entries[2].Resulting)
}
