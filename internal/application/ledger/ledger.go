// Package ledger aplica los deltas de cantidad sobre estoque central y saldos de técnicos.
//
// Un Ledger se construye con los repositorios de una transacción abierta (repository.Repos
// entregado por el TxRunner) y nunca abre ni confirma transacciones por sí mismo: los dos
// lados de una transferencia quedan confirmados o descartados juntos por el llamador.
// Los débitos bloquean la fila (SELECT FOR UPDATE) antes de verificar suficiencia; los
// créditos usan upsert atómico, así dos créditos concurrentes sobre una fila inexistente
// no duplican la fila.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// Account es uno de los dos lados de un movimiento.
type Account struct {
	Side          string // entity.SideCentral | entity.SideTechnician
	ItemID        string
	ServiceTypeID string
	TechnicianID  string
	Address       string
}

// Central cuenta de estoque central.
func Central(itemID, serviceTypeID string) Account {
	return Account{Side: entity.SideCentral, ItemID: itemID, ServiceTypeID: serviceTypeID}
}

// Technician cuenta de saldo de técnico.
func Technician(technicianID, itemID, serviceTypeID, address string) Account {
	return Account{
		Side:          entity.SideTechnician,
		ItemID:        itemID,
		ServiceTypeID: serviceTypeID,
		TechnicianID:  technicianID,
		Address:       address,
	}
}

func (a Account) stockKey() entity.StockKey {
	return entity.StockKey{ItemID: a.ItemID, ServiceTypeID: a.ServiceTypeID}
}

func (a Account) balanceKey() entity.BalanceKey {
	return entity.BalanceKey{
		TechnicianID:  a.TechnicianID,
		ItemID:        a.ItemID,
		ServiceTypeID: a.ServiceTypeID,
		Address:       a.Address,
	}
}

// Ledger opera sobre los repositorios de una transacción.
type Ledger struct {
	stock      repository.CentralStockRepository
	balances   repository.TechnicianBalanceRepository
	entries    repository.LedgerEntryRepository
	documentID string
	lineID     string
	now        func() time.Time
}

// New construye el ledger para el documento documentID (puede ir vacío en ajustes sin documento).
func New(r repository.Repos, documentID string) *Ledger {
	return &Ledger{
		stock:      r.Stock,
		balances:   r.Balances,
		entries:    r.Ledger,
		documentID: documentID,
		now:        time.Now,
	}
}

// ForLine devuelve una copia que registra los asientos contra la línea lineID.
func (l *Ledger) ForLine(lineID string) *Ledger {
	cp := *l
	cp.lineID = lineID
	return &cp
}

// Receive suma quantity al estoque central creando la fila si no existe.
func (l *Ledger) Receive(ctx context.Context, key entity.StockKey, quantity int64, location string) (*entity.CentralStock, error) {
	if quantity <= 0 || key.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := l.stock.Add(ctx, key, quantity, location)
	if err != nil {
		return nil, err
	}
	if err := l.record(ctx, Central(key.ItemID, key.ServiceTypeID), quantity, s.Quantity); err != nil {
		return nil, err
	}
	return s, nil
}

// DebitCentral resta quantity del estoque central.
// ErrInsufficientStock si la fila no existe o no alcanza; en ese caso nada cambia.
func (l *Ledger) DebitCentral(ctx context.Context, key entity.StockKey, quantity int64) (*entity.CentralStock, error) {
	if quantity <= 0 || key.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := l.stock.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Quantity < quantity {
		return nil, domain.ErrInsufficientStock
	}
	s.Quantity -= quantity
	if err := l.stock.SetQuantity(ctx, s.ID, s.Quantity); err != nil {
		return nil, err
	}
	if err := l.record(ctx, Central(key.ItemID, key.ServiceTypeID), -quantity, s.Quantity); err != nil {
		return nil, err
	}
	return s, nil
}

// CreditTechnician suma quantity al saldo del técnico creando la fila si no existe.
func (l *Ledger) CreditTechnician(ctx context.Context, key entity.BalanceKey, quantity int64) (*entity.TechnicianBalance, error) {
	if quantity <= 0 || key.ItemID == "" || key.TechnicianID == "" {
		return nil, domain.ErrInvalidInput
	}
	b, err := l.balances.Add(ctx, key, quantity)
	if err != nil {
		return nil, err
	}
	acc := Technician(key.TechnicianID, key.ItemID, key.ServiceTypeID, key.Address)
	if err := l.record(ctx, acc, quantity, b.Quantity); err != nil {
		return nil, err
	}
	return b, nil
}

// DebitTechnician resta quantity de la fila exacta (técnico, ítem, tipo de servicio, dirección).
// ErrInsufficientBalance si no existe o no alcanza.
func (l *Ledger) DebitTechnician(ctx context.Context, key entity.BalanceKey, quantity int64) (*entity.TechnicianBalance, error) {
	if quantity <= 0 || key.ItemID == "" || key.TechnicianID == "" {
		return nil, domain.ErrInvalidInput
	}
	b, err := l.balances.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}
	if b == nil || b.Quantity < quantity {
		return nil, domain.ErrInsufficientBalance
	}
	if err := l.debitBalanceRow(ctx, b, quantity); err != nil {
		return nil, err
	}
	return b, nil
}

// DebitTechnicianAnyAddress resta quantity repartiéndolo entre las filas del técnico para el ítem
// y tipo de servicio, sin importar la dirección, en el orden que devuelve el repositorio.
func (l *Ledger) DebitTechnicianAnyAddress(ctx context.Context, technicianID, itemID, serviceTypeID string, quantity int64) error {
	if quantity <= 0 || itemID == "" || technicianID == "" {
		return domain.ErrInvalidInput
	}
	rows, err := l.balances.ListForUpdate(ctx, technicianID, itemID, serviceTypeID)
	if err != nil {
		return err
	}
	var held int64
	for _, b := range rows {
		held += b.Quantity
	}
	if held < quantity {
		return domain.ErrInsufficientBalance
	}
	remaining := quantity
	for _, b := range rows {
		if remaining == 0 {
			break
		}
		take := min(b.Quantity, remaining)
		if take == 0 {
			continue
		}
		if err := l.debitBalanceRow(ctx, b, take); err != nil {
			return err
		}
		remaining -= take
	}
	return nil
}

// TechnicianHolds devuelve la suma del saldo del técnico para el ítem en todas sus direcciones.
func (l *Ledger) TechnicianHolds(ctx context.Context, technicianID, itemID, serviceTypeID string) (int64, bool, error) {
	rows, err := l.balances.ListForUpdate(ctx, technicianID, itemID, serviceTypeID)
	if err != nil {
		return 0, false, err
	}
	var held int64
	for _, b := range rows {
		held += b.Quantity
	}
	return held, len(rows) > 0, nil
}

func (l *Ledger) debitBalanceRow(ctx context.Context, b *entity.TechnicianBalance, quantity int64) error {
	b.Quantity -= quantity
	if err := l.balances.SetQuantity(ctx, b.ID, b.Quantity); err != nil {
		return err
	}
	acc := Technician(b.TechnicianID, b.ItemID, b.ServiceTypeID, b.Address)
	return l.record(ctx, acc, -quantity, b.Quantity)
}

// Debit resta quantity de la cuenta.
func (l *Ledger) Debit(ctx context.Context, a Account, quantity int64) error {
	switch a.Side {
	case entity.SideCentral:
		_, err := l.DebitCentral(ctx, a.stockKey(), quantity)
		return err
	case entity.SideTechnician:
		_, err := l.DebitTechnician(ctx, a.balanceKey(), quantity)
		return err
	}
	return fmt.Errorf("ledger: lado desconocido %q: %w", a.Side, domain.ErrInvalidInput)
}

// Credit suma quantity a la cuenta.
func (l *Ledger) Credit(ctx context.Context, a Account, quantity int64) error {
	switch a.Side {
	case entity.SideCentral:
		_, err := l.Receive(ctx, a.stockKey(), quantity, "")
		return err
	case entity.SideTechnician:
		_, err := l.CreditTechnician(ctx, a.balanceKey(), quantity)
		return err
	}
	return fmt.Errorf("ledger: lado desconocido %q: %w", a.Side, domain.ErrInvalidInput)
}

// Transfer debita from y luego acredita to. Si el débito falla no se acredita nada;
// si el crédito falla, el llamador descarta la transacción completa.
func (l *Ledger) Transfer(ctx context.Context, from, to Account, quantity int64) error {
	if err := l.Debit(ctx, from, quantity); err != nil {
		return err
	}
	return l.Credit(ctx, to, quantity)
}

// CentralQuantity bloquea y devuelve la cantidad actual; exists=false si la fila no existe.
func (l *Ledger) CentralQuantity(ctx context.Context, key entity.StockKey) (qty int64, exists bool, err error) {
	s, err := l.stock.GetForUpdate(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if s == nil {
		return 0, false, nil
	}
	return s.Quantity, true, nil
}

// TechnicianQuantity bloquea la fila exacta del técnico y devuelve su cantidad.
func (l *Ledger) TechnicianQuantity(ctx context.Context, key entity.BalanceKey) (int64, error) {
	b, err := l.balances.GetForUpdate(ctx, key)
	if err != nil || b == nil {
		return 0, err
	}
	return b.Quantity, nil
}

// SetCentral fija la cantidad contada y devuelve la cantidad previa.
func (l *Ledger) SetCentral(ctx context.Context, key entity.StockKey, counted int64) (int64, error) {
	if counted < 0 || key.ItemID == "" {
		return 0, domain.ErrInvalidInput
	}
	s, err := l.stock.GetForUpdate(ctx, key)
	if err != nil {
		return 0, err
	}
	if s == nil {
		if counted == 0 {
			return 0, nil
		}
		if _, err := l.Receive(ctx, key, counted, ""); err != nil {
			return 0, err
		}
		return 0, nil
	}
	before := s.Quantity
	if before == counted {
		return before, nil
	}
	if err := l.stock.SetQuantity(ctx, s.ID, counted); err != nil {
		return 0, err
	}
	if err := l.record(ctx, Central(key.ItemID, key.ServiceTypeID), counted-before, counted); err != nil {
		return 0, err
	}
	return before, nil
}

// SetTechnician fija el saldo contado de un técnico y devuelve el saldo previo.
func (l *Ledger) SetTechnician(ctx context.Context, key entity.BalanceKey, counted int64) (int64, error) {
	if counted < 0 || key.ItemID == "" || key.TechnicianID == "" {
		return 0, domain.ErrInvalidInput
	}
	b, err := l.balances.GetForUpdate(ctx, key)
	if err != nil {
		return 0, err
	}
	if b == nil {
		if counted == 0 {
			return 0, nil
		}
		if _, err := l.CreditTechnician(ctx, key, counted); err != nil {
			return 0, err
		}
		return 0, nil
	}
	before := b.Quantity
	if before == counted {
		return before, nil
	}
	if err := l.balances.SetQuantity(ctx, b.ID, counted); err != nil {
		return 0, err
	}
	acc := Technician(key.TechnicianID, key.ItemID, key.ServiceTypeID, key.Address)
	if err := l.record(ctx, acc, counted-before, counted); err != nil {
		return 0, err
	}
	return before, nil
}

func (l *Ledger) record(ctx context.Context, a Account, delta, resulting int64) error {
	if l.entries == nil {
		return nil
	}
	return l.entries.Append(ctx, &entity.LedgerEntry{
		ID:            uuid.New().String(),
		DocumentID:    l.documentID,
		LineID:        l.lineID,
		Side:          a.Side,
		ItemID:        a.ItemID,
		ServiceTypeID: a.ServiceTypeID,
		TechnicianID:  a.TechnicianID,
		Address:       a.Address,
		Delta:         delta,
		Resulting:     resulting,
		CreatedAt:     l.now(),
	})
}
