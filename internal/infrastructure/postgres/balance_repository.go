package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

var (
	_ repository.TechnicianBalanceRepository = (*BalanceRepo)(nil)
	_ repository.LedgerEntryRepository       = (*LedgerRepo)(nil)
)

// BalanceRepo saldos de técnicos sobre PostgreSQL.
type BalanceRepo struct {
	q Querier
}

// NewTechnicianBalanceRepository construye el adaptador.
func NewTechnicianBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

const balanceColumns = `id, technician_id, item_id, COALESCE(service_type_id::text, ''), address, quantity, updated_at`

func scanBalance(row pgx.Row) (*entity.TechnicianBalance, error) {
	var b entity.TechnicianBalance
	if err := row.Scan(&b.ID, &b.TechnicianID, &b.ItemID, &b.ServiceTypeID, &b.Address, &b.Quantity, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetForUpdate bloquea la fila exacta (técnico, ítem, tipo, dirección). nil si no existe.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.TechnicianBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, `
		SELECT `+balanceColumns+` FROM technician_balances
		WHERE technician_id = $1 AND item_id = $2
		  AND service_type_id IS NOT DISTINCT FROM $3::uuid AND address = $4
		FOR UPDATE`,
		key.TechnicianID, key.ItemID, nullUUID(key.ServiceTypeID), key.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return b, nil
}

// ListForUpdate bloquea todas las direcciones del técnico para el ítem, las más antiguas primero.
func (r *BalanceRepo) ListForUpdate(ctx context.Context, technicianID, itemID, serviceTypeID string) ([]*entity.TechnicianBalance, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+balanceColumns+` FROM technician_balances
		WHERE technician_id = $1 AND item_id = $2 AND service_type_id IS NOT DISTINCT FROM $3::uuid
		ORDER BY created_at, id
		FOR UPDATE`,
		technicianID, itemID, nullUUID(serviceTypeID))
	if err != nil {
		return nil, fmt.Errorf("list balances for update: %w", err)
	}
	defer rows.Close()
	var list []*entity.TechnicianBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Add suma delta creando la fila si no existe (upsert atómico).
func (r *BalanceRepo) Add(ctx context.Context, key entity.BalanceKey, delta int64) (*entity.TechnicianBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, `
		INSERT INTO technician_balances (id, technician_id, item_id, service_type_id, address, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (technician_id, item_id, service_type_id, address) DO UPDATE SET
			quantity = technician_balances.quantity + EXCLUDED.quantity,
			updated_at = now()
		RETURNING `+balanceColumns,
		uuid.NewString(), key.TechnicianID, key.ItemID, nullUUID(key.ServiceTypeID), key.Address, delta))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return nil, domain.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("add balance: %w", err)
	}
	return b, nil
}

func (r *BalanceRepo) SetQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE technician_balances SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientBalance
		}
		return fmt.Errorf("set balance quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List saldos con nombre de técnico y datos del ítem.
func (r *BalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.BalanceLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT b.id, b.technician_id, b.item_id, COALESCE(b.service_type_id::text, ''), b.address, b.quantity, b.updated_at,
			t.name, i.code, i.description, i.unit, i.unit_value, COALESCE(st.name, '')
		FROM technician_balances b
		JOIN technicians t ON t.id = b.technician_id
		JOIN items i ON i.id = b.item_id
		LEFT JOIN service_types st ON st.id = b.service_type_id
		WHERE ($1 = '' OR b.technician_id::text = $1)
		  AND ($2 = '' OR b.service_type_id::text = $2)
		  AND ($3 = '' OR b.item_id::text = $3)
		  AND (NOT $4 OR b.quantity > 0)
		ORDER BY t.name, i.code, b.address`,
		f.TechnicianID, f.ServiceTypeID, f.ItemID, f.OnlyPositive)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.BalanceLine
	for rows.Next() {
		var l entity.BalanceLine
		if err := rows.Scan(&l.ID, &l.TechnicianID, &l.ItemID, &l.ServiceTypeID, &l.Address, &l.Quantity, &l.UpdatedAt,
			&l.TechnicianName, &l.ItemCode, &l.ItemDescription, &l.ItemUnit, &l.UnitValue, &l.ServiceTypeName); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// LedgerRepo registro append-only de movimientos de saldo.
type LedgerRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el adaptador.
func NewLedgerEntryRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO ledger_entries (id, document_id, line_id, side, item_id, service_type_id, technician_id, address, delta, resulting, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, nullUUID(e.DocumentID), nullUUID(e.LineID), e.Side, e.ItemID, nullUUID(e.ServiceTypeID),
		nullUUID(e.TechnicianID), e.Address, e.Delta, e.Resulting, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(document_id::text, ''), COALESCE(line_id::text, ''), side, item_id,
			COALESCE(service_type_id::text, ''), COALESCE(technician_id::text, ''), address, delta, resulting, created_at
		FROM ledger_entries WHERE document_id = $1 ORDER BY created_at, id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.LineID, &e.Side, &e.ItemID, &e.ServiceTypeID,
			&e.TechnicianID, &e.Address, &e.Delta, &e.Resulting, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
