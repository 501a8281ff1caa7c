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

var _ repository.CentralStockRepository = (*StockRepo)(nil)

// StockRepo implementación de CentralStockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de estoque. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id, item_id, COALESCE(service_type_id::text, ''), quantity, min_quantity, location, updated_at`

func scanStock(row pgx.Row) (*entity.CentralStock, error) {
	var s entity.CentralStock
	if err := row.Scan(&s.ID, &s.ItemID, &s.ServiceTypeID, &s.Quantity, &s.MinQuantity, &s.Location, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StockRepo) one(ctx context.Context, op, query string, args ...any) (*entity.CentralStock, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// GetByID obtiene la fila por ID. nil si no existe.
func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.CentralStock, error) {
	return r.one(ctx, "get stock", `SELECT `+stockColumns+` FROM central_stock WHERE id = $1`, id)
}

// Get obtiene la fila por ítem y tipo de servicio, sin bloquear.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.CentralStock, error) {
	return r.one(ctx, "get stock",
		`SELECT `+stockColumns+` FROM central_stock
		WHERE item_id = $1 AND service_type_id IS NOT DISTINCT FROM $2::uuid`,
		key.ItemID, nullUUID(key.ServiceTypeID))
}

// GetForUpdate obtiene la fila y la bloquea hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.CentralStock, error) {
	return r.one(ctx, "get stock for update",
		`SELECT `+stockColumns+` FROM central_stock
		WHERE item_id = $1 AND service_type_id IS NOT DISTINCT FROM $2::uuid
		FOR UPDATE`,
		key.ItemID, nullUUID(key.ServiceTypeID))
}

// Add suma delta en un único upsert; dos créditos concurrentes sobre una fila nueva no se pisan.
func (r *StockRepo) Add(ctx context.Context, key entity.StockKey, delta int64, location string) (*entity.CentralStock, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `
		INSERT INTO central_stock (id, item_id, service_type_id, quantity, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (item_id, service_type_id) DO UPDATE SET
			quantity = central_stock.quantity + EXCLUDED.quantity,
			location = CASE WHEN EXCLUDED.location <> '' THEN EXCLUDED.location ELSE central_stock.location END,
			updated_at = now()
		RETURNING `+stockColumns,
		uuid.NewString(), key.ItemID, nullUUID(key.ServiceTypeID), delta, location,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		if isCheckViolation(err) {
			return nil, domain.ErrInsufficientStock
		}
		return nil, fmt.Errorf("add stock: %w", err)
	}
	return s, nil
}

// SetQuantity fija la cantidad; el CHECK de la tabla rechaza valores negativos.
func (r *StockRepo) SetQuantity(ctx context.Context, id string, quantity int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE central_stock SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("set stock quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) UpdateMinimum(ctx context.Context, id string, min int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE central_stock SET min_quantity = $2, updated_at = now() WHERE id = $1`, id, min)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update stock minimum: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) UpdateLocation(ctx context.Context, id string, location string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE central_stock SET location = $2, updated_at = now() WHERE id = $1`, id, location)
	if err != nil {
		return fmt.Errorf("update stock location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve el estoque con datos del ítem, filtrado por código, descripción, tipo y alerta.
func (r *StockRepo) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockLevel, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 5000
	}
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.item_id, COALESCE(s.service_type_id::text, ''), s.quantity, s.min_quantity, s.location, s.updated_at,
			i.code, i.description, i.unit, i.unit_value, i.is_equipment, COALESCE(st.name, '')
		FROM central_stock s
		JOIN items i ON i.id = s.item_id
		LEFT JOIN service_types st ON st.id = s.service_type_id
		WHERE ($1 = '' OR i.code ILIKE $2)
		  AND ($3 = '' OR i.description ILIKE $4)
		  AND ($5 = '' OR s.service_type_id::text = $5)
		  AND (NOT $6 OR s.quantity <= s.min_quantity)
		  AND (NOT $7 OR s.quantity > 0)
		ORDER BY i.code, st.name NULLS FIRST
		LIMIT $8 OFFSET $9`,
		f.Code, likePattern(f.Code), f.Description, likePattern(f.Description), f.ServiceTypeID,
		f.OnlyLow, f.OnlyAvailable, limit, f.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.ID, &l.ItemID, &l.ServiceTypeID, &l.Quantity, &l.MinQuantity, &l.Location, &l.UpdatedAt,
			&l.ItemCode, &l.ItemDescription, &l.ItemUnit, &l.UnitValue, &l.IsEquipment, &l.ServiceTypeName); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
