package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, code, description, unit, unit_value, is_equipment, notes,
	COALESCE(service_type_id::text, ''), created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Code, &it.Description, &it.Unit, &it.UnitValue, &it.IsEquipment,
		&it.Notes, &it.ServiceTypeID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un ítem. ErrDuplicate si el código ya existe.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (id, code, description, unit, unit_value, is_equipment, notes, service_type_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		it.ID, it.Code, it.Description, it.Unit, it.UnitValue, it.IsEquipment, it.Notes,
		nullUUID(it.ServiceTypeID), it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, where string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetByID devuelve nil si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetByCode busca por código sin distinguir mayúsculas.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, `lower(code) = lower($1)`, strings.TrimSpace(code))
}

// Update actualiza los datos editables del ítem.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE items SET code = $2, description = $3, unit = $4, unit_value = $5, is_equipment = $6,
			notes = $7, service_type_id = $8, updated_at = $9
		WHERE id = $1`,
		it.ID, it.Code, it.Description, it.Unit, it.UnitValue, it.IsEquipment, it.Notes,
		nullUUID(it.ServiceTypeID), it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem; sus filas de estoque y saldos caen por ON DELETE CASCADE.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por código/descripción y tipo (equipo).
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE ($1 = '' OR code ILIKE $2 OR description ILIKE $2)
		  AND (NOT $3 OR is_equipment)
		ORDER BY code
		LIMIT $4 OFFSET $5`
	limit := f.Limit
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.q.Query(ctx, query, f.Search, likePattern(f.Search), f.EquipmentOnly, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
