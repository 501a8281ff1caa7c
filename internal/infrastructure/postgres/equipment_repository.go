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

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

// EquipmentRepo unidades de equipo e historial sobre PostgreSQL.
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador.
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

const unitColumns = `id, item_id, COALESCE(service_type_id::text, ''), COALESCE(technician_id::text, ''), status, location, checked_out_at, returned_at, created_at`

func scanUnit(row pgx.Row) (*entity.EquipmentUnit, error) {
	var u entity.EquipmentUnit
	if err := row.Scan(&u.ID, &u.ItemID, &u.ServiceTypeID, &u.TechnicianID, &u.Status, &u.Location, &u.CheckedOutAt, &u.ReturnedAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUnits(rows pgx.Rows) ([]*entity.EquipmentUnit, error) {
	defer rows.Close()
	var list []*entity.EquipmentUnit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CreateUnits inserta las unidades una a una dentro de la tx del llamador.
func (r *EquipmentRepo) CreateUnits(ctx context.Context, units []*entity.EquipmentUnit) error {
	for _, u := range units {
		_, err := r.q.Exec(ctx, `
			INSERT INTO equipment_units (id, item_id, service_type_id, technician_id, status, location, checked_out_at, returned_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			u.ID, u.ItemID, nullUUID(u.ServiceTypeID), nullUUID(u.TechnicianID), u.Status, u.Location, u.CheckedOutAt, u.ReturnedAt, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert equipment unit: %w", err)
		}
	}
	return nil
}

// HeldForUpdate bloquea las unidades más antiguas en poder del técnico.
func (r *EquipmentRepo) HeldForUpdate(ctx context.Context, technicianID, itemID string, limit int) ([]*entity.EquipmentUnit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+unitColumns+` FROM equipment_units
		WHERE technician_id = $1 AND item_id = $2 AND status = $3
		ORDER BY checked_out_at NULLS FIRST, created_at, id
		LIMIT $4
		FOR UPDATE`,
		technicianID, itemID, entity.EquipmentToTechnician, limit)
	if err != nil {
		return nil, fmt.Errorf("held units: %w", err)
	}
	return collectUnits(rows)
}

func (r *EquipmentRepo) GetUnitForUpdate(ctx context.Context, id string) (*entity.EquipmentUnit, error) {
	u, err := scanUnit(r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM equipment_units WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment unit: %w", err)
	}
	return u, nil
}

func (r *EquipmentRepo) UpdateUnit(ctx context.Context, u *entity.EquipmentUnit) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE equipment_units SET technician_id = $2, status = $3, location = $4, checked_out_at = $5, returned_at = $6
		WHERE id = $1`,
		u.ID, nullUUID(u.TechnicianID), u.Status, u.Location, u.CheckedOutAt, u.ReturnedAt)
	if err != nil {
		return fmt.Errorf("update equipment unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepo) ListUnits(ctx context.Context, technicianID, itemID string) ([]*entity.EquipmentUnit, error) {
	rows, err := r.q.Query(ctx, `SELECT `+unitColumns+` FROM equipment_units
		WHERE ($1 = '' OR technician_id::text = $1) AND ($2 = '' OR item_id::text = $2)
		ORDER BY created_at, id`, technicianID, itemID)
	if err != nil {
		return nil, fmt.Errorf("list equipment units: %w", err)
	}
	return collectUnits(rows)
}

func (r *EquipmentRepo) AppendHistory(ctx context.Context, h *entity.EquipmentHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO equipment_history (id, document_id, item_id, technician_id, direction, quantity, location, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		h.ID, nullUUID(h.DocumentID), h.ItemID, nullUUID(h.TechnicianID), h.Direction, h.Quantity, h.Location,
		nullUUID(h.CreatedBy), h.CreatedAt)
	if err != nil {
		return fmt.Errorf("append equipment history: %w", err)
	}
	return nil
}

// History más reciente primero; limit <= 0 sin límite.
func (r *EquipmentRepo) History(ctx context.Context, technicianID, itemID string, limit int) ([]*entity.EquipmentHistory, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, COALESCE(document_id::text, ''), item_id, COALESCE(technician_id::text, ''), direction, quantity,
			location, COALESCE(created_by::text, ''), created_at
		FROM equipment_history
		WHERE ($1 = '' OR technician_id::text = $1) AND ($2 = '' OR item_id::text = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`, technicianID, itemID, lim)
	if err != nil {
		return nil, fmt.Errorf("equipment history: %w", err)
	}
	defer rows.Close()
	var list []*entity.EquipmentHistory
	for rows.Next() {
		var h entity.EquipmentHistory
		if err := rows.Scan(&h.ID, &h.DocumentID, &h.ItemID, &h.TechnicianID, &h.Direction, &h.Quantity,
			&h.Location, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan equipment history: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}

// Holdings cuenta unidades en poder de técnicos, agrupadas por técnico e ítem.
func (r *EquipmentRepo) Holdings(ctx context.Context, technicianID string) ([]*entity.EquipmentHolding, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.technician_id::text, t.name, u.item_id::text, i.code, i.description, COUNT(*)
		FROM equipment_units u
		JOIN technicians t ON t.id = u.technician_id
		JOIN items i ON i.id = u.item_id
		WHERE u.status = $1 AND ($2 = '' OR u.technician_id::text = $2)
		GROUP BY 1, 2, 3, 4, 5
		ORDER BY t.name, i.code`, entity.EquipmentToTechnician, technicianID)
	if err != nil {
		return nil, fmt.Errorf("equipment holdings: %w", err)
	}
	defer rows.Close()
	var list []*entity.EquipmentHolding
	for rows.Next() {
		var h entity.EquipmentHolding
		if err := rows.Scan(&h.TechnicianID, &h.TechnicianName, &h.ItemID, &h.ItemCode, &h.ItemDescription, &h.Quantity); err != nil {
			return nil, fmt.Errorf("scan equipment holding: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
