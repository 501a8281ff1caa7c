package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de movimiento sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, kind, status, number, reservation, name,
	COALESCE(technician_id::text, ''), COALESCE(partner_company_id::text, ''), COALESCE(service_type_id::text, ''),
	area, neighborhood, property_code, responsible, authorized_by, withdrawn_by, notes, issued_at,
	COALESCE(created_by::text, ''), created_at, finalized_at, COALESCE(finalized_by::text, '')`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(&d.ID, &d.Kind, &d.Status, &d.Number, &d.Reservation, &d.Name,
		&d.TechnicianID, &d.PartnerCompanyID, &d.ServiceTypeID,
		&d.Area, &d.Neighborhood, &d.PropertyCode, &d.Responsible, &d.AuthorizedBy, &d.WithdrawnBy, &d.Notes, &d.IssuedAt,
		&d.CreatedBy, &d.CreatedAt, &d.FinalizedAt, &d.FinalizedBy)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta la cabecera y sus líneas. Debe llamarse dentro de una transacción.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO documents (id, kind, status, number, reservation, name, technician_id, partner_company_id,
			service_type_id, area, neighborhood, property_code, responsible, authorized_by, withdrawn_by, notes,
			issued_at, created_by, created_at, finalized_at, finalized_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
		d.ID, d.Kind, d.Status, d.Number, d.Reservation, d.Name, nullUUID(d.TechnicianID), nullUUID(d.PartnerCompanyID),
		nullUUID(d.ServiceTypeID), d.Area, d.Neighborhood, d.PropertyCode, d.Responsible, d.AuthorizedBy, d.WithdrawnBy,
		d.Notes, d.IssuedAt, nullUUID(d.CreatedBy), d.CreatedAt, d.FinalizedAt, nullUUID(d.FinalizedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert document: %w", err)
	}
	for _, l := range d.Lines {
		l.DocumentID = d.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO document_lines (id, document_id, position, item_id, code, description, unit, quantity,
				unit_value, location, direction, quantity_before, status, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			l.ID, l.DocumentID, l.Position, nullUUID(l.ItemID), l.Code, l.Description, l.Unit, l.Quantity,
			l.UnitValue, l.Location, l.Direction, l.QuantityBefore, l.Status, l.Note,
		)
		if err != nil {
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

func (r *DocumentRepo) load(ctx context.Context, query, id string) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, document_id, position, COALESCE(item_id::text, ''), code, description, unit, quantity,
			unit_value, location, direction, quantity_before, status, note
		FROM document_lines WHERE document_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get document lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.DocumentLine
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.Position, &l.ItemID, &l.Code, &l.Description, &l.Unit, &l.Quantity,
			&l.UnitValue, &l.Location, &l.Direction, &l.QuantityBefore, &l.Status, &l.Note); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		d.Lines = append(d.Lines, &l)
	}
	return d, rows.Err()
}

// GetByID devuelve cabecera y líneas. nil si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	return r.load(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; dos confirmaciones concurrentes se serializan aquí.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.load(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) NumberExists(ctx context.Context, kind, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE kind = $1 AND number = $2)`, kind, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("document number exists: %w", err)
	}
	return exists, nil
}

// UpdateStatus persiste el estado y los datos de cierre.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, d *entity.Document) error {
	cmd, err := r.q.Exec(ctx, `UPDATE documents SET status = $2, finalized_at = $3, finalized_by = $4 WHERE id = $1`,
		d.ID, d.Status, d.FinalizedAt, nullUUID(d.FinalizedBy))
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) UpdateLine(ctx context.Context, l *entity.DocumentLine) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE document_lines SET item_id = $2, quantity = $3, quantity_before = $4, status = $5, note = $6, location = $7
		WHERE id = $1`,
		l.ID, nullUUID(l.ItemID), l.Quantity, l.QuantityBefore, l.Status, l.Note, l.Location)
	if err != nil {
		return fmt.Errorf("update document line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el documento; las líneas caen por cascada.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve cabeceras (sin líneas), las más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, f entity.DocumentFilter) ([]*entity.Document, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.q.Query(ctx, `SELECT `+documentColumns+` FROM documents
		WHERE ($1 = '' OR kind = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR technician_id::text = $3)
		  AND ($4 = '' OR number ILIKE $5 OR reservation ILIKE $5)
		  AND ($6::timestamptz IS NULL OR created_at >= $6)
		  AND ($7::timestamptz IS NULL OR created_at <= $7)
		ORDER BY created_at DESC
		LIMIT $8 OFFSET $9`,
		f.Kind, f.Status, f.TechnicianID, f.Search, likePattern(f.Search), f.From, f.To, limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *DocumentRepo) CountByStatus(ctx context.Context, kind, status string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE kind = $1 AND status = $2`, kind, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Consumption agrega las requisiciones entregadas por día, técnico, código y dirección.
func (r *DocumentRepo) Consumption(ctx context.Context, f entity.ConsumptionFilter) ([]*entity.ConsumptionRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', d.finalized_at) AS day, COALESCE(d.technician_id::text, ''), COALESCE(t.name, ''),
			l.code, MAX(l.description), MAX(l.unit), d.area,
			SUM(l.quantity)::bigint, SUM(l.quantity * l.unit_value)
		FROM documents d
		JOIN document_lines l ON l.document_id = d.id
		LEFT JOIN technicians t ON t.id = d.technician_id
		WHERE d.kind = $1 AND d.status = $2 AND d.finalized_at IS NOT NULL
		  AND ($3 = '' OR d.technician_id::text = $3)
		  AND ($4 = '' OR l.code ILIKE $5)
		  AND ($6 = '' OR d.area ILIKE $7)
		  AND ($8::timestamptz IS NULL OR d.finalized_at >= $8)
		  AND ($9::timestamptz IS NULL OR d.finalized_at <= $9)
		GROUP BY 1, 2, 3, 4, 7
		ORDER BY 1 DESC, 3, 4`,
		entity.DocumentRequisition, entity.StatusDelivered,
		f.TechnicianID, f.Code, likePattern(f.Code), f.Address, likePattern(f.Address), f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("consumption report: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsumptionRow
	for rows.Next() {
		var c entity.ConsumptionRow
		if err := rows.Scan(&c.Day, &c.TechnicianID, &c.TechnicianName, &c.ItemCode, &c.Description, &c.Unit,
			&c.Address, &c.Quantity, &c.Total); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
