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

var (
	_ repository.ServiceTypeRepository    = (*ServiceTypeRepo)(nil)
	_ repository.TechnicianRepository     = (*TechnicianRepo)(nil)
	_ repository.PartnerCompanyRepository = (*PartnerCompanyRepo)(nil)
)

// ServiceTypeRepo tipos de servicio sobre PostgreSQL.
type ServiceTypeRepo struct {
	q Querier
}

// NewServiceTypeRepository construye el adaptador.
func NewServiceTypeRepository(q Querier) *ServiceTypeRepo {
	return &ServiceTypeRepo{q: q}
}

const serviceTypeColumns = `id, name, company, responsible, created_at`

func scanServiceType(row pgx.Row) (*entity.ServiceType, error) {
	var st entity.ServiceType
	if err := row.Scan(&st.ID, &st.Name, &st.Company, &st.Responsible, &st.CreatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *ServiceTypeRepo) Create(ctx context.Context, st *entity.ServiceType) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO service_types (id, name, company, responsible, created_at) VALUES ($1, $2, $3, $4, $5)`,
		st.ID, st.Name, st.Company, st.Responsible, st.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service type: %w", err)
	}
	return nil
}

func (r *ServiceTypeRepo) get(ctx context.Context, where string, arg any) (*entity.ServiceType, error) {
	st, err := scanServiceType(r.q.QueryRow(ctx, `SELECT `+serviceTypeColumns+` FROM service_types WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service type: %w", err)
	}
	return st, nil
}

func (r *ServiceTypeRepo) GetByID(ctx context.Context, id string) (*entity.ServiceType, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *ServiceTypeRepo) GetByName(ctx context.Context, name string) (*entity.ServiceType, error) {
	return r.get(ctx, `lower(name) = lower($1)`, name)
}

func (r *ServiceTypeRepo) Update(ctx context.Context, st *entity.ServiceType) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE service_types SET name = $2, company = $3, responsible = $4 WHERE id = $1`,
		st.ID, st.Name, st.Company, st.Responsible)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update service type: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete falla con ErrConflict si el tipo todavía tiene estoque o saldos (FK).
func (r *ServiceTypeRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM service_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete service type: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ServiceTypeRepo) List(ctx context.Context) ([]*entity.ServiceType, error) {
	rows, err := r.q.Query(ctx, `SELECT `+serviceTypeColumns+` FROM service_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list service types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceType
	for rows.Next() {
		st, err := scanServiceType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service type: %w", err)
		}
		list = append(list, st)
	}
	return list, rows.Err()
}

// TechnicianRepo técnicos sobre PostgreSQL.
type TechnicianRepo struct {
	q Querier
}

// NewTechnicianRepository construye el adaptador.
func NewTechnicianRepository(q Querier) *TechnicianRepo {
	return &TechnicianRepo{q: q}
}

const technicianColumns = `id, name, registration, COALESCE(cpf, ''), phone, email, area, status,
	COALESCE(service_type_id::text, ''), created_at, updated_at`

func scanTechnician(row pgx.Row) (*entity.Technician, error) {
	var t entity.Technician
	err := row.Scan(&t.ID, &t.Name, &t.Registration, &t.CPF, &t.Phone, &t.Email, &t.Area, &t.Status,
		&t.ServiceTypeID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TechnicianRepo) Create(ctx context.Context, t *entity.Technician) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO technicians (id, name, registration, cpf, phone, email, area, status, service_type_id, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Name, t.Registration, t.CPF, t.Phone, t.Email, t.Area, t.Status,
		nullUUID(t.ServiceTypeID), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert technician: %w", err)
	}
	return nil
}

func (r *TechnicianRepo) get(ctx context.Context, where string, arg any) (*entity.Technician, error) {
	t, err := scanTechnician(r.q.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get technician: %w", err)
	}
	return t, nil
}

func (r *TechnicianRepo) GetByID(ctx context.Context, id string) (*entity.Technician, error) {
	return r.get(ctx, `id = $1`, id)
}

func (r *TechnicianRepo) GetByRegistration(ctx context.Context, registration string) (*entity.Technician, error) {
	return r.get(ctx, `registration = $1`, registration)
}

func (r *TechnicianRepo) Update(ctx context.Context, t *entity.Technician) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE technicians SET name = $2, registration = $3, cpf = NULLIF($4, ''), phone = $5, email = $6,
			area = $7, status = $8, service_type_id = $9, updated_at = $10
		WHERE id = $1`,
		t.ID, t.Name, t.Registration, t.CPF, t.Phone, t.Email, t.Area, t.Status,
		nullUUID(t.ServiceTypeID), t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update technician: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TechnicianRepo) List(ctx context.Context, f repository.TechnicianFilter) ([]*entity.Technician, error) {
	rows, err := r.q.Query(ctx, `SELECT `+technicianColumns+` FROM technicians
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR name ILIKE $3 OR registration ILIKE $3)
		ORDER BY name`,
		f.Status, f.Search, likePattern(f.Search))
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()
	var list []*entity.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// PartnerCompanyRepo empresas parceiras sobre PostgreSQL.
type PartnerCompanyRepo struct {
	q Querier
}

// NewPartnerCompanyRepository construye el adaptador.
func NewPartnerCompanyRepository(q Querier) *PartnerCompanyRepo {
	return &PartnerCompanyRepo{q: q}
}

const partnerColumns = `id, legal_name, cnpj, address, contact, COALESCE(service_type_id::text, ''), notes, created_at`

func scanPartner(row pgx.Row) (*entity.PartnerCompany, error) {
	var p entity.PartnerCompany
	if err := row.Scan(&p.ID, &p.LegalName, &p.CNPJ, &p.Address, &p.Contact, &p.ServiceTypeID, &p.Notes, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartnerCompanyRepo) Create(ctx context.Context, p *entity.PartnerCompany) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO partner_companies (id, legal_name, cnpj, address, contact, service_type_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.LegalName, p.CNPJ, p.Address, p.Contact, nullUUID(p.ServiceTypeID), p.Notes, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert partner company: %w", err)
	}
	return nil
}

func (r *PartnerCompanyRepo) GetByID(ctx context.Context, id string) (*entity.PartnerCompany, error) {
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partner_companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get partner company: %w", err)
	}
	return p, nil
}

func (r *PartnerCompanyRepo) Update(ctx context.Context, p *entity.PartnerCompany) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE partner_companies SET legal_name = $2, cnpj = $3, address = $4, contact = $5,
			service_type_id = $6, notes = $7
		WHERE id = $1`,
		p.ID, p.LegalName, p.CNPJ, p.Address, p.Contact, nullUUID(p.ServiceTypeID), p.Notes)
	if err != nil {
		return fmt.Errorf("update partner company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartnerCompanyRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM partner_companies WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete partner company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartnerCompanyRepo) List(ctx context.Context) ([]*entity.PartnerCompany, error) {
	rows, err := r.q.Query(ctx, `SELECT `+partnerColumns+` FROM partner_companies ORDER BY legal_name`)
	if err != nil {
		return nil, fmt.Errorf("list partner companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.PartnerCompany
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner company: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
