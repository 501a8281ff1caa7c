package repository

import (
	"context"

	"github.com/logistock/logistock-api/internal/domain/entity"
)

// ItemFilter filtros del catálogo.
type ItemFilter struct {
	Search        string // código o descripción
	EquipmentOnly bool
	Limit         int
	Offset        int
}

// ItemRepository puerto de persistencia del catálogo de ítems.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
}

// ServiceTypeRepository puerto de tipos de servicio.
type ServiceTypeRepository interface {
	Create(ctx context.Context, st *entity.ServiceType) error
	GetByID(ctx context.Context, id string) (*entity.ServiceType, error)
	GetByName(ctx context.Context, name string) (*entity.ServiceType, error)
	Update(ctx context.Context, st *entity.ServiceType) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.ServiceType, error)
}

// TechnicianFilter filtros de técnicos.
type TechnicianFilter struct {
	Status string
	Search string
}

// TechnicianRepository puerto de técnicos.
type TechnicianRepository interface {
	Create(ctx context.Context, t *entity.Technician) error
	GetByID(ctx context.Context, id string) (*entity.Technician, error)
	GetByRegistration(ctx context.Context, registration string) (*entity.Technician, error)
	Update(ctx context.Context, t *entity.Technician) error
	List(ctx context.Context, f TechnicianFilter) ([]*entity.Technician, error)
}

// PartnerCompanyRepository puerto de empresas parceiras.
type PartnerCompanyRepository interface {
	Create(ctx context.Context, p *entity.PartnerCompany) error
	GetByID(ctx context.Context, id string) (*entity.PartnerCompany, error)
	Update(ctx context.Context, p *entity.PartnerCompany) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.PartnerCompany, error)
}
