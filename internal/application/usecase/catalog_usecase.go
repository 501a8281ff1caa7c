package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// ServiceTypeUseCase CRUD de tipos de servicio.
type ServiceTypeUseCase struct {
	repo repository.ServiceTypeRepository
}

// NewServiceTypeUseCase construye el caso de uso.
func NewServiceTypeUseCase(repo repository.ServiceTypeRepository) *ServiceTypeUseCase {
	return &ServiceTypeUseCase{repo: repo}
}

// Create ErrDuplicate si el nombre ya existe.
func (uc *ServiceTypeUseCase) Create(ctx context.Context, in dto.ServiceTypeRequest) (*dto.ServiceTypeResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	st := &entity.ServiceType{
		ID:          uuid.New().String(),
		Name:        name,
		Company:     in.Company,
		Responsible: in.Responsible,
		CreatedAt:   time.Now(),
	}
	if err := uc.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return toServiceTypeResponse(st), nil
}

func (uc *ServiceTypeUseCase) Update(ctx context.Context, id string, in dto.ServiceTypeRequest) (*dto.ServiceTypeResponse, error) {
	st, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	st.Name = strings.TrimSpace(in.Name)
	st.Company = in.Company
	st.Responsible = in.Responsible
	if err := uc.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return toServiceTypeResponse(st), nil
}

// Delete ErrConflict si el tipo todavía tiene estoque o saldos.
func (uc *ServiceTypeUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *ServiceTypeUseCase) List(ctx context.Context) ([]dto.ServiceTypeResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceTypeResponse, 0, len(list))
	for _, st := range list {
		out = append(out, *toServiceTypeResponse(st))
	}
	return out, nil
}

func toServiceTypeResponse(st *entity.ServiceType) *dto.ServiceTypeResponse {
	return &dto.ServiceTypeResponse{
		ID:          st.ID,
		Name:        st.Name,
		Company:     st.Company,
		Responsible: st.Responsible,
		CreatedAt:   st.CreatedAt,
	}
}

// PartnerCompanyUseCase CRUD de empresas parceiras.
type PartnerCompanyUseCase struct {
	repo repository.PartnerCompanyRepository
}

// NewPartnerCompanyUseCase construye el caso de uso.
func NewPartnerCompanyUseCase(repo repository.PartnerCompanyRepository) *PartnerCompanyUseCase {
	return &PartnerCompanyUseCase{repo: repo}
}

func (uc *PartnerCompanyUseCase) Create(ctx context.Context, in dto.PartnerCompanyRequest) (*dto.PartnerCompanyResponse, error) {
	if strings.TrimSpace(in.LegalName) == "" {
		return nil, domain.ErrInvalidInput
	}
	p := &entity.PartnerCompany{
		ID:            uuid.New().String(),
		LegalName:     strings.TrimSpace(in.LegalName),
		CNPJ:          in.CNPJ,
		Address:       in.Address,
		Contact:       in.Contact,
		ServiceTypeID: in.ServiceTypeID,
		Notes:         in.Notes,
		CreatedAt:     time.Now(),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

func (uc *PartnerCompanyUseCase) Update(ctx context.Context, id string, in dto.PartnerCompanyRequest) (*dto.PartnerCompanyResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.LegalName = strings.TrimSpace(in.LegalName)
	p.CNPJ = in.CNPJ
	p.Address = in.Address
	p.Contact = in.Contact
	p.ServiceTypeID = in.ServiceTypeID
	p.Notes = in.Notes
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPartnerResponse(p), nil
}

func (uc *PartnerCompanyUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *PartnerCompanyUseCase) List(ctx context.Context) ([]dto.PartnerCompanyResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerCompanyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPartnerResponse(p))
	}
	return out, nil
}

func toPartnerResponse(p *entity.PartnerCompany) *dto.PartnerCompanyResponse {
	return &dto.PartnerCompanyResponse{
		ID:            p.ID,
		LegalName:     p.LegalName,
		CNPJ:          p.CNPJ,
		Address:       p.Address,
		Contact:       p.Contact,
		ServiceTypeID: p.ServiceTypeID,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}
