package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repos) error) error
}

// TechnicianUseCase alta y mantenimiento de técnicos.
// Al crear un técnico con email se crea también su usuario de perfil tecnico.
type TechnicianUseCase struct {
	tx TxRunner
}

// NewTechnicianUseCase construye el caso de uso.
func NewTechnicianUseCase(tx TxRunner) *TechnicianUseCase {
	return &TechnicianUseCase{tx: tx}
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// Create registra el técnico. Si se informa email y no existe un usuario con ese email,
// crea el usuario tecnico con la contraseña informada o, en su defecto, los dígitos del CPF.
func (uc *TechnicianUseCase) Create(ctx context.Context, in dto.TechnicianRequest) (*dto.TechnicianResponse, error) {
	name, registration := strings.TrimSpace(in.Name), strings.TrimSpace(in.Registration)
	if name == "" || registration == "" {
		return nil, domain.ErrInvalidInput
	}
	password := in.Password
	if password == "" {
		password = digits(in.CPF)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && len(password) < 6 {
		return nil, domain.ErrInvalidInput
	}

	var out *dto.TechnicianResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.Technicians.GetByRegistration(ctx, registration)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		now := time.Now()
		t := &entity.Technician{
			ID:            uuid.New().String(),
			Name:          name,
			Registration:  registration,
			CPF:           strings.TrimSpace(in.CPF),
			Phone:         in.Phone,
			Email:         email,
			Area:          in.Area,
			Status:        entity.TechnicianActive,
			ServiceTypeID: in.ServiceTypeID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Technicians.Create(ctx, t); err != nil {
			return err
		}
		out = toTechnicianResponse(t)
		if email == "" {
			return nil
		}
		user, err := r.Users.FindByEmail(ctx, email)
		if err != nil || user != nil {
			return err
		}
		hash, err := hashPassword(password)
		if err != nil {
			return err
		}
		user = &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			Role:         entity.RoleTechnician,
			Status:       entity.UserActive,
			TechnicianID: t.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		out.UserID = user.ID
		return nil
	})
	return out, err
}

func (uc *TechnicianUseCase) get(ctx context.Context, r repository.Repos, id string) (*entity.Technician, error) {
	t, err := r.Technicians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (uc *TechnicianUseCase) GetByID(ctx context.Context, id string) (*dto.TechnicianResponse, error) {
	var out *dto.TechnicianResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		t, err := uc.get(ctx, r, id)
		if err != nil {
			return err
		}
		out = toTechnicianResponse(t)
		return nil
	})
	return out, err
}

// Update edita los datos del técnico. La contraseña del usuario no se modifica aquí.
func (uc *TechnicianUseCase) Update(ctx context.Context, id string, in dto.TechnicianRequest) (*dto.TechnicianResponse, error) {
	var out *dto.TechnicianResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		t, err := uc.get(ctx, r, id)
		if err != nil {
			return err
		}
		registration := strings.TrimSpace(in.Registration)
		if registration != t.Registration {
			other, err := r.Technicians.GetByRegistration(ctx, registration)
			if err != nil {
				return err
			}
			if other != nil {
				return domain.ErrDuplicate
			}
		}
		t.Name = strings.TrimSpace(in.Name)
		t.Registration = registration
		t.CPF = strings.TrimSpace(in.CPF)
		t.Phone = in.Phone
		t.Email = strings.ToLower(strings.TrimSpace(in.Email))
		t.Area = in.Area
		t.ServiceTypeID = in.ServiceTypeID
		t.UpdatedAt = time.Now()
		if err := r.Technicians.Update(ctx, t); err != nil {
			return err
		}
		out = toTechnicianResponse(t)
		return nil
	})
	return out, err
}

// SetStatus activa o inactiva al técnico. Un técnico inactivo no recibe transferencias ni kits.
func (uc *TechnicianUseCase) SetStatus(ctx context.Context, id string, in dto.TechnicianStatusRequest) (*dto.TechnicianResponse, error) {
	if in.Status != entity.TechnicianActive && in.Status != entity.TechnicianInactive {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.TechnicianResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		t, err := uc.get(ctx, r, id)
		if err != nil {
			return err
		}
		t.Status = in.Status
		t.UpdatedAt = time.Now()
		if err := r.Technicians.Update(ctx, t); err != nil {
			return err
		}
		out = toTechnicianResponse(t)
		return nil
	})
	return out, err
}

func (uc *TechnicianUseCase) List(ctx context.Context, status, search string) ([]dto.TechnicianResponse, error) {
	var out []dto.TechnicianResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		list, err := r.Technicians.List(ctx, repository.TechnicianFilter{Status: status, Search: strings.TrimSpace(search)})
		if err != nil {
			return err
		}
		out = make([]dto.TechnicianResponse, 0, len(list))
		for _, t := range list {
			out = append(out, *toTechnicianResponse(t))
		}
		return nil
	})
	return out, err
}

func toTechnicianResponse(t *entity.Technician) *dto.TechnicianResponse {
	return &dto.TechnicianResponse{
		ID:            t.ID,
		Name:          t.Name,
		Registration:  t.Registration,
		CPF:           t.CPF,
		Phone:         t.Phone,
		Email:         t.Email,
		Area:          t.Area,
		Status:        t.Status,
		ServiceTypeID: t.ServiceTypeID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
