package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del catálogo. Cantidades se manejan vía documentos de movimiento.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem. ErrDuplicate si el código ya existe.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || strings.TrimSpace(in.Description) == "" || in.UnitValue.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.Unit == "" {
		in.Unit = "un"
	}
	now := time.Now()
	item := &entity.Item{
		ID:            uuid.New().String(),
		Code:          code,
		Description:   strings.TrimSpace(in.Description),
		Unit:          in.Unit,
		UnitValue:     in.UnitValue,
		IsEquipment:   in.IsEquipment,
		Notes:         in.Notes,
		ServiceTypeID: in.ServiceTypeID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

func (uc *ItemUseCase) get(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByCode búsqueda exacta por código (sin distinguir mayúsculas).
func (uc *ItemUseCase) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualización parcial.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return nil, domain.ErrInvalidInput
		}
		if !strings.EqualFold(code, item.Code) {
			other, err := uc.repo.GetByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrDuplicate
			}
		}
		item.Code = code
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.UnitValue != nil {
		if in.UnitValue.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.UnitValue = *in.UnitValue
	}
	if in.IsEquipment != nil {
		item.IsEquipment = *in.IsEquipment
	}
	if in.Notes != nil {
		item.Notes = *in.Notes
	}
	if in.ServiceTypeID != nil {
		item.ServiceTypeID = *in.ServiceTypeID
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina el ítem junto con sus filas de estoque.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List búsqueda por código o descripción con paginación.
func (uc *ItemUseCase) List(ctx context.Context, search string, equipmentOnly bool, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:        strings.TrimSpace(search),
		EquipmentOnly: equipmentOnly,
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, it := range list {
		out.Items = append(out.Items, *toItemResponse(it))
	}
	return out, nil
}

// Import crea o actualiza ítems por código a partir de filas de planilla.
// Las filas sin código o sin descripción se informan y no frenan el resto.
func (uc *ItemUseCase) Import(ctx context.Context, rows []dto.ItemImportRow) (*dto.ItemImportResponse, error) {
	out := &dto.ItemImportResponse{}
	now := time.Now()
	for _, row := range rows {
		code := strings.TrimSpace(row.Code)
		desc := strings.TrimSpace(row.Description)
		if code == "" || desc == "" {
			out.Issues = append(out.Issues, dto.LineIssue{Position: row.Line, Code: code, Reason: "código y descripción son obligatorios"})
			continue
		}
		if row.UnitValue.IsNegative() {
			out.Issues = append(out.Issues, dto.LineIssue{Position: row.Line, Code: code, Reason: "valor negativo"})
			continue
		}
		unit := strings.TrimSpace(row.Unit)
		if unit == "" {
			unit = "un"
		}
		existing, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			existing.Description = desc
			existing.Unit = unit
			existing.UnitValue = row.UnitValue
			existing.UpdatedAt = now
			if err := uc.repo.Update(ctx, existing); err != nil {
				return nil, err
			}
			out.Updated++
			continue
		}
		err = uc.repo.Create(ctx, &entity.Item{
			ID:          uuid.New().String(),
			Code:        code,
			Description: desc,
			Unit:        unit,
			UnitValue:   row.UnitValue,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			// código repetido dentro de la misma planilla con distinto formato
			out.Issues = append(out.Issues, dto.LineIssue{Position: row.Line, Code: code, Reason: "código repetido"})
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Created++
	}
	return out, nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:            it.ID,
		Code:          it.Code,
		Description:   it.Description,
		Unit:          it.Unit,
		UnitValue:     it.UnitValue,
		IsEquipment:   it.IsEquipment,
		Notes:         it.Notes,
		ServiceTypeID: it.ServiceTypeID,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
	}
}
