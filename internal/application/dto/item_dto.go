package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem del catálogo.
type CreateItemRequest struct {
	Code          string          `json:"code" validate:"required,min=1,max=60"`
	Description   string          `json:"description" validate:"required,min=1,max=300"`
	Unit          string          `json:"unit" validate:"omitempty,max=20"`
	UnitValue     decimal.Decimal `json:"unit_value" validate:"gte=0"`
	IsEquipment   bool            `json:"is_equipment"`
	Notes         string          `json:"notes"`
	ServiceTypeID string          `json:"service_type_id" validate:"omitempty,uuid"`
}

// UpdateItemRequest actualización parcial de un ítem.
type UpdateItemRequest struct {
	Code          *string          `json:"code" validate:"omitempty,min=1,max=60"`
	Description   *string          `json:"description" validate:"omitempty,min=1,max=300"`
	Unit          *string          `json:"unit" validate:"omitempty,max=20"`
	UnitValue     *decimal.Decimal `json:"unit_value" validate:"omitempty,gte=0"`
	IsEquipment   *bool            `json:"is_equipment"`
	Notes         *string          `json:"notes"`
	ServiceTypeID *string          `json:"service_type_id" validate:"omitempty,uuid"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	UnitValue     decimal.Decimal `json:"unit_value"`
	IsEquipment   bool            `json:"is_equipment"`
	Notes         string          `json:"notes"`
	ServiceTypeID string          `json:"service_type_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemImportRow fila leída de una planilla de ítems.
type ItemImportRow struct {
	Line        int
	Code        string
	Description string
	Unit        string
	UnitValue   decimal.Decimal
}

// ItemImportResponse resultado de una importación.
type ItemImportResponse struct {
	Created int         `json:"created"`
	Updated int         `json:"updated"`
	Issues  []LineIssue `json:"issues,omitempty"`
}
