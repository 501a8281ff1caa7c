package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockFilterRequest filtros de GET /api/stock.
type StockFilterRequest struct {
	Code          string `query:"code"`
	Description   string `query:"description"`
	ServiceTypeID string `query:"service_type_id" validate:"omitempty,uuid"`
	OnlyLow       bool   `query:"only_low"`
	OnlyAvailable bool   `query:"only_available"`
}

// StockLevelResponse fila del estoque central con datos del ítem.
type StockLevelResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemDescription string          `json:"item_description"`
	Unit            string          `json:"unit"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	IsEquipment     bool            `json:"is_equipment"`
	ServiceTypeID   string          `json:"service_type_id,omitempty"`
	ServiceTypeName string          `json:"service_type_name,omitempty"`
	Quantity        int64           `json:"quantity"`
	MinQuantity     int64           `json:"min_quantity"`
	Location        string          `json:"location"`
	Low             bool            `json:"low"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MinimumUpdate nuevo mínimo para una fila: entero absoluto ("15") o porcentaje de la cantidad actual ("20%").
type MinimumUpdate struct {
	StockID string `json:"stock_id" validate:"required,uuid"`
	Minimum string `json:"minimum" validate:"required"`
}

// UpdateMinimumsRequest body de PUT /api/stock/minimums.
type UpdateMinimumsRequest struct {
	Items []MinimumUpdate `json:"items" validate:"required,min=1,dive"`
}

// LocationUpdate nueva ubicación de una fila de estoque.
type LocationUpdate struct {
	StockID  string `json:"stock_id" validate:"required,uuid"`
	Location string `json:"location" validate:"max=120"`
}

// UpdateLocationsRequest body de PUT /api/stock/locations.
type UpdateLocationsRequest struct {
	Items []LocationUpdate `json:"items" validate:"required,min=1,dive"`
}

// BulkUpdateResponse resultado de una actualización en lote.
type BulkUpdateResponse struct {
	Updated int         `json:"updated"`
	Issues  []LineIssue `json:"issues,omitempty"`
}

// ItemBalanceResponse saldo consolidado de un ítem.
type ItemBalanceResponse struct {
	ItemID          string               `json:"item_id"`
	Code            string               `json:"code"`
	Description     string               `json:"description"`
	Unit            string               `json:"unit"`
	Central         int64                `json:"central"`
	WithTechnicians int64                `json:"with_technicians"`
	Rows            []StockLevelResponse `json:"rows"`
}

// AddressQuantity cantidad en poder del técnico en una dirección.
type AddressQuantity struct {
	Address  string `json:"address"`
	Quantity int64  `json:"quantity"`
}

// BalanceItemResponse saldo del técnico agrupado por ítem y tipo de servicio.
type BalanceItemResponse struct {
	ItemID          string            `json:"item_id"`
	Code            string            `json:"code"`
	Description     string            `json:"description"`
	Unit            string            `json:"unit"`
	UnitValue       decimal.Decimal   `json:"unit_value"`
	ServiceTypeID   string            `json:"service_type_id,omitempty"`
	ServiceTypeName string            `json:"service_type_name,omitempty"`
	Quantity        int64             `json:"quantity"`
	Addresses       []AddressQuantity `json:"addresses"`
}

// TechnicianBalanceResponse saldo completo de un técnico.
type TechnicianBalanceResponse struct {
	TechnicianID   string                `json:"technician_id"`
	TechnicianName string                `json:"technician_name"`
	Items          []BalanceItemResponse `json:"items"`
}

// LedgerEntryResponse asiento del ledger.
type LedgerEntryResponse struct {
	ID            string    `json:"id"`
	LineID        string    `json:"line_id,omitempty"`
	Side          string    `json:"side"`
	ItemID        string    `json:"item_id"`
	ServiceTypeID string    `json:"service_type_id,omitempty"`
	TechnicianID  string    `json:"technician_id,omitempty"`
	Address       string    `json:"address,omitempty"`
	Delta         int64     `json:"delta"`
	Resulting     int64     `json:"resulting"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReplenishmentSuggestionDTO fila de la lista de reposición: estoque bajo el mínimo con la cantidad sugerida.
type ReplenishmentSuggestionDTO struct {
	StockID            string          `json:"stock_id"`
	ItemID             string          `json:"item_id"`
	Code               string          `json:"code"`
	Description        string          `json:"description"`
	ServiceTypeID      string          `json:"service_type_id,omitempty"`
	ServiceTypeName    string          `json:"service_type_name,omitempty"`
	CurrentStock       int64           `json:"current_stock"`
	MinQuantity        int64           `json:"min_quantity"`
	IdealStock         int64           `json:"ideal_stock"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`
	UnitValue          decimal.Decimal `json:"unit_value"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	ConsumedLast90Days int64           `json:"consumed_last_90_days"`
	Priority           int             `json:"priority"`
}
