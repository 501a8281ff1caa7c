package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de entrada. El ítem se identifica por ItemID o por Code.
// UnitValue acepta formato BRL ("1.234,56") o decimal simple ("22.90"); inválido vale 0.
type DocumentLineRequest struct {
	ItemID      string `json:"item_id" validate:"omitempty,uuid"`
	Code        string `json:"code" validate:"max=60"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Quantity    int64  `json:"quantity"`
	UnitValue   string `json:"unit_value"`
	Location    string `json:"location"`
}

// InvoiceRequest body de POST /api/invoices (entrada de nota fiscal).
type InvoiceRequest struct {
	Number        string                `json:"number" validate:"required,max=60"`
	Reservation   string                `json:"reservation" validate:"max=60"`
	IssuedAt      *time.Time            `json:"issued_at"`
	ServiceTypeID string                `json:"service_type_id" validate:"omitempty,uuid"`
	Responsible   string                `json:"responsible"`
	Notes         string                `json:"notes"`
	Lines         []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InternalTransferRequest transferencia del almoxarifado a un técnico.
type InternalTransferRequest struct {
	TechnicianID  string                `json:"technician_id" validate:"required,uuid"`
	Area          string                `json:"area" validate:"required,max=200"`
	ServiceTypeID string                `json:"service_type_id" validate:"required,uuid"`
	Reservation   string                `json:"reservation" validate:"max=60"`
	Responsible   string                `json:"responsible"`
	Notes         string                `json:"notes"`
	Lines         []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ExternalTransferRequest salida de estoque hacia una empresa parceira.
type ExternalTransferRequest struct {
	PartnerCompanyID string                `json:"partner_company_id" validate:"required,uuid"`
	AuthorizedBy     string                `json:"authorized_by" validate:"required,max=200"`
	WithdrawnBy      string                `json:"withdrawn_by" validate:"required,max=200"`
	ServiceTypeID    string                `json:"service_type_id" validate:"required,uuid"`
	Notes            string                `json:"notes"`
	Lines            []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RequisitionRequest solicitud de material de un técnico.
// Para perfiles tecnico el técnico sale del token.
type RequisitionRequest struct {
	TechnicianID  string                `json:"technician_id" validate:"omitempty,uuid"`
	ServiceTypeID string                `json:"service_type_id" validate:"omitempty,uuid"`
	Area          string                `json:"area" validate:"max=200"`
	Neighborhood  string                `json:"neighborhood" validate:"max=200"`
	PropertyCode  string                `json:"property_code" validate:"max=60"`
	Reservation   string                `json:"reservation" validate:"max=60"`
	Notes         string                `json:"notes"`
	Lines         []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// LineQuantityUpdate nueva cantidad para una línea pendiente.
type LineQuantityUpdate struct {
	LineID   string `json:"line_id" validate:"required,uuid"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

// UpdateLinesRequest edición de cantidades de una requisición pendiente.
type UpdateLinesRequest struct {
	Lines []LineQuantityUpdate `json:"lines" validate:"required,min=1,dive"`
}

// KitRequest kit inicial entregado a un técnico.
type KitRequest struct {
	Name          string                `json:"name" validate:"required,max=200"`
	TechnicianID  string                `json:"technician_id" validate:"required,uuid"`
	ServiceTypeID string                `json:"service_type_id" validate:"omitempty,uuid"`
	Notes         string                `json:"notes"`
	Lines         []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// WriteOffRequest baixa de material aplicado por un técnico.
type WriteOffRequest struct {
	TechnicianID  string                `json:"technician_id" validate:"omitempty,uuid"`
	ServiceTypeID string                `json:"service_type_id" validate:"omitempty,uuid"`
	Area          string                `json:"area" validate:"max=200"`
	Notes         string                `json:"notes"`
	Lines         []DocumentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ApproveLinesRequest líneas seleccionadas para aprobar.
type ApproveLinesRequest struct {
	LineIDs []string `json:"line_ids" validate:"required,min=1,dive,uuid"`
}

// EquipmentLineRequest línea de movimiento de equipo.
type EquipmentLineRequest struct {
	ItemID    string `json:"item_id" validate:"omitempty,uuid"`
	Code      string `json:"code" validate:"max=60"`
	Quantity  int64  `json:"quantity"`
	Direction string `json:"direction" validate:"required,oneof=tecnico almoxarifado"`
	Location  string `json:"location"`
}

// EquipmentMovementRequest salida o devolución de equipos.
type EquipmentMovementRequest struct {
	TechnicianID  string                 `json:"technician_id" validate:"required,uuid"`
	ServiceTypeID string                 `json:"service_type_id" validate:"omitempty,uuid"`
	Notes         string                 `json:"notes"`
	Lines         []EquipmentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// EquipmentReturnRequest devolución directa por técnico e ítem.
type EquipmentReturnRequest struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
	ItemID       string `json:"item_id" validate:"required,uuid"`
	Quantity     int64  `json:"quantity" validate:"gt=0"`
	Location     string `json:"location"`
}

// UnitReturnRequest devolución de una unidad puntual.
type UnitReturnRequest struct {
	Location string `json:"location"`
}

// CountLineRequest cantidad contada. Counted nil significa "no contado".
type CountLineRequest struct {
	ItemID        string `json:"item_id" validate:"omitempty,uuid"`
	Code          string `json:"code" validate:"max=60"`
	ServiceTypeID string `json:"service_type_id" validate:"omitempty,uuid"`
	Address       string `json:"address"`
	Counted       *int64 `json:"counted"`
}

// CountRequest conteo físico del almoxarifado o de un técnico.
type CountRequest struct {
	Notes string             `json:"notes"`
	Lines []CountLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// DocumentFilterRequest filtros de listado de documentos.
type DocumentFilterRequest struct {
	Status       string `query:"status" validate:"omitempty,oneof=pending confirmed delivered refused"`
	TechnicianID string `query:"technician_id" validate:"omitempty,uuid"`
	Search       string `query:"q"`
	From         string `query:"from"` // YYYY-MM-DD
	To           string `query:"to"`   // YYYY-MM-DD
	PageRequest
}

// DocumentLineResponse línea de un documento.
type DocumentLineResponse struct {
	ID             string          `json:"id"`
	Position       int             `json:"position"`
	ItemID         string          `json:"item_id,omitempty"`
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	Quantity       int64           `json:"quantity"`
	UnitValue      decimal.Decimal `json:"unit_value"`
	Total          decimal.Decimal `json:"total"`
	Location       string          `json:"location,omitempty"`
	Direction      string          `json:"direction,omitempty"`
	QuantityBefore int64           `json:"quantity_before"`
	Status         string          `json:"status"`
	Note           string          `json:"note,omitempty"`
}

// DocumentResponse documento de movimiento con sus líneas.
type DocumentResponse struct {
	ID               string                 `json:"id"`
	Kind             string                 `json:"kind"`
	Status           string                 `json:"status"`
	Number           string                 `json:"number,omitempty"`
	Reservation      string                 `json:"reservation,omitempty"`
	Name             string                 `json:"name,omitempty"`
	TechnicianID     string                 `json:"technician_id,omitempty"`
	PartnerCompanyID string                 `json:"partner_company_id,omitempty"`
	ServiceTypeID    string                 `json:"service_type_id,omitempty"`
	Area             string                 `json:"area,omitempty"`
	Neighborhood     string                 `json:"neighborhood,omitempty"`
	PropertyCode     string                 `json:"property_code,omitempty"`
	Responsible      string                 `json:"responsible,omitempty"`
	AuthorizedBy     string                 `json:"authorized_by,omitempty"`
	WithdrawnBy      string                 `json:"withdrawn_by,omitempty"`
	Notes            string                 `json:"notes,omitempty"`
	IssuedAt         *time.Time             `json:"issued_at,omitempty"`
	CreatedBy        string                 `json:"created_by,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	FinalizedAt      *time.Time             `json:"finalized_at,omitempty"`
	FinalizedBy      string                 `json:"finalized_by,omitempty"`
	Total            decimal.Decimal        `json:"total"`
	Lines            []DocumentLineResponse `json:"lines,omitempty"`
	Issues           []LineIssue            `json:"issues,omitempty"`
}

// DocumentListResponse lista paginada de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CountResponse contador simple (pendientes).
type CountResponse struct {
	Count int `json:"count"`
}

// EquipmentUnitResponse unidad física de equipo.
type EquipmentUnitResponse struct {
	ID            string     `json:"id"`
	ItemID        string     `json:"item_id"`
	ServiceTypeID string     `json:"service_type_id,omitempty"`
	TechnicianID  string     `json:"technician_id,omitempty"`
	Status        string     `json:"status"`
	Location      string     `json:"location"`
	CheckedOutAt  *time.Time `json:"checked_out_at,omitempty"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
}

// EquipmentHoldingResponse unidades de un ítem en poder de un técnico.
type EquipmentHoldingResponse struct {
	TechnicianID    string `json:"technician_id"`
	TechnicianName  string `json:"technician_name"`
	ItemID          string `json:"item_id"`
	ItemCode        string `json:"item_code"`
	ItemDescription string `json:"item_description"`
	Quantity        int64  `json:"quantity"`
}

// EquipmentHistoryResponse entrada del historial de equipos.
type EquipmentHistoryResponse struct {
	ID           string    `json:"id"`
	DocumentID   string    `json:"document_id,omitempty"`
	ItemID       string    `json:"item_id"`
	TechnicianID string    `json:"technician_id,omitempty"`
	Direction    string    `json:"direction"`
	Quantity     int64     `json:"quantity"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
