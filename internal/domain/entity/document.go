package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de movimiento.
const (
	DocumentInvoice          = "invoice"
	DocumentInternalTransfer = "internal_transfer"
	DocumentExternalTransfer = "external_transfer"
	DocumentRequisition      = "requisition"
	DocumentInitialKit       = "initial_kit"
	DocumentWriteOff         = "write_off"
	DocumentEquipment        = "equipment_movement"
	DocumentStockCount       = "stock_count"
	DocumentTechnicianCount  = "technician_count"
)

// Estados de documento. Solo pending admite transición y solo una vez.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusRefused   = "refused"
)

// Estados de línea.
const (
	LinePending  = "pending"
	LineApplied  = "applied"
	LineApproved = "approved"
	LineSkipped  = "skipped"
)

// Sentido de un movimiento de equipo.
const (
	EquipmentToTechnician = "tecnico"
	EquipmentToWarehouse  = "almoxarifado"
)

// ValidDocumentKind indica si k es un tipo conocido.
func ValidDocumentKind(k string) bool {
	switch k {
	case DocumentInvoice, DocumentInternalTransfer, DocumentExternalTransfer, DocumentRequisition,
		DocumentInitialKit, DocumentWriteOff, DocumentEquipment, DocumentStockCount, DocumentTechnicianCount:
		return true
	}
	return false
}

// Document cabecera común de todos los documentos de movimiento.
// Los campos que no aplican a un tipo quedan vacíos.
type Document struct {
	ID               string
	Kind             string
	Status           string
	Number           string // número de nota fiscal
	Reservation      string
	Name             string // nombre del kit
	TechnicianID     string
	PartnerCompanyID string
	ServiceTypeID    string
	Area             string // área técnica / dirección de destino del saldo
	Neighborhood     string
	PropertyCode     string
	Responsible      string
	AuthorizedBy     string
	WithdrawnBy      string
	Notes            string
	IssuedAt         *time.Time
	CreatedBy        string
	CreatedAt        time.Time
	FinalizedAt      *time.Time
	FinalizedBy      string
	Lines            []*DocumentLine
}

// IsFinal indica que el documento ya no admite transiciones.
func (d *Document) IsFinal() bool {
	return d.Status != StatusPending
}

// Total suma cantidad × valor unitario de las líneas.
func (d *Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// PendingLines devuelve las líneas aún no aplicadas.
func (d *Document) PendingLines() []*DocumentLine {
	var out []*DocumentLine
	for _, l := range d.Lines {
		if l.Status == LinePending {
			out = append(out, l)
		}
	}
	return out
}

// DocumentLine línea de un documento.
type DocumentLine struct {
	ID          string
	DocumentID  string
	Position    int
	ItemID      string
	Code        string
	Description string
	Unit        string
	Quantity    int64
	UnitValue   decimal.Decimal
	Location    string
	Direction   string // solo equipos
	// QuantityBefore guarda el estoque visto al solicitar (requisición) o antes del conteo.
	QuantityBefore int64
	Status         string
	Note           string
}

// Total cantidad × valor unitario.
func (l *DocumentLine) Total() decimal.Decimal {
	return l.UnitValue.Mul(decimal.NewFromInt(l.Quantity))
}

// DocumentFilter filtros de listado.
type DocumentFilter struct {
	Kind         string
	Status       string
	TechnicianID string
	Search       string // número o reserva
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// ConsumptionFilter filtros del reporte de consumo de requisiciones entregadas.
type ConsumptionFilter struct {
	TechnicianID string
	Code         string
	Address      string
	From         *time.Time
	To           *time.Time
}

// ConsumptionRow fila agregada del reporte de consumo.
type ConsumptionRow struct {
	Day            time.Time
	TechnicianID   string
	TechnicianName string
	ItemCode       string
	Description    string
	Unit           string
	Address        string
	Quantity       int64
	Total          decimal.Decimal
}
