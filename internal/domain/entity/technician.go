package entity

import "time"

// Estados de técnico.
const (
	TechnicianActive   = "Ativo"
	TechnicianInactive = "Inativo"
)

// Technician técnico de campo que recibe materiales.
type Technician struct {
	ID            string
	Name          string
	Registration  string // matrícula, única
	CPF           string
	Phone         string
	Email         string
	Area          string // área técnica
	Status        string
	ServiceTypeID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si el técnico puede recibir movimientos.
func (t *Technician) IsActive() bool {
	return t.Status == TechnicianActive
}

// PartnerCompany empresa externa destino de transferencias externas.
type PartnerCompany struct {
	ID            string
	LegalName     string
	CNPJ          string
	Address       string
	Contact       string
	ServiceTypeID string
	Notes         string
	CreatedAt     time.Time
}
