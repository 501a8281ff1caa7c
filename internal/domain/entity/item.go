package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un material o equipo del catálogo.
type Item struct {
	ID            string
	Code          string // único
	Description   string
	Unit          string
	UnitValue     decimal.Decimal
	IsEquipment   bool // los equipos se controlan además por unidad física
	Notes         string
	ServiceTypeID string // tipo de servicio por defecto, vacío = ninguno
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ServiceType agrupa estoque y saldos (ej. "Fibra", "Rede elétrica").
type ServiceType struct {
	ID          string
	Name        string // único
	Company     string
	Responsible string
	CreatedAt   time.Time
}
