package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CentralStock existencia del almacén central por ítem y tipo de servicio.
// ServiceTypeID vacío es una fila válida (sin tipo de servicio).
type CentralStock struct {
	ID            string
	ItemID        string
	ServiceTypeID string
	Quantity      int64
	MinQuantity   int64
	Location      string
	UpdatedAt     time.Time
}

// IsLow indica alerta de estoque mínimo.
func (s *CentralStock) IsLow() bool {
	return s.Quantity <= s.MinQuantity
}

// TechnicianBalance saldo en poder de un técnico, por ítem, tipo de servicio y dirección opcional.
type TechnicianBalance struct {
	ID            string
	TechnicianID  string
	ItemID        string
	ServiceTypeID string
	Address       string
	Quantity      int64
	UpdatedAt     time.Time
}

// StockLevel vista de lectura: fila de estoque con datos del ítem y tipo de servicio.
type StockLevel struct {
	CentralStock
	ItemCode        string
	ItemDescription string
	ItemUnit        string
	UnitValue       decimal.Decimal
	IsEquipment     bool
	ServiceTypeName string
}

// BalanceLine vista de lectura del saldo de un técnico.
type BalanceLine struct {
	TechnicianBalance
	TechnicianName  string
	ItemCode        string
	ItemDescription string
	ItemUnit        string
	UnitValue       decimal.Decimal
	ServiceTypeName string
}

// StockKey identifica una fila de estoque central.
type StockKey struct {
	ItemID        string
	ServiceTypeID string
}

// BalanceKey identifica una fila de saldo de técnico.
type BalanceKey struct {
	TechnicianID  string
	ItemID        string
	ServiceTypeID string
	Address       string
}
