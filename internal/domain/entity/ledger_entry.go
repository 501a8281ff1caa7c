package entity

import "time"

// Lados del ledger.
const (
	SideCentral    = "central"
	SideTechnician = "technician"
)

// LedgerEntry registro inmutable de cada delta aplicado a estoque o saldo.
type LedgerEntry struct {
	ID            string
	DocumentID    string
	LineID        string
	Side          string
	ItemID        string
	ServiceTypeID string
	TechnicianID  string
	Address       string
	Delta         int64
	Resulting     int64
	CreatedAt     time.Time
}
