package repository

import (
	"context"

	"github.com/logistock/logistock-api/internal/domain/entity"
)

// StockFilter filtros de consulta del estoque central.
type StockFilter struct {
	Code          string
	Description   string
	ServiceTypeID string
	OnlyLow       bool // quantity <= min_quantity
	OnlyAvailable bool // quantity > 0
	Limit         int
	Offset        int
}

// CentralStockRepository puerto del estoque central. Usado dentro de transacciones.
type CentralStockRepository interface {
	GetByID(ctx context.Context, id string) (*entity.CentralStock, error)
	Get(ctx context.Context, key entity.StockKey) (*entity.CentralStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.CentralStock, error)
	// Add suma delta de forma atómica creando la fila si no existe.
	// location no vacío reemplaza la ubicación.
	Add(ctx context.Context, key entity.StockKey, delta int64, location string) (*entity.CentralStock, error)
	SetQuantity(ctx context.Context, id string, quantity int64) error
	UpdateMinimum(ctx context.Context, id string, min int64) error
	UpdateLocation(ctx context.Context, id string, location string) error
	List(ctx context.Context, f StockFilter) ([]*entity.StockLevel, error)
}

// BalanceFilter filtros de saldos de técnicos.
type BalanceFilter struct {
	TechnicianID  string
	ServiceTypeID string
	ItemID        string
	OnlyPositive  bool
}

// TechnicianBalanceRepository puerto de saldos por técnico.
type TechnicianBalanceRepository interface {
	// GetForUpdate bloquea la fila exacta. Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.TechnicianBalance, error)
	// ListForUpdate bloquea todas las filas del técnico para ítem y tipo de servicio, cualquier dirección.
	ListForUpdate(ctx context.Context, technicianID, itemID, serviceTypeID string) ([]*entity.TechnicianBalance, error)
	Add(ctx context.Context, key entity.BalanceKey, delta int64) (*entity.TechnicianBalance, error)
	SetQuantity(ctx context.Context, id string, quantity int64) error
	List(ctx context.Context, f BalanceFilter) ([]*entity.BalanceLine, error)
}

// LedgerEntryRepository registro de auditoría del ledger.
type LedgerEntryRepository interface {
	Append(ctx context.Context, e *entity.LedgerEntry) error
	ListByDocument(ctx context.Context, documentID string) ([]*entity.LedgerEntry, error)
}
