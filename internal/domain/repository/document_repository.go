package repository

import (
	"context"

	"github.com/logistock/logistock-api/internal/domain/entity"
)

// DocumentRepository persistencia de documentos de movimiento y sus líneas.
type DocumentRepository interface {
	// Create inserta cabecera y líneas. ErrDuplicate si el número ya existe para el tipo.
	Create(ctx context.Context, d *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate bloquea la cabecera para serializar transiciones de estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	NumberExists(ctx context.Context, kind, number string) (bool, error)
	UpdateStatus(ctx context.Context, d *entity.Document) error
	UpdateLine(ctx context.Context, l *entity.DocumentLine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f entity.DocumentFilter) ([]*entity.Document, error)
	CountByStatus(ctx context.Context, kind, status string) (int, error)
	Consumption(ctx context.Context, f entity.ConsumptionFilter) ([]*entity.ConsumptionRow, error)
}

// EquipmentRepository unidades físicas de equipos y su historial.
type EquipmentRepository interface {
	CreateUnits(ctx context.Context, units []*entity.EquipmentUnit) error
	// HeldForUpdate bloquea hasta limit unidades del ítem en poder del técnico, las más antiguas primero.
	HeldForUpdate(ctx context.Context, technicianID, itemID string, limit int) ([]*entity.EquipmentUnit, error)
	GetUnitForUpdate(ctx context.Context, id string) (*entity.EquipmentUnit, error)
	UpdateUnit(ctx context.Context, u *entity.EquipmentUnit) error
	ListUnits(ctx context.Context, technicianID, itemID string) ([]*entity.EquipmentUnit, error)
	AppendHistory(ctx context.Context, h *entity.EquipmentHistory) error
	History(ctx context.Context, technicianID, itemID string, limit int) ([]*entity.EquipmentHistory, error)
	Holdings(ctx context.Context, technicianID string) ([]*entity.EquipmentHolding, error)
}
