package entity

import "time"

// EquipmentUnit unidad física de un ítem marcado como equipo.
// Status toma EquipmentToTechnician o EquipmentToWarehouse.
type EquipmentUnit struct {
	ID           string
	ItemID        string
	ServiceTypeID string
	TechnicianID  string
	Status        string
	Location      string
	CheckedOutAt  *time.Time
	ReturnedAt    *time.Time
	CreatedAt     time.Time
}

// EquipmentHistory log de salidas y devoluciones.
type EquipmentHistory struct {
	ID           string
	DocumentID   string
	ItemID       string
	TechnicianID string
	Direction    string
	Quantity     int64
	Location     string
	CreatedBy    string
	CreatedAt    time.Time
}

// EquipmentHolding cantidad de unidades de un ítem en poder de un técnico.
type EquipmentHolding struct {
	TechnicianID    string
	TechnicianName  string
	ItemID          string
	ItemCode        string
	ItemDescription string
	Quantity        int64
}
