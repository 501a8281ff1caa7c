package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Documentos que esperan acción del almoxarifado
	PendingRequisitions int `json:"pending_requisitions"`
	PendingWriteOffs    int `json:"pending_write_offs"`

	// Alertas de estoque mínimo (quantity <= min_quantity)
	LowStockCount int                  `json:"low_stock_count"`
	LowStock      []StockLevelResponse `json:"low_stock"`

	ActiveTechnicians int    `json:"active_technicians"`
	DateLabel         string `json:"date_label"` // ej. "Outubro 2026"
}

// ConsumptionRequest filtros del reporte de consumo (GET /api/reports/consumption).
type ConsumptionRequest struct {
	TechnicianID string `query:"technician_id" validate:"omitempty,uuid"`
	Code         string `query:"code"`
	Address      string `query:"address"`
	From         string `query:"from"` // YYYY-MM-DD
	To           string `query:"to"`   // YYYY-MM-DD
}

// ConsumptionRowDTO fila agregada: día, técnico, código y dirección.
type ConsumptionRowDTO struct {
	Day            string          `json:"day"` // YYYY-MM-DD
	TechnicianID   string          `json:"technician_id"`
	TechnicianName string          `json:"technician_name"`
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	Address        string          `json:"address"`
	Quantity       int64           `json:"quantity"`
	Total          decimal.Decimal `json:"total"`
}

// ConsumptionReportDTO reporte de consumo con totales.
type ConsumptionReportDTO struct {
	Rows          []ConsumptionRowDTO `json:"rows"`
	TotalQuantity int64               `json:"total_quantity"`
	TotalValue    decimal.Decimal     `json:"total_value"`
}
