package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/logistock/logistock-api/internal/application/analytics"
	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/infrastructure/spreadsheet"
)

// DashboardHandler resumen del almoxarifado y reporte de consumo.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los contadores de la pantalla inicial.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (pending_requisitions, pending_write_offs,
// low_stock_count, low_stock, active_technicians, date_label).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// Consumption godoc
// @Summary      Reporte de consumo
// @Description  Cantidades entregadas por requisición agrupadas por día, técnico, código y dirección.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        technician_id  query  string  false  "Técnico"
// @Param        code           query  string  false  "Código (substring)"
// @Param        address        query  string  false  "Dirección (substring)"
// @Param        from           query  string  false  "YYYY-MM-DD"
// @Param        to             query  string  false  "YYYY-MM-DD"
// @Param        format         query  string  false  "xlsx para descargar planilla"
// @Success      200  {object}  dto.ConsumptionReportDTO
// @Router       /api/reports/consumption [get]
func (h *DashboardHandler) Consumption(c *fiber.Ctx) error {
	var in dto.ConsumptionRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Consumption(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	if wantsXLSX(c) {
		return sendXLSX(c, "consumo.xlsx", func(buf *bytes.Buffer) error {
			return spreadsheet.WriteConsumption(buf, out)
		})
	}
	return c.JSON(out)
}
