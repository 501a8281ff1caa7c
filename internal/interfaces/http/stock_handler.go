package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/infrastructure/spreadsheet"
)

// StockHandler estoque central, saldos de técnicos e inventarios físicos.
type StockHandler struct {
	stock         *inventory.StockUseCase
	counts        *inventory.CountUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stock *inventory.StockUseCase, counts *inventory.CountUseCase, replenishment *inventory.ReplenishmentUseCase) *StockHandler {
	return &StockHandler{stock: stock, counts: counts, replenishment: replenishment}
}

// sendXLSX escribe la planilla generada por write como descarga.
func sendXLSX(c *fiber.Ctx, filename string, write func(buf *bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, spreadsheet.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// List godoc
// @Summary      Estoque central
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        code             query  string  false  "Código (substring)"
// @Param        description      query  string  false  "Descripción (substring)"
// @Param        service_type_id  query  string  false  "Tipo de serviço"
// @Param        only_low         query  bool    false  "Solo bajo el mínimo"
// @Param        format           query  string  false  "xlsx para descargar planilla"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var in dto.StockFilterRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	if wantsXLSX(c) {
		return sendXLSX(c, "estoque.xlsx", func(buf *bytes.Buffer) error {
			return spreadsheet.WriteStock(buf, out)
		})
	}
	return c.JSON(out)
}

// Alerts GET /api/stock/alerts: filas con quantity <= mínimo.
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.stock.Alerts(c.Context(), c.Query("service_type_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Available GET /api/stock/available: ítems con quantity > 0 para armar requisiciones.
func (h *StockHandler) Available(c *fiber.Ctx) error {
	out, err := h.stock.Available(c.Context(), c.Query("service_type_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ItemBalance GET /api/stock/item?item_id=...|code=...
func (h *StockHandler) ItemBalance(c *fiber.Ctx) error {
	out, err := h.stock.ItemBalance(c.Context(), c.Query("item_id"), c.Query("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateMinimums godoc
// @Summary      Actualizar mínimos
// @Description  minimum admite un entero o "N%" del estoque actual.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateMinimumsRequest  true  "Mínimos por fila"
// @Success      200   {object}  dto.BulkUpdateResponse
// @Router       /api/stock/minimums [put]
func (h *StockHandler) UpdateMinimums(c *fiber.Ctx) error {
	var in dto.UpdateMinimumsRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.UpdateMinimums(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *StockHandler) UpdateLocations(c *fiber.Ctx) error {
	var in dto.UpdateLocationsRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.UpdateLocations(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replenishment GET /api/stock/replenishment: sugerencia de compra priorizada por consumo de 90 días.
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.Context(), c.Query("service_type_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockCount godoc
// @Summary      Inventario del almoxarifado
// @Description  Fija cada fila contada en la cantidad informada y guarda antes/después en la línea.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CountRequest  true  "Cantidades contadas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/counts [post]
func (h *StockHandler) StockCount(c *fiber.Ctx) error {
	var in dto.CountRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.counts.StockCount(c.Context(), actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// technicianParam resuelve el técnico de la ruta; el perfil tecnico solo accede al propio.
func technicianParam(c *fiber.Ctx) (string, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return "", err
	}
	if a := actor(c); a.IsTechnician() && a.TechnicianID != id {
		return "", domain.ErrForbidden
	}
	return id, nil
}

// TechnicianBalance godoc
// @Summary      Saldo del técnico
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        id               path   string  true   "ID del técnico"
// @Param        service_type_id  query  string  false  "Tipo de serviço"
// @Param        format           query  string  false  "xlsx para descargar planilla"
// @Success      200  {object}  dto.TechnicianBalanceResponse
// @Router       /api/technicians/{id}/balance [get]
func (h *StockHandler) TechnicianBalance(c *fiber.Ctx) error {
	id, err := technicianParam(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.TechnicianBalance(c.Context(), id, c.Query("service_type_id"))
	if err != nil {
		return respondError(c, err)
	}
	if wantsXLSX(c) {
		return sendXLSX(c, "saldo-tecnico.xlsx", func(buf *bytes.Buffer) error {
			return spreadsheet.WriteTechnicianBalance(buf, out)
		})
	}
	return c.JSON(out)
}

// MyBalance GET /api/me/balance: atajo del perfil tecnico a su propio saldo.
func (h *StockHandler) MyBalance(c *fiber.Ctx) error {
	techID := GetTechnicianID(c)
	if techID == "" {
		return respondError(c, domain.ErrForbidden)
	}
	out, err := h.stock.TechnicianBalance(c.Context(), techID, c.Query("service_type_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TechnicianCount godoc
// @Summary      Inventario del técnico
// @Description  Sobrescribe los saldos del técnico con lo contado (address en cada línea).
// @Tags         technicians
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del técnico"
// @Param        body  body  dto.CountRequest  true  "Cantidades contadas"
// @Success      201   {object}  dto.DocumentResponse
// @Router       /api/technicians/{id}/counts [post]
func (h *StockHandler) TechnicianCount(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.CountRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.counts.TechnicianCount(c.Context(), actor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if wantsXLSX(c) {
		return sendXLSX(c, "inventario-tecnico.xlsx", func(buf *bytes.Buffer) error {
			return spreadsheet.WriteCount(buf, out)
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
