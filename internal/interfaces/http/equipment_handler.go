package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
)

// EquipmentHandler movimientos y consultas de equipos por unidad.
type EquipmentHandler struct {
	uc *inventory.EquipmentUseCase
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *inventory.EquipmentUseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc}
}

// Move godoc
// @Summary      Movimiento de equipos
// @Description  direction tecnico entrega unidades; almoxarifado devuelve unidades en poder del técnico.
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EquipmentMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/equipment/movements [post]
func (h *EquipmentHandler) Move(c *fiber.Ctx) error {
	var in dto.EquipmentMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Move(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

// ReturnDirect POST /api/equipment/returns: devuelve N unidades de un ítem del técnico.
func (h *EquipmentHandler) ReturnDirect(c *fiber.Ctx) error {
	var in dto.EquipmentReturnRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ReturnDirect(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

// ReturnUnit POST /api/equipment/units/:id/return
func (h *EquipmentHandler) ReturnUnit(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UnitReturnRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.ReturnUnit(c.Context(), actor(c), id, in)
	return respondCreated(c, out, err)
}

// Holdings GET /api/equipment/holdings?technician_id=
func (h *EquipmentHandler) Holdings(c *fiber.Ctx) error {
	techID := c.Query("technician_id")
	if a := actor(c); a.IsTechnician() {
		techID = a.TechnicianID
	}
	out, err := h.uc.Holdings(c.Context(), techID)
	return respondOK(c, out, err)
}

func (h *EquipmentHandler) Units(c *fiber.Ctx) error {
	out, err := h.uc.Units(c.Context(), c.Query("technician_id"), c.Query("item_id"))
	return respondOK(c, out, err)
}

func (h *EquipmentHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), c.Query("technician_id"), c.Query("item_id"), c.QueryInt("limit", 100))
	return respondOK(c, out, err)
}
