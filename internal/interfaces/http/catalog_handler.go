package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/usecase"
)

// CatalogHandler tipos de serviço, técnicos y empresas parceiras.
type CatalogHandler struct {
	serviceTypes *usecase.ServiceTypeUseCase
	partners     *usecase.PartnerCompanyUseCase
	technicians  *usecase.TechnicianUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(st *usecase.ServiceTypeUseCase, p *usecase.PartnerCompanyUseCase, t *usecase.TechnicianUseCase) *CatalogHandler {
	return &CatalogHandler{serviceTypes: st, partners: p, technicians: t}
}

// ── Tipos de serviço ─────────────────────────────────────────────────────────

func (h *CatalogHandler) ListServiceTypes(c *fiber.Ctx) error {
	out, err := h.serviceTypes.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) CreateServiceType(c *fiber.Ctx) error {
	var in dto.ServiceTypeRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.serviceTypes.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) UpdateServiceType(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ServiceTypeRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.serviceTypes.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteServiceType responde 409 si el tipo todavía tiene estoque o saldos.
func (h *CatalogHandler) DeleteServiceType(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.serviceTypes.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Empresas parceiras ───────────────────────────────────────────────────────

func (h *CatalogHandler) ListPartners(c *fiber.Ctx) error {
	out, err := h.partners.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) CreatePartner(c *fiber.Ctx) error {
	var in dto.PartnerCompanyRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.partners.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) UpdatePartner(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.PartnerCompanyRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.partners.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeletePartner(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.partners.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Técnicos ─────────────────────────────────────────────────────────────────

// ListTechnicians godoc
// @Summary      Listar técnicos
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Ativo | Inativo"
// @Param        q       query  string  false  "Nombre o matrícula"
// @Success      200  {array}  dto.TechnicianResponse
// @Router       /api/technicians [get]
func (h *CatalogHandler) ListTechnicians(c *fiber.Ctx) error {
	out, err := h.technicians.List(c.Context(), c.Query("status"), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateTechnician godoc
// @Summary      Registrar técnico
// @Description  Con email crea además el usuario tecnico (contraseña informada o dígitos del CPF).
// @Tags         technicians
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TechnicianRequest  true  "Datos del técnico"
// @Success      201   {object}  dto.TechnicianResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/technicians [post]
func (h *CatalogHandler) CreateTechnician(c *fiber.Ctx) error {
	var in dto.TechnicianRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.technicians.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) GetTechnician(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.technicians.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateTechnician(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.TechnicianRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.technicians.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetTechnicianStatus PATCH /api/technicians/:id/status
func (h *CatalogHandler) SetTechnicianStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.TechnicianStatusRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.technicians.SetStatus(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
