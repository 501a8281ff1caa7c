package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/infrastructure/spreadsheet"
)

// DocumentHandler documentos de movimiento: alta, transiciones y consultas.
type DocumentHandler struct {
	invoices     *inventory.InvoiceUseCase
	transfers    *inventory.TransferUseCase
	requisitions *inventory.RequisitionUseCase
	kits         *inventory.KitUseCase
	writeOffs    *inventory.WriteOffUseCase
	documents    *inventory.DocumentUseCase
}

// DocumentUseCases agrupa los casos de uso que atiende el handler.
type DocumentUseCases struct {
	Invoices     *inventory.InvoiceUseCase
	Transfers    *inventory.TransferUseCase
	Requisitions *inventory.RequisitionUseCase
	Kits         *inventory.KitUseCase
	WriteOffs    *inventory.WriteOffUseCase
	Documents    *inventory.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc DocumentUseCases) *DocumentHandler {
	return &DocumentHandler{
		invoices:     uc.Invoices,
		transfers:    uc.Transfers,
		requisitions: uc.Requisitions,
		kits:         uc.Kits,
		writeOffs:    uc.WriteOffs,
		documents:    uc.Documents,
	}
}

func respondCreated(c *fiber.Ctx, out *dto.DocumentResponse, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func respondOK(c *fiber.Ctx, out any, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Alta de documentos ───────────────────────────────────────────────────────

// ReceiveInvoice godoc
// @Summary      Entrada de nota fiscal
// @Description  Suma cada línea al estoque del tipo de serviço. Códigos desconocidos vuelven en issues.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "Nota fiscal"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *DocumentHandler) ReceiveInvoice(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.invoices.Receive(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

// DeleteInvoice borra el documento; el estoque ya recibido no se revierte.
func (h *DocumentHandler) DeleteInvoice(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.documents.DeleteInvoice(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// InternalTransfer godoc
// @Summary      Transferencia interna (almoxarifado → técnico)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InternalTransferRequest  true  "Transferencia"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfers/internal [post]
func (h *DocumentHandler) InternalTransfer(c *fiber.Ctx) error {
	var in dto.InternalTransferRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.transfers.Internal(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

// ExternalTransfer POST /api/transfers/external: el material sale hacia una empresa parceira.
func (h *DocumentHandler) ExternalTransfer(c *fiber.Ctx) error {
	var in dto.ExternalTransferRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.transfers.External(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

// CreateRequisition godoc
// @Summary      Solicitar material
// @Description  El perfil tecnico siempre solicita para sí mismo.
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequisitionRequest  true  "Requisición"
// @Success      201   {object}  dto.DocumentResponse
// @Router       /api/requisitions [post]
func (h *DocumentHandler) CreateRequisition(c *fiber.Ctx) error {
	var in dto.RequisitionRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.requisitions.Create(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

func (h *DocumentHandler) UpdateRequisitionLines(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateLinesRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.requisitions.UpdateLines(c.Context(), id, in)
	return respondOK(c, out, err)
}

// ConfirmRequisition godoc
// @Summary      Confirmar entrega de requisición
// @Description  Verifica todas las líneas antes de mover; cualquier faltante aborta el documento.
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/confirm [post]
func (h *DocumentHandler) ConfirmRequisition(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.requisitions.Confirm(c.Context(), actor(c), id)
	return respondOK(c, out, err)
}

func (h *DocumentHandler) RefuseRequisition(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.requisitions.Refuse(c.Context(), actor(c), id)
	return respondOK(c, out, err)
}

// DeliverKit POST /api/kits
func (h *DocumentHandler) DeliverKit(c *fiber.Ctx) error {
	var in dto.KitRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.kits.Deliver(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

func (h *DocumentHandler) CreateWriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.writeOffs.Create(c.Context(), actor(c), in)
	return respondCreated(c, out, err)
}

// ApproveWriteOff godoc
// @Summary      Aprobar líneas de una baixa
// @Tags         write-offs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la baixa"
// @Param        body  body  dto.ApproveLinesRequest  true  "Líneas a aprobar"
// @Success      200   {object}  dto.DocumentResponse
// @Router       /api/write-offs/{id}/approve [post]
func (h *DocumentHandler) ApproveWriteOff(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ApproveLinesRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.writeOffs.Approve(c.Context(), actor(c), id, in)
	return respondOK(c, out, err)
}

func (h *DocumentHandler) RefuseWriteOff(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.writeOffs.Refuse(c.Context(), actor(c), id)
	return respondOK(c, out, err)
}

// ── Consultas ────────────────────────────────────────────────────────────────

// ListKind devuelve un handler que lista los documentos de un tipo con los filtros de query.
func (h *DocumentHandler) ListKind(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.DocumentFilterRequest
		if err := bindQuery(c, &in); err != nil {
			return respondError(c, err)
		}
		out, err := h.documents.List(c.Context(), actor(c), kind, in)
		return respondOK(c, out, err)
	}
}

// PendingCount devuelve un handler con el contador de pendientes del tipo.
func (h *DocumentHandler) PendingCount(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := h.documents.PendingCount(c.Context(), kind)
		return respondOK(c, out, err)
	}
}

// List GET /api/documents?kind=...
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	return h.ListKind(c.Query("kind"))(c)
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.documents.Get(c.Context(), actor(c), id)
	return respondOK(c, out, err)
}

// Entries GET /api/documents/:id/entries: asientos del ledger aplicados por el documento.
func (h *DocumentHandler) Entries(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.documents.Entries(c.Context(), actor(c), id)
	return respondOK(c, out, err)
}

// Receipt godoc
// @Summary      Comprobante PDF del documento
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/receipt [get]
func (h *DocumentHandler) Receipt(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := h.documents.Receipt(c.Context(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="comprovante-%s.pdf"`, id))
	return c.Send(pdf)
}

// ExportCount GET /api/documents/:id/export: planilla de un inventario (almoxarifado o técnico).
func (h *DocumentHandler) ExportCount(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	doc, err := h.documents.Get(c.Context(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	if doc.Kind != entity.DocumentStockCount && doc.Kind != entity.DocumentTechnicianCount {
		return respondError(c, fmt.Errorf("solo los inventarios se exportan: %w", domain.ErrInvalidInput))
	}
	return sendXLSX(c, "inventario.xlsx", func(buf *bytes.Buffer) error {
		return spreadsheet.WriteCount(buf, doc)
	})
}
