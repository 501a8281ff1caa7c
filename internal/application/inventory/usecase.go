// Package inventory contiene los casos de uso de documentos de movimiento.
// Cada operación corre en una transacción (TxRunner) y aplica sus deltas con ledger.Ledger.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/ledger"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	UserID       string
	Role         string
	TechnicianID string
}

// IsTechnician indica un perfil tecnico, restringido a sus propios documentos.
func (a Actor) IsTechnician() bool {
	return a.Role == entity.RoleTechnician
}

// IssuesError acompaña un error con el detalle por línea que lo provocó.
type IssuesError struct {
	Err    error
	Issues []dto.LineIssue
}

func (e *IssuesError) Error() string { return e.Err.Error() }
func (e *IssuesError) Unwrap() error { return e.Err }

func withIssues(err error, issues []dto.LineIssue) error {
	if len(issues) == 0 {
		return err
	}
	return &IssuesError{Err: err, Issues: issues}
}

// Motivos de rechazo de línea.
const (
	reasonUnknownItem         = "ítem no registrado"
	reasonInvalidQuantity     = "cantidad inválida"
	reasonNoStockRow          = "ítem sin estoque registrado"
	reasonInsufficientStock   = "estoque insuficiente"
	reasonInsufficientBalance = "saldo insuficiente del técnico"
	reasonNotEquipment        = "el ítem no es un equipo"
	reasonRepeated            = "ítem repetido en el conteo"
)

type issueList []dto.LineIssue

func (l *issueList) add(position int, code, reason string) {
	*l = append(*l, dto.LineIssue{Position: position, Code: code, Reason: reason})
}

// blank indica una línea vacía del formulario, que se ignora sin reportar.
func blank(l dto.DocumentLineRequest) bool {
	return l.ItemID == "" && strings.TrimSpace(l.Code) == ""
}

func resolveItem(ctx context.Context, items repository.ItemRepository, itemID, code string) (*entity.Item, error) {
	if itemID != "" {
		return items.GetByID(ctx, itemID)
	}
	if code = strings.TrimSpace(code); code != "" {
		return items.GetByCode(ctx, code)
	}
	return nil, nil
}

func newDocument(kind, status, userID string, now time.Time) *entity.Document {
	d := &entity.Document{
		ID:        uuid.New().String(),
		Kind:      kind,
		Status:    status,
		CreatedBy: userID,
		CreatedAt: now,
	}
	if status != entity.StatusPending {
		d.FinalizedAt = &now
		d.FinalizedBy = userID
	}
	return d
}

func newLine(position int, it *entity.Item, quantity int64, status string) *entity.DocumentLine {
	return &entity.DocumentLine{
		ID:          uuid.New().String(),
		Position:    position,
		ItemID:      it.ID,
		Code:        it.Code,
		Description: it.Description,
		Unit:        it.Unit,
		Quantity:    quantity,
		UnitValue:   it.UnitValue,
		Status:      status,
	}
}

func finalize(d *entity.Document, status, userID string, now time.Time) {
	d.Status = status
	d.FinalizedAt = &now
	d.FinalizedBy = userID
}

// reservations acumula lo ya comprometido por fila dentro de un mismo documento,
// para que dos líneas del mismo ítem no superen juntas el estoque.
type reservations map[entity.StockKey]int64

// reserve consulta la fila bloqueada y compromete quantity si alcanza.
func (r reservations) reserve(ctx context.Context, lg *ledger.Ledger, key entity.StockKey, quantity int64) (exists, ok bool, err error) {
	have, exists, err := lg.CentralQuantity(ctx, key)
	if err != nil || !exists {
		return exists, false, err
	}
	if have-r[key] < quantity {
		return true, false, nil
	}
	r[key] += quantity
	return true, true, nil
}

func toDocumentResponse(d *entity.Document, issues []dto.LineIssue) *dto.DocumentResponse {
	out := &dto.DocumentResponse{
		ID:               d.ID,
		Kind:             d.Kind,
		Status:           d.Status,
		Number:           d.Number,
		Reservation:      d.Reservation,
		Name:             d.Name,
		TechnicianID:     d.TechnicianID,
		PartnerCompanyID: d.PartnerCompanyID,
		ServiceTypeID:    d.ServiceTypeID,
		Area:             d.Area,
		Neighborhood:     d.Neighborhood,
		PropertyCode:     d.PropertyCode,
		Responsible:      d.Responsible,
		AuthorizedBy:     d.AuthorizedBy,
		WithdrawnBy:      d.WithdrawnBy,
		Notes:            d.Notes,
		IssuedAt:         d.IssuedAt,
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
		FinalizedAt:      d.FinalizedAt,
		FinalizedBy:      d.FinalizedBy,
		Total:            d.Total(),
		Issues:           issues,
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			ID:             l.ID,
			Position:       l.Position,
			ItemID:         l.ItemID,
			Code:           l.Code,
			Description:    l.Description,
			Unit:           l.Unit,
			Quantity:       l.Quantity,
			UnitValue:      l.UnitValue,
			Total:          l.Total(),
			Location:       l.Location,
			Direction:      l.Direction,
			QuantityBefore: l.QuantityBefore,
			Status:         l.Status,
			Note:           l.Note,
		})
	}
	return out
}

// parseDay interpreta YYYY-MM-DD; endOfDay lleva la hora al último instante del día.
func parseDay(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
