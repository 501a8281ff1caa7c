package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/ledger"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
	"github.com/logistock/logistock-api/pkg/logger"
)

// Nota de línea aprobada sin saldo registrado: no hubo débito.
const noteNoBalanceRow = "sin saldo registrado: aprobada sin débito"

// WriteOffUseCase baixas: el técnico declara material aplicado y el almoxarifado aprueba por línea.
type WriteOffUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewWriteOffUseCase construye el caso de uso.
func NewWriteOffUseCase(tx TxRunner, log *logger.Logger) *WriteOffUseCase {
	return &WriteOffUseCase{tx: tx, log: log.Named("write_off"), now: time.Now}
}

// Create registra la baixa pendiente. Exige al menos una línea con ítem y cantidad positiva.
func (uc *WriteOffUseCase) Create(ctx context.Context, actor Actor, in dto.WriteOffRequest) (*dto.DocumentResponse, error) {
	techID, err := technicianFor(actor, in.TechnicianID)
	if err != nil {
		return nil, err
	}
	var out *dto.DocumentResponse
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		tech, err := r.Technicians.GetByID(ctx, techID)
		if err != nil {
			return err
		}
		if tech == nil {
			return domain.ErrNotFound
		}
		if err := serviceTypeExists(ctx, r, in.ServiceTypeID); err != nil {
			return err
		}
		doc := newDocument(entity.DocumentWriteOff, entity.StatusPending, actor.UserID, uc.now())
		doc.TechnicianID = tech.ID
		doc.ServiceTypeID = in.ServiceTypeID
		doc.Area = strings.TrimSpace(in.Area)
		doc.Notes = in.Notes

		var issues issueList
		for i, l := range in.Lines {
			pos := i + 1
			if blank(l) {
				continue
			}
			it, err := resolveItem(ctx, r.Items, l.ItemID, l.Code)
			if err != nil {
				return err
			}
			if it == nil {
				issues.add(pos, l.Code, reasonUnknownItem)
				continue
			}
			if l.Quantity <= 0 {
				issues.add(pos, it.Code, reasonInvalidQuantity)
				continue
			}
			doc.Lines = append(doc.Lines, newLine(pos, it, l.Quantity, entity.LinePending))
		}
		if len(doc.Lines) == 0 {
			return withIssues(domain.ErrInvalidInput, issues)
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}

// Approve aprueba las líneas seleccionadas. Cada línea debita el saldo del técnico para el ítem
// en cualquier dirección, las filas más antiguas primero. Las líneas sin saldo suficiente quedan
// pendientes y se informan. Cuando no queda ninguna pendiente la baixa pasa a confirmed.
func (uc *WriteOffUseCase) Approve(ctx context.Context, actor Actor, id string, in dto.ApproveLinesRequest) (*dto.DocumentResponse, error) {
	if len(in.LineIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	selected := make(map[string]bool, len(in.LineIDs))
	for _, lid := range in.LineIDs {
		selected[lid] = true
	}
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := loadPending(ctx, r, entity.DocumentWriteOff, id)
		if err != nil {
			return err
		}
		lg := ledger.New(r, d.ID)
		var issues issueList
		matched := 0
		for _, l := range d.Lines {
			if !selected[l.ID] || l.Status != entity.LinePending {
				continue
			}
			matched++
			if l.ItemID == "" {
				issues.add(l.Position, l.Code, reasonUnknownItem)
				continue
			}
			ll := lg.ForLine(l.ID)
			held, exists, err := ll.TechnicianHolds(ctx, d.TechnicianID, l.ItemID, d.ServiceTypeID)
			if err != nil {
				return err
			}
			switch {
			case !exists:
				l.Note = noteNoBalanceRow
			case held < l.Quantity:
				issues.add(l.Position, l.Code, reasonInsufficientBalance)
				uc.log.Warn().Str("document_id", d.ID).Str("code", l.Code).Int64("held", held).Int64("quantity", l.Quantity).Msg("línea de baixa no aprobada: saldo insuficiente")
				continue
			default:
				if err := ll.DebitTechnicianAnyAddress(ctx, d.TechnicianID, l.ItemID, d.ServiceTypeID, l.Quantity); err != nil {
					return err
				}
			}
			l.Status = entity.LineApproved
			if err := r.Documents.UpdateLine(ctx, l); err != nil {
				return err
			}
		}
		if matched == 0 {
			return domain.ErrInvalidInput
		}
		if len(d.PendingLines()) == 0 {
			finalize(d, entity.StatusConfirmed, actor.UserID, uc.now())
			if err := r.Documents.UpdateStatus(ctx, d); err != nil {
				return err
			}
		}
		out = toDocumentResponse(d, issues)
		return nil
	})
	return out, err
}

// Refuse rechaza la baixa pendiente.
func (uc *WriteOffUseCase) Refuse(ctx context.Context, actor Actor, id string) (*dto.DocumentResponse, error) {
	return refuse(ctx, uc.tx, entity.DocumentWriteOff, actor, id, uc.now)
}
