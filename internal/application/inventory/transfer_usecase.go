package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/ledger"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
	"github.com/logistock/logistock-api/pkg/logger"
)

// TransferUseCase transferencias internas (almoxarifado → técnico) y externas (almoxarifado → empresa parceira).
type TransferUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx TxRunner, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{tx: tx, log: log.Named("transfer"), now: time.Now}
}

// Internal mueve cada línea del estoque central al saldo del técnico, en la dirección del área informada.
// Las líneas sin estoque suficiente quedan en Issues; si ninguna se mueve no se guarda nada.
func (uc *TransferUseCase) Internal(ctx context.Context, actor Actor, in dto.InternalTransferRequest) (*dto.DocumentResponse, error) {
	area := strings.TrimSpace(in.Area)
	if in.TechnicianID == "" || area == "" || in.ServiceTypeID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		tech, err := activeTechnician(ctx, r, in.TechnicianID)
		if err != nil {
			return err
		}
		if err := serviceTypeExists(ctx, r, in.ServiceTypeID); err != nil {
			return err
		}
		doc := newDocument(entity.DocumentInternalTransfer, entity.StatusConfirmed, actor.UserID, uc.now())
		doc.TechnicianID = tech.ID
		doc.Area = area
		doc.ServiceTypeID = in.ServiceTypeID
		doc.Reservation = strings.TrimSpace(in.Reservation)
		doc.Responsible = in.Responsible
		doc.Notes = in.Notes

		lg := ledger.New(r, doc.ID)
		lines, issues, err := uc.collect(ctx, r, lg, doc, in.Lines)
		if err != nil {
			return err
		}
		doc.Lines = lines
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range doc.Lines {
			from := ledger.Central(l.ItemID, doc.ServiceTypeID)
			to := ledger.Technician(doc.TechnicianID, l.ItemID, doc.ServiceTypeID, doc.Area)
			if err := lg.ForLine(l.ID).Transfer(ctx, from, to, l.Quantity); err != nil {
				return err
			}
		}
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}

// External da salida del estoque central hacia una empresa parceira; solo se debita el almoxarifado.
func (uc *TransferUseCase) External(ctx context.Context, actor Actor, in dto.ExternalTransferRequest) (*dto.DocumentResponse, error) {
	authorized, withdrawn := strings.TrimSpace(in.AuthorizedBy), strings.TrimSpace(in.WithdrawnBy)
	if in.PartnerCompanyID == "" || in.ServiceTypeID == "" || authorized == "" || withdrawn == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		partner, err := r.PartnerCompanies.GetByID(ctx, in.PartnerCompanyID)
		if err != nil {
			return err
		}
		if partner == nil {
			return domain.ErrNotFound
		}
		if err := serviceTypeExists(ctx, r, in.ServiceTypeID); err != nil {
			return err
		}
		doc := newDocument(entity.DocumentExternalTransfer, entity.StatusConfirmed, actor.UserID, uc.now())
		doc.PartnerCompanyID = partner.ID
		doc.ServiceTypeID = in.ServiceTypeID
		doc.AuthorizedBy = authorized
		doc.WithdrawnBy = withdrawn
		doc.Notes = in.Notes

		lg := ledger.New(r, doc.ID)
		lines, issues, err := uc.collect(ctx, r, lg, doc, in.Lines)
		if err != nil {
			return err
		}
		doc.Lines = lines
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range doc.Lines {
			key := entity.StockKey{ItemID: l.ItemID, ServiceTypeID: doc.ServiceTypeID}
			if _, err := lg.ForLine(l.ID).DebitCentral(ctx, key, l.Quantity); err != nil {
				return err
			}
		}
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}

// collect resuelve las líneas y bloquea sus filas de estoque. Devuelve solo las que pueden moverse.
func (uc *TransferUseCase) collect(ctx context.Context, r repository.Repos, lg *ledger.Ledger, doc *entity.Document, in []dto.DocumentLineRequest) ([]*entity.DocumentLine, []dto.LineIssue, error) {
	var (
		lines  []*entity.DocumentLine
		issues issueList
	)
	res := reservations{}
	for i, l := range in {
		pos := i + 1
		if blank(l) || l.Quantity <= 0 {
			continue
		}
		it, err := resolveItem(ctx, r.Items, l.ItemID, l.Code)
		if err != nil {
			return nil, nil, err
		}
		if it == nil {
			issues.add(pos, l.Code, reasonUnknownItem)
			continue
		}
		key := entity.StockKey{ItemID: it.ID, ServiceTypeID: doc.ServiceTypeID}
		exists, ok, err := res.reserve(ctx, lg, key, l.Quantity)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			reason := reasonInsufficientStock
			if !exists {
				reason = reasonNoStockRow
			}
			issues.add(pos, it.Code, reason)
			uc.log.Warn().Str("document_id", doc.ID).Str("code", it.Code).Int64("quantity", l.Quantity).Msg("línea rechazada: " + reason)
			continue
		}
		line := newLine(pos, it, l.Quantity, entity.LineApplied)
		line.Location = strings.TrimSpace(l.Location)
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, nil, withIssues(domain.ErrNothingTransferred, issues)
	}
	return lines, issues, nil
}

func activeTechnician(ctx context.Context, r repository.Repos, id string) (*entity.Technician, error) {
	tech, err := r.Technicians.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tech == nil {
		return nil, domain.ErrNotFound
	}
	if !tech.IsActive() {
		return nil, fmt.Errorf("técnico %s inactivo: %w", tech.Name, domain.ErrInvalidInput)
	}
	return tech, nil
}

func serviceTypeExists(ctx context.Context, r repository.Repos, id string) error {
	if id == "" {
		return nil
	}
	st, err := r.ServiceTypes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if st == nil {
		return domain.ErrNotFound
	}
	return nil
}
