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
	"github.com/logistock/logistock-api/pkg/brl"
	"github.com/logistock/logistock-api/pkg/logger"
)

// InvoiceUseCase entrada de notas fiscales en el estoque central.
type InvoiceUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(tx TxRunner, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{tx: tx, log: log.Named("invoice"), now: time.Now}
}

// Receive registra la nota y suma cada línea válida al estoque del tipo de servicio de la nota.
// Los códigos desconocidos se informan en Issues y no se guardan.
func (uc *InvoiceUseCase) Receive(ctx context.Context, actor Actor, in dto.InvoiceRequest) (*dto.DocumentResponse, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		exists, err := r.Documents.NumberExists(ctx, entity.DocumentInvoice, number)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicate
		}
		if in.ServiceTypeID != "" {
			st, err := r.ServiceTypes.GetByID(ctx, in.ServiceTypeID)
			if err != nil {
				return err
			}
			if st == nil {
				return domain.ErrNotFound
			}
		}

		doc := newDocument(entity.DocumentInvoice, entity.StatusConfirmed, actor.UserID, uc.now())
		doc.Number = number
		doc.Reservation = strings.TrimSpace(in.Reservation)
		doc.IssuedAt = in.IssuedAt
		doc.ServiceTypeID = in.ServiceTypeID
		doc.Responsible = in.Responsible
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
			line := newLine(pos, it, l.Quantity, entity.LineApplied)
			if strings.TrimSpace(l.UnitValue) != "" {
				line.UnitValue = brl.Parse(l.UnitValue)
			}
			line.Location = strings.TrimSpace(l.Location)
			doc.Lines = append(doc.Lines, line)
		}
		if len(doc.Lines) == 0 {
			return withIssues(domain.ErrNothingTransferred, issues)
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}

		lg := ledger.New(r, doc.ID)
		for _, line := range doc.Lines {
			key := entity.StockKey{ItemID: line.ItemID, ServiceTypeID: doc.ServiceTypeID}
			if _, err := lg.ForLine(line.ID).Receive(ctx, key, line.Quantity, line.Location); err != nil {
				return err
			}
		}
		out = toDocumentResponse(doc, issues)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", out.ID).Str("number", out.Number).Int("lines", len(out.Lines)).Msg("nota fiscal registrada")
	return out, nil
}
