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

// Nota de línea de kit sin fila de estoque: se acredita al técnico sin debitar el almoxarifado.
const noteCreditOnly = "sin estoque registrado: solo crédito al técnico"

// KitUseCase entrega del kit inicial a un técnico.
type KitUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewKitUseCase construye el caso de uso.
func NewKitUseCase(tx TxRunner, log *logger.Logger) *KitUseCase {
	return &KitUseCase{tx: tx, log: log.Named("kit"), now: time.Now}
}

// Deliver entrega el kit. Una línea con estoque insuficiente aborta el kit completo.
// Una línea cuyo ítem no tiene fila de estoque no debita nada pero igual acredita al técnico.
func (uc *KitUseCase) Deliver(ctx context.Context, actor Actor, in dto.KitRequest) (*dto.DocumentResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.TechnicianID == "" {
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
		doc := newDocument(entity.DocumentInitialKit, entity.StatusConfirmed, actor.UserID, uc.now())
		doc.Name = name
		doc.TechnicianID = tech.ID
		doc.ServiceTypeID = in.ServiceTypeID
		doc.Notes = in.Notes

		lg := ledger.New(r, doc.ID)
		res := reservations{}
		var issues issueList
		for i, l := range in.Lines {
			pos := i + 1
			if blank(l) || l.Quantity <= 0 {
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
			line := newLine(pos, it, l.Quantity, entity.LineApplied)
			key := entity.StockKey{ItemID: it.ID, ServiceTypeID: doc.ServiceTypeID}
			exists, ok, err := res.reserve(ctx, lg, key, l.Quantity)
			if err != nil {
				return err
			}
			switch {
			case !exists:
				line.Note = noteCreditOnly
			case !ok:
				issues.add(pos, it.Code, reasonInsufficientStock)
				uc.log.Warn().Str("kit", name).Str("code", it.Code).Int64("quantity", l.Quantity).Msg("kit rechazado: estoque insuficiente")
				return withIssues(fmt.Errorf("kit %s: %w", name, domain.ErrInsufficientStock), issues)
			}
			doc.Lines = append(doc.Lines, line)
		}
		if len(doc.Lines) == 0 {
			return withIssues(domain.ErrNothingTransferred, issues)
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range doc.Lines {
			ll := lg.ForLine(l.ID)
			if l.Note != noteCreditOnly {
				key := entity.StockKey{ItemID: l.ItemID, ServiceTypeID: doc.ServiceTypeID}
				if _, err := ll.DebitCentral(ctx, key, l.Quantity); err != nil {
					return err
				}
			}
			bkey := entity.BalanceKey{TechnicianID: doc.TechnicianID, ItemID: l.ItemID, ServiceTypeID: doc.ServiceTypeID}
			if _, err := ll.CreditTechnician(ctx, bkey, l.Quantity); err != nil {
				return err
			}
		}
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}
