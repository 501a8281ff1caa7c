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
	"github.com/logistock/logistock-api/pkg/brl"
	"github.com/logistock/logistock-api/pkg/logger"
)

// RequisitionUseCase solicitudes de material de los técnicos: alta, edición, entrega y rechazo.
type RequisitionUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewRequisitionUseCase construye el caso de uso.
func NewRequisitionUseCase(tx TxRunner, log *logger.Logger) *RequisitionUseCase {
	return &RequisitionUseCase{tx: tx, log: log.Named("requisition"), now: time.Now}
}

// technicianFor resuelve el técnico del documento: un perfil tecnico solo puede pedir para sí mismo.
func technicianFor(actor Actor, requested string) (string, error) {
	if actor.IsTechnician() {
		if actor.TechnicianID == "" {
			return "", domain.ErrForbidden
		}
		return actor.TechnicianID, nil
	}
	if requested == "" {
		return "", domain.ErrInvalidInput
	}
	return requested, nil
}

// Create registra la requisición pendiente. Cada línea guarda el estoque visto al momento del pedido.
func (uc *RequisitionUseCase) Create(ctx context.Context, actor Actor, in dto.RequisitionRequest) (*dto.DocumentResponse, error) {
	techID, err := technicianFor(actor, in.TechnicianID)
	if err != nil {
		return nil, err
	}
	var out *dto.DocumentResponse
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		tech, err := activeTechnician(ctx, r, techID)
		if err != nil {
			return err
		}
		if err := serviceTypeExists(ctx, r, in.ServiceTypeID); err != nil {
			return err
		}
		doc := newDocument(entity.DocumentRequisition, entity.StatusPending, actor.UserID, uc.now())
		doc.TechnicianID = tech.ID
		doc.ServiceTypeID = in.ServiceTypeID
		doc.Area = strings.TrimSpace(in.Area)
		doc.Neighborhood = strings.TrimSpace(in.Neighborhood)
		doc.PropertyCode = strings.TrimSpace(in.PropertyCode)
		doc.Reservation = strings.TrimSpace(in.Reservation)
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
			line := newLine(pos, it, l.Quantity, entity.LinePending)
			if v, ok := brl.ParseStrict(l.UnitValue); ok {
				line.UnitValue = v
			}
			s, err := r.Stock.Get(ctx, entity.StockKey{ItemID: it.ID, ServiceTypeID: doc.ServiceTypeID})
			if err != nil {
				return err
			}
			if s != nil {
				line.QuantityBefore = s.Quantity
			}
			doc.Lines = append(doc.Lines, line)
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

// loadPending bloquea el documento y verifica tipo y estado.
func loadPending(ctx context.Context, r repository.Repos, kind, id string) (*entity.Document, error) {
	d, err := r.Documents.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil || d.Kind != kind {
		return nil, domain.ErrNotFound
	}
	if d.IsFinal() {
		return nil, domain.ErrAlreadyFinalized
	}
	return d, nil
}

// UpdateLines cambia cantidades de líneas mientras la requisición está pendiente.
func (uc *RequisitionUseCase) UpdateLines(ctx context.Context, id string, in dto.UpdateLinesRequest) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := loadPending(ctx, r, entity.DocumentRequisition, id)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.DocumentLine, len(d.Lines))
		for _, l := range d.Lines {
			byID[l.ID] = l
		}
		for _, u := range in.Lines {
			l, ok := byID[u.LineID]
			if !ok {
				return domain.ErrNotFound
			}
			if u.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			l.Quantity = u.Quantity
			if err := r.Documents.UpdateLine(ctx, l); err != nil {
				return err
			}
		}
		out = toDocumentResponse(d, nil)
		return nil
	})
	return out, err
}

// Confirm entrega la requisición. Primero verifica todas las líneas; ante cualquier faltante
// no se mueve nada y el error trae el detalle. Después transfiere cada línea al técnico.
func (uc *RequisitionUseCase) Confirm(ctx context.Context, actor Actor, id string) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := loadPending(ctx, r, entity.DocumentRequisition, id)
		if err != nil {
			return err
		}
		lg := ledger.New(r, d.ID)
		res := reservations{}
		var shortages issueList
		for _, l := range d.Lines {
			if l.ItemID == "" {
				shortages.add(l.Position, l.Code, reasonUnknownItem)
				continue
			}
			key := entity.StockKey{ItemID: l.ItemID, ServiceTypeID: d.ServiceTypeID}
			exists, ok, err := res.reserve(ctx, lg, key, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				reason := reasonInsufficientStock
				if !exists {
					reason = reasonNoStockRow
				}
				shortages.add(l.Position, l.Code, reason)
			}
		}
		if len(shortages) > 0 {
			uc.log.Warn().Str("document_id", d.ID).Int("lines", len(shortages)).Msg("requisición no entregada: faltante de estoque")
			return withIssues(fmt.Errorf("requisición %s: %w", d.ID, domain.ErrInsufficientStock), shortages)
		}

		for _, l := range d.Lines {
			from := ledger.Central(l.ItemID, d.ServiceTypeID)
			to := ledger.Technician(d.TechnicianID, l.ItemID, d.ServiceTypeID, d.Area)
			if err := lg.ForLine(l.ID).Transfer(ctx, from, to, l.Quantity); err != nil {
				return err
			}
			l.Status = entity.LineApplied
			if err := r.Documents.UpdateLine(ctx, l); err != nil {
				return err
			}
		}
		finalize(d, entity.StatusDelivered, actor.UserID, uc.now())
		if err := r.Documents.UpdateStatus(ctx, d); err != nil {
			return err
		}
		out = toDocumentResponse(d, nil)
		return nil
	})
	return out, err
}

// Refuse rechaza la requisición pendiente sin mover estoque.
func (uc *RequisitionUseCase) Refuse(ctx context.Context, actor Actor, id string) (*dto.DocumentResponse, error) {
	return refuse(ctx, uc.tx, entity.DocumentRequisition, actor, id, uc.now)
}

func refuse(ctx context.Context, tx TxRunner, kind string, actor Actor, id string, now func() time.Time) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := tx.Run(ctx, func(r repository.Repos) error {
		d, err := loadPending(ctx, r, kind, id)
		if err != nil {
			return err
		}
		for _, l := range d.Lines {
			if l.Status != entity.LinePending {
				continue
			}
			l.Status = entity.LineSkipped
			if err := r.Documents.UpdateLine(ctx, l); err != nil {
				return err
			}
		}
		finalize(d, entity.StatusRefused, actor.UserID, now())
		if err := r.Documents.UpdateStatus(ctx, d); err != nil {
			return err
		}
		out = toDocumentResponse(d, nil)
		return nil
	})
	return out, err
}
