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

// CountUseCase conteos físicos: el valor contado reemplaza la cantidad registrada.
type CountUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewCountUseCase construye el caso de uso.
func NewCountUseCase(tx TxRunner, log *logger.Logger) *CountUseCase {
	return &CountUseCase{tx: tx, log: log.Named("count"), now: time.Now}
}

type countTarget struct {
	pos     int
	item    *entity.Item
	stID    string
	address string
	counted int64
}

// resolveCounts descarta líneas sin valor contado y detecta filas repetidas.
func resolveCounts(ctx context.Context, r repository.Repos, in []dto.CountLineRequest) ([]countTarget, issueList, error) {
	var (
		targets []countTarget
		issues  issueList
	)
	seen := map[entity.BalanceKey]bool{}
	for i, l := range in {
		pos := i + 1
		if l.Counted == nil {
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
		if *l.Counted < 0 {
			issues.add(pos, it.Code, reasonInvalidQuantity)
			continue
		}
		address := strings.TrimSpace(l.Address)
		k := entity.BalanceKey{ItemID: it.ID, ServiceTypeID: l.ServiceTypeID, Address: address}
		if seen[k] {
			issues.add(pos, it.Code, reasonRepeated)
			continue
		}
		seen[k] = true
		targets = append(targets, countTarget{pos: pos, item: it, stID: l.ServiceTypeID, address: address, counted: *l.Counted})
	}
	return targets, issues, nil
}

// StockCount aplica un conteo del almoxarifado. Cada línea guarda la cantidad previa y la contada.
func (uc *CountUseCase) StockCount(ctx context.Context, actor Actor, in dto.CountRequest) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		targets, issues, err := resolveCounts(ctx, r, in.Lines)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return withIssues(domain.ErrNothingCounted, issues)
		}
		doc := newDocument(entity.DocumentStockCount, entity.StatusConfirmed, actor.UserID, uc.now())
		doc.Notes = in.Notes
		lg := ledger.New(r, doc.ID)
		for _, t := range targets {
			before, _, err := lg.CentralQuantity(ctx, entity.StockKey{ItemID: t.item.ID, ServiceTypeID: t.stID})
			if err != nil {
				return err
			}
			line := newLine(t.pos, t.item, t.counted, entity.LineApplied)
			line.QuantityBefore = before
			doc.Lines = append(doc.Lines, line)
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		for i, t := range targets {
			l := doc.Lines[i]
			if _, err := lg.ForLine(l.ID).SetCentral(ctx, entity.StockKey{ItemID: t.item.ID, ServiceTypeID: t.stID}, t.counted); err != nil {
				return err
			}
		}
		uc.log.Info().Str("document_id", doc.ID).Int("lines", len(doc.Lines)).Msg("conteo de almoxarifado aplicado")
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}

// TechnicianCount reemplaza los saldos contados del técnico, creando las filas que falten.
func (uc *CountUseCase) TechnicianCount(ctx context.Context, actor Actor, technicianID string, in dto.CountRequest) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		tech, err := r.Technicians.GetByID(ctx, technicianID)
		if err != nil {
			return err
		}
		if tech == nil {
			return domain.ErrNotFound
		}
		targets, issues, err := resolveCounts(ctx, r, in.Lines)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return withIssues(domain.ErrNothingCounted, issues)
		}
		doc := newDocument(entity.DocumentTechnicianCount, entity.StatusConfirmed, actor.UserID, uc.now())
		doc.TechnicianID = tech.ID
		doc.Notes = in.Notes
		lg := ledger.New(r, doc.ID)
		keys := make([]entity.BalanceKey, len(targets))
		for i, t := range targets {
			keys[i] = entity.BalanceKey{TechnicianID: tech.ID, ItemID: t.item.ID, ServiceTypeID: t.stID, Address: t.address}
			before, err := lg.TechnicianQuantity(ctx, keys[i])
			if err != nil {
				return err
			}
			line := newLine(t.pos, t.item, t.counted, entity.LineApplied)
			line.QuantityBefore = before
			line.Location = t.address
			doc.Lines = append(doc.Lines, line)
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		for i, l := range doc.Lines {
			if _, err := lg.ForLine(l.ID).SetTechnician(ctx, keys[i], l.Quantity); err != nil {
				return err
			}
		}
		uc.log.Info().Str("document_id", doc.ID).Str("technician_id", tech.ID).Int("lines", len(doc.Lines)).Msg("conteo de técnico aplicado")
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}
