package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/ledger"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
	"github.com/logistock/logistock-api/pkg/logger"
)

// EquipmentUseCase salidas y devoluciones de equipos controlados por unidad física.
type EquipmentUseCase struct {
	tx  TxRunner
	log *logger.Logger
	now func() time.Time
}

// NewEquipmentUseCase construye el caso de uso.
func NewEquipmentUseCase(tx TxRunner, log *logger.Logger) *EquipmentUseCase {
	return &EquipmentUseCase{tx: tx, log: log.Named("equipment"), now: time.Now}
}

// Move procesa un documento de movimiento de equipos.
// Sentido tecnico: debita el almoxarifado y crea una unidad por cantidad en poder del técnico.
// Sentido almoxarifado: toma las unidades más antiguas del técnico y las devuelve al estoque.
// Las líneas que no pueden moverse quedan en Issues; si ninguna se mueve no se guarda nada.
func (uc *EquipmentUseCase) Move(ctx context.Context, actor Actor, in dto.EquipmentMovementRequest) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		tech, err := r.Technicians.GetByID(ctx, in.TechnicianID)
		if err != nil {
			return err
		}
		if tech == nil {
			return domain.ErrNotFound
		}
		if err := serviceTypeExists(ctx, r, in.ServiceTypeID); err != nil {
			return err
		}
		now := uc.now()
		doc := newDocument(entity.DocumentEquipment, entity.StatusConfirmed, actor.UserID, now)
		doc.TechnicianID = tech.ID
		doc.ServiceTypeID = in.ServiceTypeID
		doc.Notes = in.Notes

		lg := ledger.New(r, doc.ID)
		res := reservations{}
		held := map[string][]*entity.EquipmentUnit{}
		var issues issueList
		for i, l := range in.Lines {
			pos := i + 1
			if l.ItemID == "" && strings.TrimSpace(l.Code) == "" {
				continue
			}
			it, err := resolveItem(ctx, r.Items, l.ItemID, l.Code)
			if err != nil {
				return err
			}
			switch {
			case it == nil:
				issues.add(pos, l.Code, reasonUnknownItem)
				continue
			case !it.IsEquipment:
				issues.add(pos, it.Code, reasonNotEquipment)
				continue
			case l.Quantity <= 0:
				issues.add(pos, it.Code, reasonInvalidQuantity)
				continue
			}
			if l.Direction == entity.EquipmentToTechnician {
				exists, ok, err := res.reserve(ctx, lg, entity.StockKey{ItemID: it.ID, ServiceTypeID: doc.ServiceTypeID}, l.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					reason := reasonInsufficientStock
					if !exists {
						reason = reasonNoStockRow
					}
					issues.add(pos, it.Code, reason)
					continue
				}
			} else {
				// HeldForUpdate devuelve siempre las más antiguas: se pide lo acumulado por ítem.
				already := len(held[it.ID])
				units, err := r.Equipment.HeldForUpdate(ctx, tech.ID, it.ID, already+int(l.Quantity))
				if err != nil {
					return err
				}
				if int64(len(units)-already) < l.Quantity {
					issues.add(pos, it.Code, reasonInsufficientBalance)
					continue
				}
				held[it.ID] = units
			}
			line := newLine(pos, it, l.Quantity, entity.LineApplied)
			line.Direction = l.Direction
			line.Location = strings.TrimSpace(l.Location)
			doc.Lines = append(doc.Lines, line)
		}
		if len(doc.Lines) == 0 {
			return withIssues(domain.ErrNothingTransferred, issues)
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}

		taken := map[string]int{}
		for _, l := range doc.Lines {
			ll := lg.ForLine(l.ID)
			if l.Direction == entity.EquipmentToTechnician {
				if err := uc.checkout(ctx, r, ll, doc, l, now); err != nil {
					return err
				}
			} else {
				start := taken[l.ItemID]
				units := held[l.ItemID][start : start+int(l.Quantity)]
				taken[l.ItemID] += int(l.Quantity)
				if err := uc.giveBack(ctx, r, ll, units, l.Location, now); err != nil {
					return err
				}
			}
			if err := r.Equipment.AppendHistory(ctx, &entity.EquipmentHistory{
				ID:           uuid.New().String(),
				DocumentID:   doc.ID,
				ItemID:       l.ItemID,
				TechnicianID: doc.TechnicianID,
				Direction:    l.Direction,
				Quantity:     l.Quantity,
				Location:     l.Location,
				CreatedBy:    actor.UserID,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		}
		uc.log.Info().Str("document_id", doc.ID).Str("technician_id", doc.TechnicianID).Int("lines", len(doc.Lines)).Msg("movimiento de equipos registrado")
		out = toDocumentResponse(doc, issues)
		return nil
	})
	return out, err
}

func (uc *EquipmentUseCase) checkout(ctx context.Context, r repository.Repos, lg *ledger.Ledger, doc *entity.Document, l *entity.DocumentLine, now time.Time) error {
	if _, err := lg.DebitCentral(ctx, entity.StockKey{ItemID: l.ItemID, ServiceTypeID: doc.ServiceTypeID}, l.Quantity); err != nil {
		return err
	}
	units := make([]*entity.EquipmentUnit, 0, l.Quantity)
	for i := int64(0); i < l.Quantity; i++ {
		units = append(units, &entity.EquipmentUnit{
			ID:            uuid.New().String(),
			ItemID:        l.ItemID,
			ServiceTypeID: doc.ServiceTypeID,
			TechnicianID:  doc.TechnicianID,
			Status:        entity.EquipmentToTechnician,
			Location:      l.Location,
			CheckedOutAt:  &now,
			CreatedAt:     now,
		})
	}
	return r.Equipment.CreateUnits(ctx, units)
}

// giveBack devuelve unidades al almoxarifado; cada una vuelve al estoque de su tipo de servicio.
func (uc *EquipmentUseCase) giveBack(ctx context.Context, r repository.Repos, lg *ledger.Ledger, units []*entity.EquipmentUnit, location string, now time.Time) error {
	perKey := map[entity.StockKey]int64{}
	var keys []entity.StockKey
	for _, u := range units {
		u.Status = entity.EquipmentToWarehouse
		u.TechnicianID = ""
		u.ReturnedAt = &now
		if location != "" {
			u.Location = location
		}
		if err := r.Equipment.UpdateUnit(ctx, u); err != nil {
			return err
		}
		key := entity.StockKey{ItemID: u.ItemID, ServiceTypeID: u.ServiceTypeID}
		if _, ok := perKey[key]; !ok {
			keys = append(keys, key)
		}
		perKey[key]++
	}
	for _, key := range keys {
		if _, err := lg.Receive(ctx, key, perKey[key], location); err != nil {
			return err
		}
	}
	return nil
}

// ReturnDirect devuelve quantity unidades de un ítem en poder del técnico, sin formulario de líneas.
func (uc *EquipmentUseCase) ReturnDirect(ctx context.Context, actor Actor, in dto.EquipmentReturnRequest) (*dto.DocumentResponse, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		it, err := r.Items.GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.ErrNotFound
		}
		if !it.IsEquipment {
			return domain.ErrNotEquipment
		}
		units, err := r.Equipment.HeldForUpdate(ctx, in.TechnicianID, it.ID, int(in.Quantity))
		if err != nil {
			return err
		}
		if int64(len(units)) < in.Quantity {
			return fmt.Errorf("técnico tiene %d unidades de %s: %w", len(units), it.Code, domain.ErrInsufficientBalance)
		}
		out, err = uc.returnUnits(ctx, r, actor, in.TechnicianID, it, units, strings.TrimSpace(in.Location))
		return err
	})
	return out, err
}

// ReturnUnit devuelve una unidad puntual. ErrConflict si la unidad ya está en el almoxarifado.
func (uc *EquipmentUseCase) ReturnUnit(ctx context.Context, actor Actor, unitID string, in dto.UnitReturnRequest) (*dto.DocumentResponse, error) {
	var out *dto.DocumentResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		u, err := r.Equipment.GetUnitForUpdate(ctx, unitID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		if u.Status != entity.EquipmentToTechnician || u.TechnicianID == "" {
			return domain.ErrConflict
		}
		it, err := r.Items.GetByID(ctx, u.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.ErrNotFound
		}
		out, err = uc.returnUnits(ctx, r, actor, u.TechnicianID, it, []*entity.EquipmentUnit{u}, strings.TrimSpace(in.Location))
		return err
	})
	return out, err
}

func (uc *EquipmentUseCase) returnUnits(ctx context.Context, r repository.Repos, actor Actor, technicianID string, it *entity.Item, units []*entity.EquipmentUnit, location string) (*dto.DocumentResponse, error) {
	now := uc.now()
	doc := newDocument(entity.DocumentEquipment, entity.StatusConfirmed, actor.UserID, now)
	doc.TechnicianID = technicianID
	doc.ServiceTypeID = units[0].ServiceTypeID
	line := newLine(1, it, int64(len(units)), entity.LineApplied)
	line.Direction = entity.EquipmentToWarehouse
	line.Location = location
	doc.Lines = []*entity.DocumentLine{line}
	if err := r.Documents.Create(ctx, doc); err != nil {
		return nil, err
	}
	lg := ledger.New(r, doc.ID).ForLine(line.ID)
	if err := uc.giveBack(ctx, r, lg, units, location, now); err != nil {
		return nil, err
	}
	if err := r.Equipment.AppendHistory(ctx, &entity.EquipmentHistory{
		ID:           uuid.New().String(),
		DocumentID:   doc.ID,
		ItemID:       it.ID,
		TechnicianID: technicianID,
		Direction:    entity.EquipmentToWarehouse,
		Quantity:     line.Quantity,
		Location:     location,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// Holdings saldo de equipos por técnico; technicianID vacío trae todos.
func (uc *EquipmentUseCase) Holdings(ctx context.Context, technicianID string) ([]dto.EquipmentHoldingResponse, error) {
	var out []dto.EquipmentHoldingResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		list, err := r.Equipment.Holdings(ctx, technicianID)
		if err != nil {
			return err
		}
		out = make([]dto.EquipmentHoldingResponse, 0, len(list))
		for _, h := range list {
			out = append(out, dto.EquipmentHoldingResponse{
				TechnicianID:    h.TechnicianID,
				TechnicianName:  h.TechnicianName,
				ItemID:          h.ItemID,
				ItemCode:        h.ItemCode,
				ItemDescription: h.ItemDescription,
				Quantity:        h.Quantity,
			})
		}
		return nil
	})
	return out, err
}

// Units unidades físicas filtradas por técnico y/o ítem.
func (uc *EquipmentUseCase) Units(ctx context.Context, technicianID, itemID string) ([]dto.EquipmentUnitResponse, error) {
	var out []dto.EquipmentUnitResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		list, err := r.Equipment.ListUnits(ctx, technicianID, itemID)
		if err != nil {
			return err
		}
		out = make([]dto.EquipmentUnitResponse, 0, len(list))
		for _, u := range list {
			out = append(out, dto.EquipmentUnitResponse{
				ID:            u.ID,
				ItemID:        u.ItemID,
				ServiceTypeID: u.ServiceTypeID,
				TechnicianID:  u.TechnicianID,
				Status:        u.Status,
				Location:      u.Location,
				CheckedOutAt:  u.CheckedOutAt,
				ReturnedAt:    u.ReturnedAt,
			})
		}
		return nil
	})
	return out, err
}

// History últimas entradas del historial; limit 0 trae todo.
func (uc *EquipmentUseCase) History(ctx context.Context, technicianID, itemID string, limit int) ([]dto.EquipmentHistoryResponse, error) {
	var out []dto.EquipmentHistoryResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		list, err := r.Equipment.History(ctx, technicianID, itemID, limit)
		if err != nil {
			return err
		}
		out = make([]dto.EquipmentHistoryResponse, 0, len(list))
		for _, h := range list {
			out = append(out, dto.EquipmentHistoryResponse{
				ID:           h.ID,
				DocumentID:   h.DocumentID,
				ItemID:       h.ItemID,
				TechnicianID: h.TechnicianID,
				Direction:    h.Direction,
				Quantity:     h.Quantity,
				Location:     h.Location,
				CreatedAt:    h.CreatedAt,
			})
		}
		return nil
	})
	return out, err
}
