package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
	"github.com/logistock/logistock-api/pkg/logger"
)

// StockUseCase consultas y mantenimiento del estoque central y de los saldos de técnicos.
type StockUseCase struct {
	tx  TxRunner
	log *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx TxRunner, log *logger.Logger) *StockUseCase {
	return &StockUseCase{tx: tx, log: log.Named("stock")}
}

func toStockLevelResponse(s *entity.StockLevel) dto.StockLevelResponse {
	return dto.StockLevelResponse{
		ID:              s.ID,
		ItemID:          s.ItemID,
		ItemCode:        s.ItemCode,
		ItemDescription: s.ItemDescription,
		Unit:            s.ItemUnit,
		UnitValue:       s.UnitValue,
		IsEquipment:     s.IsEquipment,
		ServiceTypeID:   s.ServiceTypeID,
		ServiceTypeName: s.ServiceTypeName,
		Quantity:        s.Quantity,
		MinQuantity:     s.MinQuantity,
		Location:        s.Location,
		Low:             s.IsLow(),
		UpdatedAt:       s.UpdatedAt,
	}
}

func (uc *StockUseCase) list(ctx context.Context, f repository.StockFilter) ([]dto.StockLevelResponse, error) {
	var out []dto.StockLevelResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		list, err := r.Stock.List(ctx, f)
		if err != nil {
			return err
		}
		out = make([]dto.StockLevelResponse, 0, len(list))
		for _, s := range list {
			out = append(out, toStockLevelResponse(s))
		}
		return nil
	})
	return out, err
}

// List consulta de saldo del almoxarifado con filtros.
func (uc *StockUseCase) List(ctx context.Context, in dto.StockFilterRequest) ([]dto.StockLevelResponse, error) {
	return uc.list(ctx, repository.StockFilter{
		Code:          strings.TrimSpace(in.Code),
		Description:   strings.TrimSpace(in.Description),
		ServiceTypeID: in.ServiceTypeID,
		OnlyLow:       in.OnlyLow,
		OnlyAvailable: in.OnlyAvailable,
	})
}

// Alerts filas con cantidad igual o menor al mínimo.
func (uc *StockUseCase) Alerts(ctx context.Context, serviceTypeID string) ([]dto.StockLevelResponse, error) {
	return uc.list(ctx, repository.StockFilter{ServiceTypeID: serviceTypeID, OnlyLow: true})
}

// Available ítems con cantidad positiva para el tipo de servicio.
func (uc *StockUseCase) Available(ctx context.Context, serviceTypeID string) ([]dto.StockLevelResponse, error) {
	return uc.list(ctx, repository.StockFilter{ServiceTypeID: serviceTypeID, OnlyAvailable: true})
}

// ItemBalance consolida un ítem: filas del almoxarifado por tipo de servicio y total en poder de técnicos.
func (uc *StockUseCase) ItemBalance(ctx context.Context, itemID, code string) (*dto.ItemBalanceResponse, error) {
	var out *dto.ItemBalanceResponse
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		it, err := resolveItem(ctx, r.Items, itemID, code)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.ErrNotFound
		}
		rows, err := r.Stock.List(ctx, repository.StockFilter{Code: it.Code})
		if err != nil {
			return err
		}
		out = &dto.ItemBalanceResponse{
			ItemID:      it.ID,
			Code:        it.Code,
			Description: it.Description,
			Unit:        it.Unit,
			Rows:        []dto.StockLevelResponse{},
		}
		for _, s := range rows {
			// el filtro por código es parcial
			if s.ItemID != it.ID {
				continue
			}
			out.Central += s.Quantity
			out.Rows = append(out.Rows, toStockLevelResponse(s))
		}
		balances, err := r.Balances.List(ctx, repository.BalanceFilter{ItemID: it.ID, OnlyPositive: true})
		if err != nil {
			return err
		}
		for _, b := range balances {
			out.WithTechnicians += b.Quantity
		}
		return nil
	})
	return out, err
}

// parseMinimum interpreta "15" como mínimo absoluto y "20%" como porcentaje de la cantidad actual (redondeo hacia abajo).
func parseMinimum(raw string, current int64) (int64, error) {
	raw = strings.TrimSpace(raw)
	if pct, ok := strings.CutSuffix(raw, "%"); ok {
		p, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(pct), ",", "."))
		if err != nil || p.IsNegative() {
			return 0, fmt.Errorf("porcentaje %q: %w", raw, domain.ErrInvalidInput)
		}
		return decimal.NewFromInt(current).Mul(p).Div(decimal.NewFromInt(100)).Floor().IntPart(), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("mínimo %q: %w", raw, domain.ErrInvalidInput)
	}
	return n, nil
}

// UpdateMinimums actualiza mínimos en lote. Las filas inexistentes o valores inválidos se informan y no frenan el resto.
func (uc *StockUseCase) UpdateMinimums(ctx context.Context, in dto.UpdateMinimumsRequest) (*dto.BulkUpdateResponse, error) {
	out := &dto.BulkUpdateResponse{}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var issues issueList
		for i, u := range in.Items {
			s, err := r.Stock.GetByID(ctx, u.StockID)
			if err != nil {
				return err
			}
			if s == nil {
				issues.add(i+1, u.StockID, reasonNoStockRow)
				continue
			}
			minimum, err := parseMinimum(u.Minimum, s.Quantity)
			if err != nil {
				issues.add(i+1, u.StockID, reasonInvalidQuantity)
				continue
			}
			if err := r.Stock.UpdateMinimum(ctx, s.ID, minimum); err != nil {
				return err
			}
			out.Updated++
		}
		out.Issues = issues
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLocations actualiza ubicaciones en lote.
func (uc *StockUseCase) UpdateLocations(ctx context.Context, in dto.UpdateLocationsRequest) (*dto.BulkUpdateResponse, error) {
	out := &dto.BulkUpdateResponse{}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var issues issueList
		for i, u := range in.Items {
			err := r.Stock.UpdateLocation(ctx, u.StockID, strings.TrimSpace(u.Location))
			if errors.Is(err, domain.ErrNotFound) {
				issues.add(i+1, u.StockID, reasonNoStockRow)
				continue
			}
			if err != nil {
				return err
			}
			out.Updated++
		}
		out.Issues = issues
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BalanceLines filas de saldo de técnicos, usadas también por la exportación.
func (uc *StockUseCase) BalanceLines(ctx context.Context, f repository.BalanceFilter) ([]*entity.BalanceLine, error) {
	var out []*entity.BalanceLine
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		out, err = r.Balances.List(ctx, f)
		return err
	})
	return out, err
}

// TechnicianBalance saldo del técnico agrupado por ítem y tipo de servicio, con el detalle por dirección.
func (uc *StockUseCase) TechnicianBalance(ctx context.Context, technicianID, serviceTypeID string) (*dto.TechnicianBalanceResponse, error) {
	var (
		tech  *entity.Technician
		lines []*entity.BalanceLine
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if tech, err = r.Technicians.GetByID(ctx, technicianID); err != nil {
			return err
		}
		if tech == nil {
			return domain.ErrNotFound
		}
		lines, err = r.Balances.List(ctx, repository.BalanceFilter{
			TechnicianID:  technicianID,
			ServiceTypeID: serviceTypeID,
			OnlyPositive:  true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.TechnicianBalanceResponse{TechnicianID: tech.ID, TechnicianName: tech.Name, Items: []dto.BalanceItemResponse{}}
	index := map[[2]string]int{}
	for _, b := range lines {
		k := [2]string{b.ItemID, b.ServiceTypeID}
		i, ok := index[k]
		if !ok {
			out.Items = append(out.Items, dto.BalanceItemResponse{
				ItemID:          b.ItemID,
				Code:            b.ItemCode,
				Description:     b.ItemDescription,
				Unit:            b.ItemUnit,
				UnitValue:       b.UnitValue,
				ServiceTypeID:   b.ServiceTypeID,
				ServiceTypeName: b.ServiceTypeName,
			})
			i = len(out.Items) - 1
			index[k] = i
		}
		out.Items[i].Quantity += b.Quantity
		out.Items[i].Addresses = append(out.Items[i].Addresses, dto.AddressQuantity{Address: b.Address, Quantity: b.Quantity})
	}
	return out, nil
}
