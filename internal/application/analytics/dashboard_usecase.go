// Package analytics contiene los casos de uso de lectura para el panel y los reportes de consumo.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen del almoxarifado.
//
// Fuente de datos: repositorios de lectura sobre el pool (sin transacción).
type DashboardUseCase struct {
	repos repository.Repos
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repos) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. requisiciones pendientes
//  2. baixas pendientes
//  3. filas bajo el mínimo
//  4. técnicos activos
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		out         = &dto.DashboardSummaryDTO{DateLabel: monthLabel(uc.now())}
		low         []*entity.StockLevel
		technicians []*entity.Technician
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.repos.Documents.CountByStatus(gctx, entity.DocumentRequisition, entity.StatusPending)
		if err != nil {
			return fmt.Errorf("dashboard: requisiciones pendientes: %w", err)
		}
		out.PendingRequisitions = n
		return nil
	})
	g.Go(func() error {
		n, err := uc.repos.Documents.CountByStatus(gctx, entity.DocumentWriteOff, entity.StatusPending)
		if err != nil {
			return fmt.Errorf("dashboard: baixas pendientes: %w", err)
		}
		out.PendingWriteOffs = n
		return nil
	})
	g.Go(func() error {
		var err error
		if low, err = uc.repos.Stock.List(gctx, repository.StockFilter{OnlyLow: true}); err != nil {
			return fmt.Errorf("dashboard: alertas de estoque: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if technicians, err = uc.repos.Technicians.List(gctx, repository.TechnicianFilter{Status: entity.TechnicianActive}); err != nil {
			return fmt.Errorf("dashboard: técnicos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.LowStockCount = len(low)
	out.ActiveTechnicians = len(technicians)
	out.LowStock = make([]dto.StockLevelResponse, 0, len(low))
	for _, s := range low {
		out.LowStock = append(out.LowStock, dto.StockLevelResponse{
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
			Low:             true,
			UpdatedAt:       s.UpdatedAt,
		})
	}
	return out, nil
}

// Consumption reporte de consumo de requisiciones entregadas, agrupado por día, técnico, código y dirección.
func (uc *DashboardUseCase) Consumption(ctx context.Context, in dto.ConsumptionRequest) (*dto.ConsumptionReportDTO, error) {
	f := entity.ConsumptionFilter{
		TechnicianID: in.TechnicianID,
		Code:         in.Code,
		Address:      in.Address,
	}
	var err error
	if f.From, err = parseDay(in.From, false); err != nil {
		return nil, fmt.Errorf("from: %w", domain.ErrInvalidInput)
	}
	if f.To, err = parseDay(in.To, true); err != nil {
		return nil, fmt.Errorf("to: %w", domain.ErrInvalidInput)
	}
	rows, err := uc.repos.Documents.Consumption(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ConsumptionReportDTO{Rows: make([]dto.ConsumptionRowDTO, 0, len(rows)), TotalValue: decimal.Zero}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.ConsumptionRowDTO{
			Day:            r.Day.Format("2006-01-02"),
			TechnicianID:   r.TechnicianID,
			TechnicianName: r.TechnicianName,
			Code:           r.ItemCode,
			Description:    r.Description,
			Unit:           r.Unit,
			Address:        r.Address,
			Quantity:       r.Quantity,
			Total:          r.Total,
		})
		out.TotalQuantity += r.Quantity
		out.TotalValue = out.TotalValue.Add(r.Total)
	}
	return out, nil
}

func parseDay(s string, endOfDay bool) (*time.Time, error) {
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

// monthLabel devuelve una etiqueta legible del mes, ej: "Outubro 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
