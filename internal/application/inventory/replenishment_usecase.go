package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición del almoxarifado.
// Combina las filas bajo el mínimo con el consumo de los técnicos para priorizar.
type ReplenishmentUseCase struct {
	tx  TxRunner
	now func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(tx TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{tx: tx, now: time.Now}
}

// GenerateReplenishmentList devuelve las filas con quantity <= mínimo y la cantidad sugerida para
// llegar a 1,5 veces el mínimo. serviceTypeID vacío considera todos los tipos.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, serviceTypeID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	var (
		low      []*entity.StockLevel
		consumed []*entity.ConsumptionRow
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		low, err = r.Stock.List(ctx, repository.StockFilter{ServiceTypeID: serviceTypeID, OnlyLow: true})
		if err != nil || len(low) == 0 {
			return err
		}
		// Consumo de los últimos 90 días (requisiciones entregadas)
		end := uc.now()
		start := end.AddDate(0, 0, -90)
		consumed, err = r.Documents.Consumption(ctx, entity.ConsumptionFilter{From: &start, To: &end})
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	byCode := make(map[string]int64, len(consumed))
	for _, c := range consumed {
		byCode[c.ItemCode] += c.Quantity
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, s := range low {
		ideal := decimal.NewFromInt(s.MinQuantity).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
		suggested := max(ideal-s.Quantity, 0)
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			StockID:            s.ID,
			ItemID:             s.ItemID,
			Code:               s.ItemCode,
			Description:        s.ItemDescription,
			ServiceTypeID:      s.ServiceTypeID,
			ServiceTypeName:    s.ServiceTypeName,
			CurrentStock:       s.Quantity,
			MinQuantity:        s.MinQuantity,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitValue:          s.UnitValue,
			EstimatedOrderCost: s.UnitValue.Mul(decimal.NewFromInt(suggested)),
			ConsumedLast90Days: byCode[s.ItemCode],
		})
	}

	// Primero lo más consumido; a igualdad, el mayor déficit bajo el mínimo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.ConsumedLast90Days != b.ConsumedLast90Days {
			return a.ConsumedLast90Days > b.ConsumedLast90Days
		}
		return a.MinQuantity-a.CurrentStock > b.MinQuantity-b.CurrentStock
	})

	// Prioridad 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
