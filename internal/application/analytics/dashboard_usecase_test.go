package analytics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistock/logistock-api/internal/application/analytics"
	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/internal/infrastructure/memory"
	"github.com/logistock/logistock-api/pkg/logger"
)

func TestDashboard_SummaryAndConsumption(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	require.NoError(t, r.Technicians.Create(ctx, &entity.Technician{ID: "t-1", Name: "Ana", Registration: "M-1", Status: entity.TechnicianActive}))
	require.NoError(t, r.Items.Create(ctx, &entity.Item{ID: "i-1", Code: "CB-01", Description: "Cabo"}))

	admin := inventory.Actor{UserID: "u-1", Role: entity.RoleAdmin}
	_, err := inventory.NewInvoiceUseCase(s, logger.Nop()).Receive(ctx, admin, dto.InvoiceRequest{
		Number: "NF-1", Lines: []dto.DocumentLineRequest{{Code: "CB-01", Quantity: 5}},
	})
	require.NoError(t, err)
	req := inventory.NewRequisitionUseCase(s, logger.Nop())
	first, err := req.Create(ctx, admin, dto.RequisitionRequest{TechnicianID: "t-1", Area: "Rua A", Lines: []dto.DocumentLineRequest{{Code: "CB-01", Quantity: 2}}})
	require.NoError(t, err)
	_, err = req.Create(ctx, admin, dto.RequisitionRequest{TechnicianID: "t-1", Lines: []dto.DocumentLineRequest{{Code: "CB-01", Quantity: 1}}})
	require.NoError(t, err)
	_, err = req.Confirm(ctx, admin, first.ID)
	require.NoError(t, err)

	uc := analytics.NewDashboardUseCase(r)
	sum, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.PendingRequisitions)
	assert.Equal(t, 1, sum.ActiveTechnicians)
	assert.Equal(t, 0, sum.LowStockCount)
	assert.NotEmpty(t, sum.DateLabel)

	rep, err := uc.Consumption(ctx, dto.ConsumptionRequest{Address: "rua"})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, int64(2), rep.TotalQuantity)
	assert.Equal(t, "Ana", rep.Rows[0].TechnicianName)
}
