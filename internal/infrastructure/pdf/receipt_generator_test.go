package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain/entity"
)

func TestRenderReceipt_ProducesPDF(t *testing.T) {
	g := NewReceiptGenerator("")
	doc := &entity.Document{
		ID:        "2f1c6a3e-9b1d-4a55-8d0f-1c2b3a4d5e6f",
		Kind:      entity.DocumentRequisition,
		Status:    entity.StatusDelivered,
		Area:      "Rua das Flores, 10",
		CreatedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		Lines: []*entity.DocumentLine{
			{Code: "CB-01", Description: "Cabo drop", Unit: "m", Quantity: 120, UnitValue: decimal.RequireFromString("2.5"), Status: entity.LineApplied},
			{Code: "CN-02", Description: "Conector", Unit: "un", Quantity: 3, UnitValue: decimal.RequireFromString("1.1"), Status: entity.LineSkipped},
		},
	}

	out, err := g.RenderReceipt(context.Background(), inventory.ReceiptData{Document: doc, TechnicianName: "Ana"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderReceipt_RequiresDocument(t *testing.T) {
	_, err := NewReceiptGenerator("x").RenderReceipt(context.Background(), inventory.ReceiptData{})
	assert.Error(t, err)
}

func TestTitle_FallsBackForUnknownKind(t *testing.T) {
	assert.Equal(t, "KIT INICIAL", title(entity.DocumentInitialKit))
	assert.Equal(t, "DOCUMENTO DE MOVIMENTAÇÃO", title("otro"))
}
