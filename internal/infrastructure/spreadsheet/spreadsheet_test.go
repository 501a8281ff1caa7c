package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/internal/domain"
)

func TestReadItemsCSV_Windows1252(t *testing.T) {
	src := "Código;Descrição;Unidade;Valor\nCB-01;Cabo óptico;m;1.234,56\n;;;\nCN-02;Conector;un;22.90\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := ReadItems(strings.NewReader(encoded), "itens.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cabo óptico", rows[0].Description)
	assert.Equal(t, 2, rows[0].Line)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(rows[0].UnitValue))
	assert.Equal(t, 4, rows[1].Line)
	assert.True(t, decimal.RequireFromString("22.90").Equal(rows[1].UnitValue))
}

func TestReadItemsCSV_UTF8WithBOM(t *testing.T) {
	src := "\xef\xbb\xbfcodigo;descricao\nONU-1;ONU GPON\n"
	rows, err := ReadItemsCSV(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ONU-1", rows[0].Code)
	assert.Empty(t, rows[0].Unit)
	assert.True(t, rows[0].UnitValue.IsZero())
}

func TestReadItems_RejectsMissingColumns(t *testing.T) {
	_, err := ReadItemsCSV(strings.NewReader("Nome;Preço\nX;1\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ReadItems(strings.NewReader(""), "itens.pdf")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadItemsXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Valor", "Código", "Descrição", "Unidade"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"10,50", "CB-01", "Cabo", "m"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	rows, err := ReadItems(&buf, "ITENS.XLSX")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CB-01", rows[0].Code)
	assert.Equal(t, "m", rows[0].Unit)
	assert.True(t, decimal.RequireFromString("10.5").Equal(rows[0].UnitValue))
}

func TestWriteConsumption(t *testing.T) {
	rep := &dto.ConsumptionReportDTO{
		Rows: []dto.ConsumptionRowDTO{{
			Day: "2026-10-01", TechnicianName: "Ana", Code: "CB-01", Description: "Cabo",
			Unit: "m", Address: "Rua A", Quantity: 3, Total: decimal.RequireFromString("1234.5"),
		}},
		TotalQuantity: 3,
		TotalValue:    decimal.RequireFromString("1234.5"),
	}
	var buf bytes.Buffer
	require.NoError(t, WriteConsumption(&buf, rep))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Consumo")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Técnico", rows[0][1])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "R$ 1.234,50", rows[1][7])
	assert.Equal(t, "TOTAL", rows[2][5])
}

func TestWriteTechnicianBalance_OneRowPerAddress(t *testing.T) {
	bal := &dto.TechnicianBalanceResponse{
		TechnicianName: "Ana",
		Items: []dto.BalanceItemResponse{{
			Code: "CB-01", Description: "Cabo", Unit: "m", UnitValue: decimal.RequireFromString("2"),
			Quantity: 5, Addresses: []dto.AddressQuantity{{Address: "Rua A", Quantity: 2}, {Address: "Rua B", Quantity: 3}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTechnicianBalance(&buf, bal))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Saldo")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rua B", rows[2][5])
	assert.Equal(t, "R$ 6,00", rows[2][8])
}
