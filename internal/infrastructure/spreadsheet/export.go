package spreadsheet

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/logistock/logistock-api/internal/application/dto"
	"github.com/logistock/logistock-api/pkg/brl"
)

// ContentTypeXLSX para la cabecera de las descargas.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheet arma un libro de una sola hoja con cabecera en negrita.
type sheet struct {
	f    *excelize.File
	name string
	row  int
}

func newSheet(name string, header ...any) (*sheet, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}
	s := &sheet{f: f, name: name}
	if err := s.append(header...); err != nil {
		f.Close()
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		f.Close()
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(name, "A", lastCol, 18); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *sheet) append(values ...any) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheet) writeTo(w io.Writer) error {
	defer s.f.Close()
	if err := s.f.Write(w); err != nil {
		return fmt.Errorf("escribir xlsx: %w", err)
	}
	return nil
}

// WriteConsumption exporta el reporte de consumo con una fila final de totales.
func WriteConsumption(w io.Writer, rep *dto.ConsumptionReportDTO) error {
	s, err := newSheet("Consumo", "Data", "Técnico", "Código", "Descrição", "Unidade", "Endereço", "Quantidade", "Total")
	if err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := s.append(r.Day, r.TechnicianName, r.Code, r.Description, r.Unit, r.Address, r.Quantity, brl.Format(r.Total)); err != nil {
			return err
		}
	}
	if err := s.append("", "", "", "", "", "TOTAL", rep.TotalQuantity, brl.Format(rep.TotalValue)); err != nil {
		return err
	}
	return s.writeTo(w)
}

// WriteTechnicianBalance exporta el saldo de un técnico, una fila por ítem y dirección.
func WriteTechnicianBalance(w io.Writer, bal *dto.TechnicianBalanceResponse) error {
	s, err := newSheet("Saldo", "Técnico", "Código", "Descrição", "Unidade", "Tipo de serviço", "Endereço", "Quantidade", "Valor unitário", "Total")
	if err != nil {
		return err
	}
	for _, it := range bal.Items {
		addresses := it.Addresses
		if len(addresses) == 0 {
			addresses = []dto.AddressQuantity{{Quantity: it.Quantity}}
		}
		for _, a := range addresses {
			total := it.UnitValue.Mul(decimal.NewFromInt(a.Quantity))
			if err := s.append(bal.TechnicianName, it.Code, it.Description, it.Unit, it.ServiceTypeName,
				a.Address, a.Quantity, brl.Format(it.UnitValue), brl.Format(total)); err != nil {
				return err
			}
		}
	}
	return s.writeTo(w)
}

// WriteCount exporta un documento de inventario (almoxarifado o técnico) con antes/después.
func WriteCount(w io.Writer, doc *dto.DocumentResponse) error {
	s, err := newSheet("Inventário", "Código", "Descrição", "Unidade", "Endereço", "Antes", "Contado", "Diferença")
	if err != nil {
		return err
	}
	for _, l := range doc.Lines {
		if err := s.append(l.Code, l.Description, l.Unit, l.Location, l.QuantityBefore, l.Quantity, l.Quantity-l.QuantityBefore); err != nil {
			return err
		}
	}
	return s.writeTo(w)
}

// WriteStock exporta el estoque central filtrado.
func WriteStock(w io.Writer, rows []dto.StockLevelResponse) error {
	s, err := newSheet("Estoque", "Código", "Descrição", "Unidade", "Tipo de serviço", "Localização", "Quantidade", "Mínimo", "Valor unitário")
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := s.append(r.ItemCode, r.ItemDescription, r.Unit, r.ServiceTypeName, r.Location,
			r.Quantity, r.MinQuantity, brl.Format(r.UnitValue)); err != nil {
			return err
		}
	}
	return s.writeTo(w)
}
