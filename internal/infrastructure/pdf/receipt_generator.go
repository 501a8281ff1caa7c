// Package pdf genera el comprobante imprimible de los documentos de movimiento.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título del documento  │  N° / reserva + fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTES: técnico / empresa parceira / tipo de serviço        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descrição | Qtd | Un | Valor | Total        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + QR con el ID del documento + firmas                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/logistock/logistock-api/internal/application/inventory"
	"github.com/logistock/logistock-api/internal/domain/entity"
	"github.com/logistock/logistock-api/pkg/brl"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ inventory.ReceiptRenderer = (*ReceiptGenerator)(nil)

// títulos impresos por tipo de documento
var titles = map[string]string{
	entity.DocumentInvoice:          "ENTRADA DE NOTA FISCAL",
	entity.DocumentInternalTransfer: "TRANSFERÊNCIA INTERNA",
	entity.DocumentExternalTransfer: "TRANSFERÊNCIA EXTERNA",
	entity.DocumentRequisition:      "REQUISIÇÃO DE MATERIAL",
	entity.DocumentInitialKit:       "KIT INICIAL",
	entity.DocumentWriteOff:         "BAIXA DE MATERIAL",
	entity.DocumentEquipment:        "MOVIMENTAÇÃO DE EQUIPAMENTOS",
	entity.DocumentStockCount:       "INVENTÁRIO DO ALMOXARIFADO",
	entity.DocumentTechnicianCount:  "INVENTÁRIO DO TÉCNICO",
}

var statusLabels = map[string]string{
	entity.StatusPending:   "Pendente",
	entity.StatusConfirmed: "Confirmado",
	entity.StatusDelivered: "Entregue",
	entity.StatusRefused:   "Recusado",
}

// ReceiptGenerator implementa inventory.ReceiptRenderer usando Maroto v2.
type ReceiptGenerator struct {
	issuer string
}

// NewReceiptGenerator construye el generador. issuer es el nombre impreso como autor del PDF.
func NewReceiptGenerator(issuer string) *ReceiptGenerator {
	if issuer == "" {
		issuer = "LogiStock"
	}
	return &ReceiptGenerator{issuer: issuer}
}

// RenderReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) RenderReceipt(ctx context.Context, data inventory.ReceiptData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := data.Document
	if d == nil {
		return nil, fmt.Errorf("pdf: documento vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(d.Kind), true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(d.Kind))
	m.AddRows(tableRows(d)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(d))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(d)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func title(kind string) string {
	if t, ok := titles[kind]; ok {
		return t
	}
	return "DOCUMENTO DE MOVIMENTAÇÃO"
}

func headerRow(d *entity.Document) core.Row {
	ref := d.Number
	if ref == "" {
		ref = d.Name
	}
	if ref == "" {
		ref = d.ID[:min(8, len(d.ID))]
	}
	right := []core.Component{
		text.New(ref, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
		text.New("Data: "+d.CreatedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 8, Color: colorGray,
		}),
	}
	if d.Reservation != "" {
		right = append(right, text.New("Reserva: "+d.Reservation, props.Text{
			Size: 8, Align: align.Right, Top: 13, Color: colorGray,
		}))
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title(d.Kind), props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Situação: "+nonEmpty(statusLabels[d.Status], d.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(right...),
	)
}

// partiesRows lista solo los campos presentes en el documento.
func partiesRows(data inventory.ReceiptData) []core.Row {
	d := data.Document
	fields := []struct{ label, value string }{
		{"Técnico", data.TechnicianName},
		{"Empresa parceira", data.PartnerCompanyName},
		{"Tipo de serviço", data.ServiceTypeName},
		{"Área / endereço", d.Area},
		{"Bairro", d.Neighborhood},
		{"Imóvel", d.PropertyCode},
		{"Responsável", d.Responsible},
		{"Autorizado por", d.AuthorizedBy},
		{"Retirado por", d.WithdrawnBy},
		{"Emitido por", data.IssuedBy},
		{"Observações", d.Notes},
	}
	var rows []core.Row
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(f.label+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(9).Add(text.New(f.value, props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

// En equipos la columna de valor se reemplaza por la dirección del movimiento.
func tableHeaderRow(kind string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	valueLabel := "Valor unit."
	if kind == entity.DocumentEquipment {
		valueLabel = "Destino"
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descrição", 4, align.Left),
		h("Qtd", 1, align.Center),
		h("Un", 1, align.Center),
		h(valueLabel, 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(d *entity.Document) []core.Row {
	rows := make([]core.Row, 0, len(d.Lines))
	for _, l := range d.Lines {
		value := brl.Format(l.UnitValue)
		if d.Kind == entity.DocumentEquipment {
			value = l.Direction
		}
		desc := l.Description
		if l.Status == entity.LineSkipped || l.Status == entity.LinePending {
			desc += " (" + l.Status + ")"
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(l.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.FormatInt(l.Quantity, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(value, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(brl.Format(l.Total()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(d *entity.Document) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(brl.Format(d.Total()), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// footerRows: QR con el ID del documento y líneas de firma.
func footerRows(d *entity.Document) []core.Row {
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(d.ID, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Documento "+d.ID, props.Text{Size: 7, Top: 4, Left: 3, Color: colorGray}),
				text.New("Escaneie o código para localizar o documento no sistema.", props.Text{
					Size: 8, Top: 10, Left: 3, Color: colorGray,
				}),
			),
		),
		row.New(15),
		row.New(10).Add(
			col.New(5).Add(text.New("____________________________________\nAlmoxarifado", props.Text{
				Size: 8, Align: align.Center,
			})),
			col.New(2),
			col.New(5).Add(text.New("____________________________________\nRecebedor", props.Text{
				Size: 8, Align: align.Center,
			})),
		),
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
