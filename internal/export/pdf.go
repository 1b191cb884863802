// Package export renders inventory reports as PDF documents.
//
// A4 layout:
//
//	┌─────────────────────────────────────────────────────┐
//	│  HEADER: Reporte General de Inventario + fecha      │
//	│  ─────────────────────────────────────────────────  │
//	│  RESUMEN: productos / categorías / valor / bajos    │
//	│  ─────────────────────────────────────────────────  │
//	│  TABLA: productos con stock bajo                    │
//	└─────────────────────────────────────────────────────┘
package export

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
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

	"go-almacen/internal/model"
	"go-almacen/internal/service"
)

var (
	colorPrimary = &props.Color{Red: 44, Green: 62, Blue: 80}
	colorDanger  = &props.Color{Red: 231, Green: 76, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReportPDF renders the general report using Maroto v2.
type ReportPDF struct {
	appName string
}

func NewReportPDF(appName string) *ReportPDF {
	return &ReportPDF{appName: appName}
}

// Generate builds the PDF and returns its bytes.
func (g *ReportPDF) Generate(report *service.GeneralReport, lowStock []model.Product) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Reporte General de Inventario", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(report)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(lowStockRows(lowStock)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(appName string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE GENERAL DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
			text.New(appName, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(time.Now().Format("2006-01-02 15:04:05"), props.Text{
				Size: 9, Top: 4, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func summaryRows(report *service.GeneralReport) []core.Row {
	entries := []struct {
		label string
		value string
	}{
		{"Total de productos", strconv.Itoa(report.ProductCount)},
		{"Categorías", strconv.Itoa(report.CategoryCount)},
		{"Valor del inventario", "$" + report.InventoryValue.StringFixed(2)},
		{"Productos con stock bajo", strconv.Itoa(report.LowStockCount)},
		{"Movimientos registrados", strconv.FormatInt(report.MovementCount, 10)},
	}

	rows := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row.New(8).Add(
			col.New(7).Add(text.New(e.label, props.Text{Size: 10, Top: 1})),
			col.New(5).Add(text.New(e.value, props.Text{
				Size: 10, Top: 1, Align: align.Right, Style: fontstyle.Bold, Color: colorPrimary,
			})),
		))
	}
	return rows
}

func lowStockRows(products []model.Product) []core.Row {
	rows := []core.Row{
		row.New(10).Add(
			col.New(12).Add(text.New("Productos con stock bajo", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorDanger, Top: 2,
			})),
		),
	}

	if len(products) == 0 {
		rows = append(rows, row.New(8).Add(
			col.New(12).Add(text.New("Stock suficiente en todos los productos.", props.Text{
				Size: 9, Top: 1, Color: colorGray,
			})),
		))
		return rows
	}

	rows = append(rows, row.New(7).Add(
		headerCell(3, "Código"),
		headerCell(5, "Nombre"),
		headerCell(2, "Stock"),
		headerCell(2, "Mínimo"),
	))

	for _, p := range products {
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(p.Code, props.Text{Size: 9})),
			col.New(5).Add(text.New(p.Name, props.Text{Size: 9})),
			col.New(2).Add(text.New(strconv.Itoa(p.CurrentStock), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(strconv.Itoa(p.MinStock), props.Text{Size: 9, Align: align.Right})),
		))
	}
	return rows
}

func headerCell(size int, label string) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 9, Color: colorPrimary,
	}))
}
