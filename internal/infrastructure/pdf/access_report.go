// Package pdf genera el informe imprimible del registro de accesos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + sitio        │  Generado: fecha y hora    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Fecha | Hora | Evento                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de entradas                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/rfid-access-api/internal/application/audit"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDenied  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ audit.ReportGenerator = (*AccessReportGenerator)(nil)

// AccessReportGenerator implementa audit.ReportGenerator usando Maroto v2.
type AccessReportGenerator struct{}

// NewAccessReportGenerator construye el generador.
func NewAccessReportGenerator() *AccessReportGenerator { return &AccessReportGenerator{} }

// GenerateAccessReport genera el PDF y devuelve sus bytes.
func (g *AccessReportGenerator) GenerateAccessReport(_ context.Context, report audit.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(report.Site, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(report) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(report.Entries)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report audit.Report) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Site, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(report.GeneratedAt.Location().String(), props.Text{
				Size: 7, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Fecha", 2, align.Left),
		h("Hora", 2, align.Left),
		h("Evento", 7, align.Left),
	)
}

func tableRows(report audit.Report) []core.Row {
	result := make([]core.Row, 0, len(report.Entries))
	for _, e := range report.Entries {
		msgProps := props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1}
		if audit.IsDenial(e.Message) {
			msgProps.Color = colorDenied
			msgProps.Style = fontstyle.Bold
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(strconv.FormatInt(e.ID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(e.Date, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(e.Time, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(7).Add(text.New(e.Message, msgProps)),
		))
	}
	return result
}

func footerRow(total int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total de entradas: %d", total), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 2, Color: colorGray,
		}),
	))
}
