package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateESGReport(ctx context.Context, data ReportData) (io.Reader, error) {
	_ = ctx
	overview := data.Overview
	if overview == nil {
		return nil, fmt.Errorf("report requires an overview")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "ESG Emissions Report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Period: "+string(overview.Period), props.Text{Top: 0}),
			text.New(fmt.Sprintf("Window: %s to %s (exclusive)", overview.Range.Start, overview.Range.End), props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Total CO2e: %.1f kg", overview.TotalCO2Kg), props.Text{
				Style: fontstyle.Bold,
				Size:  12,
				Align: align.Right,
			}),
		),
	)

	// Emission legs
	m.AddRow(10,
		text.NewCol(4, "Source", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Quantity", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(4, "CO2 (kg)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	legs := []struct {
		name     string
		quantity string
		co2      float64
	}{
		{"Electricity (metered)", fmt.Sprintf("%.1f kWh", overview.Electricity.KWh), overview.Electricity.CO2Kg},
		{"Water (metered)", fmt.Sprintf("%.1f KL", overview.Water.KL), overview.Water.CO2Kg},
		{"Production (direct)", fmt.Sprintf("%.1f kWh est.", overview.Production.EstElectricityKWh), overview.Production.DirectCO2Kg},
		{"Waste / scrap", fmt.Sprintf("%.1f kg", overview.Waste.ScrapKg), overview.Waste.CO2Kg},
	}
	for _, leg := range legs {
		m.AddRow(8,
			text.NewCol(4, leg.name, props.Text{Size: 9}),
			text.NewCol(4, leg.quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, fmt.Sprintf("%.1f", leg.co2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		text.NewCol(12, fmt.Sprintf(
			"Conversion factors: grid %.3f kg/kWh, water %.3f kg/KL, waste %.3f kg/kg",
			overview.Config.GridCO2Factor,
			overview.Config.WaterCO2Factor,
			overview.Config.WasteCO2Factor,
		), props.Text{Size: 8, Top: 4}),
	)

	if data.Factors != nil && len(data.Factors.Factors) > 0 {
		m.AddRow(12,
			text.NewCol(12, "Per-stage emission factors", props.Text{
				Size:  12,
				Style: fontstyle.Bold,
				Top:   4,
			}),
		)
		m.AddRow(10,
			text.NewCol(4, "Stage", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "kWh/unit", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "KL/unit", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Direct kg", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Total kg", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, f := range data.Factors.Factors {
			m.AddRow(8,
				text.NewCol(4, f.Stage, props.Text{Size: 9}),
				text.NewCol(2, fmt.Sprintf("%.2f", f.ElectricityKWhPerUnit), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, fmt.Sprintf("%.2f", f.WaterKLPerUnit), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, fmt.Sprintf("%.2f", f.DirectCO2KgPerUnit), props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, fmt.Sprintf("%.2f", f.TotalCO2PerUnit), props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
