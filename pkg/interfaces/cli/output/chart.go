package output

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/vsinha/bomcost/pkg/application/dto"
)

// CostChart is a horizontal stacked bar chart of the assembly breakdown
type CostChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	MaxTotal     float64
}

// ChartSegment is one cost component of an assembly bar
type ChartSegment struct {
	Label  string
	Amount float64
	X      int
	Width  int
	Color  string
}

var segmentColors = []struct {
	label string
	color string
}{
	{"Material", "#2196F3"},
	{"Labor", "#4CAF50"},
	{"Overhead", "#FF9800"},
	{"Tooling & Equipment", "#9E9E9E"},
}

// NewCostChart sizes the chart for the breakdown rows
func NewCostChart(breakdown []dto.AssemblyCost) *CostChart {
	rowHeight := 30
	maxTotal := 0.0
	for _, a := range breakdown {
		if a.TotalCost.IsDefined() && a.TotalCost.Float64() > maxTotal {
			maxTotal = a.TotalCost.Float64()
		}
	}

	return &CostChart{
		Width:        1200,
		Height:       len(breakdown)*rowHeight + 140,
		MarginLeft:   220,
		MarginTop:    60,
		MarginRight:  240,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		MaxTotal:     maxTotal,
	}
}

// GenerateSVG renders the chart
func (cc *CostChart) GenerateSVG(title string, breakdown []dto.AssemblyCost) string {
	if len(breakdown) == 0 || cc.MaxTotal <= 0 {
		return cc.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, cc.Width, cc.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.small { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.segment { stroke: #333; stroke-width: 0.5; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, cc.Width, cc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">%s</text>`,
		cc.Width/2, html.EscapeString(title)))

	for i, a := range breakdown {
		y := cc.MarginTop + i*cc.RowHeight
		label := strings.Repeat("  ", a.Depth) + a.Name
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="label" text-anchor="end" xml:space="preserve">%s</text>`,
			cc.MarginLeft-15, y+cc.RowHeight/2+4, html.EscapeString(label)))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			cc.MarginLeft, y+cc.RowHeight, cc.Width-cc.MarginRight, y+cc.RowHeight))

		for _, segment := range cc.Segments(a) {
			svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="segment"><title>%s: %.2f</title></rect>`,
				segment.X, y+4, segment.Width, cc.RowHeight-8, segment.Color, segment.Label, segment.Amount))
		}
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="small">%s (%s%%)</text>`,
			cc.Width-cc.MarginRight+10, y+cc.RowHeight/2+4, a.TotalCost.StringFixed(2), a.PercentageOfTotal.StringFixed(1)))
	}

	cc.drawLegend(&svg)
	svg.WriteString(`</svg>`)
	return svg.String()
}

// Segments lays out the cost components of one assembly left to right
func (cc *CostChart) Segments(a dto.AssemblyCost) []ChartSegment {
	chartWidth := cc.Width - cc.MarginLeft - cc.MarginRight
	amounts := []float64{
		definedOrZero(a.MaterialCost),
		definedOrZero(a.LaborCost),
		definedOrZero(a.OverheadCost),
		definedOrZero(a.ToolingCost) + definedOrZero(a.EquipmentCost),
	}

	segments := make([]ChartSegment, 0, len(amounts))
	x := cc.MarginLeft
	for i, amount := range amounts {
		if amount <= 0 || cc.MaxTotal <= 0 {
			continue
		}
		width := int(amount / cc.MaxTotal * float64(chartWidth))
		if width < 1 {
			width = 1 // Minimum width for visibility
		}
		segments = append(segments, ChartSegment{
			Label:  segmentColors[i].label,
			Amount: amount,
			X:      x,
			Width:  width,
			Color:  segmentColors[i].color,
		})
		x += width
	}
	return segments
}

func (cc *CostChart) drawLegend(svg *strings.Builder) {
	legendX := cc.Width - cc.MarginRight + 60
	legendY := 50

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="170" height="%d" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY, 25+len(segmentColors)*14))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="label" font-weight="bold">Legend</text>`,
		legendX+10, legendY+15))

	for i, item := range segmentColors {
		itemY := legendY + 25 + i*14
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`,
			legendX+10, itemY, item.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="small">%s</text>`,
			legendX+30, itemY+8, html.EscapeString(item.label)))
	}
}

func (cc *CostChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Assembly Costs</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, cc.Width, cc.Height, cc.Width, cc.Height, cc.Width/2, cc.Height/2)
}

func definedOrZero(a dto.Amount) float64 {
	if !a.IsDefined() {
		return 0
	}
	return a.Float64()
}

func writeChart(w io.Writer, result *dto.BOMResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for cost chart")
	}

	title := "Assembly Cost Breakdown"
	if result.ProductSummary.ProductName != "" {
		title += " - " + result.ProductSummary.ProductName
	}
	chart := NewCostChart(result.AssemblyBreakdown)
	filename, err := writeFile(config.OutputDir, "cost_breakdown.svg", []byte(chart.GenerateSVG(title, result.AssemblyBreakdown)))
	if err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(w, "📊 Cost chart saved to: %s\n", filename)
	}
	return nil
}
