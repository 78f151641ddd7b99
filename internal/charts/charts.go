package charts

import (
	"bytes"
	"fmt"

	"github.com/riefgeister/expansbot/internal/service"
	"github.com/wcharczuk/go-chart/v2"
)

// ChartGenerator renders summary charts attached to stats replies.
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// BreakdownPie renders the per-category breakdown as a pie chart. It
// returns nil bytes when there are fewer than two slices, where a chart
// adds nothing over the text reply.
func (g *ChartGenerator) BreakdownPie(summary *service.Summary) ([]byte, error) {
	if summary == nil || len(summary.Breakdown) < 2 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(summary.Breakdown))
	for _, ct := range summary.Breakdown {
		values = append(values, chart.Value{
			Value: ct.Total,
			Label: fmt.Sprintf("%s (%s)", ct.Category, service.FormatAmount(ct.Total)),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}

	pie := chart.PieChart{
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    30,
				Left:   30,
				Right:  30,
				Bottom: 30,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render breakdown chart: %w", err)
	}
	return buffer.Bytes(), nil
}
