package record

import (
	"fmt"
	"io"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
)

// WriteChart renders metric over time as a PNG line chart.
func WriteChart(w io.Writer, run Run, samples []Sample, metric string) error {
	col := slices.Index(run.Metrics, metric)
	if col < 0 {
		return fmt.Errorf("record: run %s did not record %q", run.ID, metric)
	}
	if len(samples) < 2 {
		return fmt.Errorf("record: need at least two samples to chart, have %d", len(samples))
	}
	xs := make([]float64, 0, len(samples))
	ys := make([]float64, 0, len(samples))
	for _, s := range samples {
		if col >= len(s.Values) {
			continue
		}
		xs = append(xs, float64(s.Timestep))
		ys = append(ys, s.Values[col])
	}

	graph := chart.Chart{
		Title:  metric,
		Width:  960,
		Height: 480,
		XAxis: chart.XAxis{
			Name:  "timestep",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  metric,
			Style: chart.Style{FontSize: 10.0},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    metric,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2.0},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
