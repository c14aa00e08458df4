package regsim

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// BarCoefficients generates an echart bar chart comparing the true coefficients against
// their estimates. Both slices must have the same length.
func BarCoefficients(coef, estimated []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Coefficients",
			},
		),
	)

	labels := make([]string, 0, len(coef))
	barDataTrue := make([]opts.BarData, 0, len(coef))
	barDataEstimated := make([]opts.BarData, 0, len(estimated))
	for i := 0; i < len(coef); i++ {
		labels = append(labels, fmt.Sprintf("x%d", i))
		barDataTrue = append(barDataTrue, opts.BarData{Value: coef[i]})
		barDataEstimated = append(barDataEstimated, opts.BarData{Value: estimated[i]})
	}

	bar.SetXAxis(labels).
		AddSeries("True", barDataTrue).
		AddSeries("Estimated", barDataEstimated)
	return bar
}

// LineSeries generates an echart multi-line chart indexed by observation. Every series
// in y must have the same length.
func LineSeries(title string, seriesName []string, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	var n int
	if len(y) > 0 {
		n = len(y[0])
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	line = line.SetXAxis(idx)
	for i, series := range seriesName {
		lineData := make([]opts.LineData, 0, len(y[i]))
		for _, v := range y[i] {
			lineData = append(lineData, opts.LineData{Value: v})
		}
		line = line.AddSeries(series, lineData)
	}
	return line
}

// PlotCoefficients uses the Apache Echarts library to write an html page comparing the
// true and estimated coefficients along with the response and noise
func (s *Simulator) PlotCoefficients(w io.Writer) error {
	if !s.state.Computed() {
		return ErrNothingComputed
	}

	page := components.NewPage()
	page.AddCharts(
		BarCoefficients(s.state.B, s.state.EstimatedCoefficients()),
		LineSeries(
			"Response",
			[]string{"Y", "Noise"},
			[][]float64{
				s.state.Y,
				s.state.Noise,
			},
		),
	)
	return page.Render(w)
}
