package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

func scatterData(points []uss.Point) []opts.ScatterData {
	data := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y}, SymbolSize: 6})
	}
	return data
}

// handleSnapshot renders a static scatter page of one frame's detection
// lists. Debugging aid to eyeball method agreement without the live canvas.
// Query params: frame (optional; defaults to the last frame).
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if len(s.frames) == 0 {
		http.Error(w, "no frames available", http.StatusNotFound)
		return
	}

	index := len(s.frames) - 1
	if q := r.URL.Query().Get("frame"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 || v >= len(s.frames) {
			http.Error(w, "invalid frame index", http.StatusBadRequest)
			return
		}
		index = v
	}
	frame := &s.frames[index]

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Frame %d @ %d us", index, frame.TimestampUs),
			Subtitle: fmt.Sprintf("fused=%d clustered=%d", len(frame.Processed.Fused), len(frame.Processed.Clustered)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x [m]", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y [m]", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	scatter.AddSeries("tracing", scatterData(frame.Processed.Tracing))
	scatter.AddSeries("fov", scatterData(frame.Processed.FovIntersections))
	scatter.AddSeries("ellipse", scatterData(frame.Processed.EllipseIntersections))
	scatter.AddSeries("fused", scatterData(frame.Processed.Fused))
	scatter.AddSeries("clustered", scatterData(frame.Processed.Clustered))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	scatter.Render(w)
}
