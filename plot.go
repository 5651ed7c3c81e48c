package coviddash

import (
	"encoding/json"
	"fmt"
	"os"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
)

// Plot is a plotly figure under construction.
type Plot struct {
	Fig *grob.Fig
	Lay *grob.Layout

	annotations []annotation
}

// annotation is a plotly layout annotation. Positions are in paper coordinates.
type annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Xref      string  `json:"xref"`
	Yref      string  `json:"yref"`
	Xanchor   string  `json:"xanchor"`
	Yanchor   string  `json:"yanchor"`
	Showarrow bool    `json:"showarrow"`
}

type PlotOpt func(plot *Plot) error

func NewPlot(opts ...PlotOpt) (*Plot, error) {
	fig := &grob.Fig{}
	lay := &grob.Layout{}
	fig.Layout = lay
	p := &Plot{Fig: fig, Lay: lay}
	for _, opt := range opts {
		if e := opt(p); e != nil {
			return nil, e
		}
	}

	return p, nil
}

// *********** Options ***********

func PlotWidth(w float64) PlotOpt {
	return func(p *Plot) error {
		if w < 100 {
			return fmt.Errorf("width must be at least 100, got %v", w)
		}

		p.Lay.Width = w
		return nil
	}
}

func PlotHeight(h float64) PlotOpt {
	return func(p *Plot) error {
		if h < 100 {
			return fmt.Errorf("height must be at least 100, got %v", h)
		}

		p.Lay.Height = h
		return nil
	}
}

func PlotTitle(title string) PlotOpt {
	return func(p *Plot) error {
		p.Lay.Title = &grob.LayoutTitle{Text: title}
		return nil
	}
}

func PlotLegend(show bool) PlotOpt {
	return func(p *Plot) error {
		if show {
			p.Lay.Showlegend = grob.True
		} else {
			p.Lay.Showlegend = grob.False
		}

		return nil
	}
}

func PlotLegendTitle(title string) PlotOpt {
	return func(p *Plot) error {
		p.Lay.Legend = &grob.LayoutLegend{Title: &grob.LayoutLegendTitle{Text: title}}
		return nil
	}
}

func PlotXlabel(label string) PlotOpt {
	return func(p *Plot) error {
		if p.Lay.Xaxis == nil {
			p.Lay.Xaxis = &grob.LayoutXaxis{}
		}

		p.Lay.Xaxis.Title = &grob.LayoutXaxisTitle{Text: label}
		return nil
	}
}

func PlotYlabel(label string) PlotOpt {
	return func(p *Plot) error {
		if p.Lay.Yaxis == nil {
			p.Lay.Yaxis = &grob.LayoutYaxis{}
		}

		p.Lay.Yaxis.Title = &grob.LayoutYaxisTitle{Text: label}
		return nil
	}
}

// *********** Traces ***********

// PlotLines adds a lines+markers series over categorical x.
func (p *Plot) PlotLines(x []string, y []float64, seriesName string) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y lengths differ: %d, %d", len(x), len(y))
	}

	tr := &grob.Scatter{Type: grob.TraceTypeScatter, Name: seriesName, X: x, Y: y,
		Mode: grob.ScatterModeLines + "+" + grob.ScatterModeMarkers}
	p.Fig.AddTraces(tr)

	return nil
}

// PlotScatter adds a markers series. panel selects the facet axes (x2/y2, ...) when > 1.
func (p *Plot) PlotScatter(x, y []float64, seriesName string, panel int) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y lengths differ: %d, %d", len(x), len(y))
	}

	tr := &grob.Scatter{Type: grob.TraceTypeScatter, Name: seriesName, X: x, Y: y,
		Mode: grob.ScatterModeMarkers}

	if panel > 1 {
		tr.Xaxis = fmt.Sprintf("x%d", panel)
		tr.Yaxis = fmt.Sprintf("y%d", panel)
	}

	p.Fig.AddTraces(tr)

	return nil
}

// PlotBarH adds horizontal bars of length x at categories y, coloured on colorScale by x.
func (p *Plot) PlotBarH(x []float64, y []string, seriesName, colorScale string) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y lengths differ: %d, %d", len(x), len(y))
	}

	tr := &grob.Bar{Type: grob.TraceTypeBar, Name: seriesName, X: x, Y: y,
		Orientation: grob.BarOrientationH,
		Marker: &grob.BarMarker{Color: x, Colorscale: colorScale, Showscale: grob.True}}
	p.Fig.AddTraces(tr)

	return nil
}

// PlotBox adds a box plot of y grouped by the categories in x.
func (p *Plot) PlotBox(x []string, y []float64, seriesName string) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y lengths differ: %d, %d", len(x), len(y))
	}

	tr := &grob.Box{Type: grob.TraceTypeBox, Name: seriesName, X: x, Y: y}
	p.Fig.AddTraces(tr)

	return nil
}

// PlotArea adds a line filled down to y=0.
func (p *Plot) PlotArea(x, y []float64, seriesName string) error {
	if len(x) != len(y) {
		return fmt.Errorf("x and y lengths differ: %d, %d", len(x), len(y))
	}

	tr := &grob.Scatter{Type: grob.TraceTypeScatter, Name: seriesName, X: x, Y: y,
		Mode: grob.ScatterModeLines, Fill: grob.ScatterFillTozeroy}
	p.Fig.AddTraces(tr)

	return nil
}

// *********** Layout ***********

// Facets lays out one panel per title, wrap panels per row, and labels each panel.
// Panel k (1-based, row-major) is addressed by PlotScatter(..., k).
func (p *Plot) Facets(titles []string, wrap int) error {
	if wrap < 1 {
		return fmt.Errorf("facet wrap must be positive, got %d", wrap)
	}

	n := len(titles)
	if n == 0 {
		return nil
	}

	cols := min(n, wrap)
	rows := (n + wrap - 1) / wrap
	p.Lay.Grid = &grob.LayoutGrid{Rows: int64(rows), Columns: int64(cols),
		Pattern: grob.LayoutGridPatternIndependent}

	for ind, title := range titles {
		r, c := ind/wrap, ind%wrap
		p.annotations = append(p.annotations, annotation{
			Text: title,
			X:    (float64(c) + 0.5) / float64(cols), Y: 1 - float64(r)/float64(rows),
			Xref: "paper", Yref: "paper", Xanchor: "center", Yanchor: "bottom",
		})
	}

	p.Lay.Annotations = p.annotations

	return nil
}

// Annotate places text in the middle of the plotting area.
func (p *Plot) Annotate(text string) {
	p.annotations = append(p.annotations, annotation{Text: text, X: 0.5, Y: 0.5,
		Xref: "paper", Yref: "paper", Xanchor: "center", Yanchor: "middle"})
	p.Lay.Annotations = p.annotations
}

// Traces returns the number of traces in the figure.
func (p *Plot) Traces() int {
	return len(p.Fig.Data)
}

func (p *Plot) Title() string {
	if p.Lay.Title == nil {
		return ""
	}

	if s, ok := p.Lay.Title.Text.(string); ok {
		return s
	}

	return ""
}

// JSON returns the figure in plotly.js format.
func (p *Plot) JSON() ([]byte, error) {
	return json.Marshal(p.Fig)
}

func (p *Plot) MarshalJSON() ([]byte, error) {
	return p.JSON()
}

// Save writes the figure to fileName as a standalone html page.
func (p *Plot) Save(fileName string) error {
	if fileName == "" {
		return fmt.Errorf("no file name in Plot.Save")
	}

	// ToHtml drops write errors, so clear the target first and check it was recreated
	if info, e := os.Stat(fileName); e == nil && info.IsDir() {
		return fmt.Errorf("plot not saved: %s is a directory", fileName)
	}

	if e := os.Remove(fileName); e != nil && !os.IsNotExist(e) {
		return fmt.Errorf("plot not saved: %w", e)
	}

	offline.ToHtml(p.Fig, fileName)

	if _, e := os.Stat(fileName); e != nil {
		return fmt.Errorf("plot not saved: %w", e)
	}

	return nil
}
