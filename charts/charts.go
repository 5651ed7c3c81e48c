// Package charts builds the six dashboard figures from a filtered aggregate table.
// Every builder accepts tables with zero, one or many rows.
package charts

import (
	"fmt"
	"math"

	d "github.com/invertedv/coviddash"
	"github.com/invertedv/coviddash/covid"
)

const (
	lineTop       = 5
	barTop        = 10
	facetWrap     = 3
	densityPoints = 200
	colorScale    = "Spectral"

	// InsufficientData labels the density placeholder.
	InsufficientData = "Insufficient Data"
)

// Builder makes one figure.
type Builder func(df *d.DF) (*d.Plot, error)

// Figures holds the six dashboard charts.
type Figures struct {
	Line    *d.Plot `json:"line-chart"`
	Scatter *d.Plot `json:"scatter-plot"`
	Bar     *d.Plot `json:"bar-chart"`
	Box     *d.Plot `json:"box-plot"`
	Faceted *d.Plot `json:"faceted-plot"`
	Density *d.Plot `json:"density-plot"`
}

// Build runs all six builders on df.
func Build(df *d.DF) (*Figures, error) {
	figs := &Figures{}
	for _, b := range []struct {
		name string
		fn   Builder
		dst  **d.Plot
	}{
		{"line", Line, &figs.Line},
		{"scatter", Scatter, &figs.Scatter},
		{"bar", Bar, &figs.Bar},
		{"box", Box, &figs.Box},
		{"faceted", Faceted, &figs.Faceted},
		{"density", Density, &figs.Density},
	} {
		var e error
		if *b.dst, e = b.fn(df); e != nil {
			return nil, fmt.Errorf("%s chart: %w", b.name, e)
		}
	}

	return figs, nil
}

// Names are the page element ids of the figures, in display order.
func Names() []string {
	return []string{"line-chart", "scatter-plot", "bar-chart", "box-plot", "faceted-plot", "density-plot"}
}

// Named returns the figures keyed by their page element id.
func (f *Figures) Named() map[string]*d.Plot {
	return map[string]*d.Plot{
		"line-chart":   f.Line,
		"scatter-plot": f.Scatter,
		"bar-chart":    f.Bar,
		"box-plot":     f.Box,
		"faceted-plot": f.Faceted,
		"density-plot": f.Density,
	}
}

// Line plots Deaths and Confirmed by country for the 5 rows with the most deaths, or every row
// when only one country is present.
func Line(df *d.DF) (*d.Plot, error) {
	var (
		top *d.DF
		e   error
	)
	if top, e = topRows(df, lineTop, covid.Deaths); e != nil {
		return nil, e
	}

	var p *d.Plot
	if p, e = d.NewPlot(d.PlotTitle("Top 5 Countries: Deaths and Confirmed Cases"),
		d.PlotXlabel(covid.Country), d.PlotYlabel("Count"), d.PlotLegendTitle("Metric")); e != nil {
		return nil, e
	}

	var countries []string
	if countries, e = top.Strings(covid.Country); e != nil {
		return nil, e
	}

	for _, metric := range []string{covid.Deaths, covid.Confirmed} {
		var y []float64
		if y, e = top.Floats(metric); e != nil {
			return nil, e
		}

		if e = p.PlotLines(countries, y, metric); e != nil {
			return nil, e
		}
	}

	return p, nil
}

// Scatter plots Confirmed against Deaths, one series per WHO region.
func Scatter(df *d.DF) (*d.Plot, error) {
	var (
		p *d.Plot
		e error
	)
	if p, e = d.NewPlot(d.PlotTitle("Confirmed vs Deaths with WHO Region Colors"),
		d.PlotXlabel("Confirmed Cases"), d.PlotYlabel("Deaths"), d.PlotLegendTitle(covid.Region)); e != nil {
		return nil, e
	}

	e = byRegion(df, func(_ int, region string, grp *d.DF) error {
		x, y, ex := xy(grp, covid.Confirmed, covid.Deaths)
		if ex != nil {
			return ex
		}

		return p.PlotScatter(x, y, region, 0)
	})
	if e != nil {
		return nil, e
	}

	return p, nil
}

// Bar plots RecoveryRate by country for the 10 rows with the highest rate, or every row when only
// one country is present.
func Bar(df *d.DF) (*d.Plot, error) {
	var (
		top *d.DF
		e   error
	)
	if top, e = topRows(df, barTop, covid.RecoveryRate); e != nil {
		return nil, e
	}

	var p *d.Plot
	if p, e = d.NewPlot(d.PlotTitle("Top 10 Countries by Recovery Rate"),
		d.PlotXlabel("Recovery Rate (%)"), d.PlotYlabel("Country")); e != nil {
		return nil, e
	}

	var (
		rr        []float64
		countries []string
	)
	if rr, e = top.Floats(covid.RecoveryRate); e != nil {
		return nil, e
	}

	if countries, e = top.Strings(covid.Country); e != nil {
		return nil, e
	}

	if e = p.PlotBarH(rr, countries, covid.RecoveryRate, colorScale); e != nil {
		return nil, e
	}

	return p, nil
}

// Box plots the distribution of Deaths within each WHO region.
func Box(df *d.DF) (*d.Plot, error) {
	var (
		p *d.Plot
		e error
	)
	if p, e = d.NewPlot(d.PlotTitle("Deaths Distribution by WHO Region"),
		d.PlotXlabel(covid.Region), d.PlotYlabel("Deaths")); e != nil {
		return nil, e
	}

	var (
		regions []string
		deaths  []float64
	)
	if regions, e = df.Strings(covid.Region); e != nil {
		return nil, e
	}

	if deaths, e = df.Floats(covid.Deaths); e != nil {
		return nil, e
	}

	if e = p.PlotBox(regions, deaths, covid.Deaths); e != nil {
		return nil, e
	}

	return p, nil
}

// Faceted plots New cases against New deaths with one panel per WHO region, three panels per row.
func Faceted(df *d.DF) (*d.Plot, error) {
	var (
		p *d.Plot
		e error
	)
	if p, e = d.NewPlot(d.PlotTitle("New Cases vs New Deaths by WHO Region"), d.PlotLegend(false)); e != nil {
		return nil, e
	}

	var uniq *d.Vector
	if uniq, e = df.Unique(covid.Region); e != nil {
		return nil, e
	}

	var regions []string
	if regions, e = uniq.AsString(); e != nil {
		return nil, e
	}

	titles := make([]string, len(regions))
	for ind, r := range regions {
		titles[ind] = fmt.Sprintf("%s=%s", covid.Region, r)
	}

	if e = p.Facets(titles, facetWrap); e != nil {
		return nil, e
	}

	e = byRegion(df, func(ind int, region string, grp *d.DF) error {
		x, y, ex := xy(grp, covid.NewCases, covid.NewDeaths)
		if ex != nil {
			return ex
		}

		return p.PlotScatter(x, y, region, ind+1)
	})
	if e != nil {
		return nil, e
	}

	return p, nil
}

// Density plots a kernel density estimate of CFR. With fewer than two distinct CFR values it
// returns a placeholder labelled InsufficientData.
func Density(df *d.DF) (*d.Plot, error) {
	var (
		cfr []float64
		e   error
	)
	if cfr, e = df.Floats(covid.CFR); e != nil {
		return nil, e
	}

	vals := make([]float64, 0, len(cfr))
	distinct := make(map[float64]bool)
	for _, c := range cfr {
		if math.IsNaN(c) {
			continue
		}

		vals = append(vals, c)
		distinct[c] = true
	}

	if len(distinct) < 2 {
		var p *d.Plot
		if p, e = d.NewPlot(d.PlotTitle("Distribution of Case Fatality Rates (" + InsufficientData + ")")); e != nil {
			return nil, e
		}

		p.Annotate(InsufficientData)

		return p, nil
	}

	var kde *KDE
	if kde, e = NewKDE(vals); e != nil {
		return nil, e
	}

	var p *d.Plot
	if p, e = d.NewPlot(d.PlotTitle("Distribution of Case Fatality Rates (Density Plot)"),
		d.PlotXlabel("Case Fatality Rate (%)"), d.PlotYlabel("Density")); e != nil {
		return nil, e
	}

	x, y := kde.Curve(densityPoints)
	if e = p.PlotArea(x, y, "Density"); e != nil {
		return nil, e
	}

	return p, nil
}

// *********** Helpers ***********

// topRows returns df if it holds a single country, otherwise its n rows with the largest key.
func topRows(df *d.DF, n int, key string) (*d.DF, error) {
	var (
		uniq *d.Vector
		e    error
	)
	if uniq, e = df.Unique(covid.Country); e != nil {
		return nil, e
	}

	if uniq.Len() == 1 {
		return df, nil
	}

	return df.Top(n, key)
}

// byRegion calls fn for each WHO region in sorted order with the rows of that region.
func byRegion(df *d.DF, fn func(ind int, region string, grp *d.DF) error) error {
	var (
		uniq *d.Vector
		e    error
	)
	if uniq, e = df.Unique(covid.Region); e != nil {
		return e
	}

	var regions, all []string
	if regions, e = uniq.AsString(); e != nil {
		return e
	}

	if all, e = df.Strings(covid.Region); e != nil {
		return e
	}

	for ind, region := range regions {
		var grp *d.DF
		if grp, e = df.Where(func(row int) bool { return all[row] == region }); e != nil {
			return e
		}

		if e = fn(ind, region, grp); e != nil {
			return e
		}
	}

	return nil
}

func xy(df *d.DF, xName, yName string) (x, y []float64, err error) {
	if x, err = df.Floats(xName); err != nil {
		return nil, nil, err
	}

	if y, err = df.Floats(yName); err != nil {
		return nil, nil, err
	}

	return x, y, nil
}
