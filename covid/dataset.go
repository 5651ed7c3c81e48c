package covid

import (
	"fmt"
	"math"

	d "github.com/invertedv/coviddash"
	"gonum.org/v1/gonum/floats"
)

const sliderStep = 1000

// Dataset is the aggregated table built once at startup. It is read-only after NewDataset returns,
// so it may be shared between requests.
type Dataset struct {
	agg       *d.DF
	countries []string
	maxDeaths float64
}

// NewDataset cleans and aggregates the raw table.
func NewDataset(raw *d.DF) (*Dataset, error) {
	var (
		cleaned, agg *d.DF
		e            error
	)
	if cleaned, e = Clean(raw); e != nil {
		return nil, e
	}

	if agg, e = Aggregate(cleaned); e != nil {
		return nil, e
	}

	var uniq *d.Vector
	if uniq, e = agg.Unique(Country); e != nil {
		return nil, e
	}

	var countries []string
	if countries, e = uniq.AsString(); e != nil {
		return nil, e
	}

	var deaths []float64
	if deaths, e = agg.Floats(Deaths); e != nil {
		return nil, e
	}

	maxDeaths := 0.0
	if len(deaths) > 0 {
		maxDeaths = math.Max(0, floats.Max(deaths))
	}

	return &Dataset{agg: agg, countries: countries, maxDeaths: maxDeaths}, nil
}

// Aggregated returns a copy of the aggregated table.
func (ds *Dataset) Aggregated() *d.DF {
	return ds.agg.Copy()
}

// Rows is the number of aggregated rows.
func (ds *Dataset) Rows() int {
	return ds.agg.RowCount()
}

// Countries returns the distinct countries, sorted.
func (ds *Dataset) Countries() []string {
	return append([]string(nil), ds.countries...)
}

func (ds *Dataset) MaxDeaths() float64 {
	return ds.maxDeaths
}

// DefaultSelection is all countries over the full death range.
func (ds *Dataset) DefaultSelection() Selection {
	return Selection{Country: AllCountries, MinDeaths: 0, MaxDeaths: ds.maxDeaths}
}

// Filter narrows the aggregated table. The result never shares storage with the Dataset.
func (ds *Dataset) Filter(sel Selection) (*d.DF, error) {
	return Filter(ds.agg, sel)
}

// *********** Controls ***********

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Slider describes the death-range slider.
type Slider struct {
	Min   int            `json:"min"`
	Max   int            `json:"max"`
	Step  int            `json:"step"`
	Value [2]int         `json:"value"`
	Marks map[int]string `json:"marks"`
}

// Controls are the dashboard inputs.
type Controls struct {
	Countries []Option `json:"countries"`
	Country   string   `json:"country"`
	Slider    Slider   `json:"slider"`
}

// Controls returns the dropdown options ("All" first, then every country) and the slider.
func (ds *Dataset) Controls() Controls {
	opts := []Option{{Label: AllLabel, Value: AllCountries}}
	for _, c := range ds.countries {
		opts = append(opts, Option{Label: c, Value: c})
	}

	maxD := int(ds.maxDeaths)
	marks := make(map[int]string)
	for _, m := range []struct {
		at    int
		label string
	}{{0, "0"}, {10000, "10K"}, {50000, "50K"}, {100000, "100K+"}} {
		if m.at <= maxD {
			marks[m.at] = m.label
		}
	}

	marks[maxD] = fmt.Sprintf("%d+", maxD)

	return Controls{
		Countries: opts,
		Country:   AllCountries,
		Slider: Slider{
			Min:   0,
			Max:   maxD,
			Step:  sliderStep,
			Value: [2]int{0, maxD},
			Marks: marks,
		},
	}
}
