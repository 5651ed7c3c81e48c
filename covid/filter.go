package covid

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	d "github.com/invertedv/coviddash"
)

// Selection is the state of the dashboard controls.
type Selection struct {
	Country   string  `json:"country"`
	MinDeaths float64 `json:"min"`
	MaxDeaths float64 `json:"max"`
}

// All reports whether the selection covers every country.
func (s Selection) All() bool {
	return s.Country == "" || s.Country == AllCountries
}

func (s Selection) String() string {
	return fmt.Sprintf("country=%s deaths=[%g, %g]", s.Country, s.MinDeaths, s.MaxDeaths)
}

// Filter returns the rows of df with MinDeaths <= Deaths <= MaxDeaths, restricted to the selected
// country unless the selection covers all countries. df is not modified.
func Filter(df *d.DF, sel Selection) (*d.DF, error) {
	var (
		deaths    []float64
		countries []string
		e         error
	)
	if deaths, e = df.Floats(Deaths); e != nil {
		return nil, e
	}

	if countries, e = df.Strings(Country); e != nil {
		return nil, e
	}

	return df.Where(func(row int) bool {
		if deaths[row] < sel.MinDeaths || deaths[row] > sel.MaxDeaths {
			return false
		}

		return sel.All() || countries[row] == sel.Country
	})
}

// ParseSelection reads the country, min and max parameters. Missing parameters take their value
// from defaults; bounds given in the wrong order are swapped. Bounds must be finite.
func ParseSelection(values url.Values, defaults Selection) (Selection, error) {
	sel := defaults

	if c := strings.TrimSpace(values.Get("country")); c != "" {
		sel.Country = c
	}

	for _, b := range []struct {
		key string
		dst *float64
	}{{"min", &sel.MinDeaths}, {"max", &sel.MaxDeaths}} {
		v := strings.TrimSpace(values.Get(b.key))
		if v == "" {
			continue
		}

		x, e := strconv.ParseFloat(v, 64)
		if e != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return Selection{}, fmt.Errorf("bad %s value %q", b.key, v)
		}

		*b.dst = x
	}

	if sel.MinDeaths > sel.MaxDeaths {
		sel.MinDeaths, sel.MaxDeaths = sel.MaxDeaths, sel.MinDeaths
	}

	return sel, nil
}
