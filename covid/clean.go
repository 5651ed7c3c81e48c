package covid

import (
	"fmt"

	d "github.com/invertedv/coviddash"
)

// Rate returns num/den*100, or 0 when den is 0.
func Rate(num, den float64) float64 {
	if den == 0 {
		return 0
	}

	return num / den * 100
}

// Clean returns a copy of raw with the CFR and RecoveryRate columns appended.
// Missing values were already filled with 0 by Read.
func Clean(raw *d.DF) (*d.DF, error) {
	if !raw.HasColumns(Confirmed, Deaths, Recovered) {
		return nil, fmt.Errorf("%w: need %s, %s, %s", ErrSchema, Confirmed, Deaths, Recovered)
	}

	df := raw.Copy()

	var (
		confirmed, deaths, recovered []float64
		e                            error
	)
	if confirmed, e = df.Floats(Confirmed); e != nil {
		return nil, e
	}

	if deaths, e = df.Floats(Deaths); e != nil {
		return nil, e
	}

	if recovered, e = df.Floats(Recovered); e != nil {
		return nil, e
	}

	cfr := make([]float64, df.RowCount())
	rr := make([]float64, df.RowCount())
	for ind := range cfr {
		cfr[ind] = Rate(deaths[ind], confirmed[ind])
		rr[ind] = Rate(recovered[ind], confirmed[ind])
	}

	for _, c := range []struct {
		name string
		data []float64
	}{{CFR, cfr}, {RecoveryRate, rr}} {
		var col *d.Col
		if col, e = d.NewCol(c.data, d.DTfloat, d.ColName(c.name)); e != nil {
			return nil, e
		}

		if e = df.AppendColumn(col, true); e != nil {
			return nil, e
		}
	}

	return df, nil
}
