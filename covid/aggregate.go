package covid

import (
	"fmt"

	d "github.com/invertedv/coviddash"
)

// AggregateFields are the columns of the aggregated table, in artifact order.
func AggregateFields() []string {
	return append(append([]string{Country, Region}, sums()...), means()...)
}

// Aggregate groups the cleaned table on (Country/Region, WHO Region). Counts are summed,
// CFR and RecoveryRate are averaged over the contributing rows.
func Aggregate(cleaned *d.DF) (*d.DF, error) {
	var aggs []d.Agg
	for _, s := range sums() {
		aggs = append(aggs, d.Sum(s))
	}

	for _, m := range means() {
		aggs = append(aggs, d.Mean(m))
	}

	var (
		df *d.DF
		e  error
	)
	if df, e = cleaned.By([]string{Country, Region}, aggs...); e != nil {
		return nil, fmt.Errorf("aggregate: %w", e)
	}

	return df, nil
}

// SaveCSV writes the aggregated table to fileName, replacing any existing file.
func SaveCSV(df *d.DF, fileName string) error {
	var (
		out *d.DF
		e   error
	)
	if out, e = df.KeepColumns(AggregateFields()...); e != nil {
		return e
	}

	if e = d.NewFiles().Save(fileName, out); e != nil {
		return fmt.Errorf("save %s: %w", fileName, e)
	}

	return nil
}

// SaveSnapshot writes the aggregated table to OutputTable through dialect, replacing the table.
func SaveSnapshot(dialect *d.Dialect, df *d.DF) error {
	var (
		out *d.DF
		e   error
	)
	if out, e = df.KeepColumns(AggregateFields()...); e != nil {
		return e
	}

	if e = dialect.Save(OutputTable, out, true); e != nil {
		return fmt.Errorf("snapshot to %s: %w", dialect.DialectName(), e)
	}

	return nil
}
