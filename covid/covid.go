// Package covid loads, cleans, aggregates and filters the country-wise COVID-19 table.
package covid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	d "github.com/invertedv/coviddash"
)

const (
	SourceURL = "https://media.geeksforgeeks.org/wp-content/uploads/20240517142248/country_wise_latest.csv"
	OutputCSV = "cleaned_covid19_data.csv"
	OutputDB  = "cleaned_covid19_data.db"
	// OutputTable is the snapshot table name.
	OutputTable = "cleaned_covid19_data"
)

// column names
const (
	Country      = "Country/Region"
	Region       = "WHO Region"
	Confirmed    = "Confirmed"
	Deaths       = "Deaths"
	Recovered    = "Recovered"
	Active       = "Active"
	NewCases     = "New cases"
	NewDeaths    = "New deaths"
	NewRecovered = "New recovered"
	CFR          = "CFR"
	RecoveryRate = "RecoveryRate"
)

const (
	// AllCountries is the selection value meaning no country restriction.
	AllCountries = "all"
	AllLabel     = "All"
)

// ErrSchema is returned when the source lacks a required column.
var ErrSchema = errors.New("source schema mismatch")

// RawFields are the source columns used, in order.
func RawFields() ([]string, []d.DataTypes) {
	return []string{Country, Region, Confirmed, Deaths, Recovered, Active, NewCases, NewDeaths, NewRecovered},
		[]d.DataTypes{d.DTstring, d.DTstring, d.DTfloat, d.DTfloat, d.DTfloat, d.DTfloat, d.DTfloat, d.DTfloat, d.DTfloat}
}

// sums are the columns added up by Aggregate.
func sums() []string {
	return []string{Confirmed, Deaths, Recovered, Active, NewCases, NewDeaths, NewRecovered}
}

// means are the columns averaged by Aggregate.
func means() []string {
	return []string{CFR, RecoveryRate}
}

// Read loads the raw table from r. Missing cells are read as 0.
func Read(r io.Reader) (*d.DF, error) {
	f := d.NewFiles()
	f.FieldNames, f.FieldTypes = RawFields()

	var (
		df *d.DF
		e  error
	)
	if df, e = f.Read(r); e != nil {
		if errors.Is(e, d.ErrNoHeader) || errors.Is(e, d.ErrNotInHeader) {
			return nil, fmt.Errorf("%w: %w", ErrSchema, e)
		}

		return nil, fmt.Errorf("read source: %w", e)
	}

	return df, nil
}

// Fetch downloads the raw table from url. A nil client uses http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) (*d.DF, error) {
	if client == nil {
		client = http.DefaultClient
	}

	var (
		req *http.Request
		e   error
	)
	if req, e = http.NewRequestWithContext(ctx, http.MethodGet, url, nil); e != nil {
		return nil, e
	}

	var resp *http.Response
	if resp, e = client.Do(req); e != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, e)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}

	return Read(resp.Body)
}
