package covid

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	d "github.com/invertedv/coviddash"
	"github.com/stretchr/testify/assert"
)

var (
	//go:embed testdata/sample.csv
	sampleCSV []byte
)

// rawCSV has a repeated (country, region) pair and a country with no confirmed cases.
const rawCSV = `Country/Region,WHO Region,Confirmed,Deaths,Recovered,Active,New cases,New deaths,New recovered
A,R1,10,1,5,4,2,1,1
A,R1,0,0,0,0,0,0,0
B,R2,20,4,10,6,3,0,2
C,R1,,,,,,,
`

func sampleDF(t *testing.T) *d.DF {
	df, e := Read(bytes.NewReader(sampleCSV))
	assert.Nil(t, e)

	return df
}

func rawDF(t *testing.T) *d.DF {
	df, e := Read(strings.NewReader(rawCSV))
	assert.Nil(t, e)

	return df
}

func TestRead(t *testing.T) {
	df := sampleDF(t)
	names, _ := RawFields()
	assert.Equal(t, names, df.ColumnNames())
	assert.Equal(t, 12, df.RowCount())

	// empty cell read as 0
	nr, _ := df.Floats(NewRecovered)
	assert.Equal(t, 0.0, nr[11])

	c, _ := df.Strings(Country)
	assert.Equal(t, "USA", c[10])

	df = rawDF(t)
	deaths, _ := df.Floats(Deaths)
	assert.Equal(t, []float64{1, 0, 4, 0}, deaths)
}

func TestRead_Schema(t *testing.T) {
	noRegion := strings.Replace(rawCSV, "WHO Region", "Region", 1)
	_, e := Read(strings.NewReader(noRegion))
	assert.ErrorIs(t, e, ErrSchema)

	_, e = Read(strings.NewReader(""))
	assert.ErrorIs(t, e, ErrSchema)

	// bad cells and broken streams are not schema problems
	bad := strings.Replace(rawCSV, "A,R1,10,", "A,R1,ten,", 1)
	_, e = Read(strings.NewReader(bad))
	assert.NotNil(t, e)
	assert.NotErrorIs(t, e, ErrSchema)

	header, _, _ := strings.Cut(rawCSV, "\n")
	cut := errors.New("connection reset")
	_, e = Read(io.MultiReader(strings.NewReader(header+"\n"), iotest.ErrReader(cut)))
	assert.ErrorIs(t, e, cut)
	assert.NotErrorIs(t, e, ErrSchema)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.csv":
			_, _ = w.Write(sampleCSV)
		case "/bad.csv":
			_, _ = w.Write([]byte("a,b\n1,2\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	df, e := Fetch(context.Background(), srv.Client(), srv.URL+"/ok.csv")
	assert.Nil(t, e)
	assert.Equal(t, 12, df.RowCount())

	_, e = Fetch(context.Background(), nil, srv.URL+"/missing.csv")
	assert.NotNil(t, e)
	assert.Contains(t, e.Error(), "404")

	_, e = Fetch(context.Background(), srv.Client(), srv.URL+"/bad.csv")
	assert.ErrorIs(t, e, ErrSchema)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, e = Fetch(ctx, srv.Client(), srv.URL+"/ok.csv")
	assert.ErrorIs(t, e, context.Canceled)

	_, e = Fetch(context.Background(), srv.Client(), "http://[::1]:namedport")
	assert.NotNil(t, e)
}
