package coviddash

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// All code interacting with delimited files is here

const (
	Sep         = ','
	FloatFormat = ""
	Missing     = "0"
	Header      = true
)

var (
	// ErrNoHeader is returned by Read when the input is empty.
	ErrNoHeader = errors.New("no header row")
	// ErrNotInHeader is returned by Read when a requested field is absent from the header.
	ErrNotInHeader = errors.New("not in header")
)

// Files reads and writes delimited text.
//
// FieldNames and FieldTypes select the columns to read; header columns not listed are skipped.
// Empty cells are replaced by Missing before conversion.
// FloatFormat is a fmt verb for writing floats; "" writes the shortest exact representation.
type Files struct {
	FieldNames []string
	FieldTypes []DataTypes

	Sep         rune
	FloatFormat string
	Missing     string
	Header      bool

	file     *os.File
	fileName string
}

func NewFiles() *Files {
	f := &Files{
		Sep:         Sep,
		FloatFormat: FloatFormat,
		Missing:     Missing,
		Header:      Header,
	}

	return f
}

func (f *Files) Open(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Open(fileName)

	return e
}

func (f *Files) Create(fileName string) error {
	var e error
	f.fileName = fileName
	f.file, e = os.Create(fileName)

	return e
}

func (f *Files) FileName() string {
	return f.fileName
}

func (f *Files) Close() error {
	if f.file != nil {
		e := f.file.Close()
		f.file = nil
		return e
	}

	return fmt.Errorf("no open files")
}

// Load reads fileName into a DF.
func (f *Files) Load(fileName string) (*DF, error) {
	if e := f.Open(fileName); e != nil {
		return nil, e
	}
	defer func() { _ = f.Close() }()

	return f.Read(f.file)
}

// Save writes df to fileName, replacing any existing file.
func (f *Files) Save(fileName string, df *DF) error {
	if e := f.Create(fileName); e != nil {
		return e
	}

	if e := f.Write(f.file, df); e != nil {
		_ = f.Close()
		return e
	}

	return f.Close()
}

// Read parses r into a DF with the columns FieldNames, in that order. r must have a header row.
// A field missing from the header is an error.
func (f *Files) Read(r io.Reader) (*DF, error) {
	if len(f.FieldNames) == 0 || len(f.FieldNames) != len(f.FieldTypes) {
		return nil, fmt.Errorf("field names or types not set in *Files")
	}

	rdr := csv.NewReader(r)
	rdr.Comma = f.Sep
	rdr.FieldsPerRecord = -1

	var (
		header []string
		e      error
	)
	if header, e = rdr.Read(); e != nil {
		if errors.Is(e, io.EOF) {
			return nil, ErrNoHeader
		}

		return nil, e
	}

	for ind := range header {
		header[ind] = strings.TrimSpace(strings.TrimPrefix(header[ind], "\ufeff"))
	}

	positions := make([]int, len(f.FieldNames))
	for ind, fn := range f.FieldNames {
		if positions[ind] = position(fn, header); positions[ind] < 0 {
			return nil, fmt.Errorf("field %s: %w", fn, ErrNotInHeader)
		}
	}

	data := make([]*Vector, len(f.FieldNames))
	for ind, dt := range f.FieldTypes {
		data[ind] = MakeVector(dt, 0)
	}

	for line := 2; ; line++ {
		var rec []string
		if rec, e = rdr.Read(); e != nil {
			if errors.Is(e, io.EOF) {
				break
			}

			return nil, e
		}

		for ind, pos := range positions {
			val := ""
			if pos < len(rec) {
				val = strings.TrimSpace(rec[pos])
			}

			if val == "" {
				val = f.Missing
			}

			if e = data[ind].appendString(val); e != nil {
				return nil, fmt.Errorf("line %d, field %s: %w", line, f.FieldNames[ind], e)
			}
		}
	}

	var cols []*Col
	for ind, fn := range f.FieldNames {
		var col *Col
		if col, e = NewCol(data[ind], f.FieldTypes[ind], ColName(fn)); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

// Write writes df to w, header first if f.Header.
func (f *Files) Write(w io.Writer, df *DF) error {
	wtr := csv.NewWriter(w)
	wtr.Comma = f.Sep

	if f.Header {
		if e := wtr.Write(df.ColumnNames()); e != nil {
			return e
		}
	}

	cols := df.columns()
	line := make([]string, len(cols))
	for row := 0; row < df.RowCount(); row++ {
		for ind, col := range cols {
			line[ind] = f.format(col.Element(row))
		}

		if e := wtr.Write(line); e != nil {
			return e
		}
	}

	wtr.Flush()

	return wtr.Error()
}

func (f *Files) format(x any) string {
	switch v := x.(type) {
	case float64:
		if f.FloatFormat == "" {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}

		return fmt.Sprintf(f.FloatFormat, v)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return "#err#"
	}
}

// appendString converts val to the vector's type and appends it.
func (v *Vector) appendString(val string) error {
	switch v.dt {
	case DTfloat:
		x, e := strconv.ParseFloat(val, 64)
		if e != nil {
			return fmt.Errorf("cannot convert %q to float", val)
		}

		v.data = append(v.data.([]float64), x)
	case DTint:
		x, e := strconv.Atoi(val)
		if e != nil {
			return fmt.Errorf("cannot convert %q to int", val)
		}

		v.data = append(v.data.([]int), x)
	case DTstring:
		v.data = append(v.data.([]string), val)
	default:
		return fmt.Errorf("unsupported type %s", v.dt)
	}

	return nil
}
