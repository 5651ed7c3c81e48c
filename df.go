package coviddash

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DF is an ordered list of equal-length columns.
type DF struct {
	head    *columnList
	current *columnList
}

type columnList struct {
	col *Col

	prior *columnList
	next  *columnList
}

// DataTypes are the types of data that the package supports
type DataTypes uint8

// values of DataTypes
const (
	DTunknown DataTypes = 0 + iota
	DTfloat
	DTint
	DTstring
)

func (dt DataTypes) String() string {
	switch dt {
	case DTfloat:
		return "DTfloat"
	case DTint:
		return "DTint"
	case DTstring:
		return "DTstring"
	default:
		return "DTunknown"
	}
}

// NewDF creates a DF from cols. All columns must have distinct names and the same length.
func NewDF(cols ...*Col) (*DF, error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewDF")
	}

	df := &DF{}
	for _, col := range cols {
		if e := df.AppendColumn(col, false); e != nil {
			return nil, e
		}
	}

	return df, nil
}

// *********** Methods ***********

// Next iterates over the columns. Pass reset=true to start from the first column; nil marks the end.
func (df *DF) Next(reset bool) *Col {
	if df.head == nil {
		return nil
	}

	if reset || df.current == nil {
		df.current = df.head
		return df.current.col
	}

	if df.current.next == nil {
		df.current = nil
		return nil
	}

	df.current = df.current.next
	return df.current.col
}

func (df *DF) RowCount() int {
	if df.head == nil {
		return 0
	}

	return df.head.col.Len()
}

func (df *DF) ColumnCount() int {
	cols := 0
	for c := df.head; c != nil; c = c.next {
		cols++
	}

	return cols
}

func (df *DF) ColumnNames() []string {
	var names []string

	for h := df.head; h != nil; h = h.next {
		names = append(names, h.col.Name())
	}

	return names
}

// Column returns the column colName, nil if there is no such column.
func (df *DF) Column(colName string) *Col {
	if node := df.node(colName); node != nil {
		return node.col
	}

	return nil
}

func (df *DF) columns() []*Col {
	var cols []*Col
	for h := df.head; h != nil; h = h.next {
		cols = append(cols, h.col)
	}

	return cols
}

func (df *DF) HasColumns(colNames ...string) bool {
	names := df.ColumnNames()
	for _, cn := range colNames {
		if !has(cn, names) {
			return false
		}
	}

	return true
}

// Floats returns colName as []float64.
func (df *DF) Floats(colName string) ([]float64, error) {
	var col *Col
	if col = df.Column(colName); col == nil {
		return nil, fmt.Errorf("column %s not found", colName)
	}

	return col.AsFloat()
}

// Strings returns colName as []string.
func (df *DF) Strings(colName string) ([]string, error) {
	var col *Col
	if col = df.Column(colName); col == nil {
		return nil, fmt.Errorf("column %s not found", colName)
	}

	return col.AsString()
}

// AppendColumn adds col at the end of df. If replace is true, an existing column of the same name is dropped first.
func (df *DF) AppendColumn(col *Col, replace bool) error {
	if col == nil {
		return fmt.Errorf("nil column in AppendColumn")
	}

	if col.Name() == "" {
		return fmt.Errorf("unnamed column in AppendColumn")
	}

	if df.Column(col.Name()) != nil {
		if !replace {
			return fmt.Errorf("duplicate column name: %s", col.Name())
		}

		if df.ColumnCount() == 1 {
			df.head = &columnList{col: col}
			return nil
		}

		if e := df.DropColumns(col.Name()); e != nil {
			return e
		}
	}

	dfl := &columnList{col: col}

	if df.head == nil {
		df.head = dfl
		return nil
	}

	if col.Len() != df.RowCount() {
		return fmt.Errorf("length mismatch: df - %d, append col - %d", df.RowCount(), col.Len())
	}

	var tail *columnList
	for tail = df.head; tail.next != nil; tail = tail.next {
	}

	dfl.prior = tail
	tail.next = dfl

	return nil
}

func (df *DF) node(colName string) *columnList {
	for h := df.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h
		}
	}

	return nil
}

func (df *DF) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		var node *columnList

		if node = df.node(cName); node == nil {
			return fmt.Errorf("column %s not found", cName)
		}

		if node == df.head {
			if df.head.next == nil {
				return fmt.Errorf("no columns left")
			}

			df.head = df.head.next
			df.head.prior = nil
			continue
		}

		node.prior.next = node.next
		if node.next != nil {
			node.next.prior = node.prior
		}
	}

	df.current = nil

	return nil
}

// KeepColumns returns a new DF with colNames in the order given. The columns are shared, not copied.
func (df *DF) KeepColumns(colNames ...string) (*DF, error) {
	var cols []*Col
	for _, cn := range colNames {
		var col *Col
		if col = df.Column(cn); col == nil {
			return nil, fmt.Errorf("column %s not found", cn)
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

// Copy returns a deep copy of df.
func (df *DF) Copy() *DF {
	outDF := &DF{}
	for h := df.head; h != nil; h = h.next {
		// can't fail: names are already unique and lengths equal
		_ = outDF.AppendColumn(h.col.Copy(), false)
	}

	return outDF
}

// Subset returns a new DF made up of rows, in that order.
func (df *DF) Subset(rows []int) (*DF, error) {
	if df.head == nil {
		return nil, fmt.Errorf("no columns in Subset")
	}

	outDF := &DF{}
	for h := df.head; h != nil; h = h.next {
		var (
			v *Vector
			e error
		)
		if v, e = h.col.Subset(rows); e != nil {
			return nil, e
		}

		if e := outDF.AppendColumn(&Col{Vector: v, name: h.col.Name()}, false); e != nil {
			return nil, e
		}
	}

	return outDF, nil
}

// Where returns a new DF holding the rows for which keep returns true.
// The result may have zero rows.
func (df *DF) Where(keep func(row int) bool) (*DF, error) {
	rows := make([]int, 0)
	for row := 0; row < df.RowCount(); row++ {
		if keep(row) {
			rows = append(rows, row)
		}
	}

	return df.Subset(rows)
}

// order returns the row order that sorts df on keys. The sort is stable.
func (df *DF) order(ascending bool, keys ...string) ([]int, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no sort keys")
	}

	var by []*Col
	for _, key := range keys {
		var col *Col
		if col = df.Column(key); col == nil {
			return nil, fmt.Errorf("column %s not found", key)
		}

		by = append(by, col)
	}

	rows := make([]int, df.RowCount())
	for ind := range rows {
		rows[ind] = ind
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := rows[i], rows[j]
		for _, col := range by {
			if col.Less(ri, rj) {
				return ascending
			}

			if col.Less(rj, ri) {
				return !ascending
			}
		}

		return false
	})

	return rows, nil
}

// Sort sorts df in place on keys.
func (df *DF) Sort(ascending bool, keys ...string) error {
	var (
		rows []int
		e    error
	)
	if rows, e = df.order(ascending, keys...); e != nil {
		return e
	}

	for h := df.head; h != nil; h = h.next {
		var v *Vector
		if v, e = h.col.Subset(rows); e != nil {
			return e
		}

		h.col.Vector = v
	}

	return nil
}

// Top returns a new DF with the n rows having the largest values of key, largest first.
// Ties keep their input order.
func (df *DF) Top(n int, key string) (*DF, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative n in Top")
	}

	var (
		rows []int
		e    error
	)
	if rows, e = df.order(false, key); e != nil {
		return nil, e
	}

	if n < len(rows) {
		rows = rows[:n]
	}

	return df.Subset(rows)
}

// Unique returns the sorted distinct values of colName.
func (df *DF) Unique(colName string) (*Vector, error) {
	var col *Col
	if col = df.Column(colName); col == nil {
		return nil, fmt.Errorf("column %s not found", colName)
	}

	return col.Unique(), nil
}

// *********** By ***********

// Reducer collapses the values of one group to a single value.
type Reducer func(x []float64) float64

// Agg describes one output column of By.
type Agg struct {
	Col    string
	Name   string
	Reduce Reducer
}

// Sum adds up col within each group.
func Sum(col string) Agg {
	return Agg{Col: col, Name: col, Reduce: func(x []float64) float64 { return floats.Sum(x) }}
}

// Mean averages col within each group.
func Mean(col string) Agg {
	return Agg{Col: col, Name: col, Reduce: func(x []float64) float64 { return stat.Mean(x, nil) }}
}

// By groups df on the groupBy columns and reduces each group with aggs.
// The output has one row per distinct key, sorted ascending on the groupBy columns, followed by
// one float column per Agg.
func (df *DF) By(groupBy []string, aggs ...Agg) (*DF, error) {
	if len(groupBy) == 0 {
		return nil, fmt.Errorf("no group by columns in By")
	}

	if !df.HasColumns(groupBy...) {
		return nil, fmt.Errorf("missing group by column in %v", groupBy)
	}

	var keyCols [][]string
	for _, gb := range groupBy {
		var (
			x []string
			e error
		)
		if x, e = df.Strings(gb); e != nil {
			return nil, e
		}

		keyCols = append(keyCols, x)
	}

	// first row of each group and the rows in it
	var (
		firsts []int
		keys   []string
	)
	members := make(map[string][]int)
	for row := 0; row < df.RowCount(); row++ {
		var parts []string
		for _, kc := range keyCols {
			parts = append(parts, kc[row])
		}

		key := strings.Join(parts, "\x00")
		if _, ok := members[key]; !ok {
			firsts = append(firsts, row)
			keys = append(keys, key)
		}

		members[key] = append(members[key], row)
	}

	var (
		outDF *DF
		e     error
	)
	if outDF, e = df.KeepColumns(groupBy...); e != nil {
		return nil, e
	}

	if outDF, e = outDF.Subset(firsts); e != nil {
		return nil, e
	}

	for _, agg := range aggs {
		var x []float64
		if x, e = df.Floats(agg.Col); e != nil {
			return nil, e
		}

		vals := make([]float64, len(keys))
		for ind, key := range keys {
			grp := make([]float64, 0, len(members[key]))
			for _, row := range members[key] {
				grp = append(grp, x[row])
			}

			vals[ind] = agg.Reduce(grp)
		}

		name := agg.Name
		if name == "" {
			name = agg.Col
		}

		var col *Col
		if col, e = NewCol(vals, DTfloat, ColName(name)); e != nil {
			return nil, e
		}

		if e = outDF.AppendColumn(col, false); e != nil {
			return nil, e
		}
	}

	if outDF.RowCount() > 0 {
		if e = outDF.Sort(true, groupBy...); e != nil {
			return nil, e
		}
	}

	return outDF, nil
}

func (df *DF) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(df.ColumnNames(), " | "))
	sb.WriteString("\n")
	for row := 0; row < df.RowCount(); row++ {
		var vals []string
		for h := df.head; h != nil; h = h.next {
			s, _ := h.col.ElementString(row)
			vals = append(vals, s)
		}

		sb.WriteString(strings.Join(vals, " | "))
		sb.WriteString("\n")
	}

	return sb.String()
}
