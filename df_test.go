package coviddash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDF(t *testing.T) *DF {
	x, e := NewCol([]float64{3, 1, 2, 1, 5}, DTfloat, ColName("x"))
	assert.Nil(t, e)
	k, e := NewCol([]string{"b", "a", "b", "c", "a"}, DTstring, ColName("k"))
	assert.Nil(t, e)
	n, e := NewCol([]int{10, 20, 30, 40, 50}, DTint, ColName("n"))
	assert.Nil(t, e)

	df, e := NewDF(x, k, n)
	assert.Nil(t, e)

	return df
}

func TestNewDF(t *testing.T) {
	df := testDF(t)
	assert.Equal(t, 5, df.RowCount())
	assert.Equal(t, 3, df.ColumnCount())
	assert.Equal(t, []string{"x", "k", "n"}, df.ColumnNames())
	assert.True(t, df.HasColumns("k", "x"))
	assert.False(t, df.HasColumns("k", "z"))
	assert.Nil(t, df.Column("z"))

	_, e := NewDF()
	assert.NotNil(t, e)

	short, _ := NewCol([]float64{1}, DTfloat, ColName("s"))
	assert.NotNil(t, df.AppendColumn(short, false))

	dup, _ := NewCol([]float64{1, 2, 3, 4, 5}, DTfloat, ColName("x"))
	assert.NotNil(t, df.AppendColumn(dup, false))
	assert.Nil(t, df.AppendColumn(dup, true))
	assert.Equal(t, []string{"k", "n", "x"}, df.ColumnNames())

	_, e = NewCol([]float64{1}, DTfloat, ColName("bad,name"))
	assert.NotNil(t, e)
}

func TestDF_Floats(t *testing.T) {
	df := testDF(t)

	x, e := df.Floats("n")
	assert.Nil(t, e)
	assert.Equal(t, []float64{10, 20, 30, 40, 50}, x)

	s, e := df.Strings("x")
	assert.Nil(t, e)
	assert.Equal(t, []string{"3", "1", "2", "1", "5"}, s)

	_, e = df.Floats("k")
	assert.NotNil(t, e)

	_, e = df.Floats("nope")
	assert.NotNil(t, e)
}

func TestDF_Columns(t *testing.T) {
	df := testDF(t)

	keep, e := df.KeepColumns("n", "x")
	assert.Nil(t, e)
	assert.Equal(t, []string{"n", "x"}, keep.ColumnNames())

	_, e = df.KeepColumns("nope")
	assert.NotNil(t, e)

	cp := df.Copy()
	assert.Nil(t, cp.DropColumns("k"))
	assert.Equal(t, []string{"x", "n"}, cp.ColumnNames())
	assert.Equal(t, 3, df.ColumnCount())

	names := make([]string, 0)
	for col := df.Next(true); col != nil; col = df.Next(false) {
		names = append(names, col.Name())
	}
	assert.Equal(t, df.ColumnNames(), names)
}

func TestDF_Copy(t *testing.T) {
	df := testDF(t)
	cp := df.Copy()

	x, _ := cp.Floats("x")
	x[0] = 100

	orig, _ := df.Floats("x")
	assert.Equal(t, 3.0, orig[0])
}

func TestDF_Subset(t *testing.T) {
	df := testDF(t)

	sub, e := df.Subset([]int{4, 0, 0})
	assert.Nil(t, e)
	x, _ := sub.Floats("x")
	assert.Equal(t, []float64{5, 3, 3}, x)

	_, e = df.Subset([]int{5})
	assert.NotNil(t, e)

	empty, e := df.Subset(nil)
	assert.Nil(t, e)
	assert.Equal(t, 0, empty.RowCount())
	assert.Equal(t, 3, empty.ColumnCount())
}

func TestDF_Where(t *testing.T) {
	df := testDF(t)
	k, _ := df.Strings("k")

	b, e := df.Where(func(row int) bool { return k[row] == "b" })
	assert.Nil(t, e)
	n, _ := b.Floats("n")
	assert.Equal(t, []float64{10, 30}, n)

	none, e := df.Where(func(row int) bool { return false })
	assert.Nil(t, e)
	assert.Equal(t, 0, none.RowCount())
}

func TestDF_Sort(t *testing.T) {
	df := testDF(t)
	assert.Nil(t, df.Sort(true, "x"))

	x, _ := df.Floats("x")
	assert.Equal(t, []float64{1, 1, 2, 3, 5}, x)

	// stable: the two 1s keep their input order
	k, _ := df.Strings("k")
	assert.Equal(t, []string{"a", "c", "b", "b", "a"}, k)

	assert.Nil(t, df.Sort(false, "k", "x"))
	k, _ = df.Strings("k")
	x, _ = df.Floats("x")
	assert.Equal(t, []string{"c", "b", "b", "a", "a"}, k)
	assert.Equal(t, []float64{1, 3, 2, 5, 1}, x)

	assert.NotNil(t, df.Sort(true))
	assert.NotNil(t, df.Sort(true, "nope"))
}

func TestDF_Top(t *testing.T) {
	df := testDF(t)

	top, e := df.Top(3, "x")
	assert.Nil(t, e)
	x, _ := top.Floats("x")
	assert.Equal(t, []float64{5, 3, 2}, x)

	top, e = df.Top(4, "x")
	assert.Nil(t, e)
	n, _ := top.Floats("n")
	assert.Equal(t, []float64{50, 10, 30, 20}, n)

	all, e := df.Top(10, "x")
	assert.Nil(t, e)
	assert.Equal(t, 5, all.RowCount())

	_, e = df.Top(-1, "x")
	assert.NotNil(t, e)
}

func TestDF_Unique(t *testing.T) {
	df := testDF(t)

	u, e := df.Unique("k")
	assert.Nil(t, e)
	k, _ := u.AsString()
	assert.Equal(t, []string{"a", "b", "c"}, k)

	u, e = df.Unique("x")
	assert.Nil(t, e)
	assert.Equal(t, []float64{1, 2, 3, 5}, u.AsAny())

	_, e = df.Unique("nope")
	assert.NotNil(t, e)
}

func TestDF_By(t *testing.T) {
	df := testDF(t)

	out, e := df.By([]string{"k"}, Sum("x"), Mean("n"), Agg{Col: "x", Name: "count", Reduce: func(x []float64) float64 { return float64(len(x)) }})
	assert.Nil(t, e)
	assert.Equal(t, []string{"k", "x", "n", "count"}, out.ColumnNames())

	k, _ := out.Strings("k")
	assert.Equal(t, []string{"a", "b", "c"}, k)

	sx, _ := out.Floats("x")
	assert.Equal(t, []float64{6, 5, 1}, sx)

	mn, _ := out.Floats("n")
	assert.Equal(t, []float64{35, 20, 40}, mn)

	cnt, _ := out.Floats("count")
	assert.Equal(t, []float64{2, 2, 1}, cnt)

	_, e = df.By(nil, Sum("x"))
	assert.NotNil(t, e)

	_, e = df.By([]string{"nope"}, Sum("x"))
	assert.NotNil(t, e)
}

func TestDF_ByEmpty(t *testing.T) {
	df := testDF(t)
	empty, e := df.Subset(nil)
	assert.Nil(t, e)

	out, e := empty.By([]string{"k"}, Sum("x"))
	assert.Nil(t, e)
	assert.Equal(t, 0, out.RowCount())
	assert.Equal(t, []string{"k", "x"}, out.ColumnNames())
}

func TestVector(t *testing.T) {
	v, e := NewVector([]int{3, 1, 2}, DTint)
	assert.Nil(t, e)
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 1, v.Element(1))

	f, e := v.AsFloat()
	assert.Nil(t, e)
	assert.Equal(t, []float64{3, 1, 2}, f)

	x, e := v.ElementFloat(2)
	assert.Nil(t, e)
	assert.Equal(t, 2.0, x)

	_, e = v.ElementFloat(3)
	assert.NotNil(t, e)

	s, e := v.ElementString(0)
	assert.Nil(t, e)
	assert.Equal(t, "3", s)

	sv, e := NewVector([]string{"1.5", "x"}, DTstring)
	assert.Nil(t, e)
	_, e = sv.AsFloat()
	assert.NotNil(t, e)

	assert.Equal(t, DTfloat, WhatAmI(1.0))
	assert.Equal(t, DTstring, WhatAmI([]string{"a"}))
	assert.Equal(t, DTunknown, WhatAmI(true))
}
