package coviddash

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const csvIn = "\ufeffname,skip,value,count\n" +
	"a,zz,1.5,2\n" +
	"b,zz,,3\n" +
	"\"c, d\",zz,2,\n"

func testFiles() *Files {
	f := NewFiles()
	f.FieldNames = []string{"value", "name", "count"}
	f.FieldTypes = []DataTypes{DTfloat, DTstring, DTint}

	return f
}

func TestFiles_Read(t *testing.T) {
	df, e := testFiles().Read(strings.NewReader(csvIn))
	assert.Nil(t, e)
	assert.Equal(t, []string{"value", "name", "count"}, df.ColumnNames())
	assert.Equal(t, 3, df.RowCount())

	v, _ := df.Floats("value")
	assert.Equal(t, []float64{1.5, 0, 2}, v)

	n, _ := df.Strings("name")
	assert.Equal(t, []string{"a", "b", "c, d"}, n)

	c := df.Column("count")
	assert.Equal(t, DTint, c.DataType())
	assert.Equal(t, []int{2, 3, 0}, c.AsAny())
}

func TestFiles_ReadErrors(t *testing.T) {
	f := testFiles()
	f.FieldNames[0] = "missing"
	_, e := f.Read(strings.NewReader(csvIn))
	assert.ErrorIs(t, e, ErrNotInHeader)
	assert.Contains(t, e.Error(), "missing")

	_, e = testFiles().Read(strings.NewReader(""))
	assert.ErrorIs(t, e, ErrNoHeader)

	_, e = testFiles().Read(strings.NewReader("name,value,count\na,x,1\n"))
	assert.NotNil(t, e)
	assert.Contains(t, e.Error(), "line 2")
	assert.NotErrorIs(t, e, ErrNotInHeader)

	_, e = NewFiles().Read(strings.NewReader(csvIn))
	assert.NotNil(t, e)
}

func TestFiles_ReadHeaderOnly(t *testing.T) {
	df, e := testFiles().Read(strings.NewReader("name,value,count\n"))
	assert.Nil(t, e)
	assert.Equal(t, 0, df.RowCount())
	assert.Equal(t, 3, df.ColumnCount())
}

func TestFiles_Write(t *testing.T) {
	df, e := testFiles().Read(strings.NewReader(csvIn))
	assert.Nil(t, e)

	var buf bytes.Buffer
	assert.Nil(t, NewFiles().Write(&buf, df))
	assert.Equal(t, "value,name,count\n1.5,a,2\n0,b,3\n2,\"c, d\",0\n", buf.String())

	f := NewFiles()
	f.FloatFormat = "%.2f"
	f.Header = false
	buf.Reset()
	assert.Nil(t, f.Write(&buf, df))
	assert.Equal(t, "1.50,a,2\n0.00,b,3\n2.00,\"c, d\",0\n", buf.String())
}

func TestFiles_SaveLoad(t *testing.T) {
	df, e := testFiles().Read(strings.NewReader(csvIn))
	assert.Nil(t, e)

	fileName := filepath.Join(t.TempDir(), "out.csv")
	f := NewFiles()
	assert.Nil(t, f.Save(fileName, df))
	assert.Equal(t, fileName, f.FileName())

	back, e := testFiles().Load(fileName)
	assert.Nil(t, e)
	assert.Equal(t, df.String(), back.String())

	_, e = testFiles().Load(filepath.Join(t.TempDir(), "none.csv"))
	assert.NotNil(t, e)
}
