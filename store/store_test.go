package store

import (
	"path/filepath"
	"testing"

	d "github.com/invertedv/coviddash"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// failed connects must close their *sql.DB
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOpen_SQLite(t *testing.T) {
	dialect, e := Open(SQLite(":memory:"))
	assert.Nil(t, e)
	defer func() { _ = dialect.Close() }()

	assert.Equal(t, d.SL, dialect.DialectName())

	exists, e := dialect.Exists("nothing")
	assert.Nil(t, e)
	assert.False(t, exists)
}

func TestOpen_File(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "snap.db")

	col, e := d.NewCol([]float64{1, 2}, d.DTfloat, d.ColName("x"))
	assert.Nil(t, e)
	df, e := d.NewDF(col)
	assert.Nil(t, e)

	dialect, e := Open(SQLite(fileName))
	assert.Nil(t, e)
	assert.Nil(t, dialect.Save("t", df, true))
	assert.Nil(t, dialect.Close())

	// data survives reopening
	dialect, e = Open(SQLite(fileName))
	assert.Nil(t, e)
	defer func() { _ = dialect.Close() }()

	back, e := dialect.Load("SELECT x FROM t")
	assert.Nil(t, e)
	x, _ := back.Floats("x")
	assert.Equal(t, []float64{1, 2}, x)
}

func TestOpen_Errors(t *testing.T) {
	_, e := Open(Source{Dialect: "mysql"})
	assert.NotNil(t, e)

	_, e = Open(SQLite(""))
	assert.NotNil(t, e)

	_, e = Open(SQLite(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")))
	assert.NotNil(t, e)
}
