package coviddash

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// All code interacting with a database is here

var (
	//go:embed skeletons/clickhouse/create.txt
	chCreate string
	//go:embed skeletons/postgres/create.txt
	pgCreate string
	//go:embed skeletons/sqlite/create.txt
	slCreate string

	//go:embed skeletons/clickhouse/types.txt
	chTypes string
	//go:embed skeletons/postgres/types.txt
	pgTypes string
	//go:embed skeletons/sqlite/types.txt
	slTypes string

	//go:embed skeletons/clickhouse/fields.txt
	chFields string
	//go:embed skeletons/postgres/fields.txt
	pgFields string
	//go:embed skeletons/sqlite/fields.txt
	slFields string

	//go:embed skeletons/clickhouse/dropif.txt
	chDropIf string
	//go:embed skeletons/postgres/dropif.txt
	pgDropIf string
	//go:embed skeletons/sqlite/dropif.txt
	slDropIf string

	//go:embed skeletons/clickhouse/insert.txt
	chInsert string
	//go:embed skeletons/postgres/insert.txt
	pgInsert string
	//go:embed skeletons/sqlite/insert.txt
	slInsert string

	//go:embed skeletons/clickhouse/exists.txt
	chExists string
	//go:embed skeletons/postgres/exists.txt
	pgExists string
	//go:embed skeletons/sqlite/exists.txt
	slExists string
)

const (
	CH = "clickhouse"
	PG = "postgres"
	SL = "sqlite"
)

// Dialect saves DFs to, and loads DFs from, a database.
type Dialect struct {
	db      *sql.DB
	dialect string

	dtTypes []DataTypes
	dbTypes []string

	create string
	insert string
	dropIf string
	exists string
	fields string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	if db == nil {
		return nil, fmt.Errorf("nil db in NewDialect")
	}

	dialect = strings.ToLower(dialect)

	d := &Dialect{db: db, dialect: dialect}

	var types string
	switch d.dialect {
	case CH:
		d.create, d.fields, d.dropIf, d.insert, d.exists = chCreate, chFields, chDropIf, chInsert, chExists
		types = chTypes
	case PG:
		d.create, d.fields, d.dropIf, d.insert, d.exists = pgCreate, pgFields, pgDropIf, pgInsert, pgExists
		types = pgTypes
	case SL:
		d.create, d.fields, d.dropIf, d.insert, d.exists = slCreate, slFields, slDropIf, slInsert, slExists
		types = slTypes
	default:
		return nil, fmt.Errorf("no skeletons for database %s", dialect)
	}

	for _, lm := range strings.Split(types, "\n") {
		if strings.TrimSpace(lm) == "" {
			continue
		}

		t := strings.Split(lm, ",")
		if len(t) != 2 {
			return nil, fmt.Errorf("bad types line in NewDialect: %s", lm)
		}

		var dt DataTypes
		if dt = dtFromString(t[0]); dt == DTunknown {
			return nil, fmt.Errorf("unknown data type in NewDialect: %s", t[0])
		}

		d.dtTypes = append(d.dtTypes, dt)
		d.dbTypes = append(d.dbTypes, strings.TrimSpace(t[1]))
	}

	return d, nil
}

// ***************** Methods *****************

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

func (d *Dialect) Close() error {
	return d.db.Close()
}

func (d *Dialect) Exists(tableName string) (bool, error) {
	qry := strings.ReplaceAll(d.exists, "?TableName", tableName)

	var (
		res *sql.Rows
		e   error
	)
	if res, e = d.db.Query(qry); e != nil {
		return false, e
	}
	defer func() { _ = res.Close() }()

	if !res.Next() {
		return false, res.Err()
	}

	var exist any
	if e = res.Scan(&exist); e != nil {
		return false, e
	}

	if x, ok := toInt(exist); ok {
		return x.(int) > 0, nil
	}

	return false, fmt.Errorf("unexpected result from exists query: %v", exist)
}

func (d *Dialect) DropTable(tableName string) error {
	qry := strings.ReplaceAll(d.dropIf, "?TableName", tableName)
	_, e := d.db.Exec(qry)

	return e
}

// Create creates tableName with fields of the given types. orderBy is used only by ClickHouse;
// it defaults to the first field.
func (d *Dialect) Create(tableName, orderBy string, fields []string, types []DataTypes, overwrite bool) error {
	if len(fields) == 0 || len(fields) != len(types) {
		return fmt.Errorf("fields and types must be non-empty and the same length in Dialect.Create")
	}

	var (
		exists bool
		e      error
	)
	if exists, e = d.Exists(tableName); e != nil {
		return e
	}

	if exists && !overwrite {
		return fmt.Errorf("table %s exists", tableName)
	}

	if exists {
		if e = d.DropTable(tableName); e != nil {
			return e
		}
	}

	if orderBy == "" {
		orderBy = d.quote(fields[0])
	}

	create := strings.ReplaceAll(d.create, "?TableName", tableName)
	create = strings.Replace(create, "?OrderBy", orderBy, 1)

	var flds []string
	for ind := 0; ind < len(fields); ind++ {
		var dbType string
		if dbType, e = d.dbtype(types[ind]); e != nil {
			return e
		}

		field := strings.ReplaceAll(d.fields, "?Field", fields[ind])
		field = strings.ReplaceAll(field, "?Type", dbType)
		flds = append(flds, field)
	}

	create = strings.Replace(create, "?fields", strings.Join(flds, ","), 1)

	_, e = d.db.Exec(create)

	return e
}

// Insert appends the rows of df to tableName in one transaction.
func (d *Dialect) Insert(tableName string, df *DF) error {
	cols := df.columns()
	if len(cols) == 0 {
		return fmt.Errorf("no columns to insert")
	}

	var (
		names  []string
		values []string
	)
	for ind, col := range cols {
		names = append(names, d.quote(col.Name()))
		values = append(values, d.placeholder(ind+1))
	}

	qry := strings.ReplaceAll(d.insert, "?TableName", tableName)
	qry = strings.Replace(qry, "?fields", strings.Join(names, ","), 1)
	qry = strings.Replace(qry, "?values", strings.Join(values, ","), 1)

	var (
		tx   *sql.Tx
		stmt *sql.Stmt
		e    error
	)
	if tx, e = d.db.Begin(); e != nil {
		return e
	}

	if stmt, e = tx.Prepare(qry); e != nil {
		_ = tx.Rollback()
		return e
	}

	row := make([]any, len(cols))
	for r := 0; r < df.RowCount(); r++ {
		for ind, col := range cols {
			row[ind] = col.Element(r)
		}

		if _, e = stmt.Exec(row...); e != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("insert row %d: %w", r, e)
		}
	}

	_ = stmt.Close()

	return tx.Commit()
}

// Save writes df to tableName, creating the table.
func (d *Dialect) Save(tableName string, df *DF, overwrite bool) error {
	var types []DataTypes
	for _, col := range df.columns() {
		types = append(types, col.DataType())
	}

	if e := d.Create(tableName, "", df.ColumnNames(), types, overwrite); e != nil {
		return e
	}

	return d.Insert(tableName, df)
}

// Load runs qry and returns the result as a DF.
func (d *Dialect) Load(qry string) (*DF, error) {
	var (
		rows *sql.Rows
		e    error
	)
	if rows, e = d.db.Query(qry); e != nil {
		return nil, e
	}
	defer func() { _ = rows.Close() }()

	var colTypes []*sql.ColumnType
	if colTypes, e = rows.ColumnTypes(); e != nil {
		return nil, e
	}

	dts := make([]DataTypes, len(colTypes))
	for ind, ct := range colTypes {
		dts[ind] = d.dtType(ct.DatabaseTypeName())
	}

	var memData [][]any
	for rows.Next() {
		vals := make([]any, len(colTypes))
		ptrs := make([]any, len(colTypes))
		for ind := range vals {
			ptrs[ind] = &vals[ind]
		}

		if e = rows.Scan(ptrs...); e != nil {
			return nil, e
		}

		memData = append(memData, vals)
	}

	if e = rows.Err(); e != nil {
		return nil, e
	}

	var cols []*Col
	for ind, ct := range colTypes {
		dt := dts[ind]
		if dt == DTunknown && len(memData) > 0 {
			dt = WhatAmI(memData[0][ind])
		}

		if dt == DTunknown {
			dt = DTstring
		}

		v := MakeVector(dt, len(memData))
		for r, vals := range memData {
			x, ok := toDataType(vals[ind], dt)
			if !ok {
				return nil, fmt.Errorf("cannot convert %v in column %s to %s", vals[ind], ct.Name(), dt)
			}

			v.set(x, r)
		}

		var col *Col
		if col, e = NewCol(v, dt, ColName(ct.Name())); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewDF(cols...)
}

func (d *Dialect) dbtype(dt DataTypes) (string, error) {
	if pos := position(dt, d.dtTypes); pos >= 0 {
		return d.dbTypes[pos], nil
	}

	return "", fmt.Errorf("no db type for %s", dt)
}

func (d *Dialect) dtType(dbType string) DataTypes {
	for ind, t := range d.dbTypes {
		if strings.EqualFold(t, dbType) {
			return d.dtTypes[ind]
		}
	}

	return DTunknown
}

func (d *Dialect) quote(field string) string {
	if d.dialect == CH {
		return "`" + field + "`"
	}

	return `"` + field + `"`
}

func (d *Dialect) placeholder(n int) string {
	if d.dialect == PG {
		return fmt.Sprintf("$%d", n)
	}

	return "?"
}

func dtFromString(nm string) DataTypes {
	for dt := DTunknown; dt <= DTstring; dt++ {
		if dt.String() == strings.TrimSpace(nm) {
			return dt
		}
	}

	return DTunknown
}

// set stores x, already of the vector's type, at indx.
func (v *Vector) set(x any, indx int) {
	switch v.dt {
	case DTfloat:
		v.data.([]float64)[indx] = x.(float64)
	case DTint:
		v.data.([]int)[indx] = x.(int)
	case DTstring:
		v.data.([]string)[indx] = x.(string)
	}
}
