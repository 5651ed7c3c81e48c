package coviddash

import "fmt"

// Col is a named Vector.
type Col struct {
	*Vector

	name string
}

// NewCol creates a column. data may be a *Vector or a slice (or single value) convertible to dt.
func NewCol(data any, dt DataTypes, opts ...ColOpt) (*Col, error) {
	col := &Col{}
	if v, ok := data.(*Vector); ok {
		col.Vector = v
	}

	if col.Vector == nil {
		var e error
		if col.Vector, e = NewVector(data, dt); e != nil {
			return nil, e
		}
	}

	for _, opt := range opts {
		if e := opt(col); e != nil {
			return nil, e
		}
	}

	return col, nil
}

// *********** Setters ***********

type ColOpt func(c *Col) error

func ColName(name string) ColOpt {
	return func(c *Col) error {
		if c == nil {
			return fmt.Errorf("nil column to ColName")
		}

		if c.name != "" {
			return fmt.Errorf("column already named -- use Rename method")
		}

		if e := validName(name); e != nil {
			return e
		}

		c.name = name

		return nil
	}
}

// *********** Methods ***********

func (c *Col) Name() string {
	return c.name
}

func (c *Col) DataType() DataTypes {
	return c.VectorType()
}

func (c *Col) Rename(newName string) error {
	if e := validName(newName); e != nil {
		return e
	}

	c.name = newName

	return nil
}

func (c *Col) Copy() *Col {
	return &Col{Vector: c.Vector.Copy(), name: c.name}
}

func (c *Col) String() string {
	return fmt.Sprintf("column: %s\ntype: %s\nrows: %d", c.Name(), c.DataType(), c.Len())
}
