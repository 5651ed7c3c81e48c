package coviddash

import (
	"fmt"
	"sort"
)

// Vector is a typed slice. The data is one of []float64, []int, []string.
type Vector struct {
	dt DataTypes

	data any
}

func NewVector(data any, dt DataTypes) (*Vector, error) {
	var (
		v  any
		ok bool
	)
	if v, ok = toSlc(data, dt); !ok {
		return nil, fmt.Errorf("cannot make vector of type %s", dt)
	}

	return &Vector{dt: dt, data: v}, nil
}

func MakeVector(dt DataTypes, n int) *Vector {
	switch dt {
	case DTfloat:
		return &Vector{dt: dt, data: make([]float64, n)}
	case DTint:
		return &Vector{dt: dt, data: make([]int, n)}
	case DTstring:
		return &Vector{dt: dt, data: make([]string, n)}
	default:
		panic(fmt.Errorf("cannot make Vector with data type %s", dt))
	}
}

func (v *Vector) VectorType() DataTypes {
	return v.dt
}

func (v *Vector) Data() *Vector {
	return v
}

func (v *Vector) AsAny() any {
	return v.data
}

// AsFloat returns the data as []float64. Float vectors return their backing slice.
func (v *Vector) AsFloat() ([]float64, error) {
	switch v.dt {
	case DTfloat:
		return v.data.([]float64), nil
	case DTint:
		xOut := make([]float64, v.Len())
		for ind, xx := range v.data.([]int) {
			xOut[ind] = float64(xx)
		}

		return xOut, nil
	}

	var (
		x  any
		ok bool
	)
	if x, ok = toSlc(v.data, DTfloat); !ok {
		return nil, fmt.Errorf("cannot convert %s vector to float", v.dt)
	}

	return x.([]float64), nil
}

func (v *Vector) AsString() ([]string, error) {
	if v.dt == DTstring {
		return v.data.([]string), nil
	}

	var (
		x  any
		ok bool
	)
	if x, ok = toSlc(v.data, DTstring); !ok {
		return nil, fmt.Errorf("cannot convert %s vector to string", v.dt)
	}

	return x.([]string), nil
}

func (v *Vector) Element(indx int) any {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[indx]
	case DTint:
		return v.data.([]int)[indx]
	case DTstring:
		return v.data.([]string)[indx]
	default:
		panic(fmt.Errorf("error in Element"))
	}
}

func (v *Vector) ElementFloat(indx int) (float64, error) {
	if indx < 0 || indx >= v.Len() {
		return 0, fmt.Errorf("index %d out of range", indx)
	}

	if v.dt == DTfloat {
		return v.data.([]float64)[indx], nil
	}

	if val, ok := toFloat(v.Element(indx)); ok {
		return val.(float64), nil
	}

	return 0, fmt.Errorf("element %d is not float-able", indx)
}

func (v *Vector) ElementString(indx int) (string, error) {
	if indx < 0 || indx >= v.Len() {
		return "", fmt.Errorf("index %d out of range", indx)
	}

	if v.dt == DTstring {
		return v.data.([]string)[indx], nil
	}

	if x, ok := toString(v.Element(indx)); ok {
		return x.(string), nil
	}

	return "", fmt.Errorf("element %d is not string-able", indx)
}

func (v *Vector) Len() int {
	switch v.dt {
	case DTfloat:
		return len(v.data.([]float64))
	case DTint:
		return len(v.data.([]int))
	case DTstring:
		return len(v.data.([]string))
	default:
		panic(fmt.Errorf("unexpected error in Vector.Len"))
	}
}

func (v *Vector) Less(i, j int) bool {
	switch v.dt {
	case DTfloat:
		return v.data.([]float64)[i] < v.data.([]float64)[j]
	case DTint:
		return v.data.([]int)[i] < v.data.([]int)[j]
	case DTstring:
		return v.data.([]string)[i] < v.data.([]string)[j]
	default:
		panic(fmt.Errorf("unexpected error in vector.Less"))
	}
}

func (v *Vector) Copy() *Vector {
	vCopy := &Vector{dt: v.dt}
	switch v.dt {
	case DTfloat:
		x := make([]float64, v.Len())
		copy(x, v.data.([]float64))
		vCopy.data = x
	case DTint:
		x := make([]int, v.Len())
		copy(x, v.data.([]int))
		vCopy.data = x
	case DTstring:
		x := make([]string, v.Len())
		copy(x, v.data.([]string))
		vCopy.data = x
	default:
		panic(fmt.Errorf("unexpected error in Vector.Copy"))
	}

	return vCopy
}

// Subset returns a new Vector made up of the rows in the order given. Rows may repeat.
func (v *Vector) Subset(rows []int) (*Vector, error) {
	n := v.Len()
	for _, r := range rows {
		if r < 0 || r >= n {
			return nil, fmt.Errorf("row %d out of range in Subset", r)
		}
	}

	outVec := &Vector{dt: v.dt}
	switch v.dt {
	case DTfloat:
		outVec.data = subset(v.data.([]float64), rows)
	case DTint:
		outVec.data = subset(v.data.([]int), rows)
	case DTstring:
		outVec.data = subset(v.data.([]string), rows)
	default:
		return nil, fmt.Errorf("unsupported type %s in Subset", v.dt)
	}

	return outVec, nil
}

// Unique returns the distinct values of v, sorted ascending.
func (v *Vector) Unique() *Vector {
	switch v.dt {
	case DTfloat:
		x := distinct(v.data.([]float64))
		sort.Float64s(x)
		return &Vector{dt: v.dt, data: x}
	case DTint:
		x := distinct(v.data.([]int))
		sort.Ints(x)
		return &Vector{dt: v.dt, data: x}
	case DTstring:
		x := distinct(v.data.([]string))
		sort.Strings(x)
		return &Vector{dt: v.dt, data: x}
	default:
		panic(fmt.Errorf("unexpected error in Vector.Unique"))
	}
}

func subset[T float64 | int | string](x []T, rows []int) []T {
	xOut := make([]T, len(rows))
	for ind, r := range rows {
		xOut[ind] = x[r]
	}

	return xOut
}

func distinct[T float64 | int | string](x []T) []T {
	seen := make(map[T]bool)
	xOut := make([]T, 0)
	for _, xx := range x {
		if seen[xx] {
			continue
		}

		seen[xx] = true
		xOut = append(xOut, xx)
	}

	return xOut
}
