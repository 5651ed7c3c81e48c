package coviddash

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// *********** Conversions ***********

func toFloat(x any) (any, bool) {
	if f, ok := x.(float64); ok {
		return f, true
	}

	if s, ok := x.(string); ok {
		if f, e := strconv.ParseFloat(strings.TrimSpace(s), 64); e == nil {
			return f, true
		}

		return nil, false
	}

	if b, ok := x.([]byte); ok {
		return toFloat(string(b))
	}

	xv := reflect.ValueOf(x)
	if xv.CanFloat() {
		return xv.Float(), true
	}

	if xv.CanInt() {
		return float64(xv.Int()), true
	}

	if xv.CanUint() {
		return float64(xv.Uint()), true
	}

	return nil, false
}

func toInt(x any) (any, bool) {
	if i, ok := x.(int); ok {
		return i, true
	}

	if s, ok := x.(string); ok {
		if i, e := strconv.ParseInt(strings.TrimSpace(s), 10, 64); e == nil {
			return int(i), true
		}

		return nil, false
	}

	xv := reflect.ValueOf(x)
	if xv.CanInt() {
		return int(xv.Int()), true
	}

	if xv.CanUint() {
		return int(xv.Uint()), true
	}

	if xv.CanFloat() {
		return int(xv.Float()), true
	}

	return nil, false
}

func toString(x any) (any, bool) {
	switch s := x.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case nil:
		return nil, false
	}

	return fmt.Sprintf("%v", x), true
}

func toDataType(x any, dt DataTypes) (any, bool) {
	switch dt {
	case DTfloat:
		return toFloat(x)
	case DTint:
		return toInt(x)
	case DTstring:
		return toString(x)
	}

	return nil, false
}

func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case float64, []float64:
		return DTfloat
	case int, []int:
		return DTint
	case string, []string:
		return DTstring
	default:
		return DTunknown
	}
}

// toSlc converts xIn to a slice of type target. xIn may be a slice or a single value.
func toSlc(xIn any, target DataTypes) (any, bool) {
	typSlc := map[DataTypes]reflect.Type{
		DTfloat:  reflect.TypeOf([]float64{}),
		DTint:    reflect.TypeOf([]int{}),
		DTstring: reflect.TypeOf([]string{}),
	}

	var (
		outType reflect.Type
		ok      bool
	)
	if outType, ok = typSlc[target]; !ok || xIn == nil {
		return nil, false
	}

	x := reflect.ValueOf(xIn)

	// nothing to do
	if x.Type() == outType {
		return xIn, true
	}

	if x.Kind() != reflect.Slice {
		x = reflect.Append(reflect.MakeSlice(reflect.SliceOf(x.Type()), 0, 1), x)
	}

	xOut := reflect.MakeSlice(outType, x.Len(), x.Len())
	for ind := 0; ind < x.Len(); ind++ {
		var val any
		if val, ok = toDataType(x.Index(ind).Interface(), target); !ok {
			return nil, false
		}

		xOut.Index(ind).Set(reflect.ValueOf(val))
	}

	return xOut.Interface(), true
}
