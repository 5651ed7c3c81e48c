package charts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestNewKDE(t *testing.T) {
	_, e := NewKDE(nil)
	assert.NotNil(t, e)

	_, e = NewKDE([]float64{1})
	assert.NotNil(t, e)

	_, e = NewKDE([]float64{2, 2, 2})
	assert.NotNil(t, e)

	// sample sd of {1,2,3,4} is sqrt(5/3)
	k, e := NewKDE([]float64{1, 2, 3, 4})
	assert.Nil(t, e)
	assert.InDelta(t, math.Sqrt(5.0/3.0)*math.Pow(4, -0.2), k.Bandwidth(), 1e-12)
}

func TestKDE_Density(t *testing.T) {
	data := []float64{0, 1}
	k, e := NewKDE(data)
	assert.Nil(t, e)

	bw := k.Bandwidth()
	gauss := func(x float64) float64 { return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi) }
	want := (gauss(0.5/bw) + gauss(-0.5/bw)) / (2 * bw)
	assert.InDelta(t, want, k.Density(0.5), 1e-12)

	// symmetric data, symmetric density
	assert.InDelta(t, k.Density(-0.3), k.Density(1.3), 1e-12)
}

func TestKDE_Curve(t *testing.T) {
	data := []float64{3, 1.5, 7, 2, 2}
	k, e := NewKDE(data)
	assert.Nil(t, e)

	x, y := k.Curve(200)
	assert.Len(t, x, 200)
	assert.Len(t, y, 200)
	assert.Equal(t, 1.5, x[0])
	assert.Equal(t, 7.0, x[199])

	for ind := range y {
		assert.True(t, y[ind] > 0)
	}

	// integrates to roughly one over a wide grid
	xw, yw := make([]float64, 2001), make([]float64, 2001)
	floats.Span(xw, -20, 30)
	for ind, xx := range xw {
		yw[ind] = k.Density(xx)
	}
	assert.InDelta(t, 1.0, floats.Sum(yw)*(xw[1]-xw[0]), 1e-3)

	x, _ = k.Curve(1)
	assert.Len(t, x, 2)
}
