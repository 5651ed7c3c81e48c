package charts

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// KDE is a one-dimensional Gaussian kernel density estimate. The bandwidth follows Scott's rule:
// n^(-1/5) times the sample standard deviation.
type KDE struct {
	data []float64
	bw   float64
}

// NewKDE fits a KDE to data. It needs at least two distinct values.
func NewKDE(data []float64) (*KDE, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("kde needs at least 2 points, got %d", len(data))
	}

	sd := stat.StdDev(data, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil, fmt.Errorf("kde needs at least 2 distinct values")
	}

	n := float64(len(data))
	x := make([]float64, len(data))
	copy(x, data)

	return &KDE{data: x, bw: math.Pow(n, -0.2) * sd}, nil
}

func (k *KDE) Bandwidth() float64 {
	return k.bw
}

// Density evaluates the estimate at x.
func (k *KDE) Density(x float64) float64 {
	total := 0.0
	for _, xi := range k.data {
		total += distuv.Normal{Mu: xi, Sigma: k.bw}.Prob(x)
	}

	return total / float64(len(k.data))
}

// Curve evaluates the estimate at n evenly spaced points spanning [min(data), max(data)].
func (k *KDE) Curve(n int) (x, y []float64) {
	if n < 2 {
		n = 2
	}

	x = make([]float64, n)
	floats.Span(x, floats.Min(k.data), floats.Max(k.data))

	y = make([]float64, n)
	for ind, xx := range x {
		y[ind] = k.Density(xx)
	}

	return x, y
}
