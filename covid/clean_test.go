package covid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	assert.Equal(t, 0.0, Rate(5, 0))
	assert.Equal(t, 0.0, Rate(0, 0))
	assert.Equal(t, 50.0, Rate(5, 10))
	assert.Equal(t, 100.0, Rate(18, 18))
}

func TestClean(t *testing.T) {
	raw := rawDF(t)
	cleaned, e := Clean(raw)
	assert.Nil(t, e)

	assert.Equal(t, raw.ColumnCount()+2, cleaned.ColumnCount())
	assert.False(t, raw.HasColumns(CFR), "raw is not modified")

	cfr, _ := cleaned.Floats(CFR)
	assert.Equal(t, []float64{10, 0, 20, 0}, cfr)

	rr, _ := cleaned.Floats(RecoveryRate)
	assert.Equal(t, []float64{50, 0, 50, 0}, rr)
}

func TestClean_Sample(t *testing.T) {
	cleaned, e := Clean(sampleDF(t))
	assert.Nil(t, e)

	confirmed, _ := cleaned.Floats(Confirmed)
	deaths, _ := cleaned.Floats(Deaths)
	recovered, _ := cleaned.Floats(Recovered)
	cfr, _ := cleaned.Floats(CFR)
	rr, _ := cleaned.Floats(RecoveryRate)

	for row := range cfr {
		assert.InDelta(t, deaths[row]/confirmed[row]*100, cfr[row], 1e-9)
		assert.InDelta(t, recovered[row]/confirmed[row]*100, rr[row], 1e-9)
	}

	// Canada reports no recoveries
	assert.Equal(t, 0.0, rr[2])
}

func TestClean_Schema(t *testing.T) {
	raw := rawDF(t)
	assert.Nil(t, raw.DropColumns(Recovered))

	_, e := Clean(raw)
	assert.ErrorIs(t, e, ErrSchema)
}
