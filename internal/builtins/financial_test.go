package builtins_test

import (
	"testing"

	"github.com/cwbudde/skillet/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPmtThirtyYearMortgage(t *testing.T) {
	v, err := call(t, "PMT", value.Number(0.05/12), value.Number(30*12), value.Number(100000))
	require.NoError(t, err)
	assert.InDelta(t, -536.82, v.Num(), 0.01)
}

func TestPmtWithFutureValue(t *testing.T) {
	v, err := call(t, "PMT", value.Number(0.04/12), value.Number(5*12), value.Number(50000), value.Number(10000))
	require.NoError(t, err)
	assert.InDelta(t, -1071.66, v.Num(), 0.01)
}

func TestPmtBeginningOfPeriod(t *testing.T) {
	v, err := call(t, "PMT", value.Number(0.05/12), value.Number(30*12), value.Number(100000), value.Number(0), value.Number(1))
	require.NoError(t, err)
	assert.InDelta(t, -534.59, v.Num(), 0.01)
}

func TestPmtZeroInterest(t *testing.T) {
	v, err := call(t, "PMT", value.Number(0), value.Number(12), value.Number(12000))
	require.NoError(t, err)
	assert.Equal(t, -1000.0, v.Num())
}
