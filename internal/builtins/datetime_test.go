package builtins_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/skillet/internal/value"
)

// 2023-11-14 22:13:20 UTC
const fixedEpoch = int64(1700000000)

func TestNowReturnsDateTime(t *testing.T) {
	before := time.Now().Unix()
	v, err := call(t, "NOW")
	require.NoError(t, err)
	require.Equal(t, value.KindDateTime, v.Kind())
	assert.GreaterOrEqual(t, v.Unix(), before)
}

func TestDateIsMidnight(t *testing.T) {
	v, err := call(t, "DATE")
	require.NoError(t, err)
	require.Equal(t, value.KindDateTime, v.Kind())
	midnight := time.Unix(v.Unix(), 0)
	assert.Zero(t, midnight.Hour())
	assert.Zero(t, midnight.Minute())
	assert.Zero(t, midnight.Second())
}

func TestTimeIsSecondsSinceMidnight(t *testing.T) {
	v, err := call(t, "TIME")
	require.NoError(t, err)
	require.Equal(t, value.KindNumber, v.Kind())
	assert.GreaterOrEqual(t, v.Num(), 0.0)
	assert.Less(t, v.Num(), 86401.0)
}

func TestYearMonthDay(t *testing.T) {
	dt := value.DateTime(fixedEpoch)

	v, err := call(t, "YEAR", dt)
	require.NoError(t, err)
	assert.Equal(t, 2023.0, v.Num())

	v, err = call(t, "MONTH", dt)
	require.NoError(t, err)
	assert.Equal(t, 11.0, v.Num())

	v, err = call(t, "DAY", dt)
	require.NoError(t, err)
	assert.Equal(t, 14.0, v.Num())
}

func TestYearRejectsNonDateTime(t *testing.T) {
	_, err := call(t, "YEAR", value.Number(2023))
	assert.Error(t, err)
}

func TestDateAdd(t *testing.T) {
	dt := value.DateTime(fixedEpoch)

	v, err := call(t, "DATEADD", dt, value.Number(2), value.String("days"))
	require.NoError(t, err)
	assert.Equal(t, fixedEpoch+2*86400, v.Unix())

	v, err = call(t, "DATEADD", dt, value.Number(-3), value.String("hours"))
	require.NoError(t, err)
	assert.Equal(t, fixedEpoch-3*3600, v.Unix())

	v, err = call(t, "DATEADD", dt, value.Number(1), value.String("years"))
	require.NoError(t, err)
	year, err := call(t, "YEAR", v)
	require.NoError(t, err)
	assert.Equal(t, 2024.0, year.Num())

	_, err = call(t, "DATEADD", dt, value.Number(1), value.String("fortnights"))
	assert.Error(t, err)
}

func TestDateDiff(t *testing.T) {
	a := value.DateTime(fixedEpoch)
	b := value.DateTime(fixedEpoch + 90*60)

	v, err := call(t, "DATEDIFF", a, b, value.String("minutes"))
	require.NoError(t, err)
	assert.Equal(t, 90.0, v.Num())

	v, err = call(t, "DATEDIFF", a, b, value.String("seconds"))
	require.NoError(t, err)
	assert.Equal(t, 5400.0, v.Num())

	// Reversed order yields a negative difference.
	v, err = call(t, "DATEDIFF", b, a, value.String("minutes"))
	require.NoError(t, err)
	assert.Equal(t, -90.0, v.Num())

	c := value.DateTime(fixedEpoch + 2*365*86400)
	v, err = call(t, "DATEDIFF", a, c, value.String("years"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, v.Num())
}
