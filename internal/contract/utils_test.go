package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, EliteValue, GetPlainLabel(92))
	assert.Equal(t, EliteValue, GetPlainLabel(85))
	assert.Equal(t, StrongValue, GetPlainLabel(70))
	assert.Equal(t, AverageValue, GetPlainLabel(55))
	assert.Equal(t, LaggingValue, GetPlainLabel(54.9))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestParseEventTime(t *testing.T) {
	ts, ok := ParseEventTime("2024-03-10T14:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC), ts)

	ts, ok = ParseEventTime("2024-03-10T14:30:00.123Z")
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	ts, ok = ParseEventTime("2024-03-10")
	assert.True(t, ok)
	assert.Equal(t, time.March, ts.Month())

	_, ok = ParseEventTime("")
	assert.False(t, ok)
	_, ok = ParseEventTime("not-a-time")
	assert.False(t, ok)
}
