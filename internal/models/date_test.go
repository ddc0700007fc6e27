package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalDateOnly(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01"`), &d))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), d.Time)
}

func TestDateUnmarshalTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-09-01T11:30:00Z"`), &d))
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.September, d.Month())
	assert.Equal(t, 1, d.Day())
}

func TestDateUnmarshalGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"99-99-9999"`), &d))
}

func TestDateMarshalDateOnly(t *testing.T) {
	out, err := json.Marshal(NewDate(time.Date(2026, 9, 1, 11, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-01"`, string(out))
}

func TestDateRoundTripInsidePayload(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-09-01"}`), &p))
	assert.False(t, p.Date.IsZero())
}
