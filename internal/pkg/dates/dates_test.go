package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", d.String())
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), d.Time())

	for _, bad := range []string{"", "05-01-2024", "2024/01/05", "2024-13-01", "yesterday"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestFromTimeTruncates(t *testing.T) {
	late := time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, New(2024, time.January, 5), FromTime(late))

	// Truncation happens in UTC, not the source zone.
	est := time.FixedZone("EST", -5*3600)
	evening := time.Date(2024, 1, 5, 22, 0, 0, 0, est) // 03:00 UTC next day
	assert.Equal(t, New(2024, time.January, 6), FromTime(evening))
}

func TestComparisons(t *testing.T) {
	a := New(2024, time.January, 5)
	b := New(2024, time.January, 6)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(New(2024, time.January, 5)))
	assert.False(t, a.Equal(b))

	assert.True(t, a.AddDays(1).Equal(b))
	assert.True(t, b.AddDays(-1).Equal(a))
	// Month rollover.
	assert.Equal(t, "2024-02-01", New(2024, time.January, 31).AddDays(1).String())
}

func TestJSONRoundTrip(t *testing.T) {
	type doc struct {
		Day Date `json:"day"`
	}

	out, err := json.Marshal(doc{Day: New(2024, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-01-05"}`, string(out))

	var in doc
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-03-09"}`), &in))
	assert.True(t, in.Day.Equal(New(2024, time.March, 9)))

	assert.Error(t, json.Unmarshal([]byte(`{"day":"not-a-date"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"day":20240309}`), &in))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "1230", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockOf(t *testing.T) {
	assert.Equal(t, "09:05", ClockOf(time.Date(2024, 1, 5, 9, 5, 0, 0, time.UTC)))

	est := time.FixedZone("EST", -5*3600)
	assert.Equal(t, "14:30", ClockOf(time.Date(2024, 1, 5, 9, 30, 0, 0, est)))
}
