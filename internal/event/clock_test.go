package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSeconds(t *testing.T) {
	tests := []struct {
		name          string
		period        int
		periodSeconds int
		want          int
	}{
		{"opening faceoff", 1, 0, 0},
		{"first period", 1, 754, 754},
		{"second period start", 2, 0, 1200},
		{"third period", 3, 1000, 3400},
		{"overtime", 4, 125, 3725},
		{"shootout pinned", 5, 0, 3900},
		{"shootout ignores clock", 5, 44, 3900},
		{"later shootout rounds", 6, 10, 3900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GameSeconds(tt.period, tt.periodSeconds))
		})
	}
}

func TestGameSecondsMonotonic(t *testing.T) {
	prev := -1
	for period := 1; period <= 4; period++ {
		for s := 0; s <= PeriodLength; s += 30 {
			gs := GameSeconds(period, s)
			assert.GreaterOrEqual(t, gs, prev)
			prev = gs
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0:00", 0, false},
		{"3:00", 180, false},
		{"12:34", 754, false},
		{"20:00", 1200, false},
		{"-1:05", 65, false},
		{"", 0, false},
		{"12", 0, true},
		{"a:10", 0, true},
		{"1:75", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "1:05", FormatClock(65))
	assert.Equal(t, "9:59", FormatClock(599))
	assert.Equal(t, "10:00", FormatClock(600))
	assert.Equal(t, "20:00", FormatClock(1200))
	assert.Equal(t, "0:00", FormatClock(-4))
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 3 ", 3, false},
		{"", 1, false},
		{"OT", 4, false},
		{"SO", 5, false},
		{"Per", 0, true},
		{"0", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
