package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AI2HU/bikeshare/internal/models"
)

func TestBreakdown(t *testing.T) {
	tests := []struct {
		seconds int64
		want    models.DurationBreakdown
	}{
		{0, models.DurationBreakdown{}},
		{59, models.DurationBreakdown{Seconds: 59}},
		{150, models.DurationBreakdown{Minutes: 2, Seconds: 30}},
		{300, models.DurationBreakdown{Minutes: 5}},
		{3661, models.DurationBreakdown{Hours: 1, Minutes: 1, Seconds: 1}},
		{86400, models.DurationBreakdown{Days: 1}},
		{30 * 86400, models.DurationBreakdown{Months: 1}},
		{360 * 86400, models.DurationBreakdown{Years: 1}},
		{
			360*86400 + 2*30*86400 + 3*86400 + 4*3600 + 5*60 + 6,
			models.DurationBreakdown{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 5, Seconds: 6},
		},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.seconds), func(t *testing.T) {
			assert.Equal(t, tt.want, Breakdown(tt.seconds))
		})
	}
}

func TestBreakdownRoundTrip(t *testing.T) {
	for _, seconds := range []int64{0, 1, 61, 3599, 86399, 2591999, 31103999, 280571696, 1 << 40} {
		b := Breakdown(seconds)
		assert.Equal(t, seconds, TotalSeconds(b), "breakdown %+v", b)

		assert.Less(t, b.Seconds, int64(60))
		assert.Less(t, b.Minutes, int64(60))
		assert.Less(t, b.Hours, int64(24))
		assert.Less(t, b.Days, int64(30))
		assert.Less(t, b.Months, int64(12))
	}
}
