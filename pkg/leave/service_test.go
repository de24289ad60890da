package leave

import (
	"testing"
	"time"
)

func TestDaysCountInclusive(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "single day",
			start: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			want:  1,
		},
		{
			name:  "full week",
			start: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
			want:  7,
		},
		{
			name:  "month boundary",
			start: time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC),
			want:  4,
		},
		{
			name:  "ignores time of day",
			start: time.Date(2025, 6, 2, 23, 45, 0, 0, time.UTC),
			end:   time.Date(2025, 6, 4, 1, 0, 0, 0, time.UTC),
			want:  3,
		},
		{
			name:  "across dst change",
			start: time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			want:  4,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DaysCount(c.start, c.end); got != c.want {
				t.Errorf("DaysCount(%s, %s) = %d, want %d",
					c.start.Format("2006-01-02"), c.end.Format("2006-01-02"), got, c.want)
			}
		})
	}
}
