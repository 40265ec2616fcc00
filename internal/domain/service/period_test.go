package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestComputePeriod(t *testing.T) {
	anchor := date(2024, time.September, 2) // a Monday

	type args struct {
		numberOfPeriods    int
		periodDurationDays int
		anchor             time.Time
		today              time.Time
	}
	tests := []struct {
		name    string
		args    args
		want    int
		wantErr bool
	}{
		{
			name: "Should return 1 on the anchor date itself",
			args: args{4, 7, anchor, anchor},
			want: 1,
		},
		{
			name: "Should return the largest divisor of the cycle index",
			args: args{4, 7, anchor, anchor.AddDate(0, 0, 14)}, // cycle 3
			want: 3,
		},
		{
			name: "Should return 2 in the second week of a two-week rotation",
			args: args{2, 7, anchor, anchor.AddDate(0, 0, 7)}, // cycle 2
			want: 2,
		},
		{
			name: "Should return 4 when the cycle index is divisible by 4",
			args: args{4, 7, anchor, anchor.AddDate(0, 0, 21)}, // cycle 4
			want: 4,
		},
		{
			name: "Should fall back to 1 for a prime cycle above the period count",
			args: args{4, 7, anchor, anchor.AddDate(0, 0, 28)}, // cycle 5
			want: 1,
		},
		{
			name: "Should ignore the time of day within the same duration window",
			args: args{2, 7, anchor, anchor.AddDate(0, 0, 6)}, // cycle 1
			want: 1,
		},
		{
			name: "Should always return 1 for a single-period rotation",
			args: args{1, 1, anchor, anchor.AddDate(0, 0, 100)},
			want: 1,
		},
		{
			name:    "Should fail when the anchor is after today",
			args:    args{4, 7, anchor, anchor.AddDate(0, 0, -1)},
			wantErr: true,
		},
		{
			name:    "Should fail for zero periods",
			args:    args{0, 7, anchor, anchor},
			wantErr: true,
		},
		{
			name:    "Should fail for zero period duration",
			args:    args{4, 0, anchor, anchor},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePeriod(tt.args.numberOfPeriods, tt.args.periodDurationDays, tt.args.anchor, tt.args.today)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputePeriod_AlwaysInRange(t *testing.T) {
	anchor := date(2024, time.January, 1)

	for numberOfPeriods := 1; numberOfPeriods <= 6; numberOfPeriods++ {
		for duration := 1; duration <= 10; duration++ {
			for days := 0; days <= 60; days++ {
				got, err := ComputePeriod(numberOfPeriods, duration, anchor, anchor.AddDate(0, 0, days))
				require.NoError(t, err)
				assert.GreaterOrEqual(t, got, 1)
				assert.LessOrEqual(t, got, numberOfPeriods)
			}
		}
	}
}

func TestComputePeriod_IgnoresTimeOfDay(t *testing.T) {
	anchor := date(2024, time.September, 2)
	lateToday := time.Date(2024, time.September, 9, 23, 59, 59, 0, time.Local)

	got, err := ComputePeriod(2, 7, anchor, lateToday)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}
