package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClockTime
		wantErr bool
	}{
		{
			name:  "Should parse a morning time",
			input: "09:05:30",
			want:  ClockTime{Hour: 9, Minute: 5, Second: 30},
		},
		{
			name:  "Should parse midnight",
			input: "00:00:00",
			want:  ClockTime{},
		},
		{
			name:    "Should reject an out-of-range hour",
			input:   "25:00:00",
			wantErr: true,
		},
		{
			name:    "Should reject a time without seconds",
			input:   "09:05",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockTime_On(t *testing.T) {
	clock := ClockTime{Hour: 9, Minute: 45, Second: 0}
	day := time.Date(2024, time.September, 4, 17, 30, 12, 0, time.Local)

	stamped := clock.On(day)
	assert.Equal(t, time.Date(2024, time.September, 4, 9, 45, 0, 0, time.Local), stamped)
}

func TestClockTime_String(t *testing.T) {
	assert.Equal(t, "09:05:03", ClockTime{Hour: 9, Minute: 5, Second: 3}.String())
}
