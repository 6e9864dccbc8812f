package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotRange(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantStart int
		wantEnd   int
		wantErr   error
	}{
		{name: "обычный слот", input: "09:00 - 10:00", wantStart: 540, wantEnd: 600},
		{name: "без пробелов", input: "10:30-12:00", wantStart: 630, wantEnd: 720},
		{name: "вечерний слот", input: "21:00 - 22:30", wantStart: 1260, wantEnd: 1350},
		{name: "конец раньше начала", input: "11:00 - 10:00", wantErr: ErrInvalidTimeRange},
		{name: "нулевая длительность", input: "10:00 - 10:00", wantErr: ErrInvalidTimeRange},
		{name: "нет разделителя", input: "09:00 10:00", wantErr: ErrInvalidTimeRange},
		{name: "мусор вместо времени", input: "ab:cd - 10:00", wantErr: ErrInvalidTimeRange},
		{name: "пустая строка", input: "", wantErr: ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseSlotRange(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd int
		want                           bool
	}{
		{"полное совпадение", 540, 600, 540, 600, true},
		{"частичное пересечение", 540, 600, 570, 630, true},
		{"вложенный интервал", 540, 660, 570, 600, true},
		{"встык не пересекаются", 540, 600, 600, 660, false},
		{"встык с другой стороны", 600, 660, 540, 600, false},
		{"полностью раздельные", 540, 600, 720, 780, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	day, err := parseDateInLocation("2025-07-15", loc)
	require.NoError(t, err)
	assert.Equal(t, 2025, day.Year())
	assert.Equal(t, time.July, day.Month())
	assert.Equal(t, 15, day.Day())
	assert.Equal(t, loc, day.Location())

	_, err = parseDateInLocation("15.07.2025", loc)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = parseDateInLocation("", loc)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "09:00", formatMinutes(540))
	assert.Equal(t, "00:00", formatMinutes(0))
	assert.Equal(t, "23:30", formatMinutes(1410))
}
