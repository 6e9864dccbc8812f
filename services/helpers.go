package services

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseClockMinutes переводит "HH:MM" в минуты с начала суток.
func parseClockMinutes(s string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// parseSlotRange разбирает слот вида "HH:MM - HH:MM" в пару минут [start, end).
func parseSlotRange(slot string) (int, int, error) {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, slot)
	}
	start, err := parseClockMinutes(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseClockMinutes(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeRange, slot)
	}
	return start, end, nil
}

// overlaps — стандартная проверка пересечения полуоткрытых интервалов [aStart,aEnd) и [bStart,bEnd).
func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// parseDateInLocation разбирает YYYY-MM-DD строго в часовом поясе клуба.
// Все сравнения дат и слотов в приложении идут в одной зоне.
func parseDateInLocation(date string, loc *time.Location) (time.Time, error) {
	if date == "" {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}

// bookingStart собирает момент начала бронирования (дата + время) в зоне клуба.
func bookingStart(date, startTime string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+clockLayout, date+" "+strings.TrimSpace(startTime), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking start %q %q: %w", date, startTime, err)
	}
	return t, nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
