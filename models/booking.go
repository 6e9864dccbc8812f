package models

import "time"

// BookingStatus соответствует ENUM booking_status в БД.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking — бронирование корта. Запись никогда не удаляется физически:
// отмена переводит статус в cancelled.
type Booking struct {
	ID          int           `json:"id" db:"id"`
	Reference   string        `json:"reference" db:"reference"`
	CourtID     int           `json:"court_id" db:"court_id"`
	UserID      int           `json:"user_id" db:"user_id"`
	BookingDate string        `json:"booking_date" db:"booking_date"` // YYYY-MM-DD
	StartTime   string        `json:"start_time" db:"start_time"`     // HH:MM
	EndTime     string        `json:"end_time" db:"end_time"`         // HH:MM
	Status      BookingStatus `json:"status" db:"status"`
	Players     []string      `json:"players" db:"players"` // 0..4 имени
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`

	Court *Court `json:"court,omitempty" db:"-"`
	User  *User  `json:"user,omitempty" db:"-"`
}

// TimeSlot — производный тип, нигде не персистится. Вычисляется резолвером
// доступности на каждый запрос заново.
type TimeSlot struct {
	Slot         string `json:"slot"` // "HH:MM - HH:MM"
	StartMinutes int    `json:"-"`
	EndMinutes   int    `json:"-"`
	IsBooked     bool   `json:"is_booked"`
}

// CourtAvailability — расписание одного корта на одну дату.
type CourtAvailability struct {
	Court Court      `json:"court"`
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}
