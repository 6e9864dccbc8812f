package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/padel-club/models"
)

// newTestBookingService собирает сервис на фейках. Хаб и почта отключены,
// "сейчас" фиксируется для проверки правила 24 часов.
func newTestBookingService(t *testing.T, courtRepo *fakeCourtRepo, bookingRepo *fakeBookingRepo, now time.Time) *bookingService {
	t.Helper()
	loc := testLocation(t)
	userRepo := newFakeUserRepo(&models.User{ID: 7, Email: "member@club.es", Role: models.RoleMember})
	availability := NewAvailabilityService(courtRepo, bookingRepo, loc)
	svc := &bookingService{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		userRepo:     userRepo,
		availability: availability,
		logger:       slog.Default(),
		location:     loc,
		now:          func() time.Time { return now },
	}
	return svc
}

func defaultCourtRepo() *fakeCourtRepo {
	return newFakeCourtRepo(&models.Court{
		ID:     1,
		Name:   "Центральный",
		Active: true,
		CandidateSlots: []string{
			"09:00 - 10:00",
			"10:00 - 11:00",
			"11:00 - 12:00",
		},
	})
}

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 7, 10, 12, 0, 0, 0, testLocation(t))
}

func TestCreateBooking_Success(t *testing.T) {
	bookingRepo := newFakeBookingRepo()
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	booking, err := svc.Create(context.Background(), 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "09:00 - 10:00",
		Players:   []string{"Ana", "Luis"},
	})
	require.NoError(t, err)

	assert.NotZero(t, booking.ID)
	assert.NotEmpty(t, booking.Reference)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, "09:00", booking.StartTime)
	assert.Equal(t, "10:00", booking.EndTime)
	assert.Equal(t, 7, booking.UserID)
}

// Номер брони — UUID: 36 символов, под ширину колонки reference в схеме.
func TestCreateBooking_ReferenceIsUUID(t *testing.T) {
	svc := newTestBookingService(t, defaultCourtRepo(), newFakeBookingRepo(), fixedNow(t))

	booking, err := svc.Create(context.Background(), 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "09:00 - 10:00",
	})
	require.NoError(t, err)

	parsed, err := uuid.Parse(booking.Reference)
	require.NoError(t, err)
	assert.Equal(t, booking.Reference, parsed.String())
	assert.Len(t, booking.Reference, 36)
}

func TestCreateBooking_OverlapRejected(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      3,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	// 09:30-10:30 пересекает существующее 09:00-10:00.
	_, err := svc.Create(context.Background(), 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "09:30 - 10:30",
	})
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestCreateBooking_BackToBackAllowed(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      3,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	// Интервалы полуоткрытые: 10:00-11:00 встык к 09:00-10:00 не конфликт.
	_, err := svc.Create(context.Background(), 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "10:00 - 11:00",
	})
	assert.NoError(t, err)
}

func TestCreateBooking_Validation(t *testing.T) {
	svc := newTestBookingService(t, defaultCourtRepo(), newFakeBookingRepo(), fixedNow(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, 7, models.RoleMember, CreateBookingInput{CourtID: 1, Date: "июль", TimeRange: "09:00 - 10:00"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Create(ctx, 7, models.RoleMember, CreateBookingInput{CourtID: 1, Date: "2025-07-15", TimeRange: "10:00 - 09:00"})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = svc.Create(ctx, 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "09:00 - 10:00",
		Players:   []string{"a", "b", "c", "d", "e"},
	})
	assert.ErrorIs(t, err, ErrTooManyPlayers)

	_, err = svc.Create(ctx, 7, models.RoleMember, CreateBookingInput{CourtID: 42, Date: "2025-07-15", TimeRange: "09:00 - 10:00"})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

func TestCreateBooking_InactiveCourtRejected(t *testing.T) {
	courtRepo := newFakeCourtRepo(&models.Court{
		ID:             1,
		Active:         false,
		CandidateSlots: []string{"09:00 - 10:00"},
	})
	svc := newTestBookingService(t, courtRepo, newFakeBookingRepo(), fixedNow(t))

	_, err := svc.Create(context.Background(), 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "09:00 - 10:00",
	})
	assert.ErrorIs(t, err, ErrCourtInactive)
}

func TestRescheduleBooking_OwnSlotAllowed(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      7,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	// Перенос в собственный слот не считается конфликтом.
	booking, err := svc.Reschedule(context.Background(), 1, 7, models.RoleMember, RescheduleBookingInput{
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", booking.StartTime)
}

func TestRescheduleBooking_ConflictWithOther(t *testing.T) {
	bookingRepo := newFakeBookingRepo(
		&models.Booking{
			ID: 1, CourtID: 1, UserID: 7,
			BookingDate: "2025-07-15", StartTime: "09:00", EndTime: "10:00",
			Status: models.BookingConfirmed,
		},
		&models.Booking{
			ID: 2, CourtID: 1, UserID: 3,
			BookingDate: "2025-07-15", StartTime: "11:00", EndTime: "12:00",
			Status: models.BookingConfirmed,
		},
	)
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	_, err := svc.Reschedule(context.Background(), 1, 7, models.RoleMember, RescheduleBookingInput{
		BookingDate: "2025-07-15",
		StartTime:   "11:00",
		EndTime:     "12:00",
	})
	assert.ErrorIs(t, err, ErrBookingConflict)
}

func TestRescheduleBooking_TooLate(t *testing.T) {
	// До начала бронирования 10 часов, переносить уже нельзя.
	now := time.Date(2025, 7, 14, 23, 0, 0, 0, testLocation(t))
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      7,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, now)

	_, err := svc.Reschedule(context.Background(), 1, 7, models.RoleMember, RescheduleBookingInput{
		BookingDate: "2025-07-16",
		StartTime:   "09:00",
		EndTime:     "10:00",
	})
	assert.ErrorIs(t, err, ErrBookingTooLate)
}

func TestRescheduleBooking_MoreThan24hAllowed(t *testing.T) {
	// До начала 30 часов, перенос разрешён.
	now := time.Date(2025, 7, 14, 3, 0, 0, 0, testLocation(t))
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      7,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, now)

	_, err := svc.Reschedule(context.Background(), 1, 7, models.RoleMember, RescheduleBookingInput{
		BookingDate: "2025-07-16",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	assert.NoError(t, err)
}

func TestRescheduleBooking_ForeignBookingForbidden(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      3,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	_, err := svc.Reschedule(context.Background(), 1, 7, models.RoleMember, RescheduleBookingInput{
		BookingDate: "2025-07-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	// Админ может управлять чужим бронированием.
	_, err = svc.Reschedule(context.Background(), 1, 99, models.RoleAdmin, RescheduleBookingInput{
		BookingDate: "2025-07-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	assert.NoError(t, err)
}

// Перенос через POST с reschedule_id учитывает роль вызывающего:
// админ переносит чужое бронирование так же, как через PUT.
func TestCreateBooking_AdminReschedulesForeignBooking(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      7,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))
	rescheduleID := 1

	// Участник не может перенести чужое бронирование.
	_, err := svc.Create(context.Background(), 99, models.RoleMember, CreateBookingInput{
		CourtID:      1,
		Date:         "2025-07-15",
		TimeRange:    "11:00 - 12:00",
		RescheduleID: &rescheduleID,
	})
	assert.ErrorIs(t, err, ErrForbiddenOperation)

	// Админ — может.
	moved, err := svc.Create(context.Background(), 99, models.RoleAdmin, CreateBookingInput{
		CourtID:      1,
		Date:         "2025-07-15",
		TimeRange:    "11:00 - 12:00",
		RescheduleID: &rescheduleID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, moved.ID)
	assert.Equal(t, "11:00", moved.StartTime)
	assert.Equal(t, "12:00", moved.EndTime)
}

func TestCancelBooking(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      7,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, 1, 7, models.RoleMember))

	stored, err := bookingRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)

	// Повторная отмена отклоняется, состояние не меняется.
	err = svc.Cancel(ctx, 1, 7, models.RoleMember)
	assert.ErrorIs(t, err, ErrBookingAlreadyCancelled)

	stored, err = bookingRepo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, stored.Status)
}

func TestCancelBooking_TooLate(t *testing.T) {
	now := time.Date(2025, 7, 15, 8, 0, 0, 0, testLocation(t))
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      7,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingConfirmed,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, now)

	err := svc.Cancel(context.Background(), 1, 7, models.RoleMember)
	assert.ErrorIs(t, err, ErrBookingTooLate)
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	bookingRepo := newFakeBookingRepo(&models.Booking{
		ID:          1,
		CourtID:     1,
		UserID:      3,
		BookingDate: "2025-07-15",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Status:      models.BookingCancelled,
	})
	svc := newTestBookingService(t, defaultCourtRepo(), bookingRepo, fixedNow(t))

	// Отменённое бронирование не блокирует слот для нового.
	_, err := svc.Create(context.Background(), 7, models.RoleMember, CreateBookingInput{
		CourtID:   1,
		Date:      "2025-07-15",
		TimeRange: "09:00 - 10:00",
	})
	assert.NoError(t, err)
}
