package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/realtime"
	"github.com/Dosada05/padel-club/repositories"
	"github.com/google/uuid"
)

// modificationNotice — бронирование можно менять или отменять только пока до
// его начала остаётся больше этого времени.
const modificationNotice = 24 * time.Hour

const maxPlayers = 4

type CreateBookingInput struct {
	CourtID      int      `json:"court_id"`
	Date         string   `json:"date"`
	TimeRange    string   `json:"time_range"` // "HH:MM - HH:MM"
	Players      []string `json:"players"`
	RescheduleID *int     `json:"reschedule_id,omitempty"`
}

type RescheduleBookingInput struct {
	BookingDate string   `json:"booking_date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Players     []string `json:"players,omitempty"`
}

type BookingService interface {
	Create(ctx context.Context, userID int, role models.UserRole, input CreateBookingInput) (*models.Booking, error)
	Reschedule(ctx context.Context, bookingID, userID int, role models.UserRole, input RescheduleBookingInput) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, userID int, role models.UserRole) error
	GetByID(ctx context.Context, bookingID, userID int, role models.UserRole) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo  repositories.BookingRepository
	courtRepo    repositories.CourtRepository
	userRepo     repositories.UserRepository
	availability AvailabilityService
	hub          *realtime.Hub
	emailService *EmailService
	logger       *slog.Logger
	location     *time.Location
	now          func() time.Time // подменяется в тестах
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	courtRepo repositories.CourtRepository,
	userRepo repositories.UserRepository,
	availability AvailabilityService,
	hub *realtime.Hub,
	emailService *EmailService,
	logger *slog.Logger,
	location *time.Location,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		courtRepo:    courtRepo,
		userRepo:     userRepo,
		availability: availability,
		hub:          hub,
		emailService: emailService,
		logger:       logger,
		location:     location,
		now:          time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, userID int, role models.UserRole, input CreateBookingInput) (*models.Booking, error) {
	if _, err := parseDateInLocation(input.Date, s.location); err != nil {
		return nil, err
	}
	start, end, err := parseSlotRange(input.TimeRange)
	if err != nil {
		return nil, err
	}
	if len(input.Players) > maxPlayers {
		return nil, ErrTooManyPlayers
	}

	court, err := s.courtRepo.GetByID(ctx, input.CourtID)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to load court %d: %w", input.CourtID, err)
	}
	if !court.Active {
		return nil, ErrCourtInactive
	}

	// Перенос через POST: существующее бронирование исключается из проверки
	// конфликтов, чтобы его всегда можно было оставить в собственном слоте.
	if input.RescheduleID != nil {
		return s.Reschedule(ctx, *input.RescheduleID, userID, role, RescheduleBookingInput{
			BookingDate: input.Date,
			StartTime:   formatMinutes(start),
			EndTime:     formatMinutes(end),
			Players:     input.Players,
		})
	}

	if err := s.checkConflict(ctx, input.CourtID, input.Date, start, end, nil); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		Reference:   uuid.NewString(),
		CourtID:     input.CourtID,
		UserID:      userID,
		BookingDate: input.Date,
		StartTime:   formatMinutes(start),
		EndTime:     formatMinutes(end),
		Status:      models.BookingConfirmed,
		Players:     input.Players,
	}

	if err := s.bookingRepo.Create(ctx, nil, booking); err != nil {
		// Exclusion constraint закрывает гонку двух одновременных запросов,
		// проскочивших проверку выше: проигравший получает тот же конфликт.
		if errors.Is(err, repositories.ErrBookingConflict) {
			return nil, ErrBookingConflict
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.notifyAvailabilityChanged(ctx, booking.CourtID, booking.BookingDate)
	s.sendConfirmation(ctx, booking, court.Name)

	return booking, nil
}

func (s *bookingService) Reschedule(ctx context.Context, bookingID, userID int, role models.UserRole, input RescheduleBookingInput) (*models.Booking, error) {
	booking, err := s.getOwned(ctx, bookingID, userID, role)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, ErrBookingAlreadyCancelled
	}
	if err := s.checkModifiable(booking); err != nil {
		return nil, err
	}

	if _, err := parseDateInLocation(input.BookingDate, s.location); err != nil {
		return nil, err
	}
	start, err := parseClockMinutes(input.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseClockMinutes(input.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, ErrInvalidTimeRange
	}
	if len(input.Players) > maxPlayers {
		return nil, ErrTooManyPlayers
	}

	if err := s.checkConflict(ctx, booking.CourtID, input.BookingDate, start, end, &booking.ID); err != nil {
		return nil, err
	}

	previousDate := booking.BookingDate

	booking.BookingDate = input.BookingDate
	booking.StartTime = formatMinutes(start)
	booking.EndTime = formatMinutes(end)
	if input.Players != nil {
		booking.Players = input.Players
	}

	if err := s.bookingRepo.UpdateSchedule(ctx, nil, booking); err != nil {
		if errors.Is(err, repositories.ErrBookingConflict) {
			return nil, ErrBookingConflict
		}
		return nil, fmt.Errorf("failed to reschedule booking %d: %w", bookingID, err)
	}

	s.notifyAvailabilityChanged(ctx, booking.CourtID, previousDate)
	if booking.BookingDate != previousDate {
		s.notifyAvailabilityChanged(ctx, booking.CourtID, booking.BookingDate)
	}

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID, userID int, role models.UserRole) error {
	booking, err := s.getOwned(ctx, bookingID, userID, role)
	if err != nil {
		return err
	}
	// Повторная отмена всегда один и тот же отказ, состояние не меняется.
	if booking.Status == models.BookingCancelled {
		return ErrBookingAlreadyCancelled
	}
	if err := s.checkModifiable(booking); err != nil {
		return err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, nil, bookingID, models.BookingCancelled); err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to cancel booking %d: %w", bookingID, err)
	}

	s.notifyAvailabilityChanged(ctx, booking.CourtID, booking.BookingDate)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, bookingID, userID int, role models.UserRole) (*models.Booking, error) {
	return s.getOwned(ctx, bookingID, userID, role)
}

func (s *bookingService) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, repositories.ListBookingsFilter{UserID: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %d: %w", userID, err)
	}
	return bookings, nil
}

func (s *bookingService) getOwned(ctx context.Context, bookingID, userID int, role models.UserRole) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}
	if booking.UserID != userID && role != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}
	return booking, nil
}

// checkConflict реализует проверку existingStart < newEnd && existingEnd > newStart
// по подтверждённым бронированиям корта на дату. exclude — id переносимого
// бронирования: его собственный слот конфликтом не считается.
func (s *bookingService) checkConflict(ctx context.Context, courtID int, date string, start, end int, exclude *int) error {
	existing, err := s.bookingRepo.ListConfirmedByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}
	for _, b := range existing {
		if exclude != nil && b.ID == *exclude {
			continue
		}
		bStart, err := parseClockMinutes(b.StartTime)
		if err != nil {
			return fmt.Errorf("booking %d has malformed start time: %w", b.ID, err)
		}
		bEnd, err := parseClockMinutes(b.EndTime)
		if err != nil {
			return fmt.Errorf("booking %d has malformed end time: %w", b.ID, err)
		}
		if overlaps(start, end, bStart, bEnd) {
			return ErrBookingConflict
		}
	}
	return nil
}

// checkModifiable — правило 24 часов: менять и отменять бронирование можно
// только заранее.
func (s *bookingService) checkModifiable(booking *models.Booking) error {
	start, err := bookingStart(booking.BookingDate, booking.StartTime, s.location)
	if err != nil {
		return fmt.Errorf("booking %d: %w", booking.ID, err)
	}
	if s.now().Add(modificationNotice).After(start) || s.now().Add(modificationNotice).Equal(start) {
		return ErrBookingTooLate
	}
	return nil
}

func (s *bookingService) notifyAvailabilityChanged(ctx context.Context, courtID int, date string) {
	if s.hub == nil {
		return
	}
	availability, err := s.availability.CourtAvailability(ctx, courtID, date)
	if err != nil {
		s.logger.Error("failed to compute availability for broadcast",
			slog.Int("court_id", courtID), slog.String("date", date), slog.Any("error", err))
		return
	}
	s.hub.BroadcastToRoom(fmt.Sprintf("court_%d", courtID), realtime.Event{
		Type:    "AVAILABILITY_UPDATED",
		Payload: availability,
	})
}

func (s *bookingService) sendConfirmation(ctx context.Context, booking *models.Booking, courtName string) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		s.logger.Error("failed to load user for confirmation email",
			slog.Int("booking_id", booking.ID), slog.Any("error", err))
		return
	}
	if err := s.emailService.SendBookingConfirmation(user.Email, booking, courtName); err != nil {
		s.logger.Error("failed to send booking confirmation email",
			slog.Int("booking_id", booking.ID), slog.Any("error", err))
	}
}
