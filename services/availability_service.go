package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/repositories"
	"golang.org/x/sync/errgroup"
)

// AvailabilityService вычисляет, какие слоты корта свободны на дату.
// Слоты нигде не кэшируются и не персистятся: каждый вызов строит их заново
// из candidate_slots корта и подтверждённых бронирований.
type AvailabilityService interface {
	CourtAvailability(ctx context.Context, courtID int, date string) (*models.CourtAvailability, error)
	ClubAvailability(ctx context.Context, date string) ([]models.CourtAvailability, error)
}

type availabilityService struct {
	courtRepo   repositories.CourtRepository
	bookingRepo repositories.BookingRepository
	location    *time.Location
}

func NewAvailabilityService(
	courtRepo repositories.CourtRepository,
	bookingRepo repositories.BookingRepository,
	location *time.Location,
) AvailabilityService {
	return &availabilityService{
		courtRepo:   courtRepo,
		bookingRepo: bookingRepo,
		location:    location,
	}
}

func (s *availabilityService) CourtAvailability(ctx context.Context, courtID int, date string) (*models.CourtAvailability, error) {
	if _, err := parseDateInLocation(date, s.location); err != nil {
		return nil, err
	}

	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to load court %d: %w", courtID, err)
	}

	bookings, err := s.bookingRepo.ListConfirmedByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for court %d on %s: %w", courtID, date, err)
	}

	slots, err := resolveSlots(court.CandidateSlots, bookings)
	if err != nil {
		return nil, err
	}

	return &models.CourtAvailability{
		Court: *court,
		Date:  date,
		Slots: slots,
	}, nil
}

// ClubAvailability строит расписание всех активных кортов на дату.
// Бронирования по кортам выбираются параллельно; любая ошибка отменяет
// весь запрос — частичных результатов не бывает.
func (s *availabilityService) ClubAvailability(ctx context.Context, date string) ([]models.CourtAvailability, error) {
	if _, err := parseDateInLocation(date, s.location); err != nil {
		return nil, err
	}

	courts, err := s.courtRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}

	results := make([]models.CourtAvailability, len(courts))
	g, gctx := errgroup.WithContext(ctx)
	for i := range courts {
		i := i
		court := courts[i]
		g.Go(func() error {
			bookings, err := s.bookingRepo.ListConfirmedByCourtAndDate(gctx, court.ID, date)
			if err != nil {
				return fmt.Errorf("failed to load bookings for court %d on %s: %w", court.ID, date, err)
			}
			slots, err := resolveSlots(court.CandidateSlots, bookings)
			if err != nil {
				return err
			}
			results[i] = models.CourtAvailability{Court: court, Date: date, Slots: slots}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// resolveSlots отмечает кандидатные слоты занятыми по правилу пересечения
// полуоткрытых интервалов: slotStart < bookingEnd && slotEnd > bookingStart.
// Результат отсортирован по возрастанию времени начала.
func resolveSlots(candidateSlots []string, bookings []models.Booking) ([]models.TimeSlot, error) {
	type interval struct{ start, end int }
	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		start, err := parseClockMinutes(b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("booking %d has malformed start time: %w", b.ID, err)
		}
		end, err := parseClockMinutes(b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking %d has malformed end time: %w", b.ID, err)
		}
		busy = append(busy, interval{start: start, end: end})
	}

	slots := make([]models.TimeSlot, 0, len(candidateSlots))
	for _, candidate := range candidateSlots {
		start, end, err := parseSlotRange(candidate)
		if err != nil {
			return nil, fmt.Errorf("court has malformed candidate slot %q: %w", candidate, err)
		}

		slot := models.TimeSlot{
			Slot:         candidate,
			StartMinutes: start,
			EndMinutes:   end,
		}
		for _, b := range busy {
			if overlaps(start, end, b.start, b.end) {
				slot.IsBooked = true
				break
			}
		}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartMinutes < slots[j].StartMinutes
	})
	return slots, nil
}
