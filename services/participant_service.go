package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/repositories"
)

type ParticipantService interface {
	Register(ctx context.Context, userID, tournamentID int) (*models.Participant, error)
	Withdraw(ctx context.Context, userID, tournamentID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		logger:          logger,
	}
}

func (s *participantService) Register(ctx context.Context, userID, tournamentID int) (*models.Participant, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrRegistrationNotOpen
	}

	count, err := s.participantRepo.CountByTournament(ctx, tournamentID, models.ParticipantRegistered)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта участников: %w", err)
	}
	if count >= tournament.MaxParticipants {
		return nil, ErrTournamentFull
	}

	// Повторная регистрация после отказа возвращает прежнюю запись в строй.
	existing, err := s.participantRepo.FindByUserAndTournament(ctx, userID, tournamentID)
	if err != nil && !errors.Is(err, repositories.ErrParticipantNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == models.ParticipantRegistered {
			return nil, ErrRegistrationConflict
		}
		if err := s.participantRepo.UpdateStatus(ctx, existing.ID, models.ParticipantRegistered); err != nil {
			return nil, fmt.Errorf("ошибка повторной регистрации: %w", err)
		}
		existing.Status = models.ParticipantRegistered
		return existing, nil
	}

	participant := &models.Participant{
		UserID:       userID,
		TournamentID: tournamentID,
		Status:       models.ParticipantRegistered,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrParticipantUserInvalid):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrParticipantTournamentInvalid):
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("ошибка регистрации участника: %w", err)
	}

	s.logger.Info("participant registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", userID),
	)
	return participant, nil
}

func (s *participantService) Withdraw(ctx context.Context, userID, tournamentID int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	// После старта состав зафиксирован расписанием матчей.
	if tournament.Status != models.StatusRegistration && tournament.Status != models.StatusSoon {
		return ErrRegistrationNotOpen
	}

	participant, err := s.participantRepo.FindByUserAndTournament(ctx, userID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	if participant.Status == models.ParticipantWithdrawn {
		return ErrParticipantNotFound
	}

	if err := s.participantRepo.UpdateStatus(ctx, participant.ID, models.ParticipantWithdrawn); err != nil {
		return fmt.Errorf("ошибка отмены регистрации: %w", err)
	}

	s.logger.Info("participant withdrawn",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", userID),
	)
	return nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	registered := models.ParticipantRegistered
	return s.participantRepo.ListByTournament(ctx, tournamentID, &registered)
}
