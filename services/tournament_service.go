package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/padel-club/league"
	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/realtime"
	"github.com/Dosada05/padel-club/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int, withDetails bool) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error)
	ChangeStatus(ctx context.Context, id int, newStatus models.TournamentStatus) (*models.Tournament, error)
	RecordMatchResult(ctx context.Context, matchID int, input MatchResultInput) (*models.Match, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ListStandings(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error)
	AutoUpdateTournamentStatusesByDates(ctx context.Context) error
}

type TournamentInput struct {
	Name            string                    `json:"name"`
	Description     *string                   `json:"description,omitempty"`
	Category        models.TournamentCategory `json:"category"`
	RegDate         time.Time                 `json:"reg_date"`
	StartDate       time.Time                 `json:"start_date"`
	EndDate         time.Time                 `json:"end_date"`
	MaxParticipants int                       `json:"max_participants"`
}

type MatchResultInput struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

// Допустимые переходы статусов. Всё остальное отклоняется.
var tournamentStatusTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.StatusSoon:         {models.StatusRegistration, models.StatusCanceled},
	models.StatusRegistration: {models.StatusActive, models.StatusCanceled},
	models.StatusActive:       {models.StatusCompleted, models.StatusCanceled},
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	standingRepo    repositories.TournamentStandingRepository
	hub             *realtime.Hub
	logger          *slog.Logger
	now             func() time.Time
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.TournamentStandingRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
		hub:             hub,
		logger:          logger,
		now:             time.Now,
	}
}

func validateTournamentInput(input TournamentInput) error {
	if input.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if !input.RegDate.Before(input.StartDate) {
		return ErrTournamentInvalidRegDate
	}
	if !input.StartDate.Before(input.EndDate) {
		return ErrTournamentInvalidDateRange
	}
	if input.MaxParticipants <= 0 {
		return ErrTournamentInvalidCapacity
	}
	switch input.Category {
	case models.CategoryOpen, models.CategoryBeginner, models.CategoryIntermediate, models.CategoryAdvanced:
	default:
		return fmt.Errorf("%w: unknown category %q", ErrValidationFailed, input.Category)
	}
	return nil
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:            input.Name,
		Description:     input.Description,
		Category:        input.Category,
		OrganizerID:     organizerID,
		RegDate:         input.RegDate,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Status:          models.StatusSoon,
		MaxParticipants: input.MaxParticipants,
	}
	if !input.RegDate.After(s.now()) {
		// Регистрация уже открыта по датам, нет смысла проходить через soon.
		tournament.Status = models.StatusRegistration
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNameConflict):
			return nil, ErrTournamentNameConflict
		case errors.Is(err, repositories.ErrTournamentInvalidOrg):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка создания турнира: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int, withDetails bool) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if !withDetails {
		return tournament, nil
	}

	participants, err := s.participantRepo.ListByTournament(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки участников турнира %d: %w", id, err)
	}
	for _, p := range participants {
		tournament.Participants = append(tournament.Participants, *p)
	}

	matches, err := s.matchRepo.ListByTournament(ctx, id, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки матчей турнира %d: %w", id, err)
	}
	for _, m := range matches {
		tournament.Matches = append(tournament.Matches, *m)
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) Update(ctx context.Context, id int, input TournamentInput) (*models.Tournament, error) {
	if err := validateTournamentInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if tournament.Status == models.StatusCompleted || tournament.Status == models.StatusCanceled {
		return nil, ErrTournamentInvalidStatusTransition
	}

	tournament.Name = input.Name
	tournament.Description = input.Description
	tournament.Category = input.Category
	tournament.RegDate = input.RegDate
	tournament.StartDate = input.StartDate
	tournament.EndDate = input.EndDate
	tournament.MaxParticipants = input.MaxParticipants

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("ошибка обновления турнира: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) ChangeStatus(ctx context.Context, id int, newStatus models.TournamentStatus) (*models.Tournament, error) {
	tournament, err := s.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range tournamentStatusTransitions[tournament.Status] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrTournamentInvalidStatusTransition
	}

	if newStatus == models.StatusActive {
		if err := s.activate(ctx, tournament); err != nil {
			return nil, err
		}
	} else {
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, newStatus); err != nil {
			return nil, fmt.Errorf("ошибка смены статуса турнира: %w", err)
		}
	}

	tournament.Status = newStatus
	s.hub.BroadcastToRoom(tournamentRoom(id), realtime.Event{
		Type: "TOURNAMENT_STATUS_CHANGED",
		Payload: map[string]interface{}{
			"tournament_id": id,
			"status":        newStatus,
		},
	})
	return tournament, nil
}

// activate переводит турнир в active: генерирует расписание кругового этапа
// и нулевые строки таблицы в одной транзакции.
func (s *tournamentService) activate(ctx context.Context, tournament *models.Tournament) error {
	registered := models.ParticipantRegistered
	participants, err := s.participantRepo.ListByTournament(ctx, tournament.ID, &registered)
	if err != nil {
		return fmt.Errorf("ошибка загрузки участников для старта турнира %d: %w", tournament.ID, err)
	}
	if len(participants) < 2 {
		return ErrTournamentNotEnoughParticipants
	}

	participantIDs := make([]int, 0, len(participants))
	for _, p := range participants {
		participantIDs = append(participantIDs, p.ID)
	}

	pairings, err := league.GenerateRoundRobin(tournament.ID, participantIDs)
	if err != nil {
		return fmt.Errorf("ошибка генерации расписания: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Int("tournament_id", tournament.ID), slog.Any("error", rbErr))
			}
		}
	}()

	// Повторная активация пересоздаёт расписание с нуля.
	if txErr = s.matchRepo.DeleteByTournament(ctx, tx, tournament.ID); txErr != nil {
		return txErr
	}
	if txErr = s.standingRepo.DeleteByTournamentID(ctx, tx, tournament.ID); txErr != nil {
		return txErr
	}

	for _, pairing := range pairings {
		match := &models.Match{
			TournamentID:   tournament.ID,
			UID:            pairing.UID,
			Round:          pairing.Round,
			OrderInRound:   pairing.OrderInRound,
			Participant1ID: pairing.Participant1ID,
			Participant2ID: pairing.Participant2ID,
			Status:         models.MatchScheduled,
		}
		if txErr = s.matchRepo.Create(ctx, tx, match); txErr != nil {
			return fmt.Errorf("ошибка сохранения матча %s: %w", pairing.UID, txErr)
		}
	}

	for _, id := range participantIDs {
		if _, txErr = s.standingRepo.GetOrCreate(ctx, tx, tournament.ID, id); txErr != nil {
			return fmt.Errorf("ошибка инициализации таблицы: %w", txErr)
		}
	}

	if txErr = s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusActive); txErr != nil {
		return txErr
	}

	// Фиксируем транзакцию до сообщений об успехе: неудачный commit
	// означает, что расписание не сохранилось.
	if cErr := tx.Commit(); cErr != nil {
		return fmt.Errorf("failed to commit transaction: %w", cErr)
	}

	s.logger.Info("tournament activated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("participants", len(participantIDs)),
		slog.Int("matches", len(pairings)),
	)
	return nil
}

func (s *tournamentService) RecordMatchResult(ctx context.Context, matchID int, input MatchResultInput) (*models.Match, error) {
	if input.Score1 < 0 || input.Score2 < 0 {
		return nil, fmt.Errorf("%w: scores must be non-negative", ErrValidationFailed)
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Status == models.MatchCompleted {
		return nil, ErrMatchAlreadyCompleted
	}

	tournament, err := s.GetByID(ctx, match.TournamentID, false)
	if err != nil {
		return nil, err
	}
	if tournament.Status != models.StatusActive {
		return nil, ErrTournamentInvalidStatusTransition
	}

	var winnerID *int
	switch {
	case input.Score1 > input.Score2:
		winnerID = &match.Participant1ID
	case input.Score2 > input.Score1:
		winnerID = &match.Participant2ID
	}

	// Таблица пересчитывается целиком по всем сыгранным матчам, включая
	// только что внесённый результат.
	matches, err := s.matchRepo.ListByTournament(ctx, tournament.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки матчей: %w", err)
	}
	playedAt := s.now()
	for _, m := range matches {
		if m.ID == matchID {
			m.Score1 = &input.Score1
			m.Score2 = &input.Score2
			m.Status = models.MatchCompleted
			m.WinnerID = winnerID
			m.PlayedAt = &playedAt
		}
	}

	registered := models.ParticipantRegistered
	participants, err := s.participantRepo.ListByTournament(ctx, tournament.ID, &registered)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки участников: %w", err)
	}
	participantIDs := make([]int, 0, len(participants))
	for _, p := range participants {
		participantIDs = append(participantIDs, p.ID)
	}
	standings := league.Compute(tournament.ID, participantIDs, matches)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	var txErr error
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Int("match_id", matchID), slog.Any("error", rbErr))
			}
		}
	}()

	if txErr = s.matchRepo.RecordResult(ctx, tx, matchID, input.Score1, input.Score2, winnerID, playedAt); txErr != nil {
		return nil, txErr
	}
	for _, computed := range standings {
		var stored *models.TournamentStanding
		stored, txErr = s.standingRepo.GetOrCreate(ctx, tx, tournament.ID, computed.ParticipantID)
		if txErr != nil {
			return nil, txErr
		}
		computed.ID = stored.ID
		if txErr = s.standingRepo.Update(ctx, tx, computed); txErr != nil {
			return nil, txErr
		}
	}

	// Трансляция результата уходит только после подтверждённой записи.
	if cErr := tx.Commit(); cErr != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", cErr)
	}

	match.Score1 = &input.Score1
	match.Score2 = &input.Score2
	match.Status = models.MatchCompleted
	match.WinnerID = winnerID
	match.PlayedAt = &playedAt

	s.hub.BroadcastToRoom(tournamentRoom(tournament.ID), realtime.Event{
		Type: "STANDINGS_UPDATED",
		Payload: map[string]interface{}{
			"tournament_id": tournament.ID,
			"match_id":      matchID,
			"standings":     standings,
		},
	})
	return match, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.GetByID(ctx, tournamentID, false); err != nil {
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, tournamentID, nil)
}

func (s *tournamentService) ListStandings(ctx context.Context, tournamentID int) ([]*models.TournamentStanding, error) {
	if _, err := s.GetByID(ctx, tournamentID, false); err != nil {
		return nil, err
	}

	standings, err := s.standingRepo.ListByTournament(ctx, nil, tournamentID, true)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки таблицы турнира %d: %w", tournamentID, err)
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки участников турнира %d: %w", tournamentID, err)
	}
	byID := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	for _, st := range standings {
		st.Participant = byID[st.ParticipantID]
	}
	return standings, nil
}

// AutoUpdateTournamentStatusesByDates вызывается фоновым планировщиком и
// переводит турниры по их датам: soon -> registration -> active -> completed.
func (s *tournamentService) AutoUpdateTournamentStatusesByDates(ctx context.Context) error {
	currentTime := s.now()
	tournaments, err := s.tournamentRepo.GetTournamentsForAutoStatusUpdate(ctx, nil, currentTime)
	if err != nil {
		return fmt.Errorf("ошибка выборки турниров для автообновления: %w", err)
	}

	for _, t := range tournaments {
		var target models.TournamentStatus
		switch {
		case t.Status == models.StatusSoon && !t.RegDate.After(currentTime):
			target = models.StatusRegistration
		case t.Status == models.StatusRegistration && !t.StartDate.After(currentTime):
			target = models.StatusActive
		case t.Status == models.StatusActive && !t.EndDate.After(currentTime):
			target = models.StatusCompleted
		default:
			continue
		}

		if target == models.StatusActive {
			if err := s.activate(ctx, t); err != nil {
				if errors.Is(err, ErrTournamentNotEnoughParticipants) {
					// Некому играть, автоматически отменяем.
					if cancelErr := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, models.StatusCanceled); cancelErr != nil {
						s.logger.Error("failed to cancel empty tournament", slog.Int("tournament_id", t.ID), slog.Any("error", cancelErr))
					} else {
						s.logger.Info("tournament canceled: not enough participants", slog.Int("tournament_id", t.ID))
					}
					continue
				}
				s.logger.Error("failed to auto-activate tournament", slog.Int("tournament_id", t.ID), slog.Any("error", err))
				continue
			}
		} else {
			if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, target); err != nil {
				s.logger.Error("failed to auto-update tournament status",
					slog.Int("tournament_id", t.ID),
					slog.String("target", string(target)),
					slog.Any("error", err),
				)
				continue
			}
		}

		s.logger.Info("tournament status updated by schedule",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(target)),
		)
		s.hub.BroadcastToRoom(tournamentRoom(t.ID), realtime.Event{
			Type: "TOURNAMENT_STATUS_CHANGED",
			Payload: map[string]interface{}{
				"tournament_id": t.ID,
				"status":        target,
			},
		})
	}
	return nil
}

func tournamentRoom(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}
