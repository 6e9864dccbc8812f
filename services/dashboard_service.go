package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/repositories"
	"github.com/Dosada05/padel-club/weather"
)

type DashboardService interface {
	GetDashboard(ctx context.Context) (*models.Dashboard, error)
}

type dashboardService struct {
	userRepo       repositories.UserRepository
	courtRepo      repositories.CourtRepository
	bookingRepo    repositories.BookingRepository
	tournamentRepo repositories.TournamentRepository
	standingRepo   repositories.TournamentStandingRepository
	availability   AvailabilityService
	weather        *weather.Client
	logger         *slog.Logger
	location       *time.Location
	now            func() time.Time
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	courtRepo repositories.CourtRepository,
	bookingRepo repositories.BookingRepository,
	tournamentRepo repositories.TournamentRepository,
	standingRepo repositories.TournamentStandingRepository,
	availability AvailabilityService,
	weatherClient *weather.Client,
	logger *slog.Logger,
	location *time.Location,
) DashboardService {
	return &dashboardService{
		userRepo:       userRepo,
		courtRepo:      courtRepo,
		bookingRepo:    bookingRepo,
		tournamentRepo: tournamentRepo,
		standingRepo:   standingRepo,
		availability:   availability,
		weather:        weatherClient,
		logger:         logger,
		location:       location,
		now:            time.Now,
	}
}

// GetDashboard собирает все блоки главного экрана параллельно. Погода и
// таблица лиги не валят весь ответ: виджеты без данных просто пустые.
func (s *dashboardService) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	dashboard := &models.Dashboard{}
	today := s.now().In(s.location).Format(dateLayout)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		memberRole := models.RoleMember
		count, err := s.userRepo.Count(gCtx, &memberRole)
		if err != nil {
			return err
		}
		dashboard.Stats.MembersTotal = count
		return nil
	})

	g.Go(func() error {
		count, err := s.courtRepo.Count(gCtx, true)
		if err != nil {
			return err
		}
		dashboard.Stats.CourtsTotal = count
		return nil
	})

	g.Go(func() error {
		confirmed := models.BookingConfirmed
		count, err := s.bookingRepo.CountByDate(gCtx, today, &confirmed)
		if err != nil {
			return err
		}
		dashboard.Stats.BookingsToday = count
		return nil
	})

	g.Go(func() error {
		active := models.StatusActive
		count, err := s.tournamentRepo.Count(gCtx, &active)
		if err != nil {
			return err
		}
		dashboard.Stats.ActiveTournaments = count
		return nil
	})

	g.Go(func() error {
		availability, err := s.availability.ClubAvailability(gCtx, today)
		if err != nil {
			return err
		}
		dashboard.Availability = availability
		return nil
	})

	g.Go(func() error {
		standings, err := s.leagueStandings(gCtx)
		if err != nil {
			s.logger.Warn("dashboard: standings unavailable", slog.Any("error", err))
			return nil
		}
		dashboard.Standings = standings
		return nil
	})

	g.Go(func() error {
		if s.weather == nil {
			return nil
		}
		snapshot, err := s.weather.Current(gCtx)
		if err != nil {
			s.logger.Warn("dashboard: weather unavailable", slog.Any("error", err))
			return nil
		}
		dashboard.Weather = snapshot
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// leagueStandings возвращает таблицу самого свежего активного турнира.
func (s *dashboardService) leagueStandings(ctx context.Context) ([]models.TournamentStanding, error) {
	active := models.StatusActive
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Status: &active,
		Limit:  1,
	})
	if err != nil {
		return nil, err
	}
	if len(tournaments) == 0 {
		return nil, nil
	}

	rows, err := s.standingRepo.ListByTournament(ctx, nil, tournaments[0].ID, true)
	if err != nil {
		return nil, err
	}
	standings := make([]models.TournamentStanding, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, *row)
	}
	return standings, nil
}
