package services

import (
	"context"
	"time"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/repositories"
)

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo(tournaments ...*models.Tournament) *fakeTournamentRepo {
	repo := &fakeTournamentRepo{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		repo.tournaments[t.ID] = t
	}
	return repo
}

func (f *fakeTournamentRepo) Create(ctx context.Context, tournament *models.Tournament) error {
	for _, existing := range f.tournaments {
		if existing.Name == tournament.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	tournament.ID = len(f.tournaments) + 1
	f.tournaments[tournament.ID] = tournament
	return nil
}

func (f *fakeTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *tournament
	return &copied, nil
}

func (f *fakeTournamentRepo) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	var out []models.Tournament
	for id := 1; id <= len(f.tournaments); id++ {
		t, ok := f.tournaments[id]
		if !ok {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) Update(ctx context.Context, tournament *models.Tournament) error {
	if _, ok := f.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	f.tournaments[tournament.ID] = tournament
	return nil
}

func (f *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	tournament, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.Status = status
	return nil
}

func (f *fakeTournamentRepo) GetTournamentsForAutoStatusUpdate(ctx context.Context, exec repositories.SQLExecutor, currentTime time.Time) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range f.tournaments {
		if t.Status == models.StatusCompleted || t.Status == models.StatusCanceled {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTournamentRepo) Count(ctx context.Context, status *models.TournamentStatus) (int, error) {
	n := 0
	for _, t := range f.tournaments {
		if status != nil && t.Status != *status {
			continue
		}
		n++
	}
	return n, nil
}

type fakeParticipantRepo struct {
	participants map[int]*models.Participant
}

func newFakeParticipantRepo(participants ...*models.Participant) *fakeParticipantRepo {
	repo := &fakeParticipantRepo{participants: make(map[int]*models.Participant)}
	for _, p := range participants {
		repo.participants[p.ID] = p
	}
	return repo
}

func (f *fakeParticipantRepo) Create(ctx context.Context, p *models.Participant) error {
	for _, existing := range f.participants {
		if existing.UserID == p.UserID && existing.TournamentID == p.TournamentID {
			return repositories.ErrParticipantConflict
		}
	}
	p.ID = len(f.participants) + 1
	f.participants[p.ID] = p
	return nil
}

func (f *fakeParticipantRepo) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParticipantRepo) FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Participant, error) {
	for _, p := range f.participants {
		if p.UserID == userID && p.TournamentID == tournamentID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (f *fakeParticipantRepo) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error) {
	var out []*models.Participant
	for id := 1; id <= len(f.participants); id++ {
		p, ok := f.participants[id]
		if !ok || p.TournamentID != tournamentID {
			continue
		}
		if statusFilter != nil && p.Status != *statusFilter {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeParticipantRepo) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	p, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Status = status
	return nil
}

func (f *fakeParticipantRepo) CountByTournament(ctx context.Context, tournamentID int, status models.ParticipantStatus) (int, error) {
	n := 0
	for _, p := range f.participants {
		if p.TournamentID == tournamentID && p.Status == status {
			n++
		}
	}
	return n, nil
}

// Фейки матчей и таблицы игнорируют exec: транзакционность проверяется
// отдельно, через драйвер с ломающимся commit.
type fakeMatchRepo struct {
	matches map[int]*models.Match
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, m := range matches {
		repo.matches[m.ID] = m
	}
	return repo
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(f.matches) + 1
	f.matches[match.ID] = match
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeMatchRepo) ListByTournament(ctx context.Context, tournamentID int, status *models.MatchStatus) ([]*models.Match, error) {
	var out []*models.Match
	for id := 1; id <= len(f.matches); id++ {
		m, ok := f.matches[id]
		if !ok || m.TournamentID != tournamentID {
			continue
		}
		if status != nil && m.Status != *status {
			continue
		}
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeMatchRepo) RecordResult(ctx context.Context, exec repositories.SQLExecutor, id int, score1, score2 int, winnerID *int, playedAt time.Time) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Score1 = &score1
	m.Score2 = &score2
	m.WinnerID = winnerID
	m.Status = models.MatchCompleted
	m.PlayedAt = &playedAt
	return nil
}

func (f *fakeMatchRepo) DeleteByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, m := range f.matches {
		if m.TournamentID == tournamentID {
			delete(f.matches, id)
		}
	}
	return nil
}

type fakeStandingRepo struct {
	standings map[int]*models.TournamentStanding
}

func newFakeStandingRepo() *fakeStandingRepo {
	return &fakeStandingRepo{standings: make(map[int]*models.TournamentStanding)}
}

func (f *fakeStandingRepo) GetOrCreate(ctx context.Context, exec repositories.SQLExecutor, tournamentID, participantID int) (*models.TournamentStanding, error) {
	for _, s := range f.standings {
		if s.TournamentID == tournamentID && s.ParticipantID == participantID {
			copied := *s
			return &copied, nil
		}
	}
	standing := &models.TournamentStanding{
		ID:            len(f.standings) + 1,
		TournamentID:  tournamentID,
		ParticipantID: participantID,
	}
	f.standings[standing.ID] = standing
	copied := *standing
	return &copied, nil
}

func (f *fakeStandingRepo) Update(ctx context.Context, exec repositories.SQLExecutor, standing *models.TournamentStanding) error {
	if _, ok := f.standings[standing.ID]; !ok {
		return repositories.ErrTournamentStandingNotFound
	}
	copied := *standing
	f.standings[standing.ID] = &copied
	return nil
}

func (f *fakeStandingRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, sortByRank bool) ([]*models.TournamentStanding, error) {
	var out []*models.TournamentStanding
	for id := 1; id <= len(f.standings); id++ {
		s, ok := f.standings[id]
		if !ok || s.TournamentID != tournamentID {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStandingRepo) DeleteByTournamentID(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	for id, s := range f.standings {
		if s.TournamentID == tournamentID {
			delete(f.standings, id)
		}
	}
	return nil
}
