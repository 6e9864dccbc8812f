package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/realtime"
)

// Драйвер, у которого любая транзакция падает на commit. Репозитории в
// тестах фейковые и exec игнорируют, поэтому из соединения реально
// дёргаются только Begin, Commit и Rollback.
type commitFailDriver struct{}

func (commitFailDriver) Open(string) (driver.Conn, error) { return commitFailConn{}, nil }

type commitFailConn struct{}

func (commitFailConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}
func (commitFailConn) Close() error              { return nil }
func (commitFailConn) Begin() (driver.Tx, error) { return commitFailTx{}, nil }

type commitFailTx struct{}

func (commitFailTx) Commit() error   { return errors.New("commit failed") }
func (commitFailTx) Rollback() error { return nil }

var registerCommitFailDriverOnce sync.Once

func openCommitFailDB(t *testing.T) *sql.DB {
	t.Helper()
	registerCommitFailDriverOnce.Do(func() {
		sql.Register("commit-fail", commitFailDriver{})
	})
	db, err := sql.Open("commit-fail", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTxTestTournamentService(
	t *testing.T,
	tournamentRepo *fakeTournamentRepo,
	participantRepo *fakeParticipantRepo,
	matchRepo *fakeMatchRepo,
	standingRepo *fakeStandingRepo,
) *tournamentService {
	return &tournamentService{
		db:              openCommitFailDB(t),
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		standingRepo:    standingRepo,
		hub:             realtime.NewHub(),
		logger:          slog.Default(),
		now:             time.Now,
	}
}

func TestActivate_FailedCommitReturnsError(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(&models.Tournament{
		ID:     1,
		Name:   "Лига",
		Status: models.StatusRegistration,
	})
	participantRepo := newFakeParticipantRepo(
		&models.Participant{ID: 1, UserID: 7, TournamentID: 1, Status: models.ParticipantRegistered},
		&models.Participant{ID: 2, UserID: 8, TournamentID: 1, Status: models.ParticipantRegistered},
	)
	svc := newTxTestTournamentService(t, tournamentRepo, participantRepo, newFakeMatchRepo(), newFakeStandingRepo())

	tournament, err := svc.ChangeStatus(context.Background(), 1, models.StatusActive)
	require.Error(t, err)
	assert.ErrorContains(t, err, "commit")
	assert.Nil(t, tournament)
}

func TestRecordMatchResult_FailedCommitReturnsError(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(&models.Tournament{
		ID:     1,
		Name:   "Лига",
		Status: models.StatusActive,
	})
	participantRepo := newFakeParticipantRepo(
		&models.Participant{ID: 1, UserID: 7, TournamentID: 1, Status: models.ParticipantRegistered},
		&models.Participant{ID: 2, UserID: 8, TournamentID: 1, Status: models.ParticipantRegistered},
	)
	matchRepo := newFakeMatchRepo(&models.Match{
		ID:             1,
		TournamentID:   1,
		UID:            "t1-r1-o1",
		Round:          1,
		OrderInRound:   1,
		Participant1ID: 1,
		Participant2ID: 2,
		Status:         models.MatchScheduled,
	})
	svc := newTxTestTournamentService(t, tournamentRepo, participantRepo, matchRepo, newFakeStandingRepo())

	match, err := svc.RecordMatchResult(context.Background(), 1, MatchResultInput{Score1: 6, Score2: 3})
	require.Error(t, err)
	assert.ErrorContains(t, err, "commit")
	assert.Nil(t, match)
}
