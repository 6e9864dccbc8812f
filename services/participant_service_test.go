package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/padel-club/models"
)

func openTournament(id, maxParticipants int) *models.Tournament {
	return &models.Tournament{
		ID:              id,
		Name:            "Летняя лига",
		Status:          models.StatusRegistration,
		MaxParticipants: maxParticipants,
		RegDate:         time.Now().Add(-24 * time.Hour),
		StartDate:       time.Now().Add(7 * 24 * time.Hour),
		EndDate:         time.Now().Add(14 * 24 * time.Hour),
	}
}

func TestRegisterParticipant_Success(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(openTournament(1, 8))
	participantRepo := newFakeParticipantRepo()
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())

	participant, err := svc.Register(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, 7, participant.UserID)
	assert.Equal(t, 1, participant.TournamentID)
	assert.Equal(t, models.ParticipantRegistered, participant.Status)
}

func TestRegisterParticipant_DuplicateRejected(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(openTournament(1, 8))
	participantRepo := newFakeParticipantRepo(&models.Participant{
		ID: 1, UserID: 7, TournamentID: 1, Status: models.ParticipantRegistered,
	})
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())

	_, err := svc.Register(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrRegistrationConflict)
}

func TestRegisterParticipant_ReactivatesWithdrawn(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(openTournament(1, 8))
	participantRepo := newFakeParticipantRepo(&models.Participant{
		ID: 1, UserID: 7, TournamentID: 1, Status: models.ParticipantWithdrawn,
	})
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())

	participant, err := svc.Register(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, participant.ID)
	assert.Equal(t, models.ParticipantRegistered, participant.Status)
}

func TestRegisterParticipant_RegistrationClosed(t *testing.T) {
	tournament := openTournament(1, 8)
	tournament.Status = models.StatusActive
	tournamentRepo := newFakeTournamentRepo(tournament)
	svc := NewParticipantService(newFakeParticipantRepo(), tournamentRepo, slog.Default())

	_, err := svc.Register(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrRegistrationNotOpen)
}

func TestRegisterParticipant_TournamentFull(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(openTournament(1, 2))
	participantRepo := newFakeParticipantRepo(
		&models.Participant{ID: 1, UserID: 1, TournamentID: 1, Status: models.ParticipantRegistered},
		&models.Participant{ID: 2, UserID: 2, TournamentID: 1, Status: models.ParticipantRegistered},
	)
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())

	_, err := svc.Register(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrTournamentFull)
}

func TestRegisterParticipant_WithdrawnDoesNotCountTowardsCapacity(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(openTournament(1, 2))
	participantRepo := newFakeParticipantRepo(
		&models.Participant{ID: 1, UserID: 1, TournamentID: 1, Status: models.ParticipantRegistered},
		&models.Participant{ID: 2, UserID: 2, TournamentID: 1, Status: models.ParticipantWithdrawn},
	)
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())

	_, err := svc.Register(context.Background(), 7, 1)
	assert.NoError(t, err)
}

func TestRegisterParticipant_TournamentNotFound(t *testing.T) {
	svc := NewParticipantService(newFakeParticipantRepo(), newFakeTournamentRepo(), slog.Default())

	_, err := svc.Register(context.Background(), 7, 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestWithdrawParticipant(t *testing.T) {
	tournamentRepo := newFakeTournamentRepo(openTournament(1, 8))
	participantRepo := newFakeParticipantRepo(&models.Participant{
		ID: 1, UserID: 7, TournamentID: 1, Status: models.ParticipantRegistered,
	})
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())
	ctx := context.Background()

	require.NoError(t, svc.Withdraw(ctx, 7, 1))

	stored, err := participantRepo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantWithdrawn, stored.Status)

	// Повторный отказ от уже снятой регистрации.
	err = svc.Withdraw(ctx, 7, 1)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestWithdrawParticipant_LockedAfterStart(t *testing.T) {
	tournament := openTournament(1, 8)
	tournament.Status = models.StatusActive
	tournamentRepo := newFakeTournamentRepo(tournament)
	participantRepo := newFakeParticipantRepo(&models.Participant{
		ID: 1, UserID: 7, TournamentID: 1, Status: models.ParticipantRegistered,
	})
	svc := NewParticipantService(participantRepo, tournamentRepo, slog.Default())

	err := svc.Withdraw(context.Background(), 7, 1)
	assert.ErrorIs(t, err, ErrRegistrationNotOpen)
}
