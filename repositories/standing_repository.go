package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/padel-club/models"
)

var ErrTournamentStandingNotFound = errors.New("tournament standing not found")

type TournamentStandingRepository interface {
	GetOrCreate(ctx context.Context, exec SQLExecutor, tournamentID, participantID int) (*models.TournamentStanding, error)
	Update(ctx context.Context, exec SQLExecutor, standing *models.TournamentStanding) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, sortByRank bool) ([]*models.TournamentStanding, error)
	DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresTournamentStandingRepository struct {
	db *sql.DB
}

func NewPostgresTournamentStandingRepository(db *sql.DB) TournamentStandingRepository {
	return &postgresTournamentStandingRepository{db: db}
}

func (r *postgresTournamentStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const standingColumns = `
	id, tournament_id, participant_id, points, games_played, wins, draws, losses,
	score_for, score_against, score_difference, rank, updated_at`

func (r *postgresTournamentStandingRepository) GetOrCreate(ctx context.Context, exec SQLExecutor, tournamentID, participantID int) (*models.TournamentStanding, error) {
	executor := r.getExecutor(exec)

	query := `SELECT` + standingColumns + `
		FROM tournament_standings
		WHERE tournament_id = $1 AND participant_id = $2`

	s, err := r.scanStanding(executor.QueryRowContext(ctx, query, tournamentID, participantID))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get standing: %w", err)
	}

	insert := `
		INSERT INTO tournament_standings (tournament_id, participant_id, updated_at)
		VALUES ($1, $2, $3)
		RETURNING` + standingColumns

	s, err = r.scanStanding(executor.QueryRowContext(ctx, insert, tournamentID, participantID, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create standing: %w", err)
	}
	return s, nil
}

func (r *postgresTournamentStandingRepository) scanStanding(row *sql.Row) (*models.TournamentStanding, error) {
	var s models.TournamentStanding
	err := row.Scan(
		&s.ID, &s.TournamentID, &s.ParticipantID, &s.Points, &s.GamesPlayed,
		&s.Wins, &s.Draws, &s.Losses, &s.ScoreFor, &s.ScoreAgainst,
		&s.ScoreDifference, &s.Rank, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *postgresTournamentStandingRepository) Update(ctx context.Context, exec SQLExecutor, s *models.TournamentStanding) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE tournament_standings SET
			points = $1, games_played = $2, wins = $3, draws = $4, losses = $5,
			score_for = $6, score_against = $7, score_difference = $8, rank = $9,
			updated_at = $10
		WHERE id = $11`

	s.UpdatedAt = time.Now()
	result, err := executor.ExecContext(ctx, query,
		s.Points, s.GamesPlayed, s.Wins, s.Draws, s.Losses,
		s.ScoreFor, s.ScoreAgainst, s.ScoreDifference, s.Rank,
		s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update standing: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentStandingNotFound)
}

func (r *postgresTournamentStandingRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, sortByRank bool) ([]*models.TournamentStanding, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + standingColumns + `
		FROM tournament_standings
		WHERE tournament_id = $1`
	if sortByRank {
		query += ` ORDER BY rank NULLS LAST, points DESC, score_difference DESC, score_for DESC`
	} else {
		query += ` ORDER BY participant_id`
	}

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list standings: %w", err)
	}
	defer rows.Close()

	standings := make([]*models.TournamentStanding, 0)
	for rows.Next() {
		var s models.TournamentStanding
		if err := rows.Scan(
			&s.ID, &s.TournamentID, &s.ParticipantID, &s.Points, &s.GamesPlayed,
			&s.Wins, &s.Draws, &s.Losses, &s.ScoreFor, &s.ScoreAgainst,
			&s.ScoreDifference, &s.Rank, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating standing rows: %w", err)
	}
	return standings, nil
}

func (r *postgresTournamentStandingRepository) DeleteByTournamentID(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM tournament_standings WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete standings: %w", err)
	}
	return nil
}
