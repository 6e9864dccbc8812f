package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/padel-club/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound          = errors.New("participant not found")
	ErrParticipantConflict          = errors.New("participant conflict: user already registered for this tournament")
	ErrParticipantUserInvalid       = errors.New("participant user conflict or invalid")
	ErrParticipantTournamentInvalid = errors.New("participant tournament conflict or invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, id int) (*models.Participant, error)
	FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error)
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error
	CountByTournament(ctx context.Context, tournamentID int, status models.ParticipantStatus) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (user_id, tournament_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.TournamentID, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "participants_user_id_tournament_id_key" {
					return ErrParticipantConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "participants_user_id_fkey":
					return ErrParticipantUserInvalid
				case "participants_tournament_id_fkey":
					return ErrParticipantTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `
		SELECT id, user_id, tournament_id, status, created_at
		FROM participants
		WHERE id = $1`
	return r.scanParticipant(ctx, query, id)
}

func (r *postgresParticipantRepository) FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Participant, error) {
	query := `
		SELECT id, user_id, tournament_id, status, created_at
		FROM participants
		WHERE user_id = $1 AND tournament_id = $2`

	var p models.Participant
	err := r.db.QueryRowContext(ctx, query, userID, tournamentID).Scan(
		&p.ID, &p.UserID, &p.TournamentID, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return &p, nil
}

func (r *postgresParticipantRepository) scanParticipant(ctx context.Context, query string, arg interface{}) (*models.Participant, error) {
	var p models.Participant
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.UserID, &p.TournamentID, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return &p, nil
}

// ListByTournament возвращает участников с заполненным User (LEFT JOIN).
func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error) {
	query := `
		SELECT
			p.id, p.user_id, p.tournament_id, p.status, p.created_at,
			u.first_name, u.last_name, u.email
		FROM participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.tournament_id = $1`
	args := []interface{}{tournamentID}
	if statusFilter != nil {
		query += ` AND p.status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY p.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		var u models.User
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.TournamentID, &p.Status, &p.CreatedAt,
			&u.FirstName, &u.LastName, &u.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		u.ID = p.UserID
		p.User = &u
		participants = append(participants, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	query := `UPDATE participants SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update participant status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID int, status models.ParticipantStatus) (int, error) {
	query := `SELECT COUNT(*) FROM participants WHERE tournament_id = $1 AND status = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}
