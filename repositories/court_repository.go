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
	ErrCourtNotFound     = errors.New("court not found")
	ErrCourtNameConflict = errors.New("court name conflict")
)

type CourtRepository interface {
	Create(ctx context.Context, court *models.Court) error
	GetByID(ctx context.Context, id int) (*models.Court, error)
	List(ctx context.Context, onlyActive bool) ([]models.Court, error)
	Update(ctx context.Context, court *models.Court) error
	UpdatePhotoKey(ctx context.Context, courtID int, photoKey *string) error
	Deactivate(ctx context.Context, id int) error
	Count(ctx context.Context, onlyActive bool) (int, error)
}

type postgresCourtRepository struct {
	db *sql.DB
}

func NewPostgresCourtRepository(db *sql.DB) CourtRepository {
	return &postgresCourtRepository{db: db}
}

func (r *postgresCourtRepository) Create(ctx context.Context, c *models.Court) error {
	query := `
		INSERT INTO courts (name, surface, indoor, active, candidate_slots)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Name,
		c.Surface,
		c.Indoor,
		c.Active,
		pq.Array(c.CandidateSlots),
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "courts_name_key" {
				return ErrCourtNameConflict
			}
		}
		return fmt.Errorf("failed to create court: %w", err)
	}
	return nil
}

func (r *postgresCourtRepository) GetByID(ctx context.Context, id int) (*models.Court, error) {
	query := `
		SELECT id, name, surface, indoor, active, candidate_slots, photo_key, created_at
		FROM courts
		WHERE id = $1`

	var c models.Court
	var slots pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Surface,
		&c.Indoor,
		&c.Active,
		&slots,
		&c.PhotoKey,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to scan court: %w", err)
	}
	c.CandidateSlots = []string(slots)
	return &c, nil
}

func (r *postgresCourtRepository) List(ctx context.Context, onlyActive bool) ([]models.Court, error) {
	query := `
		SELECT id, name, surface, indoor, active, candidate_slots, photo_key, created_at
		FROM courts`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	defer rows.Close()

	courts := make([]models.Court, 0)
	for rows.Next() {
		var c models.Court
		var slots pq.StringArray
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Surface, &c.Indoor, &c.Active, &slots, &c.PhotoKey, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan court row: %w", err)
		}
		c.CandidateSlots = []string(slots)
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating court rows: %w", err)
	}
	return courts, nil
}

func (r *postgresCourtRepository) Update(ctx context.Context, c *models.Court) error {
	query := `
		UPDATE courts SET
			name = $1,
			surface = $2,
			indoor = $3,
			active = $4,
			candidate_slots = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		c.Name, c.Surface, c.Indoor, c.Active, pq.Array(c.CandidateSlots), c.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "courts_name_key" {
				return ErrCourtNameConflict
			}
		}
		return fmt.Errorf("failed to update court: %w", err)
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func (r *postgresCourtRepository) UpdatePhotoKey(ctx context.Context, courtID int, photoKey *string) error {
	query := `UPDATE courts SET photo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, photoKey, courtID)
	if err != nil {
		return fmt.Errorf("failed to update court photo key: %w", err)
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

// Deactivate снимает корт с бронирования, не трогая историю.
func (r *postgresCourtRepository) Deactivate(ctx context.Context, id int) error {
	query := `UPDATE courts SET active = FALSE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate court: %w", err)
	}
	return checkAffectedRows(result, ErrCourtNotFound)
}

func (r *postgresCourtRepository) Count(ctx context.Context, onlyActive bool) (int, error) {
	query := `SELECT COUNT(*) FROM courts`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count courts: %w", err)
	}
	return count, nil
}
