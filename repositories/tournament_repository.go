package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/padel-club/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
)

type ListTournamentsFilter struct {
	Status   *models.TournamentStatus
	Category *models.TournamentCategory
	Limit    int
	Offset   int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	GetTournamentsForAutoStatusUpdate(ctx context.Context, exec SQLExecutor, currentTime time.Time) ([]*models.Tournament, error)
	Count(ctx context.Context, status *models.TournamentStatus) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func handleTournamentError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tournaments_name_key" {
				return ErrTournamentNameConflict
			}
		case "23503":
			if pqErr.Constraint == "tournaments_organizer_id_fkey" {
				return ErrTournamentInvalidOrg
			}
		}
	}
	return err
}

const tournamentColumns = `
	id, name, description, category, organizer_id, reg_date, start_date, end_date,
	status, max_participants, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, description, category, organizer_id, reg_date, start_date, end_date, status, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Category, t.OrganizerID,
		t.RegDate, t.StartDate, t.EndDate, t.Status, t.MaxParticipants,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", handleTournamentError(err))
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	var t models.Tournament
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Category, &t.OrganizerID,
		&t.RegDate, &t.StartDate, &t.EndDate, &t.Status, &t.MaxParticipants, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return &t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, "status = $"+strconv.Itoa(argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = $"+strconv.Itoa(argID))
		args = append(args, *filter.Category)
		argID++
	}

	query := `SELECT` + tournamentColumns + ` FROM tournaments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_date DESC"

	if filter.Limit > 0 {
		query += " LIMIT $" + strconv.Itoa(argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += " OFFSET $" + strconv.Itoa(argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Category, &t.OrganizerID,
			&t.RegDate, &t.StartDate, &t.EndDate, &t.Status, &t.MaxParticipants, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			description = $2,
			category = $3,
			reg_date = $4,
			start_date = $5,
			end_date = $6,
			max_participants = $7
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.Category, t.RegDate, t.StartDate, t.EndDate, t.MaxParticipants, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", handleTournamentError(err))
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// GetTournamentsForAutoStatusUpdate возвращает турниры, статус которых должен
// смениться по датам (для фонового планировщика).
func (r *postgresTournamentRepository) GetTournamentsForAutoStatusUpdate(ctx context.Context, exec SQLExecutor, currentTime time.Time) ([]*models.Tournament, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + tournamentColumns + `
		FROM tournaments
		WHERE status NOT IN ($1, $2)
		  AND (
		        (status = $3 AND reg_date <= $6)
		     OR (status = $4 AND start_date <= $6)
		     OR (status = $5 AND end_date <= $6)
		  )
		ORDER BY id`

	rows, err := executor.QueryContext(ctx, query,
		models.StatusCompleted, models.StatusCanceled,
		models.StatusSoon, models.StatusRegistration, models.StatusActive,
		currentTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for status update: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Category, &t.OrganizerID,
			&t.RegDate, &t.StartDate, &t.EndDate, &t.Status, &t.MaxParticipants, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) Count(ctx context.Context, status *models.TournamentStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tournaments`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}
