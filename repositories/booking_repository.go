package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/padel-club/models"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrBookingConflict     = errors.New("booking overlaps an existing confirmed booking")
	ErrBookingCourtInvalid = errors.New("booking court conflict or invalid")
	ErrBookingUserInvalid  = errors.New("booking user conflict or invalid")
	ErrBookingInvalidRange = errors.New("booking time range violates schema constraints")
)

type ListBookingsFilter struct {
	CourtID *int
	UserID  *int
	Date    *string
	Status  *models.BookingStatus
	Limit   int
	Offset  int
}

type BookingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, booking *models.Booking) error
	GetByID(ctx context.Context, id int) (*models.Booking, error)
	List(ctx context.Context, filter ListBookingsFilter) ([]models.Booking, error)
	ListConfirmedByCourtAndDate(ctx context.Context, courtID int, date string) ([]models.Booking, error)
	UpdateSchedule(ctx context.Context, exec SQLExecutor, booking *models.Booking) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BookingStatus) error
	CountByDate(ctx context.Context, date string, status *models.BookingStatus) (int, error)
}

type postgresBookingRepository struct {
	db *sql.DB
}

func NewPostgresBookingRepository(db *sql.DB) BookingRepository {
	return &postgresBookingRepository{db: db}
}

func (r *postgresBookingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bookingColumns = `
	id, reference, court_id, user_id,
	to_char(booking_date, 'YYYY-MM-DD'),
	to_char(start_time, 'HH24:MI'),
	to_char(end_time, 'HH24:MI'),
	status, players, created_at`

// handleBookingError маппит ошибки constraint'ов Postgres на доменные ошибки.
// Пересечение подтверждённых бронирований закрывается exclusion constraint'ом
// bookings_no_overlap_excl (btree_gist, код 23P01), а не только проверкой в
// сервисе: гонка двух одновременных запросов на один слот.
func handleBookingError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23P01": // exclusion_violation
			if pqErr.Constraint == "bookings_no_overlap_excl" {
				return ErrBookingConflict
			}
		case "23503": // foreign_key_violation
			switch pqErr.Constraint {
			case "bookings_court_id_fkey":
				return ErrBookingCourtInvalid
			case "bookings_user_id_fkey":
				return ErrBookingUserInvalid
			}
		case "23514": // check_violation
			if pqErr.Constraint == "bookings_time_range_check" ||
				pqErr.Constraint == "bookings_players_count_check" {
				return ErrBookingInvalidRange
			}
		}
	}
	return err
}

func (r *postgresBookingRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Booking) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bookings (reference, court_id, user_id, booking_date, start_time, end_time, status, players)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		b.Reference,
		b.CourtID,
		b.UserID,
		b.BookingDate,
		b.StartTime,
		b.EndTime,
		b.Status,
		pq.Array(b.Players),
	).Scan(&b.ID, &b.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", handleBookingError(err))
	}
	return nil
}

func (r *postgresBookingRepository) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking %d: %w", id, err)
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var players pq.StringArray
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.CourtID,
		&b.UserID,
		&b.BookingDate,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&players,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Players = []string(players)
	return &b, nil
}

func (r *postgresBookingRepository) List(ctx context.Context, filter ListBookingsFilter) ([]models.Booking, error) {
	var conditions []string
	var args []interface{}
	argID := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, cond+strconv.Itoa(argID))
		args = append(args, value)
		argID++
	}

	if filter.CourtID != nil {
		addCondition("court_id = $", *filter.CourtID)
	}
	if filter.UserID != nil {
		addCondition("user_id = $", *filter.UserID)
	}
	if filter.Date != nil {
		addCondition("booking_date = $", *filter.Date)
	}
	if filter.Status != nil {
		addCondition("status = $", *filter.Status)
	}

	query := `SELECT` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY booking_date DESC, start_time DESC"

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
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

// ListConfirmedByCourtAndDate — выборка для резолвера доступности и проверки
// конфликтов: только подтверждённые бронирования корта на дату, по возрастанию
// времени начала.
func (r *postgresBookingRepository) ListConfirmedByCourtAndDate(ctx context.Context, courtID int, date string) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1 AND booking_date = $2 AND status = $3
		ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, courtID, date, models.BookingConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking row: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}
	return bookings, nil
}

func (r *postgresBookingRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, b *models.Booking) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE bookings SET
			booking_date = $1,
			start_time = $2,
			end_time = $3,
			players = $4
		WHERE id = $5`

	result, err := executor.ExecContext(ctx, query,
		b.BookingDate, b.StartTime, b.EndTime, pq.Array(b.Players), b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking schedule: %w", handleBookingError(err))
	}
	return checkAffectedRows(result, ErrBookingNotFound)
}

func (r *postgresBookingRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BookingStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE bookings SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", handleBookingError(err))
	}
	return checkAffectedRows(result, ErrBookingNotFound)
}

func (r *postgresBookingRepository) CountByDate(ctx context.Context, date string, status *models.BookingStatus) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE booking_date = $1`
	args := []interface{}{date}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}
