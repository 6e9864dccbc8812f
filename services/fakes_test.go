package services

import (
	"context"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/repositories"
)

// Фейковые репозитории для юнит-тестов сервисного слоя.
// Хранят всё в памяти, без каких-либо проверок конкурентности.

type fakeCourtRepo struct {
	courts map[int]*models.Court
}

func newFakeCourtRepo(courts ...*models.Court) *fakeCourtRepo {
	repo := &fakeCourtRepo{courts: make(map[int]*models.Court)}
	for _, c := range courts {
		repo.courts[c.ID] = c
	}
	return repo
}

func (f *fakeCourtRepo) Create(ctx context.Context, court *models.Court) error {
	court.ID = len(f.courts) + 1
	f.courts[court.ID] = court
	return nil
}

func (f *fakeCourtRepo) GetByID(ctx context.Context, id int) (*models.Court, error) {
	court, ok := f.courts[id]
	if !ok {
		return nil, repositories.ErrCourtNotFound
	}
	copied := *court
	return &copied, nil
}

func (f *fakeCourtRepo) List(ctx context.Context, onlyActive bool) ([]models.Court, error) {
	var out []models.Court
	for id := 1; id <= len(f.courts); id++ {
		court, ok := f.courts[id]
		if !ok {
			continue
		}
		if onlyActive && !court.Active {
			continue
		}
		out = append(out, *court)
	}
	return out, nil
}

func (f *fakeCourtRepo) Update(ctx context.Context, court *models.Court) error {
	if _, ok := f.courts[court.ID]; !ok {
		return repositories.ErrCourtNotFound
	}
	f.courts[court.ID] = court
	return nil
}

func (f *fakeCourtRepo) UpdatePhotoKey(ctx context.Context, courtID int, photoKey *string) error {
	court, ok := f.courts[courtID]
	if !ok {
		return repositories.ErrCourtNotFound
	}
	court.PhotoKey = photoKey
	return nil
}

func (f *fakeCourtRepo) Deactivate(ctx context.Context, id int) error {
	court, ok := f.courts[id]
	if !ok {
		return repositories.ErrCourtNotFound
	}
	court.Active = false
	return nil
}

func (f *fakeCourtRepo) Count(ctx context.Context, onlyActive bool) (int, error) {
	n := 0
	for _, court := range f.courts {
		if onlyActive && !court.Active {
			continue
		}
		n++
	}
	return n, nil
}

type fakeBookingRepo struct {
	bookings map[int]*models.Booking
	nextID   int
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int]*models.Booking), nextID: 1}
	for _, b := range bookings {
		if b.ID == 0 {
			b.ID = repo.nextID
		}
		repo.bookings[b.ID] = b
		if b.ID >= repo.nextID {
			repo.nextID = b.ID + 1
		}
	}
	return repo
}

func (f *fakeBookingRepo) Create(ctx context.Context, exec repositories.SQLExecutor, booking *models.Booking) error {
	booking.ID = f.nextID
	f.nextID++
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, repositories.ErrBookingNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filter repositories.ListBookingsFilter) ([]models.Booking, error) {
	var out []models.Booking
	for id := 1; id < f.nextID; id++ {
		b, ok := f.bookings[id]
		if !ok {
			continue
		}
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.CourtID != nil && b.CourtID != *filter.CourtID {
			continue
		}
		if filter.Date != nil && b.BookingDate != *filter.Date {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListConfirmedByCourtAndDate(ctx context.Context, courtID int, date string) ([]models.Booking, error) {
	status := models.BookingConfirmed
	return f.List(ctx, repositories.ListBookingsFilter{CourtID: &courtID, Date: &date, Status: &status})
}

func (f *fakeBookingRepo) UpdateSchedule(ctx context.Context, exec repositories.SQLExecutor, booking *models.Booking) error {
	stored, ok := f.bookings[booking.ID]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	stored.BookingDate = booking.BookingDate
	stored.StartTime = booking.StartTime
	stored.EndTime = booking.EndTime
	stored.Players = booking.Players
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.BookingStatus) error {
	booking, ok := f.bookings[id]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (f *fakeBookingRepo) CountByDate(ctx context.Context, date string, status *models.BookingStatus) (int, error) {
	bookings, err := f.List(ctx, repositories.ListBookingsFilter{Date: &date, Status: status})
	if err != nil {
		return 0, err
	}
	return len(bookings), nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(f.users) + 1
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	for _, user := range f.users {
		if user.EmailConfirmationToken != nil && *user.EmailConfirmationToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	for _, user := range f.users {
		if user.PasswordResetToken != nil && *user.PasswordResetToken == token {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) ConfirmEmail(ctx context.Context, id int) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.EmailConfirmed = true
	user.EmailConfirmationToken = nil
	return nil
}

func (f *fakeUserRepo) UpdateAvatarKey(ctx context.Context, id int, avatarKey *string) error {
	user, ok := f.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.AvatarKey = avatarKey
	return nil
}

func (f *fakeUserRepo) Count(ctx context.Context, role *models.UserRole) (int, error) {
	n := 0
	for _, user := range f.users {
		if role != nil && user.Role != *role {
			continue
		}
		n++
	}
	return n, nil
}
