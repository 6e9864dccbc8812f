package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/repositories"
	"github.com/Dosada05/padel-club/storage"
)

type CourtInput struct {
	Name           string              `json:"name"`
	Surface        models.CourtSurface `json:"surface"`
	Indoor         bool                `json:"indoor"`
	Active         *bool               `json:"active,omitempty"`
	CandidateSlots []string            `json:"candidate_slots"`
}

type CourtService interface {
	Create(ctx context.Context, input CourtInput) (*models.Court, error)
	GetByID(ctx context.Context, id int) (*models.Court, error)
	List(ctx context.Context, onlyActive bool) ([]models.Court, error)
	Update(ctx context.Context, id int, input CourtInput) (*models.Court, error)
	Deactivate(ctx context.Context, id int) error
	UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.Court, error)
}

type courtService struct {
	courtRepo repositories.CourtRepository
	uploader  storage.FileUploader
}

func NewCourtService(courtRepo repositories.CourtRepository, uploader storage.FileUploader) CourtService {
	return &courtService{
		courtRepo: courtRepo,
		uploader:  uploader,
	}
}

// validateSlots проверяет кандидатные слоты на записи: резолвер доступности
// вправе полагаться на их корректность.
func validateSlots(slots []string) error {
	if len(slots) == 0 {
		return ErrCourtSlotsRequired
	}
	for _, slot := range slots {
		if _, _, err := parseSlotRange(slot); err != nil {
			return err
		}
	}
	return nil
}

func (s *courtService) Create(ctx context.Context, input CourtInput) (*models.Court, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: court name is required", ErrValidationFailed)
	}
	if err := validateSlots(input.CandidateSlots); err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	court := &models.Court{
		Name:           input.Name,
		Surface:        input.Surface,
		Indoor:         input.Indoor,
		Active:         active,
		CandidateSlots: input.CandidateSlots,
	}
	if err := s.courtRepo.Create(ctx, court); err != nil {
		if errors.Is(err, repositories.ErrCourtNameConflict) {
			return nil, ErrCourtNameConflict
		}
		return nil, fmt.Errorf("failed to create court: %w", err)
	}
	s.populatePhotoURL(court)
	return court, nil
}

func (s *courtService) GetByID(ctx context.Context, id int) (*models.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to load court %d: %w", id, err)
	}
	s.populatePhotoURL(court)
	return court, nil
}

func (s *courtService) List(ctx context.Context, onlyActive bool) ([]models.Court, error) {
	courts, err := s.courtRepo.List(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	for i := range courts {
		s.populatePhotoURL(&courts[i])
	}
	return courts, nil
}

func (s *courtService) Update(ctx context.Context, id int, input CourtInput) (*models.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to load court %d: %w", id, err)
	}

	if input.Name != "" {
		court.Name = input.Name
	}
	if input.Surface != "" {
		court.Surface = input.Surface
	}
	court.Indoor = input.Indoor
	if input.Active != nil {
		court.Active = *input.Active
	}
	if input.CandidateSlots != nil {
		if err := validateSlots(input.CandidateSlots); err != nil {
			return nil, err
		}
		court.CandidateSlots = input.CandidateSlots
	}

	if err := s.courtRepo.Update(ctx, court); err != nil {
		if errors.Is(err, repositories.ErrCourtNameConflict) {
			return nil, ErrCourtNameConflict
		}
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to update court %d: %w", id, err)
	}
	s.populatePhotoURL(court)
	return court, nil
}

func (s *courtService) Deactivate(ctx context.Context, id int) error {
	if err := s.courtRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return ErrCourtNotFound
		}
		return fmt.Errorf("failed to deactivate court %d: %w", id, err)
	}
	return nil
}

func (s *courtService) UploadPhoto(ctx context.Context, id int, contentType string, file io.Reader) (*models.Court, error) {
	court, err := s.courtRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, fmt.Errorf("failed to load court %d: %w", id, err)
	}

	key := fmt.Sprintf("courts/court_%d", id)
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload court photo: %w", err)
	}
	if err := s.courtRepo.UpdatePhotoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to persist court photo key: %w", err)
	}
	court.PhotoKey = &result.Key
	s.populatePhotoURL(court)
	return court, nil
}

func (s *courtService) populatePhotoURL(court *models.Court) {
	if s.uploader == nil || court.PhotoKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*court.PhotoKey)
	if url != "" {
		court.PhotoURL = &url
	}
}
