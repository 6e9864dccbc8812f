package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrInvalidDate         = errors.New("date is missing or not in YYYY-MM-DD format")
	ErrInvalidTimeRange    = errors.New("time range is not a valid \"HH:MM - HH:MM\" interval")
	ErrTooManyPlayers      = errors.New("a booking can list at most four players")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrCourtInactive       = errors.New("court is not available for booking")
	ErrCourtSlotsRequired  = errors.New("court requires at least one candidate slot")
	ErrBookingTooLate      = errors.New("booking can only be changed more than 24 hours before its start")
	ErrRegistrationNotOpen = errors.New("tournament registration is not open")
	ErrTournamentFull      = errors.New("tournament registration is full")

	// Ошибки конфликтов
	ErrUserEmailConflict       = errors.New("email address is already in use")
	ErrCourtNameConflict       = errors.New("court name is already in use")
	ErrTournamentNameConflict  = errors.New("tournament name already exists")
	ErrRegistrationConflict    = errors.New("user is already registered for this tournament")
	ErrBookingConflict         = errors.New("slot is no longer available")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
	ErrMatchAlreadyCompleted   = errors.New("match result has already been recorded")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrAuthInvalidToken       = errors.New("invalid or expired token")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей (дублируют ErrNotFound, но дают контекст)
	ErrUserNotFound        = errors.New("user not found")
	ErrCourtNotFound       = errors.New("court not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant registration not found")
	ErrMatchNotFound       = errors.New("match not found")

	// Ошибки турниров
	ErrTournamentInvalidRegDate          = errors.New("tournament registration end date must be before start date")
	ErrTournamentInvalidDateRange        = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidCapacity         = errors.New("tournament max participants must be positive")
	ErrTournamentInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrTournamentNotEnoughParticipants   = errors.New("tournament needs at least two registered participants")
)
