package models

import "time"

// ParticipantStatus соответствует ENUM participant_status в БД.
type ParticipantStatus string

const (
	ParticipantRegistered ParticipantStatus = "registered"
	ParticipantWithdrawn  ParticipantStatus = "withdrawn"
)

type Participant struct {
	ID           int               `json:"id" db:"id"`
	UserID       int               `json:"user_id" db:"user_id"`
	TournamentID int               `json:"tournament_id" db:"tournament_id"`
	Status       ParticipantStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}
