package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusSoon         TournamentStatus = "soon"
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCanceled     TournamentStatus = "canceled"
)

// TournamentCategory — уровень участников клубного турнира.
type TournamentCategory string

const (
	CategoryOpen         TournamentCategory = "open"
	CategoryBeginner     TournamentCategory = "beginner"
	CategoryIntermediate TournamentCategory = "intermediate"
	CategoryAdvanced     TournamentCategory = "advanced"
)

// Tournament — клубный турнир (круговая система).
type Tournament struct {
	ID              int                `json:"id" db:"id"`
	Name            string             `json:"name" db:"name"`
	Description     *string            `json:"description,omitempty" db:"description"`
	Category        TournamentCategory `json:"category" db:"category"`
	OrganizerID     int                `json:"organizer_id" db:"organizer_id"`
	RegDate         time.Time          `json:"reg_date" db:"reg_date"`
	StartDate       time.Time          `json:"start_date" db:"start_date"`
	EndDate         time.Time          `json:"end_date" db:"end_date"`
	Status          TournamentStatus   `json:"status" db:"status"`
	MaxParticipants int                `json:"max_participants" db:"max_participants"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Organizer    *User         `json:"organizer,omitempty" db:"-"`
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}
