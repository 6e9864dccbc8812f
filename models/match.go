package models

import "time"

// MatchStatus соответствует ENUM match_status в БД.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchCompleted MatchStatus = "completed"
)

// Match — матч кругового этапа турнира между двумя участниками.
type Match struct {
	ID             int         `json:"id" db:"id"`
	TournamentID   int         `json:"tournament_id" db:"tournament_id"`
	UID            string      `json:"uid" db:"uid"` // детерминированный идентификатор пары
	Round          int         `json:"round" db:"round"`
	OrderInRound   int         `json:"order_in_round" db:"order_in_round"`
	Participant1ID int         `json:"p1_participant_id" db:"p1_participant_id"`
	Participant2ID int         `json:"p2_participant_id" db:"p2_participant_id"`
	Score1         *int        `json:"score1,omitempty" db:"score1"`
	Score2         *int        `json:"score2,omitempty" db:"score2"`
	Status         MatchStatus `json:"status" db:"status"`
	WinnerID       *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	PlayedAt       *time.Time  `json:"played_at,omitempty" db:"played_at"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}
