package models

import "time"

// CourtSurface представляет покрытие корта, соответствует ENUM в БД.
type CourtSurface string

const (
	SurfaceCrystal   CourtSurface = "crystal"
	SurfacePanoramic CourtSurface = "panoramic"
	SurfaceWall      CourtSurface = "wall"
)

// Court — корт клуба. CandidateSlots хранит список диапазонов вида
// "HH:MM - HH:MM", из которых резолвер доступности строит расписание дня.
type Court struct {
	ID             int          `json:"id" db:"id"`
	Name           string       `json:"name" db:"name"`
	Surface        CourtSurface `json:"surface" db:"surface"`
	Indoor         bool         `json:"indoor" db:"indoor"`
	Active         bool         `json:"active" db:"active"`
	CandidateSlots []string     `json:"candidate_slots" db:"candidate_slots"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}
