package models

type DashboardStats struct {
	MembersTotal      int `json:"members_total"`
	CourtsTotal       int `json:"courts_total"`
	BookingsToday     int `json:"bookings_today"`
	ActiveTournaments int `json:"active_tournaments"`
}

// Dashboard — агрегированный ответ главного экрана клуба.
type Dashboard struct {
	Stats        DashboardStats       `json:"stats"`
	Availability []CourtAvailability  `json:"availability"`
	Standings    []TournamentStanding `json:"standings,omitempty"`
	Weather      *WeatherSnapshot     `json:"weather,omitempty"`
}
