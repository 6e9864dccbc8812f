package models

import "time"

// WeatherSnapshot — текущая погода у клуба для виджета. Не персистится,
// живёт только в кэше.
type WeatherSnapshot struct {
	TemperatureC   float64   `json:"temperature_c"`
	WindSpeedKmh   float64   `json:"wind_speed_kmh"`
	Precipitation  float64   `json:"precipitation_mm"`
	WeatherCode    int       `json:"weather_code"`
	Description    string    `json:"description"`
	GoodForOutdoor bool      `json:"good_for_outdoor"`
	FetchedAt      time.Time `json:"fetched_at"`
}
