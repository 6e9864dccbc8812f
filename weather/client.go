package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Dosada05/padel-club/models"
	"github.com/go-redis/redis/v8"
)

const (
	cacheKey       = "weather:current"
	cacheTTL       = 10 * time.Minute
	requestTimeout = 5 * time.Second
)

// Client получает текущую погоду у клуба из Open-Meteo-совместимого API.
// Ответы кэшируются в Redis; без Redis (или при его недоступности) каждый
// запрос идёт напрямую в API.
type Client struct {
	baseURL    string
	latitude   float64
	longitude  float64
	httpClient *http.Client
	cache      *redis.Client // может быть nil
	logger     *slog.Logger
}

type Config struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Cache     *redis.Client
	Logger    *slog.Logger
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		latitude:   cfg.Latitude,
		longitude:  cfg.Longitude,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cfg.Cache,
		logger:     logger,
	}
}

type openMeteoResponse struct {
	Current struct {
		Temperature   float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weather_code"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// Current возвращает снапшот погоды: сперва из кэша, иначе живой запрос.
func (c *Client) Current(ctx context.Context) (*models.WeatherSnapshot, error) {
	if snapshot := c.fromCache(ctx); snapshot != nil {
		return snapshot, nil
	}

	snapshot, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.toCache(ctx, snapshot)
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context) (*models.WeatherSnapshot, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid weather API base URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("latitude", fmt.Sprintf("%.4f", c.latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", c.longitude))
	query.Set("current", "temperature_2m,precipitation,weather_code,wind_speed_10m")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	snapshot := &models.WeatherSnapshot{
		TemperatureC:  payload.Current.Temperature,
		WindSpeedKmh:  payload.Current.WindSpeed,
		Precipitation: payload.Current.Precipitation,
		WeatherCode:   payload.Current.WeatherCode,
		Description:   describeWeatherCode(payload.Current.WeatherCode),
		FetchedAt:     time.Now(),
	}
	snapshot.GoodForOutdoor = snapshot.Precipitation == 0 &&
		snapshot.WindSpeedKmh < 30 &&
		payload.Current.WeatherCode < 50

	return snapshot, nil
}

func (c *Client) fromCache(ctx context.Context) *models.WeatherSnapshot {
	if c.cache == nil {
		return nil
	}
	raw, err := c.cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("weather cache read failed", slog.Any("error", err))
		}
		return nil
	}
	var snapshot models.WeatherSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func (c *Client) toCache(ctx context.Context, snapshot *models.WeatherSnapshot) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, cacheKey, raw, cacheTTL).Err(); err != nil {
		c.logger.Warn("weather cache write failed", slog.Any("error", err))
	}
}

// WMO weather interpretation codes (подмножество, достаточное для виджета).
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 3:
		return "partly cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "rain showers"
	case code <= 86:
		return "snow showers"
	default:
		return "thunderstorm"
	}
}
