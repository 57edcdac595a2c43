package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// wmoConditions maps WMO weather interpretation codes to descriptions
var wmoConditions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherTool reports current conditions for a city via Open-Meteo
type WeatherTool struct {
	geocodeURL  string
	forecastURL string
	httpClient  *http.Client
}

// NewWeatherTool creates the get_weather capability
func NewWeatherTool() *WeatherTool {
	return &WeatherTool{
		geocodeURL:  defaultGeocodeURL,
		forecastURL: defaultForecastURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (t *WeatherTool) Name() string { return "get_weather" }

func (t *WeatherTool) Description() string {
	return "Get current weather for a specific city."
}

func (t *WeatherTool) Schema() Schema {
	return Schema{Fields: []Field{
		{Name: "city", Type: "string", Description: "The city name"},
	}}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		Humidity    float64 `json:"relative_humidity_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func (t *WeatherTool) Execute(args any) string {
	coerced, err := t.Schema().Coerce(args)
	if err != nil {
		return errorText("validating arguments", err)
	}
	city := strings.TrimSpace(argString(coerced, "city"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	geoURL := fmt.Sprintf("%s?name=%s&count=1&language=en&format=json", t.geocodeURL, url.QueryEscape(city))
	var geo geocodeResponse
	if err := t.getJSON(ctx, geoURL, &geo); err != nil {
		return fmt.Sprintf("Error finding location for %s: %v", city, err)
	}
	if len(geo.Results) == 0 {
		return fmt.Sprintf("Could not find location: %s", city)
	}

	loc := geo.Results[0]
	fcURL := fmt.Sprintf(
		"%s?latitude=%.4f&longitude=%.4f&current=temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m&wind_speed_unit=kmh",
		t.forecastURL, loc.Latitude, loc.Longitude)

	var fc forecastResponse
	if err := t.getJSON(ctx, fcURL, &fc); err != nil {
		return fmt.Sprintf("Error fetching weather data for %s: %v", loc.Name, err)
	}

	condition, ok := wmoConditions[fc.Current.WeatherCode]
	if !ok {
		condition = "Unknown"
	}

	return fmt.Sprintf("Weather in %s, %s: %s, Temperature: %g°C, Humidity: %g%%, Wind Speed: %g km/h",
		loc.Name, loc.Country, condition, fc.Current.Temperature, fc.Current.Humidity, fc.Current.WindSpeed)
}

func (t *WeatherTool) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
