package widgets

import (
	"errors"
	"fmt"

	"widgetchat/internal/providers"
)

type WeatherWidget struct{}

type weatherData struct {
	Error     string          `json:"error,omitempty"`
	Location  weatherLocation `json:"location"`
	Current   weatherCurrent  `json:"current"`
	Details   weatherDetails  `json:"details"`
	Timestamp string          `json:"timestamp"`
	Mock      bool            `json:"mock"`
}

type weatherLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type weatherCurrent struct {
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

type weatherDetails struct {
	Humidity   int     `json:"humidity"`
	Pressure   int     `json:"pressure"`
	WindSpeed  float64 `json:"wind_speed"`
	Visibility float64 `json:"visibility"`
}

func (WeatherWidget) Type() string { return "weather" }

func (WeatherWidget) DefaultConfig() map[string]any {
	return map[string]any{
		"size":            "medium",
		"theme":           "auto",
		"refreshInterval": 300,
		"showDetails":     true,
		"showForecast":    false,
		"temperatureUnit": "celsius",
		"showWind":        true,
		"showHumidity":    true,
	}
}

func (WeatherWidget) Validate(cfg map[string]any) bool {
	return validateBase(cfg) && oneOf(cfg, "temperatureUnit", "celsius", "fahrenheit")
}

func (WeatherWidget) Actions() []Action {
	return []Action{
		refreshAction,
		configureAction,
		{Type: "forecast", Label: "7-Day Forecast", Icon: "calendar", Description: "View 7-day weather forecast"},
	}
}

func (w WeatherWidget) Build(location string, raw *providers.Weather) *Widget {
	return build(w, func() (*Widget, error) {
		if raw == nil {
			return nil, errors.New("no weather data")
		}
		name := raw.Location
		if name == "" {
			name = "Unknown"
		}
		desc := raw.Description
		if desc == "" {
			desc = "Unknown"
		}
		icon := raw.Icon
		if icon == "" {
			icon = "01d"
		}
		ts := raw.Timestamp
		if ts == "" {
			ts = timestamp()
		}
		return &Widget{
			ID:    widgetID("weather", slug(location)),
			Type:  w.Type(),
			Title: fmt.Sprintf("Weather in %s", location),
			Data: weatherData{
				Location: weatherLocation{Name: name, Country: raw.Country},
				Current: weatherCurrent{
					Temperature: raw.Temperature,
					FeelsLike:   raw.FeelsLike,
					Description: desc,
					Icon:        icon,
				},
				Details: weatherDetails{
					Humidity:   raw.Humidity,
					Pressure:   raw.Pressure,
					WindSpeed:  raw.WindSpeed,
					Visibility: raw.Visibility,
				},
				Timestamp: ts,
				Mock:      raw.Mock,
			},
			Config:   w.DefaultConfig(),
			Actions:  w.Actions(),
			Metadata: newMetadata(sourceOf(raw.Mock, SourceOpenWeather)),
		}, nil
	})
}

func (w WeatherWidget) ErrorWidget(message string) *Widget {
	return errorEnvelope(w, "weather", "Weather Widget Error", weatherData{
		Error:    message,
		Location: weatherLocation{Name: "Unknown"},
		Current: weatherCurrent{
			Description: "Unable to load weather data",
			Icon:        "error",
		},
		Timestamp: timestamp(),
	}, []Action{refreshAction})
}
