package providers

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
)

// Weather is the current conditions for one location.
type Weather struct {
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	WindSpeed   float64 `json:"wind_speed"`
	Visibility  float64 `json:"visibility"`
	Timestamp   string  `json:"timestamp"`
	Mock        bool    `json:"mock"`
}

type WeatherClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewWeatherClient(apiKey string, client *http.Client) *WeatherClient {
	return &WeatherClient{
		APIKey:  apiKey,
		BaseURL: "https://api.openweathermap.org/data/2.5/weather",
		Client:  client,
	}
}

type openWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility float64 `json:"visibility"`
}

// Current returns live conditions, or mock conditions when the key is
// missing or the upstream call fails.
func (c *WeatherClient) Current(ctx context.Context, location string) *Weather {
	if c == nil || c.APIKey == "" {
		return MockWeather(location)
	}
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")

	var data openWeatherResponse
	if err := getJSON(ctx, c.Client, c.BaseURL, q, &data); err != nil {
		log.Printf("[WeatherClient.Current] fetch weather for %q: %v", location, err)
		return MockWeather(location)
	}
	if len(data.Weather) == 0 {
		log.Printf("[WeatherClient.Current] %v", errors.New("empty weather list in response"))
		return MockWeather(location)
	}
	return &Weather{
		Location:    data.Name,
		Country:     data.Sys.Country,
		Temperature: data.Main.Temp,
		FeelsLike:   data.Main.FeelsLike,
		Humidity:    data.Main.Humidity,
		Pressure:    data.Main.Pressure,
		Description: data.Weather[0].Description,
		Icon:        data.Weather[0].Icon,
		WindSpeed:   data.Wind.Speed,
		Visibility:  data.Visibility / 1000,
		Timestamp:   nowISO(),
	}
}

var mockWeatherDescriptions = []string{"clear sky", "few clouds", "scattered clouds", "light rain"}

func MockWeather(location string) *Weather {
	return &Weather{
		Location:    location,
		Country:     "US",
		Temperature: round(15+rand.Float64()*15, 1),
		FeelsLike:   round(15+rand.Float64()*15, 1),
		Humidity:    30 + rand.IntN(51),
		Pressure:    1000 + rand.IntN(21),
		Description: mockWeatherDescriptions[rand.IntN(len(mockWeatherDescriptions))],
		Icon:        "01d",
		WindSpeed:   round(rand.Float64()*10, 1),
		Visibility:  round(5+rand.Float64()*10, 1),
		Timestamp:   nowISO(),
		Mock:        true,
	}
}
