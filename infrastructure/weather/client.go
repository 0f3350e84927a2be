package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coffee-chat/domain/chat"
	"coffee-chat/domain/geo"

	"github.com/sirupsen/logrus"
)

// Client is a stateless adapter over the OpenWeatherMap current-weather
// endpoint, pinned to the shop's coordinates.
type Client struct {
	apiKey     string
	baseURL    string
	latitude   float64
	longitude  float64
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, latitude, longitude float64) *Client {
	return &Client{
		apiKey:    apiKey,
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type owmResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
}

// CurrentWeather fetches current conditions in imperial units. One round
// trip, no retries; any failure wraps chat.ErrWeatherFetch.
func (c *Client) CurrentWeather(ctx context.Context) (*geo.WeatherReport, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	params.Set("units", "imperial")

	reqURL := c.baseURL + "/weather?" + params.Encode()
	hreq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", chat.ErrWeatherFetch, err)
	}

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrWeatherFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("Weather API error")
		return nil, fmt.Errorf("%w: status %d", chat.ErrWeatherFetch, resp.StatusCode)
	}

	var data owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", chat.ErrWeatherFetch, err)
	}

	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("%w: response missing conditions", chat.ErrWeatherFetch)
	}

	// Rounded to the nearest integer, not truncated.
	return &geo.WeatherReport{
		Temperature: int(math.Round(data.Main.Temp)),
		Description: data.Weather[0].Description,
		FeelsLike:   int(math.Round(data.Main.FeelsLike)),
		Humidity:    data.Main.Humidity,
	}, nil
}
