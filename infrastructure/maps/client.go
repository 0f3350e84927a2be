package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"coffee-chat/domain/chat"
	"coffee-chat/domain/geo"

	"github.com/sirupsen/logrus"
)

var (
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
	wordBoundaryPattern = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Client is a stateless adapter over the Google Maps geocoding and
// directions endpoints. The destination is fixed to the shop.
type Client struct {
	apiKey             string
	baseURL            string
	destinationAddress string
	destinationLat     float64
	destinationLng     float64
	httpClient         *http.Client
}

func NewClient(apiKey, baseURL, destinationAddress string, destinationLat, destinationLng float64) *Client {
	return &Client{
		apiKey:             apiKey,
		baseURL:            baseURL,
		destinationAddress: destinationAddress,
		destinationLat:     destinationLat,
		destinationLng:     destinationLng,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
			Steps []struct {
				HTMLInstructions string `json:"html_instructions"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions geocodes the origin address and requests a driving route to
// the shop. The geocode step failing (bad status or zero results) wraps
// chat.ErrAddressResolution; a missing route wraps chat.ErrDirections.
func (c *Client) Directions(ctx context.Context, fromAddress string) (*geo.Route, error) {
	originLat, originLng, err := c.geocode(ctx, fromAddress)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%f,%f", originLat, originLng))
	params.Set("destination", fmt.Sprintf("%f,%f", c.destinationLat, c.destinationLng))
	params.Set("mode", "driving")
	params.Set("key", c.apiKey)

	reqURL := c.baseURL + "/directions/json?" + params.Encode()
	hreq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", chat.ErrDirections, err)
	}

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chat.ErrDirections, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Error("Directions API error")
		return nil, fmt.Errorf("%w: status %d", chat.ErrDirections, resp.StatusCode)
	}

	var data directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", chat.ErrDirections, err)
	}

	if data.Status != "OK" || len(data.Routes) == 0 || len(data.Routes[0].Legs) == 0 {
		logrus.WithFields(logrus.Fields{
			"status":       data.Status,
			"from_address": fromAddress,
		}).Warn("No route found")
		return nil, fmt.Errorf("%w: no route from %q", chat.ErrDirections, fromAddress)
	}

	leg := data.Routes[0].Legs[0]
	steps := make([]string, 0, len(leg.Steps))
	for _, step := range leg.Steps {
		steps = append(steps, cleanInstruction(step.HTMLInstructions))
	}

	return &geo.Route{
		Distance:           leg.Distance.Text,
		Duration:           leg.Duration.Text,
		Steps:              steps,
		DestinationAddress: c.destinationAddress,
	}, nil
}

func (c *Client) geocode(ctx context.Context, address string) (float64, float64, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	reqURL := c.baseURL + "/geocode/json?" + params.Encode()
	hreq, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: new request: %v", chat.ErrAddressResolution, err)
	}

	resp, err := c.httpClient.Do(hreq)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", chat.ErrAddressResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Error("Geocoding API error")
		return 0, 0, fmt.Errorf("%w: status %d", chat.ErrAddressResolution, resp.StatusCode)
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, 0, fmt.Errorf("%w: decode: %v", chat.ErrAddressResolution, err)
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		logrus.WithFields(logrus.Fields{
			"status":  data.Status,
			"address": address,
		}).Warn("Address could not be geocoded")
		return 0, 0, fmt.Errorf("%w: %q", chat.ErrAddressResolution, address)
	}

	loc := data.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// cleanInstruction strips HTML markup from a step instruction and restores
// the space at word boundaries the markup used to separate.
func cleanInstruction(instruction string) string {
	text := htmlTagPattern.ReplaceAllString(instruction, "")
	return wordBoundaryPattern.ReplaceAllString(text, "$1 $2")
}
