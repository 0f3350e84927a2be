package geo

import "context"

// WeatherPort fetches current conditions at the shop's fixed coordinates.
// One round trip, no retries.
type WeatherPort interface {
	CurrentWeather(ctx context.Context) (*WeatherReport, error)
}

// DirectionsPort resolves an origin address and returns a driving route to
// the shop. One round trip per step, no retries.
type DirectionsPort interface {
	Directions(ctx context.Context, fromAddress string) (*Route, error)
}
