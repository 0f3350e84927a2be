package geo

// WeatherReport is a point-in-time observation near the shop. Temperatures
// are in whole degrees Fahrenheit, rounded to the nearest integer.
type WeatherReport struct {
	Temperature int
	Description string
	FeelsLike   int
	Humidity    int
}

// Route is a driving route from a visitor-supplied origin to the shop.
// Steps are plain-text instructions with markup already stripped.
type Route struct {
	Distance           string
	Duration           string
	Steps              []string
	DestinationAddress string
}
