package chat

import "errors"

// Pipeline stage errors. Adapters and the orchestrator wrap these so
// callers can discriminate the failing stage with errors.Is.
var (
	ErrClassification    = errors.New("intent classification failed")
	ErrWeatherFetch      = errors.New("weather lookup failed")
	ErrAddressResolution = errors.New("could not resolve address")
	ErrDirections        = errors.New("could not calculate directions")
	ErrGeneration        = errors.New("response generation failed")
)
