package maps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"coffee-chat/domain/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopAddress = "1223 E Cherry St, Seattle, WA 98122"

func TestDirections_Success(t *testing.T) {
	var directionsCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/json":
			assert.Equal(t, "400 Broad St, Seattle", r.URL.Query().Get("address"))
			fmt.Fprint(w, `{"status": "OK", "results": [{"geometry": {"location": {"lat": 47.6205, "lng": -122.3493}}}]}`)
		case "/directions/json":
			directionsCalled = true
			assert.Equal(t, "driving", r.URL.Query().Get("mode"))
			assert.Contains(t, r.URL.Query().Get("origin"), "47.62")
			fmt.Fprint(w, `{
				"status": "OK",
				"routes": [{"legs": [{
					"distance": {"text": "3.1 mi"},
					"duration": {"text": "12 mins"},
					"steps": [
						{"html_instructions": "Head <b>south</b> on <b>Broad St</b>"},
						{"html_instructions": "Turn <b>left</b> onto<b>E Cherry St</b>"}
					]
				}]}]
			}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient("maps-key", server.URL, shopAddress, 47.6062, -122.3321)
	route, err := client.Directions(context.Background(), "400 Broad St, Seattle")
	require.NoError(t, err)
	require.True(t, directionsCalled)

	assert.Equal(t, "3.1 mi", route.Distance)
	assert.Equal(t, "12 mins", route.Duration)
	assert.Equal(t, shopAddress, route.DestinationAddress)
	require.Len(t, route.Steps, 2)
	assert.Equal(t, "Head south on Broad St", route.Steps[0])
	// tag removal glues "onto" to "E"; the boundary pattern restores the space
	assert.Equal(t, "Turn left onto E Cherry St", route.Steps[1])
}

func TestDirections_GeocodeZeroResults(t *testing.T) {
	var directionsCalled bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/json":
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
		case "/directions/json":
			directionsCalled = true
		}
	}))
	defer server.Close()

	client := NewClient("maps-key", server.URL, shopAddress, 47.6062, -122.3321)
	_, err := client.Directions(context.Background(), "nowhere at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrAddressResolution)
	assert.False(t, directionsCalled)
}

func TestDirections_NoRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/geocode/json":
			fmt.Fprint(w, `{"status": "OK", "results": [{"geometry": {"location": {"lat": 1, "lng": 2}}}]}`)
		case "/directions/json":
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "routes": []}`)
		}
	}))
	defer server.Close()

	client := NewClient("maps-key", server.URL, shopAddress, 47.6062, -122.3321)
	_, err := client.Directions(context.Background(), "1 Infinite Loop, Cupertino")
	require.Error(t, err)
	assert.ErrorIs(t, err, chat.ErrDirections)
}

func TestCleanInstruction(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Turn <b>right</b> at the light", "Turn right at the light"},
		{`Continue onto <div style="font-size:0.9em">Pine St</div>`, "Continue onto Pine St"},
		{"Merge<b>onto</b>I-5", "Mergeonto I-5"},
		{"already clean", "already clean"},
		{"camelCase boundary", "camel Case boundary"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cleanInstruction(tc.in), "input: %s", tc.in)
	}
}
