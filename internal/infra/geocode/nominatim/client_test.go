package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

func TestPlaceLabel(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{"city wins", Address{City: "Paris", Town: "Ignored", Country: "France"}, "Paris, France"},
		{"town", Address{Town: "Hallstatt", State: "Upper Austria", Country: "Austria"}, "Hallstatt, Austria"},
		{"village", Address{Village: "Giethoorn", Country: "Netherlands"}, "Giethoorn, Netherlands"},
		{"municipality", Address{Municipality: "Longyearbyen", Country: "Norway"}, "Longyearbyen, Norway"},
		{"county", Address{County: "Kent", Country: "United Kingdom"}, "Kent, United Kingdom"},
		{"state", Address{State: "Alaska", Country: "United States"}, "Alaska, United States"},
		{"country only", Address{Country: "Monaco"}, "Monaco"},
		{"same as country", Address{City: "Singapore", Country: "Singapore"}, "Singapore"},
		{"no country", Address{City: "Nowhere"}, "Nowhere"},
		{"empty", Address{}, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PlaceLabel(tc.addr))
		})
	}
}

func TestClientResolvePlace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		require.Equal(t, "json", r.URL.Query().Get("format"))
		require.Equal(t, "48.8566", r.URL.Query().Get("lat"))
		require.Equal(t, "2.3522", r.URL.Query().Get("lon"))
		require.Equal(t, "10", r.URL.Query().Get("zoom"))
		require.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		require.Equal(t, "lunar-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Paris","address":{"city":"Paris","state":"Île-de-France","country":"France"}}`))
	}))
	defer server.Close()

	client := newClientUnderTest(server.URL)
	place := client.ResolvePlace(context.Background(), lunar.Location{Latitude: 48.8566, Longitude: 2.3522})
	require.Equal(t, lunar.PlaceName{Name: "Paris, France", Resolved: true}, place)
}

func TestClientResolvePlaceFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"malformed", http.StatusOK, `{"address":`},
		{"missing address", http.StatusOK, `{"error":"Unable to geocode"}`},
		{"empty address", http.StatusOK, `{"address":{}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.payload))
			}))
			defer server.Close()

			place := newClientUnderTest(server.URL).ResolvePlace(context.Background(), lunar.Location{})
			require.Equal(t, lunar.PlaceName{Name: lunar.UnknownLocation}, place)
		})
	}
}

func TestClientResolvePlaceNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	place := newClientUnderTest(url).ResolvePlace(context.Background(), lunar.Location{})
	require.False(t, place.Resolved)
	require.Equal(t, lunar.UnknownLocation, place.Name)
}

func TestClientReverseHonoursCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newClientUnderTest(server.URL).Reverse(ctx, 0, 0)
	require.ErrorIs(t, err, context.Canceled)
}

func newClientUnderTest(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:   baseURL,
		UserAgent: "lunar-test",
		Timeout:   2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
