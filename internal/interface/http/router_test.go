package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
	"github.com/yanqian/lunar-calendar/internal/infra/config"
	apperrors "github.com/yanqian/lunar-calendar/pkg/errors"
)

func TestRouter_CalendarSuccess(t *testing.T) {
	svc := &stubService{
		calendarFn: func(ctx context.Context, req lunar.CalendarRequest) (lunar.CalendarResponse, error) {
			require.Equal(t, 2024, req.Year)
			require.InDelta(t, 40.7128, req.Latitude, 1e-9)
			require.InDelta(t, -74.006, req.Longitude, 1e-9)
			return lunar.CalendarResponse{Title: "2024 | New York, USA (40.7128°, -74.0060°)"}, nil
		},
	}

	recorder := performGet("/api/v1/calendar?year=2024&lat=40.7128&lng=-74.006", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got lunar.CalendarResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "2024 | New York, USA (40.7128°, -74.0060°)", got.Title)
}

func TestRouter_CalendarBadQuery(t *testing.T) {
	recorder := performGet("/api/v1/calendar?year=abc", newRouterUnderTest(t, &stubService{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_CalendarInvalidLocation(t *testing.T) {
	svc := &stubService{
		calendarFn: func(ctx context.Context, req lunar.CalendarRequest) (lunar.CalendarResponse, error) {
			return lunar.CalendarResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude out of range", lunar.ErrInvalidLocation)
		},
	}

	recorder := performGet("/api/v1/calendar?year=2024&lat=91", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "latitude out of range")
}

func TestRouter_CalendarPresetsUnavailable(t *testing.T) {
	svc := &stubService{
		calendarFn: func(ctx context.Context, req lunar.CalendarRequest) (lunar.CalendarResponse, error) {
			return lunar.CalendarResponse{}, apperrors.Wrap(apperrors.CodePresetError, "load presets", context.DeadlineExceeded)
		},
	}

	recorder := performGet("/api/v1/calendar?year=2024&preset=custom", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Equal(t, "presets_unavailable", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_DaySuccess(t *testing.T) {
	svc := &stubService{
		inspectFn: func(ctx context.Context, req lunar.InspectRequest) (lunar.TooltipPayload, error) {
			require.Equal(t, lunar.InspectRequest{Year: 2024, Month: 0, Day: 11}, req)
			return lunar.TooltipPayload{FormattedDate: "Jan 11", IlluminationPercent: "99.5", Phase: lunar.PhaseFullMoon}, nil
		},
	}

	recorder := performGet("/api/v1/calendar/day?year=2024&month=0&day=11&lat=0&lng=0", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"date":"Jan 11","illumination":"99.5","phase":"Full Moon"}`, recorder.Body.String())
}

func TestRouter_DayErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "impossible date",
			err:    apperrors.Wrap(apperrors.CodeImpossibleDate, "2023-02-29 does not exist", lunar.ErrImpossibleDate),
			status: http.StatusBadRequest,
			code:   apperrors.CodeImpossibleDate,
		},
		{
			name:   "unoccupied cell",
			err:    apperrors.Wrap(apperrors.CodeUnoccupiedCell, "cell is empty", lunar.ErrUnoccupiedCell),
			status: http.StatusUnprocessableEntity,
			code:   apperrors.CodeUnoccupiedCell,
		},
		{
			name:   "unexpected",
			err:    io.ErrUnexpectedEOF,
			status: http.StatusInternalServerError,
			code:   "inspect_failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{
				inspectFn: func(ctx context.Context, req lunar.InspectRequest) (lunar.TooltipPayload, error) {
					return lunar.TooltipPayload{}, tc.err
				},
			}
			recorder := performGet("/api/v1/calendar/day?year=2023&month=1&day=29", newRouterUnderTest(t, svc))
			require.Equal(t, tc.status, recorder.Code)
			require.Equal(t, tc.code, decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
		})
	}
}

func TestRouter_YearsAndLocations(t *testing.T) {
	svc := &stubService{
		years:   []int{1980, 1981},
		presets: []lunar.Preset{{Value: lunar.CustomPresetValue, Label: "Custom"}},
	}
	server := newRouterUnderTest(t, svc)

	recorder := performGet("/api/v1/years", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"years":[1980,1981]}`, recorder.Body.String())

	recorder = performGet("/api/v1/locations", server)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"locations":[{"value":"custom","label":"Custom"}]}`, recorder.Body.String())
}

func TestRouter_Place(t *testing.T) {
	svc := &stubService{
		placeFn: func(ctx context.Context, loc lunar.Location) (lunar.PlaceName, error) {
			require.Equal(t, lunar.Location{Latitude: 48.8566, Longitude: 2.3522}, loc)
			return lunar.PlaceName{Name: "Paris, France", Resolved: true}, nil
		},
	}

	recorder := performGet("/api/v1/places?lat=48.8566&lng=2.3522", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"name":"Paris, France","resolved":true}`, recorder.Body.String())
}

func TestRouter_RequestIDPropagation(t *testing.T) {
	server := newRouterUnderTest(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	rec = performGet("/healthz", server)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t, &stubService{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/calendar", nil)
	req.Header.Set("Origin", "https://moon.example")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://moon.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
}

func TestRouter_RateLimit(t *testing.T) {
	handler := NewHandler(&stubService{}, newTestLogger())
	cfg := testConfig()
	cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server := NewRouter(cfg, handler)

	require.Equal(t, http.StatusOK, performGet("/healthz", server).Code)

	rec := performGet("/healthz", server)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestIPRateLimiter_Refills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2}, func() time.Time { return now })

	require.True(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
}

func TestIPRateLimiter_SweepsOncePerTTL(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2}, func() time.Time { return now })

	require.True(t, limiter.allow("10.0.0.1"))

	now = start.Add(4 * time.Minute)
	require.True(t, limiter.allow("10.0.0.2"))
	require.Equal(t, start, limiter.lastSweep)

	// First sweep: 10.0.0.1 has been idle for six minutes.
	now = start.Add(6 * time.Minute)
	require.True(t, limiter.allow("10.0.0.3"))
	require.Equal(t, now, limiter.lastSweep)
	require.NotContains(t, limiter.buckets, "10.0.0.1")
	require.Contains(t, limiter.buckets, "10.0.0.2")

	// 10.0.0.2 is now idle past ttl, but the next sweep is not due yet.
	now = start.Add(10 * time.Minute)
	require.True(t, limiter.allow("10.0.0.4"))
	require.Contains(t, limiter.buckets, "10.0.0.2")
	require.Equal(t, start.Add(6*time.Minute), limiter.lastSweep)

	now = start.Add(11 * time.Minute)
	require.True(t, limiter.allow("10.0.0.4"))
	require.Equal(t, now, limiter.lastSweep)
	require.NotContains(t, limiter.buckets, "10.0.0.2")
	require.Contains(t, limiter.buckets, "10.0.0.3")
}

func TestAsHTTPErrorMapsAppErrorCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.Wrap(apperrors.CodeInvalidInput, "bad", nil), http.StatusBadRequest, "invalid_request"},
		{apperrors.Wrap(apperrors.CodeImpossibleDate, "bad", nil), http.StatusBadRequest, apperrors.CodeImpossibleDate},
		{apperrors.Wrap(apperrors.CodeUnoccupiedCell, "bad", nil), http.StatusUnprocessableEntity, apperrors.CodeUnoccupiedCell},
		{apperrors.Wrap(apperrors.CodePresetError, "bad", nil), http.StatusServiceUnavailable, "presets_unavailable"},
		{apperrors.Wrap(apperrors.CodeGridError, "bad", nil), http.StatusInternalServerError, "internal_error"},
		{io.EOF, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		got := asHTTPError(tc.err)
		require.Equal(t, tc.status, got.Status, "%v", tc.err)
		require.Equal(t, tc.code, got.Code, "%v", tc.err)
	}

	explicit := NewHTTPError(http.StatusTeapot, "teapot", "short and stout", nil)
	require.Same(t, explicit, asHTTPError(explicit))
}

func TestCORSPolicy(t *testing.T) {
	open := newCORSPolicy(nil)
	require.Equal(t, "*", open.allowOrigin("https://any.example"))

	listed := newCORSPolicy([]string{" https://moon.example ", "https://sun.example"})
	require.Equal(t, "https://sun.example", listed.allowOrigin("https://sun.example"))
	require.Equal(t, "https://SUN.example", listed.allowOrigin("https://SUN.example"))
	require.Equal(t, "https://moon.example", listed.allowOrigin("https://evil.example"))
	require.Equal(t, "https://moon.example", listed.allowOrigin(""))

	require.Equal(t, "*", newCORSPolicy([]string{"https://moon.example", "*"}).allowOrigin("x"))
}

func performGet(path string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc lunar.Service) *http.Server {
	t.Helper()
	return NewRouter(testConfig(), NewHandler(svc, newTestLogger()))
}

func testConfig() *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:        ":0",
			ReadTimeout:    time.Second,
			WriteTimeout:   time.Second,
			AllowedOrigins: []string{"https://moon.example"},
		},
	}
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubService struct {
	calendarFn func(ctx context.Context, req lunar.CalendarRequest) (lunar.CalendarResponse, error)
	inspectFn  func(ctx context.Context, req lunar.InspectRequest) (lunar.TooltipPayload, error)
	placeFn    func(ctx context.Context, loc lunar.Location) (lunar.PlaceName, error)
	years      []int
	presets    []lunar.Preset
}

func (s *stubService) Calendar(ctx context.Context, req lunar.CalendarRequest) (lunar.CalendarResponse, error) {
	if s.calendarFn != nil {
		return s.calendarFn(ctx, req)
	}
	return lunar.CalendarResponse{}, nil
}

func (s *stubService) Inspect(ctx context.Context, req lunar.InspectRequest) (lunar.TooltipPayload, error) {
	if s.inspectFn != nil {
		return s.inspectFn(ctx, req)
	}
	return lunar.TooltipPayload{}, nil
}

func (s *stubService) Years() []int {
	return s.years
}

func (s *stubService) Presets(ctx context.Context) ([]lunar.Preset, error) {
	return s.presets, nil
}

func (s *stubService) Place(ctx context.Context, loc lunar.Location) (lunar.PlaceName, error) {
	if s.placeFn != nil {
		return s.placeFn(ctx, loc)
	}
	return lunar.PlaceName{Name: lunar.UnknownLocation}, nil
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
