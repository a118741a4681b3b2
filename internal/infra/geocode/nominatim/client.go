package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/lunar-calendar/internal/domain/lunar"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "lunar-calendar/1.0"
	defaultZoom      = 10
)

// Client performs reverse geocoding against a Nominatim endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	zoom       int
	httpClient *http.Client
	logger     *slog.Logger
}

// Options tunes the client. Zero values use the public OpenStreetMap defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Zoom      int
	Timeout   time.Duration
}

// NewClient builds an API client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	agent := strings.TrimSpace(opts.UserAgent)
	if agent == "" {
		agent = defaultUserAgent
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = defaultZoom
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		userAgent: agent,
		zoom:      zoom,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With("component", "geocode.nominatim"),
	}
}

// Address is the subset of the Nominatim address block used for naming.
type Address struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

type reverseResponse struct {
	Address *Address `json:"address"`
	Error   string   `json:"error"`
}

// Reverse fetches the address block for the coordinates.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (Address, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("zoom", strconv.Itoa(c.zoom))
	query.Set("addressdetails", "1")
	endpoint := fmt.Sprintf("%s/reverse?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Address{}, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("reverse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return Address{}, fmt.Errorf("reverse request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw reverseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&raw); err != nil {
		return Address{}, fmt.Errorf("decode reverse response: %w", err)
	}
	if raw.Error != "" {
		return Address{}, fmt.Errorf("reverse api error: %s", raw.Error)
	}
	if raw.Address == nil {
		return Address{}, fmt.Errorf("reverse response has no address")
	}
	return *raw.Address, nil
}

// ResolvePlace implements lunar.PlaceResolver. Failures are logged and surface
// as an unresolved UnknownLocation.
func (c *Client) ResolvePlace(ctx context.Context, loc lunar.Location) lunar.PlaceName {
	addr, err := c.Reverse(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		c.logger.Warn("reverse geocoding failed", "location", loc.Key(), "error", err)
		return lunar.PlaceName{Name: lunar.UnknownLocation}
	}
	name := PlaceLabel(addr)
	if name == "" {
		return lunar.PlaceName{Name: lunar.UnknownLocation}
	}
	return lunar.PlaceName{Name: name, Resolved: true}
}

// PlaceLabel picks the most specific named field and appends the country when
// it differs. It returns "" when the address names nothing.
func PlaceLabel(addr Address) string {
	name := firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Municipality, addr.County, addr.State, addr.Country)
	if name == "" {
		return ""
	}
	if addr.Country != "" && name != addr.Country {
		name += ", " + addr.Country
	}
	return name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var _ lunar.PlaceResolver = (*Client)(nil)
