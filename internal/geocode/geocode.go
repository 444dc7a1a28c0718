package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

// ErrNoResult means the service answered but could not resolve the address.
var ErrNoResult = errors.New("no geocoding result for address")

// Client resolves free-text addresses against a Nominatim-style search
// endpoint. Events are only ever stored with a location this client produced.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve returns the best match for the given address text. ErrNoResult is
// returned when the service finds nothing; any other error means the service
// itself was unreachable or misbehaved.
func (c *Client) Resolve(ctx context.Context, address string) (models.EventLocation, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return models.EventLocation{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.EventLocation{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.EventLocation{}, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.EventLocation{}, fmt.Errorf("geocode response decode failed: %w", err)
	}
	if len(results) == 0 {
		return models.EventLocation{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.EventLocation{}, fmt.Errorf("geocode returned bad latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.EventLocation{}, fmt.Errorf("geocode returned bad longitude %q", results[0].Lon)
	}

	return models.EventLocation{Lat: lat, Lon: lon, Address: results[0].DisplayName}, nil
}
