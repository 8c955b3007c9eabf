// Package restcountries reads the country list from a REST Countries compatible API.
package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tourvisto/trip-admin-api/internal/domain"
)

// DefaultBaseURL is the public REST Countries endpoint.
const DefaultBaseURL = "https://restcountries.com"

// ErrNotAList is returned when the upstream body is valid JSON but not an array.
var ErrNotAList = errors.New("country response is not a list")

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  hc,
	}
}

type countryDTO struct {
	Flag string `json:"flag"`
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	LatLng []float64 `json:"latlng"`
	Maps   struct {
		OpenStreetMap string `json:"openStreetMap"`
	} `json:"maps"`
}

func (c *Client) FetchCountries(ctx context.Context) ([]domain.Country, error) {
	const op = "restcountries.FetchCountries"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v3.1/all", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if trimmed := strings.TrimSpace(string(raw)); !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAList)
	}

	var dtos []countryDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]domain.Country, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toDomain(d))
	}
	return out, nil
}

func toDomain(d countryDTO) domain.Country {
	c := domain.Country{
		Name:    d.Flag + " " + d.Name.Common,
		Value:   d.Name.Common,
		MapLink: d.Maps.OpenStreetMap,
	}
	if len(d.LatLng) >= 2 {
		c.Coordinates = domain.Coordinates{d.LatLng[0], d.LatLng[1]}
	}
	return c
}
