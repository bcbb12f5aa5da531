// Package places wraps the Geoapify geocoding and places APIs used for
// the destination-lookup feature.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"wanderwise/internal/model"
)

var ErrCityNotFound = errors.New("city not found")

const (
	defaultBaseURL = "https://api.geoapify.com"
	searchRadiusM  = 5000
	maxPlaces      = 20
)

// Lookup is what the places service needs from the upstream API.
type Lookup interface {
	GetCityPlaces(ctx context.Context, city string) (*model.CityInfo, error)
}

// Client talks to Geoapify. BaseURL is overridable for tests.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(apiKey string, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// NewClientWithBaseURL is the test constructor.
func NewClientWithBaseURL(apiKey, baseURL string, logger *zap.Logger) *Client {
	c := NewClient(apiKey, logger)
	c.baseURL = baseURL
	return c
}

type geocodeResponse struct {
	Features []struct {
		Properties struct {
			City      string  `json:"city"`
			Formatted string  `json:"formatted"`
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
		} `json:"properties"`
	} `json:"features"`
}

type placesResponse struct {
	Features []struct {
		Properties struct {
			Name       string   `json:"name"`
			Categories []string `json:"categories"`
			AddressL2  string   `json:"address_line2"`
		} `json:"properties"`
	} `json:"features"`
}

// GetCityPlaces geocodes the city, then pulls nearby sights.
func (c *Client) GetCityPlaces(ctx context.Context, city string) (*model.CityInfo, error) {
	name, lat, lon, err := c.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	sights, err := c.searchSights(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("places lookup complete",
		zap.String("city", name),
		zap.Int("places", len(sights)),
	)

	return &model.CityInfo{
		Name:            name,
		Description:     fmt.Sprintf("Explore the beautiful city of %s, known for its rich culture, history, and attractions.", name),
		BestTimeToVisit: "The best time to visit is during spring (March to May) and fall (September to November) when the weather is pleasant.",
		Places:          sights,
	}, nil
}

func (c *Client) geocode(ctx context.Context, city string) (name string, lat, lon float64, err error) {
	q := url.Values{}
	q.Set("text", city)
	q.Set("type", "city")
	q.Set("limit", "1")
	q.Set("apiKey", c.apiKey)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/v1/geocode/search", q, &resp); err != nil {
		return "", 0, 0, err
	}
	if len(resp.Features) == 0 {
		return "", 0, 0, ErrCityNotFound
	}

	p := resp.Features[0].Properties
	name = p.City
	if name == "" {
		name = strings.SplitN(p.Formatted, ",", 2)[0]
	}
	return name, p.Lat, p.Lon, nil
}

func (c *Client) searchSights(ctx context.Context, lat, lon float64) ([]model.PlaceDetails, error) {
	q := url.Values{}
	q.Set("categories", "tourism.sights,tourism.attraction")
	q.Set("filter", fmt.Sprintf("circle:%f,%f,%d", lon, lat, searchRadiusM))
	q.Set("limit", fmt.Sprintf("%d", maxPlaces))
	q.Set("apiKey", c.apiKey)

	var resp placesResponse
	if err := c.getJSON(ctx, "/v2/places", q, &resp); err != nil {
		return nil, err
	}

	places := make([]model.PlaceDetails, 0, len(resp.Features))
	for _, f := range resp.Features {
		if f.Properties.Name == "" {
			continue
		}
		places = append(places, model.PlaceDetails{
			Name:        f.Properties.Name,
			Description: f.Properties.AddressL2,
			Categories:  f.Properties.Categories,
		})
	}
	return places, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build places request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("places request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}
