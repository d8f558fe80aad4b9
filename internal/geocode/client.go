package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://geocode-maps.yandex.ru/1.x/"

// Sentinel address strings returned instead of errors; the address is
// display-only and must never block a submission.
const (
	AddressNotFound   = "адрес не найден"
	AddressLookupFail = "не удалось определить адрес"
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve turns a coordinate pair into a human-readable address or a
// sentinel string on any failure.
func (c *Client) Resolve(ctx context.Context, lat, lon float64) string {
	query := url.Values{}
	query.Set("geocode", fmt.Sprintf("%f,%f", lon, lat))
	query.Set("format", "json")
	query.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return AddressLookupFail
	}

	resp, err := c.http.Do(req)
	if err != nil {
		zap.S().Warnf("geocode: lookup for (%f, %f) failed: %v", lat, lon, err)
		return AddressLookupFail
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		zap.S().Warnf("geocode: lookup for (%f, %f) returned status %d", lat, lon, resp.StatusCode)
		return AddressLookupFail
	}

	var payload struct {
		Response struct {
			GeoObjectCollection struct {
				FeatureMember []struct {
					GeoObject struct {
						Name        string `json:"name"`
						Description string `json:"description"`
					} `json:"GeoObject"`
				} `json:"featureMember"`
			} `json:"GeoObjectCollection"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		zap.S().Warnf("geocode: malformed response for (%f, %f): %v", lat, lon, err)
		return AddressLookupFail
	}

	features := payload.Response.GeoObjectCollection.FeatureMember
	if len(features) == 0 {
		return AddressNotFound
	}

	obj := features[0].GeoObject
	if obj.Description != "" {
		return obj.Description + ", " + obj.Name
	}
	return obj.Name
}
