// Package qualp is a client for the QualP rotas v4 route-pricing API.
package qualp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mvcarvalho/fretebot/freight"
)

const (
	defaultBaseURL = "https://api.qualp.com.br"
	routePath      = "/rotas/v4"

	// Containerized cargo priced on the ANTT table D tier.
	freightCategory = "D"
	freightLoad     = "conteineirizada"
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// CalculateRoute prices a round trip for the given request: origin to
// destination and back, truck with the request's axle count, tolls and the
// table D containerized freight tier included.
func (c *Client) CalculateRoute(ctx context.Context, req *freight.Request) (*Response, error) {
	payload := routeRequest{
		Locations: []string{
			req.Origin.City + "," + req.Origin.State,
			req.Destination.City + "," + req.Destination.State,
		},
		Config: routeConfig{
			Route: routeOptions{
				OptimizedRouteDestination: "last",
				CalculateReturn:           true,
				AvoidLocations:            true,
				TypeRoute:                 "efficient",
			},
			Vehicle: vehicleOptions{
				Type: "truck",
				Axis: req.AxleCount,
			},
			Tolls: tollOptions{
				RetroactiveDate: c.now().Format("02/01/2006"),
			},
			FreightTable: freightOptions{
				Category:    freightCategory,
				FreightLoad: freightLoad,
				Axis:        req.AxleCount,
			},
			PrivatePlaces: privateOptions{
				MaxDistanceFromLocationToRoute: 1000,
				Categories:                     true,
				Areas:                          true,
				Contacts:                       true,
				Products:                       true,
				Services:                       true,
			},
		},
		Show: routeShow{
			Tolls:        true,
			FreightTable: true,
			TruckScales:  true,
			LinkToQualp:  true,
		},
		Format: "json",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal route request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+routePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create route request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Access-Token", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read route response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("route request failed with status %d: %s", resp.StatusCode, respBody)
	}

	var route Response
	if err := json.Unmarshal(respBody, &route); err != nil {
		return nil, fmt.Errorf("failed to parse route response: %w", err)
	}
	return &route, nil
}
