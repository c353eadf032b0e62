// Package shopify is the only package that speaks the commerce platform's
// protocols: Admin REST for catalog reads, Storefront GraphQL for checkout
// session creation and status queries.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrMissingCredentials = errors.New("shopify access token not configured")
	ErrNotFound           = errors.New("resource not found")
)

// UnavailableError reports checkout identifiers the platform rejected as
// unavailable for sale during session creation.
type UnavailableError struct {
	Messages []string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("products unavailable for checkout: %v", e.Messages)
}

type Config struct {
	StoreDomain     string
	StorefrontToken string
	AdminToken      string
	APIVersion      string
	// BaseURL overrides https://<StoreDomain>; used in tests.
	BaseURL string
}

type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.StoreDomain
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "shopify",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}
}

// do sends a request through the circuit breaker and returns the response
// body. Non-2xx responses count as breaker failures.
func (c *Client) do(req *http.Request) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("shopify api error: %s - %s", resp.Status, string(body))
		}
		return body, nil
	})
}

// adminRequest issues a GET against the Admin REST API.
func (c *Client) adminRequest(ctx context.Context, endpoint string, out interface{}) error {
	u := fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.cfg.APIVersion, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AdminToken)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

type graphqlError struct {
	Message string `json:"message"`
}

// storefrontRequest issues a GraphQL query against the Storefront API and
// returns the raw data payload. GraphQL-level errors are surfaced as errors.
func (c *Client) storefrontRequest(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	if c.cfg.StorefrontToken == "" {
		return nil, ErrMissingCredentials
	}

	payload, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/%s/graphql.json", c.baseURL, c.cfg.APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.cfg.StorefrontToken)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return nil, fmt.Errorf("shopify graphql errors: %s", envelope.Errors[0].Message)
	}
	return envelope.Data, nil
}

func queryEscape(s string) string {
	return url.QueryEscape(s)
}
