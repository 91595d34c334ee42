// Package oanda reads daily candles from the OANDA v20 REST API.
package oanda

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const PracticeURL = "https://api-fxpractice.oanda.com"

type Client struct {
	BaseURL string // e.g. https://api-fxpractice.oanda.com
	Token   string
	HTTP    *http.Client
}

// BaseURL maps an environment name to the REST endpoint. Only the practice
// environment is allowed.
func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "practice", "demo":
		return PracticeURL, nil
	case "live":
		return "", errors.New("oanda: live environment not allowed")
	default:
		return "", fmt.Errorf("unknown OANDA env %q (want practice)", env)
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	if c.Token == "" {
		return nil, fmt.Errorf("oanda: missing token")
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("oanda: missing base url")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return resp.Body, nil
}

type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("oanda http %d: %s", e.Status, e.Body)
}
