// Package alphavantage reads daily FX bars from the Alpha Vantage FX_DAILY endpoint.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
)

const DefaultBaseURL = "https://www.alphavantage.co"

const seriesKey = "Time Series FX (Daily)"

var _ pricing.BarSource = (*Client)(nil)

type Client struct {
	APIKey string
	http   *resty.Client
	log    *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.http.SetBaseURL(strings.TrimRight(u, "/")) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for apiKey. The key is never logged.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		APIKey: apiKey,
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetHeader("Accept", "application/json"),
		log: zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type dailyBar struct {
	Open  string `json:"1. open"`
	High  string `json:"2. high"`
	Low   string `json:"3. low"`
	Close string `json:"4. close"`
}

type fxDailyResp struct {
	Series       map[string]dailyBar `json:"Time Series FX (Daily)"`
	Note         string              `json:"Note"`
	Information  string              `json:"Information"`
	ErrorMessage string              `json:"Error Message"`
}

// DailyBars fetches the compact (about 100 days) daily series for base/quote.
func (c *Client) DailyBars(ctx context.Context, base, quote string) ([]market.PriceBar, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("%w: alphavantage: missing api key", pricing.ErrDataUnavailable)
	}
	if base == "" || quote == "" {
		return nil, fmt.Errorf("%w: alphavantage: missing currency", pricing.ErrDataUnavailable)
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":    "FX_DAILY",
			"from_symbol": base,
			"to_symbol":   quote,
			"outputsize":  "compact",
			"apikey":      c.APIKey,
		}).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("%w: alphavantage %s%s: %v", pricing.ErrDataUnavailable, base, quote, err)
	}
	c.log.Debug("alphavantage response",
		zap.String("pair", base+quote),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: alphavantage http %d: %s", pricing.ErrDataUnavailable,
			resp.StatusCode(), strings.TrimSpace(truncate(resp.String(), 512)))
	}

	var out fxDailyResp
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: alphavantage decode: %v", pricing.ErrDataUnavailable, err)
	}
	if len(out.Series) == 0 {
		return nil, fmt.Errorf("%w: alphavantage %s%s: %s", pricing.ErrDataUnavailable, base, quote, out.reason())
	}

	bars := make([]market.PriceBar, 0, len(out.Series))
	for day, v := range out.Series {
		b, err := v.bar(day)
		if err != nil {
			return nil, fmt.Errorf("%w: alphavantage %s%s: %v", pricing.ErrDataUnavailable, base, quote, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

// reason picks the provider's explanation for an empty series.
func (r fxDailyResp) reason() string {
	for _, s := range []string{r.ErrorMessage, r.Note, r.Information} {
		if s != "" {
			return s
		}
	}
	return "no " + seriesKey + " in response (possible rate limit)"
}

func (v dailyBar) bar(day string) (market.PriceBar, error) {
	date, err := market.ParseDay(day)
	if err != nil {
		return market.PriceBar{}, fmt.Errorf("date %q: %w", day, err)
	}
	high, err := decimal.NewFromString(v.High)
	if err != nil {
		return market.PriceBar{}, fmt.Errorf("%s high %q: %w", day, v.High, err)
	}
	low, err := decimal.NewFromString(v.Low)
	if err != nil {
		return market.PriceBar{}, fmt.Errorf("%s low %q: %w", day, v.Low, err)
	}
	b := market.PriceBar{Date: date, High: high, Low: low}
	return b, b.Validate()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
