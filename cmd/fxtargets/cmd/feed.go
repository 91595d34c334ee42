package cmd

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/rustyeddy/fxtargets/alphavantage"
	"github.com/rustyeddy/fxtargets/config"
	"github.com/rustyeddy/fxtargets/oanda"
	"github.com/rustyeddy/fxtargets/pricing"
)

// newSource builds the configured price feed.
func newSource(c *config.Config, l *zap.Logger) (pricing.BarSource, error) {
	timeout, err := c.Feed.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	switch c.Feed.Provider {
	case config.ProviderAlphaVantage:
		opts := []alphavantage.Option{alphavantage.WithLogger(l.Named("alphavantage"))}
		if c.Feed.BaseURL != "" {
			opts = append(opts, alphavantage.WithBaseURL(c.Feed.BaseURL))
		}
		if timeout > 0 {
			opts = append(opts, alphavantage.WithTimeout(timeout))
		}
		return alphavantage.New(c.Feed.APIKey, opts...), nil

	case config.ProviderOANDA:
		return newOANDA(c)

	case config.ProviderCSV:
		return pricing.CSVSource{Dir: c.Feed.CSVDir}, nil
	}
	return nil, fmt.Errorf("unknown provider %q", c.Feed.Provider)
}

func newOANDA(c *config.Config) (*oanda.Client, error) {
	base := c.Feed.BaseURL
	if base == "" {
		var err error
		if base, err = oanda.BaseURL(c.Feed.OandaEnv); err != nil {
			return nil, err
		}
	}
	timeout, err := c.Feed.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return &oanda.Client{
		BaseURL: base,
		Token:   c.Feed.APIKey,
		HTTP:    &http.Client{Timeout: timeout},
	}, nil
}
