package oanda

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/market"
	"github.com/rustyeddy/fxtargets/pricing"
)

// DailyCount is how many daily candles DailyBars asks for.
const DailyCount = 60

var _ pricing.BarSource = (*Client)(nil)

type CandlesOptions struct {
	Instrument  string // e.g. USD_JPY
	Granularity string // e.g. D, H1
	Price       string // M, B, A

	From  time.Time // optional
	To    time.Time // optional
	Count int       // optional (used if >0)
}

type ohlc struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

type candle struct {
	Complete bool   `json:"complete"`
	Time     string `json:"time"`
	Volume   int    `json:"volume"`
	Mid      *ohlc  `json:"mid,omitempty"`
	Bid      *ohlc  `json:"bid,omitempty"`
	Ask      *ohlc  `json:"ask,omitempty"`
}

type candlesResp struct {
	Instrument  string   `json:"instrument"`
	Granularity string   `json:"granularity"`
	Candles     []candle `json:"candles"`
}

func (cd candle) component(price string) (*ohlc, error) {
	switch price {
	case "M":
		return cd.Mid, nil
	case "B":
		return cd.Bid, nil
	case "A":
		return cd.Ask, nil
	}
	return nil, fmt.Errorf("price=%s not supported; use M/B/A", price)
}

func (c *Client) candles(ctx context.Context, opts CandlesOptions) (candlesResp, string, error) {
	if opts.Instrument == "" {
		return candlesResp{}, "", fmt.Errorf("oanda: missing instrument")
	}
	if opts.Granularity == "" {
		return candlesResp{}, "", fmt.Errorf("oanda: missing granularity")
	}
	price := strings.ToUpper(strings.TrimSpace(opts.Price))
	if price == "" {
		price = "M"
	}
	if _, err := (candle{}).component(price); err != nil {
		return candlesResp{}, "", err
	}

	q := url.Values{}
	q.Set("granularity", opts.Granularity)
	q.Set("price", price)
	if opts.Count > 0 {
		q.Set("count", strconv.Itoa(opts.Count))
	} else {
		if !opts.From.IsZero() {
			q.Set("from", opts.From.UTC().Format(time.RFC3339Nano))
		}
		if !opts.To.IsZero() {
			q.Set("to", opts.To.UTC().Format(time.RFC3339Nano))
		}
	}

	body, err := c.get(ctx, fmt.Sprintf("/v3/instruments/%s/candles", opts.Instrument), q)
	if err != nil {
		return candlesResp{}, "", err
	}
	defer body.Close()

	var cr candlesResp
	if err := json.NewDecoder(body).Decode(&cr); err != nil {
		return candlesResp{}, "", err
	}
	return cr, price, nil
}

// DailyBars fetches the last DailyCount complete daily mid candles.
func (c *Client) DailyBars(ctx context.Context, base, quote string) ([]market.PriceBar, error) {
	inst := base + "_" + quote
	cr, _, err := c.candles(ctx, CandlesOptions{
		Instrument:  inst,
		Granularity: "D",
		Price:       "M",
		Count:       DailyCount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pricing.ErrDataUnavailable, inst, err)
	}

	bars := make([]market.PriceBar, 0, len(cr.Candles))
	for _, cd := range cr.Candles {
		if !cd.Complete || cd.Mid == nil {
			continue
		}
		b, err := cd.bar()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", pricing.ErrDataUnavailable, inst, err)
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: no complete candles", pricing.ErrDataUnavailable, inst)
	}
	return bars, nil
}

func (cd candle) bar() (market.PriceBar, error) {
	t, err := time.Parse(time.RFC3339Nano, cd.Time)
	if err != nil {
		return market.PriceBar{}, fmt.Errorf("candle time %q: %w", cd.Time, err)
	}
	high, err := decimal.NewFromString(cd.Mid.H)
	if err != nil {
		return market.PriceBar{}, fmt.Errorf("candle high %q: %w", cd.Mid.H, err)
	}
	low, err := decimal.NewFromString(cd.Mid.L)
	if err != nil {
		return market.PriceBar{}, fmt.Errorf("candle low %q: %w", cd.Mid.L, err)
	}
	b := market.PriceBar{Date: market.Day(t), High: high, Low: low}
	return b, b.Validate()
}

// DownloadCandlesToCSV writes candles in the canonical CSV layout
// time,instrument,granularity,complete,volume,o,h,l,c and returns the rows written.
func (c *Client) DownloadCandlesToCSV(ctx context.Context, opts CandlesOptions, w io.Writer) (int, error) {
	cr, price, err := c.candles(ctx, opts)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "instrument", "granularity", "complete", "volume", "o", "h", "l", "c"}); err != nil {
		return 0, err
	}

	written := 0
	for _, cd := range cr.Candles {
		// price was checked by candles
		p, _ := cd.component(price)
		if p == nil {
			continue
		}
		row := []string{
			cd.Time,
			cr.Instrument,
			cr.Granularity,
			strconv.FormatBool(cd.Complete),
			strconv.Itoa(cd.Volume),
			p.O, p.H, p.L, p.C,
		}
		if err := cw.Write(row); err != nil {
			return written, err
		}
		written++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, err
	}
	return written, nil
}
