package risk

// EURUSD -> quote = USD -> QuoteToAccount = 1.0
// USDJPY -> quote = JPY -> QuoteToAccount = 1 / USDJPY mid

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxtargets/market"
)

type Inputs struct {
	Instrument     market.Instrument
	Equity         decimal.Decimal
	RiskPct        decimal.Decimal // 0.005
	EntryPrice     decimal.Decimal
	StopPrice      decimal.Decimal
	QuoteToAccount decimal.Decimal // USD quote -> 1.0, JPY quote -> JPYUSD
}

type Result struct {
	Units      decimal.Decimal
	StopPips   decimal.Decimal
	RiskAmount decimal.Decimal
}

// PositionSize returns how many units put RiskPct of Equity at risk if the
// stop is hit. Units are floored; a zero stop distance yields zero units.
func PositionSize(in Inputs) (Result, error) {
	if !in.Equity.IsPositive() {
		return Result{}, invalid("equity", "%s must be positive", in.Equity)
	}
	if !in.RiskPct.IsPositive() || in.RiskPct.GreaterThan(decimal.NewFromInt(1)) {
		return Result{}, invalid("risk_pct", "%s must be in (0, 1]", in.RiskPct)
	}
	if !in.QuoteToAccount.IsPositive() {
		return Result{}, invalid("quote_to_account", "%s must be positive", in.QuoteToAccount)
	}

	pip := market.PipSize(in.Instrument)
	stopPips := in.EntryPrice.Sub(in.StopPrice).Abs().Div(pip)
	riskAmt := in.Equity.Mul(in.RiskPct)

	res := Result{StopPips: stopPips, RiskAmount: riskAmt}
	if stopPips.IsZero() {
		return res, nil
	}

	pipValuePerUnit := pip.Mul(in.QuoteToAccount)
	res.Units = riskAmt.Div(stopPips.Mul(pipValuePerUnit)).Floor()
	return res, nil
}

// RR is the reward to risk ratio of a planned trade, 0 when there is no risk.
func RR(entry, stop, takeProfit decimal.Decimal) decimal.Decimal {
	risk := entry.Sub(stop).Abs()
	if risk.IsZero() {
		return decimal.Zero
	}
	return takeProfit.Sub(entry).Abs().Div(risk)
}
