package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy holds the limits a trade plan is checked against.
type Policy struct {
	DefaultRiskPct decimal.Decimal // 0.005
	MaxRiskPct     decimal.Decimal // 0.01
	MinRR          decimal.Decimal // 1.5
}

// DefaultPolicy risks half a percent normally, one percent at most, and
// wants at least 1.5:1 reward to risk.
func DefaultPolicy() Policy {
	return Policy{
		DefaultRiskPct: decimal.RequireFromString("0.005"),
		MaxRiskPct:     decimal.RequireFromString("0.01"),
		MinRR:          decimal.RequireFromString("1.5"),
	}
}

type Violation struct {
	Code string
	Msg  string
	// Warning violations are reported but leave the plan allowed.
	Warning bool
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	PlannedRR decimal.Decimal
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

func (d *Decision) warn(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg, Warning: true})
}

// Evaluate checks planned targets and the fraction of equity at risk
// against p. A zero limit in p is not enforced.
func Evaluate(p Policy, entry decimal.Decimal, t PriceTargets, riskPct decimal.Decimal) Decision {
	d := Decision{Allowed: true}

	if t.StopDistance(entry).IsZero() {
		d.add("NO_STOP_DISTANCE", "stop equals entry")
		return d
	}

	d.PlannedRR = RR(entry, t.StopLoss, t.TakeProfit)
	if p.MinRR.IsPositive() && d.PlannedRR.LessThan(p.MinRR) {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %s below minimum %s", d.PlannedRR.StringFixed(2), p.MinRR.StringFixed(2)))
	}

	pct := riskPct.Mul(decimal.NewFromInt(100))
	if p.MaxRiskPct.IsPositive() && riskPct.GreaterThan(p.MaxRiskPct) {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("planned risk %s%% exceeds max %s%%", pct.StringFixed(2), p.MaxRiskPct.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}
	if p.DefaultRiskPct.IsPositive() && riskPct.GreaterThan(p.DefaultRiskPct) {
		d.warn("RISK_OVER_DEFAULT",
			fmt.Sprintf("planned risk %s%% exceeds default %s%%", pct.StringFixed(2), p.DefaultRiskPct.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}
	return d
}
