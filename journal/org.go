package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatCalculationOrg renders a calculation as an Org-mode block suitable for
// pasting into a trading journal. Structured facts go in a PROPERTIES drawer.
func FormatCalculationOrg(c CalculationRecord) string {
	places := c.DecimalPlaces

	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s @ %s (%s)\n", c.Instrument, c.Direction, c.Entry.StringFixed(places), shortID(c.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ID: %s\n", c.ID)
	fmt.Fprintf(&b, ":INSTRUMENT: %s\n", c.Instrument)
	fmt.Fprintf(&b, ":DIRECTION: %s\n", c.Direction)
	fmt.Fprintf(&b, ":ENTRY: %s\n", c.Entry.StringFixed(places))
	fmt.Fprintf(&b, ":ATR: %s\n", c.ATR.StringFixed(places))
	fmt.Fprintf(&b, ":RISK_REWARD: %s\n", c.RiskReward.String())
	fmt.Fprintf(&b, ":STOP_LOSS: %s\n", c.StopLoss.StringFixed(places))
	fmt.Fprintf(&b, ":TAKE_PROFIT: %s\n", c.TakeProfit.StringFixed(places))
	fmt.Fprintf(&b, ":CREATED: %s\n", c.CreatedAt.UTC().Format(time.RFC3339))
	if c.Note != "" {
		fmt.Fprintf(&b, ":NOTE: %s\n", c.Note)
	}
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n- \n")
	return b.String()
}

// FormatCalculationsOrg renders multiple calculations separated by blank lines.
func FormatCalculationsOrg(recs []CalculationRecord) string {
	var b strings.Builder
	for i, c := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatCalculationOrg(c))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
