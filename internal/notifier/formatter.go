package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockInsight/internal/collector"
	"StockInsight/internal/model"
	"StockInsight/internal/strategy"
)

// DigestEntry is one watchlist symbol's outcome for the digest.
type DigestEntry struct {
	Symbol   string
	Analysis *collector.Analysis
	Err      error
}

// FormatDigest renders the watchlist indicator digest.
func FormatDigest(date time.Time, entries []DigestEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>StockInsight digest</b> | %s\n", date.Format(model.DateLayout)))

	for _, e := range entries {
		b.WriteString("\n")
		if e.Err != nil {
			b.WriteString(fmt.Sprintf("⚠️ <b>%s</b>: %s\n", html.EscapeString(e.Symbol), html.EscapeString(e.Err.Error())))
			continue
		}
		writeSummary(&b, e.Analysis)
	}
	return b.String()
}

// FormatSnapshot renders a single symbol's latest indicators in full.
func FormatSnapshot(a *collector.Analysis) string {
	var b strings.Builder
	writeSummary(&b, a)
	b.WriteString("\n")
	for _, name := range model.IndicatorNames {
		if v, ok := a.Latest[name]; ok {
			b.WriteString(fmt.Sprintf("  %s: %.2f\n", name, v))
		}
	}
	b.WriteString("\n")
	for _, f := range strategy.Evaluate(a.Latest, a.LastBar().Close).Factors {
		b.WriteString(fmt.Sprintf("  %s %+.1f: %s\n", f.Name, f.RawScore, html.EscapeString(f.Commentary)))
	}
	if len(a.Failures) > 0 {
		var names []string
		for _, f := range a.Failures {
			if len(f.Series) == 0 {
				names = append(names, f.Indicator)
				continue
			}
			names = append(names, f.Series...)
		}
		b.WriteString(fmt.Sprintf("  unavailable: %s\n", strings.Join(names, ", ")))
	}
	return b.String()
}

func writeSummary(b *strings.Builder, a *collector.Analysis) {
	last := a.LastBar()
	change := 0.0
	if n := len(a.Bars); n > 1 && a.Bars[n-2].Close != 0 {
		prev := a.Bars[n-2].Close
		change = (last.Close - prev) / prev * 100
	}
	b.WriteString(fmt.Sprintf("<b>%s</b> %.2f (%+.2f%%) as of %s\n",
		html.EscapeString(a.Symbol), last.Close, change, last.DateString()))

	var notes []string
	if rsi, ok := a.Latest[model.RSI]; ok {
		notes = append(notes, fmt.Sprintf("RSI %.1f%s", rsi, rsiNote(rsi)))
	}
	if hist, ok := a.Latest[model.MACDHistogram]; ok {
		if hist >= 0 {
			notes = append(notes, "MACD ▲")
		} else {
			notes = append(notes, "MACD ▼")
		}
	}
	if up, ok := a.Latest[model.BBUpper]; ok && last.Close > up {
		notes = append(notes, "above upper band")
	}
	if lo, ok := a.Latest[model.BBLower]; ok && last.Close < lo {
		notes = append(notes, "below lower band")
	}
	if adx, ok := a.Latest[model.ADX]; ok && adx >= 25 {
		notes = append(notes, fmt.Sprintf("trending (ADX %.0f)", adx))
	}
	if len(notes) > 0 {
		b.WriteString("  " + strings.Join(notes, " · ") + "\n")
	}

	outlook := strategy.Evaluate(a.Latest, last.Close)
	b.WriteString(fmt.Sprintf("  Outlook: <b>%s</b> (%+.2f)\n", outlook.Label, outlook.TotalScore))
	if outlook.WarningMsg != "" {
		b.WriteString("  " + outlook.WarningMsg + "\n")
	}
}

func rsiNote(rsi float64) string {
	switch {
	case rsi >= 70:
		return " overbought"
	case rsi <= 30:
		return " oversold"
	default:
		return ""
	}
}
