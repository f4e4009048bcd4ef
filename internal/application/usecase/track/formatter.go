package track

import (
	"fmt"
	"strings"

	"fundtrack/internal/domain/funding"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

func colorize(s, c string) string { return c + s + ansiReset }

func signColor(v float64) string {
	switch {
	case v > 0:
		return ansiGreen
	case v < 0:
		return ansiRed
	default:
		return ansiYellow
	}
}

// Formatter renders one snapshot as a single console summary line.
type Formatter struct{}

func NewFormatter() *Formatter { return &Formatter{} }

func metricStr(m funding.Metric, format string) string {
	if !m.Defined {
		return "--"
	}
	return fmt.Sprintf(format, m.Value)
}

func (f *Formatter) Render(snap Snapshot) string {
	st := snap.Stats
	agg := snap.Forecast

	var sb strings.Builder
	sb.WriteString(colorize("[FUND] ", ansiDim))

	sb.WriteString(fmt.Sprintf("eq=%.2f notional=%.2f lev=%s", st.Equity, st.GrossNotional, metricStr(st.Leverage, "%.2fx")))
	sb.WriteString(colorize(" || ", ansiDim))

	sb.WriteString(fmt.Sprintf("recv=%.4f paid=%.4f ", st.Received, st.Paid))
	sb.WriteString(colorize(fmt.Sprintf("net=%+.4f", st.Net), signColor(st.Net)))
	sb.WriteString(colorize(" || ", ansiDim))

	sb.WriteString(fmt.Sprintf("win=%.1fh ", st.WindowCoverageHours))
	sb.WriteString(colorize(fmt.Sprintf("day=%+.4f", st.DailyNet), signColor(st.DailyNet)))
	sb.WriteString(fmt.Sprintf(" month=%+.2f year=%+.2f", st.MonthlyNet, st.AnnualNet))
	sb.WriteString(colorize(" || ", ansiDim))

	sb.WriteString(colorize(fmt.Sprintf("fcast=%+.6f/h", agg.HourlyRate), signColor(-agg.HourlyFee)))
	if st.AnnualYield.Defined {
		sb.WriteString(colorize(fmt.Sprintf(" apr=%+.2f%%", st.AnnualYield.Value*100), signColor(st.AnnualYield.Value)))
	} else {
		sb.WriteString(" apr=--")
	}

	return sb.String()
}
