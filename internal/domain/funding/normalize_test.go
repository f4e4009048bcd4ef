package funding

import (
	"math"
	"testing"
)

func TestResolvePeriod(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{1, 1},
		{4, 4},
		{8, 8},
		{0, 8},
		{-3, 8},
		{2, 8},
		{24, 8},
	}
	for _, c := range cases {
		if got := ResolvePeriod(c.in); got != c.want {
			t.Errorf("ResolvePeriod(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestHourlyRateRoundTrip(t *testing.T) {
	rate := 0.0006
	for _, p := range []int{1, 4, 8} {
		hourly := HourlyRate(rate, p)
		back := hourly * float64(p)
		if math.Abs(back-rate) > 1e-15 {
			t.Errorf("round trip for period %d: got %v, want %v", p, back, rate)
		}
	}
}

func TestLinearAnnualization(t *testing.T) {
	hourly := 0.0001
	if got := Annual(hourly); got != hourly*8760 {
		t.Errorf("Annual = %v, want %v", got, hourly*8760)
	}
	if got := Monthly(hourly); got != hourly*720 {
		t.Errorf("Monthly = %v, want %v", got, hourly*720)
	}
	if got := Daily(hourly); got != hourly*24 {
		t.Errorf("Daily = %v, want %v", got, hourly*24)
	}
}

func TestHourlyRateDefaultsUnknownPeriod(t *testing.T) {
	// unknown intervals must fall back to 8h, never be treated as hourly
	if got := HourlyRate(0.0008, 0); got != 0.0001 {
		t.Errorf("HourlyRate with unknown period = %v, want 0.0001", got)
	}
}
