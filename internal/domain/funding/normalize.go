package funding

// Projection horizons, all linear multiples of the hourly basis.
// Month is fixed at 30 days and year at 365 days; no compounding anywhere.
const (
	HoursPerDay   = 24.0
	HoursPerMonth = 24.0 * 30
	HoursPerYear  = 24.0 * 365
)

// HourlyRate converts a rate quoted over periodHours into the canonical
// per-hour rate. Every settlement-period rate entering the system must pass
// through here; no other code path may scale a raw period rate.
func HourlyRate(rate float64, periodHours int) float64 {
	return rate / float64(ResolvePeriod(periodHours))
}

// Project converts an hourly rate or cash flow to an arbitrary horizon.
func Project(hourly, horizonHours float64) float64 {
	return hourly * horizonHours
}

func Daily(hourly float64) float64 { return Project(hourly, HoursPerDay) }

func Monthly(hourly float64) float64 { return Project(hourly, HoursPerMonth) }

func Annual(hourly float64) float64 { return Project(hourly, HoursPerYear) }
