package funding

// DefaultPeriodHours is the Binance USD-M default when the exchange does
// not report a funding interval for a symbol.
const DefaultPeriodHours = 8

// ResolvePeriod classifies an instrument's funding interval into one of
// the known settlement periods (1h/4h/8h). Anything else, including the
// absent/zero case, resolves to the 8h default.
func ResolvePeriod(hours int) int {
	switch hours {
	case 1, 4, 8:
		return hours
	default:
		return DefaultPeriodHours
	}
}
