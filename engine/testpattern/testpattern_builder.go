package testpattern

// Option is a functional option applied to a Pattern during construction via New.
type Option func(*Pattern)

// WithPeriod sets how long the marker takes to sweep across the pattern once.
//
// Parameters:
//   - seconds: the sweep period; values <= 0 are ignored
//
// Returns:
//   - Option: option function to apply
func WithPeriod(seconds float32) Option {
	return func(p *Pattern) {
		if seconds > 0 {
			p.period = seconds
		}
	}
}
