package feedback

import "time"

// FilterBuilderOption is a functional option applied to a filter during construction via NewFilter.
type FilterBuilderOption func(*Filter)

// WithLogger sets the logger the filter reports to.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - FilterBuilderOption: a function that applies the logger option to a filter
func WithLogger(l Logger) FilterBuilderOption {
	return func(f *Filter) {
		if l != nil {
			f.log = l
		}
	}
}

// WithEffectPath overrides the compositing effect file. The default is effects/render.wgsl under the
// host data path.
//
// Parameters:
//   - path: the effect file
//
// Returns:
//   - FilterBuilderOption: a function that applies the effect path option to a filter
func WithEffectPath(path string) FilterBuilderOption {
	return func(f *Filter) {
		f.effectPath = path
	}
}

// WithClock sets the clock used to stamp composited frames.
func WithClock(now func() time.Time) FilterBuilderOption {
	return func(f *Filter) {
		f.now = now
	}
}
