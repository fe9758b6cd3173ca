package feedback

import (
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
)

const (
	// FilterID is the registered filter type id.
	FilterID = "recursion_effect_filter"
	// FilterName is the display name.
	FilterName = "Recursion Effect"
	// Version is reported in the load log line and the properties.
	Version = "1.0.0"
)

// Info returns the filter type descriptor. The options are applied to every instance created from it.
//
// Parameters:
//   - options: functional options applied to each new filter
//
// Returns:
//   - host.FilterInfo: the descriptor
func Info(options ...FilterBuilderOption) host.FilterInfo {
	return host.FilterInfo{
		ID:    FilterID,
		Name:  FilterName,
		Flags: host.OutputVideo | host.OutputSRGB | host.OutputCustomDraw,
		Create: func(ctx *host.Context, s *settings.Settings, src host.Source) (host.Filter, error) {
			return NewFilter(ctx, s, src, options...), nil
		},
		Defaults:   Defaults,
		Properties: FilterProperties,
	}
}

// Register installs the filter type in r and logs the loaded version.
//
// Parameters:
//   - r: the host registry
//   - log: where the load line is written; nil uses the standard logger
//   - options: functional options applied to each new filter
//
// Returns:
//   - error: an error if the type could not be registered
func Register(r *host.Registry, log Logger, options ...FilterBuilderOption) error {
	if err := r.Register(Info(options...)); err != nil {
		return err
	}
	if log == nil {
		log = NewStdLogger(false)
	}
	log.Infof("loaded version %s", Version)
	return nil
}
