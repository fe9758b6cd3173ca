// Package host defines the contract between a video compositing host and the filters it runs: video
// timing, the sources a filter is attached to, the filter capability interface, filter type descriptors
// and the registry they are installed in, and paired enable/disable hotkeys.
package host

import (
	"github.com/Carmen-Shannon/oxy-recursion/engine/gfx"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/google/uuid"
)

// VideoInfo is the host's output video timing.
type VideoInfo struct {
	FPSNum uint32
	FPSDen uint32
}

// Video provides the current output video timing.
type Video interface {
	// VideoInfo returns the current output timing.
	//
	// Returns:
	//   - VideoInfo: the frame rate as a numerator/denominator pair
	VideoInfo() VideoInfo
}

// Target is a renderable source in the compositing graph.
type Target interface {
	// ID returns the unique identity of the source.
	//
	// Returns:
	//   - uuid.UUID: the source id
	ID() uuid.UUID

	// BaseWidth returns the unscaled width of the source, or 0 if it has no size yet.
	//
	// Returns:
	//   - uint32: width in pixels
	BaseWidth() uint32

	// BaseHeight returns the unscaled height of the source, or 0 if it has no size yet.
	//
	// Returns:
	//   - uint32: height in pixels
	BaseHeight() uint32

	// VideoRender draws the source into the current render surface.
	VideoRender()
}

// Source is the host-side context of one filter instance.
type Source interface {
	// ID returns the filter instance id.
	ID() uuid.UUID

	// Name returns the filter instance display name.
	Name() string

	// Enabled reports whether the filter is enabled.
	Enabled() bool

	// SetEnabled enables or disables the filter.
	SetEnabled(enabled bool)

	// FilterTarget returns the next source down the chain (the one being filtered), or nil.
	FilterTarget() Target

	// FilterParent returns the source the filter chain belongs to, or nil.
	FilterParent() Target

	// SkipVideoFilter renders the filter's target unmodified in place of the filter's own output.
	SkipVideoFilter()
}

// Filter is the capability set a filter instance exposes to the host. The host invokes every method from
// a single goroutine; Tick always precedes Render within a frame.
type Filter interface {
	// Update applies new settings. Loading persisted settings calls Update as well.
	//
	// Parameters:
	//   - s: the filter settings
	Update(s *settings.Settings)

	// Tick advances the filter by one output frame.
	//
	// Parameters:
	//   - seconds: the elapsed time since the previous tick
	Tick(seconds float32)

	// Render draws the filter output into the current render surface.
	Render()

	// Show is called when the filter's source becomes visible anywhere.
	Show()

	// Hide is called when the filter's source is no longer visible anywhere.
	Hide()

	// Activate is called when the filter's source starts showing on the program output.
	Activate()

	// Deactivate is called when the filter's source stops showing on the program output.
	Deactivate()

	// Properties describes the filter settings.
	//
	// Returns:
	//   - *settings.Properties: the property descriptors
	Properties() *settings.Properties

	// Destroy releases every resource held by the filter.
	Destroy()
}

// Context is what the host hands a filter at creation.
type Context struct {
	// Graphics is the host graphics subsystem.
	Graphics gfx.Graphics
	// Video provides output timing.
	Video Video
	// Hotkeys is the host hotkey registry.
	Hotkeys *Hotkeys
	// DataPath is the directory holding the filter's data files.
	DataPath string
}

// OutputFlags describe what a filter type produces.
type OutputFlags uint32

const (
	OutputVideo OutputFlags = 1 << iota
	OutputAudio
	OutputSRGB
	OutputCustomDraw
)

// Has reports whether every flag in f is set.
func (o OutputFlags) Has(f OutputFlags) bool {
	return o&f == f
}

// FilterInfo describes a filter type to the host registry.
type FilterInfo struct {
	// ID is the unique type id.
	ID string
	// Name is the display name.
	Name string
	// Flags describe the filter output.
	Flags OutputFlags
	// Create makes a new filter instance.
	Create func(ctx *Context, s *settings.Settings, src Source) (Filter, error)
	// Defaults installs default values into s.
	Defaults func(s *settings.Settings)
	// Properties describes the type's settings. Values are clamped to it before they reach a filter.
	Properties func() *settings.Properties
}
