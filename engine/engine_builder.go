package engine

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/profiler"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer"
	"github.com/Carmen-Shannon/oxy-recursion/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler; its metrics source is replaced by the engine's
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithTickRate sets the output frame rate in frames per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target frames per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.video = videoInfoFromFPS(fps)
	}
}

// WithVideoInfo sets the output frame rate as a fraction, e.g. 30000/1001.
//
// Parameters:
//   - info: the frame rate; a zero part is treated as 60/1
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithVideoInfo(info host.VideoInfo) EngineBuilderOption {
	return func(e *engine) {
		if info.FPSNum == 0 || info.FPSDen == 0 {
			info = host.VideoInfo{FPSNum: 60, FPSDen: 1}
		}
		e.video = info
	}
}

// WithWindow sets the window the engine renders into and receives key and resize events from.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the graphics subsystem handed to filters and used to draw every frame.
//
// Parameters:
//   - r: a renderer created for the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRegistry sets the filter type registry AddFilter instantiates from.
//
// Parameters:
//   - r: the registry
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRegistry(r *host.Registry) EngineBuilderOption {
	return func(e *engine) {
		e.registry = r
	}
}

// WithHotkeys sets the hotkey registry fed by window key events.
//
// Parameters:
//   - h: the hotkey registry
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHotkeys(h *host.Hotkeys) EngineBuilderOption {
	return func(e *engine) {
		e.hotkeys = h
	}
}

// WithDataPath sets the directory filters load their data files from.
//
// Parameters:
//   - path: the data directory
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDataPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.dataPath = path
	}
}

// WithWorkers sets how many chains may tick in parallel. Values <= 0 are ignored.
//
// Parameters:
//   - n: the maximum number of pool workers
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithWorkerPool sets the pool chains are ticked on. The engine stops it on shutdown.
//
// Parameters:
//   - p: the worker pool
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWorkerPool(p worker.DynamicWorkerPool) EngineBuilderOption {
	return func(e *engine) {
		e.pool = p
	}
}

// WithRenderFrameLimit sets a frame time budget in frames per second. Frames that take longer are logged.
// Pass 0 to disable (default).
//
// Parameters:
//   - fps: the frame rate whose period is the budget (0 = none)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
