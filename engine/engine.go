package engine

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-recursion/engine/feedback"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/profiler"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/Carmen-Shannon/oxy-recursion/engine/window"
	"github.com/google/uuid"
)

var (
	// ErrUnknownChain is returned when a chain id is not registered with the engine.
	ErrUnknownChain = errors.New("unknown chain")
	// ErrUnknownFilter is returned when a filter id is not part of the chain.
	ErrUnknownFilter = errors.New("unknown filter")
)

// engine implements the Engine interface.
// Coordinates the frame loop, the window thread and the filter chains.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window   window.Window
	renderer renderer.Renderer
	registry *host.Registry
	hotkeys  *host.Hotkeys
	dataPath string

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	// mu guards chains and video. It is held for a whole frame and always taken before the graphics context.
	mu     *sync.Mutex
	chains []*Chain
	video  host.VideoInfo

	pool    worker.DynamicWorkerPool
	workers int

	renderFrameLimit time.Duration // frame time budget; 0 = none
}

// Engine hosts filter chains on a window. Every output frame it ticks each chain's sources and filters,
// then renders every visible chain into the window surface.
type Engine interface {
	host.Video

	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the graphics subsystem the filters draw with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Hotkeys returns the hotkey registry fed by window key events.
	//
	// Returns:
	//   - *host.Hotkeys: the hotkey registry
	Hotkeys() *host.Hotkeys

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetVideoInfo sets the output frame rate. The frame loop follows it immediately.
	//
	// Parameters:
	//   - info: the frame rate as a numerator/denominator pair; a zero part resets to 60/1
	SetVideoInfo(info host.VideoInfo)

	// SetTickRate sets the output frame rate in frames per second.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetRenderFrameLimit sets a frame time budget in frames per second. Frames that take longer are logged.
	// Pass 0 to disable (default).
	//
	// Parameters:
	//   - fps: the frame rate whose period is the budget (0 = none)
	SetRenderFrameLimit(fps float64)

	// AddChain registers a new filter chain over base. Chains are rendered in the order they were added.
	// A new chain is visible and active.
	//
	// Parameters:
	//   - name: the chain display name
	//   - base: the unfiltered source
	//
	// Returns:
	//   - *Chain: the new chain
	AddChain(name string, base host.Target) *Chain

	// RemoveChain destroys every filter of the chain and unregisters it. A base source implementing
	// Destroyer is destroyed as well.
	//
	// Parameters:
	//   - id: the chain id
	//
	// Returns:
	//   - error: ErrUnknownChain if the chain is not registered
	RemoveChain(id uuid.UUID) error

	// Chains returns the registered chains in render order.
	//
	// Returns:
	//   - []*Chain: a copy of the chain list
	Chains() []*Chain

	// AddFilter creates a filter of the given type on top of the chain. The chain's current visibility and
	// activity are forwarded to the new filter.
	//
	// Parameters:
	//   - chain: the chain id
	//   - typeID: the registered filter type id
	//   - name: the filter display name
	//   - values: explicit settings layered over the type defaults, may be nil
	//
	// Returns:
	//   - uuid.UUID: the new filter id
	//   - error: an error if the chain or the type is unknown or creation failed
	AddFilter(chain uuid.UUID, typeID, name string, values *settings.Settings) (uuid.UUID, error)

	// RemoveFilter destroys a filter and removes it from its chain.
	//
	// Parameters:
	//   - chain: the chain id
	//   - filter: the filter id
	//
	// Returns:
	//   - error: ErrUnknownChain or ErrUnknownFilter
	RemoveFilter(chain, filter uuid.UUID) error

	// UpdateFilter layers values over a filter's settings, clamps them to the filter's properties and
	// applies the result.
	//
	// Parameters:
	//   - chain: the chain id
	//   - filter: the filter id
	//   - values: the settings to apply
	//
	// Returns:
	//   - error: ErrUnknownChain or ErrUnknownFilter
	UpdateFilter(chain, filter uuid.UUID, values *settings.Settings) error

	// FilterSettings returns a copy of a filter's current settings.
	//
	// Parameters:
	//   - chain: the chain id
	//   - filter: the filter id
	//
	// Returns:
	//   - *settings.Settings: the settings
	//   - error: ErrUnknownChain or ErrUnknownFilter
	FilterSettings(chain, filter uuid.UUID) (*settings.Settings, error)

	// SetFilterEnabled enables or disables a filter. A disabled filter is skipped when rendering.
	//
	// Parameters:
	//   - chain: the chain id
	//   - filter: the filter id
	//   - enabled: the new state
	//
	// Returns:
	//   - error: ErrUnknownChain or ErrUnknownFilter
	SetFilterEnabled(chain, filter uuid.UUID, enabled bool) error

	// SetChainVisible shows or hides a chain. Hidden chains are neither ticked nor rendered.
	//
	// Parameters:
	//   - chain: the chain id
	//   - visible: the new state
	//
	// Returns:
	//   - error: ErrUnknownChain
	SetChainVisible(chain uuid.UUID, visible bool) error

	// SetChainActive puts a chain on or off the program output.
	//
	// Parameters:
	//   - chain: the chain id
	//   - active: the new state
	//
	// Returns:
	//   - error: ErrUnknownChain
	SetChainActive(chain uuid.UUID, active bool) error

	// DispatchKey triggers the hotkeys bound to a key. Callbacks run between frames with the engine lock
	// held, so they must not call back into the Engine on the same goroutine.
	//
	// Parameters:
	//   - key: the key code
	//   - pressed: true on key down
	//
	// Returns:
	//   - int: the number of hotkey callbacks invoked
	DispatchKey(key int, pressed bool) int

	// Metrics returns the summed counters of every recursion effect filter.
	//
	// Returns:
	//   - feedback.Metrics: the summed counters
	Metrics() feedback.Metrics

	// Run starts the frame loop and processes window messages (blocks until the window closes).
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern. A registry, hotkey
// registry and worker pool are created when the options don't provide them.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		mu:              &sync.Mutex{},
		video:           host.VideoInfo{FPSNum: 60, FPSDen: 1},
		workers:         max(runtime.NumCPU()-1, 1),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.registry == nil {
		e.registry = host.NewRegistry()
	}
	if e.hotkeys == nil {
		e.hotkeys = host.NewHotkeys()
	}
	if e.pool == nil {
		e.pool = worker.NewDynamicWorkerPool(e.workers, 256, 1*time.Second)
	}
	e.profiler.SetMetricsSource(e.Metrics)

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer == nil {
				return
			}
			e.mu.Lock()
			defer e.mu.Unlock()
			e.renderer.Resize(width, height)
		})
		e.window.SetKeyDownCallback(func(keyCode uint32) {
			e.DispatchKey(int(keyCode), true)
		})
		e.window.SetKeyUpCallback(func(keyCode uint32) {
			e.DispatchKey(int(keyCode), false)
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Hotkeys() *host.Hotkeys {
	return e.hotkeys
}

func (e *engine) VideoInfo() host.VideoInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.video
}

// context returns the host context handed to filters created by this engine.
func (e *engine) context() *host.Context {
	return &host.Context{
		Graphics: e.renderer,
		Video:    videoSnapshot{e},
		Hotkeys:  e.hotkeys,
		DataPath: e.dataPath,
	}
}

// videoSnapshot reads the video timing without the engine lock. Filters query it from inside the frame,
// where the lock is already held by the frame loop.
type videoSnapshot struct {
	e *engine
}

func (v videoSnapshot) VideoInfo() host.VideoInfo {
	return v.e.video
}

// Run blocks on the window message loop. When it returns the frame loop is stopped, every filter is
// destroyed and the renderer is released before the window is closed.
func (e *engine) Run() {
	e.handle()
	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
	} else {
		<-e.quitChannel
	}
	e.wg.Wait()
	e.shutdown()
	if e.window != nil {
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
	}
}

// Quit signals all engine goroutines to stop and asks the window message loop to return.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		e.window.RequestClose()
	}
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.running.Store(false)
		close(e.quitChannel)
	})
}

// shutdown destroys every filter and base source, stops the worker pool and releases the renderer.
func (e *engine) shutdown() {
	e.mu.Lock()
	for _, c := range e.chains {
		for _, s := range c.slots {
			e.destroySlot(s)
		}
		c.slots = nil
		c.destroyBase()
	}
	e.chains = nil
	e.mu.Unlock()

	e.pool.Stop()
	if e.renderer != nil {
		e.renderer.Release()
	}
}

// handle launches the frame and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.running.Store(true)
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate frame loop in its own goroutine.
// Runs one frame per tick at the output frame rate and listens for dynamic rate changes via
// tickRateChannel. Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	// Recover from panics inside the frame goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame goroutine recovered from panic: %v", r)
			e.Quit()
		}
	}()

	ticker := time.NewTicker(frameDuration(e.VideoInfo()))
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.frame(dt)

			if e.profilingEnabled.Load() && e.profiler != nil {
				e.profiler.Tick()
			}

			if e.renderFrameLimit > 0 {
				if elapsed := time.Since(now); elapsed > e.renderFrameLimit {
					log.Printf("[Engine] frame took %v, limit is %v", elapsed, e.renderFrameLimit)
				}
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// frame ticks every visible chain on the worker pool, then renders them into the window surface in
// registration order.
func (e *engine) frame(dt float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var wg sync.WaitGroup
	for i, c := range e.chains {
		if !c.visible.Load() {
			continue
		}
		wg.Add(1)
		e.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				c.tick(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if e.renderer == nil {
		return
	}
	e.renderer.Enter()
	if err := e.renderer.BeginFrame(); err != nil {
		e.renderer.Leave()
		log.Printf("[Engine] failed to begin frame: %v", err)
		return
	}
	for _, c := range e.chains {
		if c.visible.Load() {
			c.VideoRender()
		}
	}
	err := e.renderer.EndFrame()
	e.renderer.Leave()
	if err != nil {
		log.Printf("[Engine] failed to end frame: %v", err)
		return
	}
	e.renderer.Present()
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetVideoInfo(info host.VideoInfo) {
	if info.FPSNum == 0 || info.FPSDen == 0 {
		info = host.VideoInfo{FPSNum: 60, FPSDen: 1}
	}
	e.mu.Lock()
	e.video = info
	e.mu.Unlock()

	if e.running.Load() {
		// Non-blocking send - if channel is full, replace the pending value
		newRate := frameDuration(info)
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	}
}

func (e *engine) SetTickRate(fps float64) {
	e.SetVideoInfo(videoInfoFromFPS(fps))
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) AddChain(name string, base host.Target) *Chain {
	c := newChain(name, base)
	c.visible.Store(true)
	c.active.Store(true)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.chains = append(e.chains, c)
	return c
}

func (e *engine) RemoveChain(id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, c := range e.chains {
		if c.id != id {
			continue
		}
		for _, s := range c.slots {
			e.destroySlot(s)
		}
		c.slots = nil
		c.destroyBase()
		e.chains = append(e.chains[:i], e.chains[i+1:]...)
		return nil
	}
	return fmt.Errorf("%s: %w", id, ErrUnknownChain)
}

func (e *engine) Chains() []*Chain {
	e.mu.Lock()
	defer e.mu.Unlock()

	cp := make([]*Chain, len(e.chains))
	copy(cp, e.chains)
	return cp
}

func (e *engine) AddFilter(chain uuid.UUID, typeID, name string, values *settings.Settings) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.chain(chain)
	if err != nil {
		return uuid.Nil, err
	}

	s := newFilterSlot(c, name, typeID)
	f, stored, err := e.registry.Create(e.context(), typeID, values, s)
	if err != nil {
		return uuid.Nil, err
	}
	s.filter = f
	s.settings = stored
	c.slots = append(c.slots, s)

	if c.visible.Load() {
		f.Show()
	}
	if c.active.Load() {
		f.Activate()
	}
	return s.id, nil
}

func (e *engine) RemoveFilter(chain, filter uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, s, err := e.slot(chain, filter)
	if err != nil {
		return err
	}
	e.destroySlot(s)
	c.remove(s.index)
	return nil
}

func (e *engine) UpdateFilter(chain, filter uuid.UUID, values *settings.Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, s, err := e.slot(chain, filter)
	if err != nil {
		return err
	}
	s.settings.Apply(values)
	s.filter.Properties().Clamp(s.settings)
	s.filter.Update(s.settings)
	return nil
}

func (e *engine) FilterSettings(chain, filter uuid.UUID) (*settings.Settings, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, s, err := e.slot(chain, filter)
	if err != nil {
		return nil, err
	}
	return s.settings.Clone(), nil
}

func (e *engine) SetFilterEnabled(chain, filter uuid.UUID, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, s, err := e.slot(chain, filter)
	if err != nil {
		return err
	}
	s.SetEnabled(enabled)
	return nil
}

func (e *engine) SetChainVisible(chain uuid.UUID, visible bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.chain(chain)
	if err != nil {
		return err
	}
	if c.visible.Load() == visible {
		return nil
	}
	c.visible.Store(visible)
	for _, s := range c.slots {
		if visible {
			s.filter.Show()
		} else {
			s.filter.Hide()
		}
	}
	return nil
}

func (e *engine) SetChainActive(chain uuid.UUID, active bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.chain(chain)
	if err != nil {
		return err
	}
	if c.active.Load() == active {
		return nil
	}
	c.active.Store(active)
	for _, s := range c.slots {
		if active {
			s.filter.Activate()
		} else {
			s.filter.Deactivate()
		}
	}
	return nil
}

func (e *engine) DispatchKey(key int, pressed bool) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hotkeys.Dispatch(key, pressed)
}

func (e *engine) Metrics() feedback.Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total feedback.Metrics
	for _, c := range e.chains {
		for _, s := range c.slots {
			f, ok := s.filter.(*feedback.Filter)
			if !ok {
				continue
			}
			m := f.Metrics()
			total.Composites += m.Composites
			total.Redraws += m.Redraws
			total.Skips += m.Skips
			total.Invalidations += m.Invalidations
			total.Resizes += m.Resizes
			total.Slots += m.Slots
			total.Interval = max(total.Interval, m.Interval)
		}
	}
	return total
}

func (e *engine) chain(id uuid.UUID) (*Chain, error) {
	for _, c := range e.chains {
		if c.id == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrUnknownChain)
}

func (e *engine) slot(chain, filter uuid.UUID) (*Chain, *filterSlot, error) {
	c, err := e.chain(chain)
	if err != nil {
		return nil, nil, err
	}
	_, s := c.slot(filter)
	if s == nil {
		return nil, nil, fmt.Errorf("%s: %w", filter, ErrUnknownFilter)
	}
	return c, s, nil
}

func (e *engine) destroySlot(s *filterSlot) {
	if s.filter == nil {
		return
	}
	if s.chain.active.Load() {
		s.filter.Deactivate()
	}
	if s.chain.visible.Load() {
		s.filter.Hide()
	}
	s.filter.Destroy()
	s.filter = nil
}

// frameDuration converts a frame rate into a ticker period.
func frameDuration(info host.VideoInfo) time.Duration {
	if info.FPSNum == 0 || info.FPSDen == 0 {
		return time.Second / 60
	}
	return time.Duration(uint64(time.Second) * uint64(info.FPSDen) / uint64(info.FPSNum))
}

// videoInfoFromFPS expresses fps as a frame rate fraction to three decimal places, so 29.97 becomes
// 29970/1000.
func videoInfoFromFPS(fps float64) host.VideoInfo {
	if fps <= 0 {
		return host.VideoInfo{FPSNum: 60, FPSDen: 1}
	}
	if fps == float64(uint32(fps)) {
		return host.VideoInfo{FPSNum: uint32(fps), FPSDen: 1}
	}
	return host.VideoInfo{FPSNum: uint32(fps*1000 + 0.5), FPSDen: 1000}
}
