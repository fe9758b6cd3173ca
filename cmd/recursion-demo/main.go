// Command recursion-demo runs the recursion effect over a generated test pattern in a window.
//
// Keys: E/D enable and disable the effect, 1/2 shorten and lengthen the delay, H hides and shows the
// chain, S saves the current settings to the settings file, Esc quits.
package main

import (
	"errors"
	"flag"
	"io/fs"
	"log"

	"github.com/Carmen-Shannon/oxy-recursion/common"
	"github.com/Carmen-Shannon/oxy-recursion/engine"
	"github.com/Carmen-Shannon/oxy-recursion/engine/feedback"
	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/renderer"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/Carmen-Shannon/oxy-recursion/engine/testpattern"
	"github.com/Carmen-Shannon/oxy-recursion/engine/window"
	"github.com/google/uuid"
)

const delayStep = 50

func main() {
	width := flag.Int("width", 1280, "window width")
	height := flag.Int("height", 720, "window height")
	maxWidth := flag.Int("max-width", 0, "largest window width while resizing, 0 for no limit")
	maxHeight := flag.Int("max-height", 0, "largest window height while resizing, 0 for no limit")
	fps := flag.Float64("fps", 60, "output frame rate")
	settingsPath := flag.String("settings", "recursion.yaml", "filter settings file, created by the save key")
	dataPath := flag.String("data", "assets", "directory holding effects/render.wgsl")
	effectPath := flag.String("effect", "", "compositing effect file, overrides the data directory")
	vsync := flag.Bool("vsync", true, "wait for vertical blank when presenting")
	msaa := flag.Bool("msaa", false, "4x multisampling on the window surface")
	software := flag.Bool("software", false, "force the software fallback adapter")
	profile := flag.Bool("profile", false, "log frame and filter statistics every second")
	debug := flag.Bool("debug", false, "log delay buffer resizes and invalidations")
	flag.Parse()

	values, err := settings.Load(*settingsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		values = settings.New()
		values.SetInt(feedback.SettingDelayMS, 250)
		values.SetDouble(feedback.SettingScaleX, 0.9)
		values.SetDouble(feedback.SettingScaleY, 0.9)
		values.SetDouble(feedback.SettingRotation, 5)
		values.SetDouble(feedback.SettingAlpha, 0.9)
	case err != nil:
		log.Fatalf("failed to load %s: %v", *settingsPath, err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(
		window.WithTitle("Recursion Effect"),
		window.WithSize(*width, *height),
		window.WithSizeLimits(160, 90, *maxWidth, *maxHeight),
	)

	presentMode := renderer.PresentModeVSync
	if !*vsync {
		presentMode = renderer.PresentModeUncapped
	}
	samples := renderer.MSAAOff
	if *msaa {
		samples = renderer.MSAA4x
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(samples),
		renderer.WithForceSoftwareRenderer(*software),
		renderer.WithClearColor([4]float32{0, 0, 0, 1}),
	)

	// ── Filter registry ─────────────────────────────────────────────────
	registry := host.NewRegistry()
	logger := feedback.NewStdLogger(*debug)
	filterOptions := []feedback.FilterBuilderOption{feedback.WithLogger(logger)}
	if *effectPath != "" {
		filterOptions = append(filterOptions, feedback.WithEffectPath(*effectPath))
	}
	if err := feedback.Register(registry, logger, filterOptions...); err != nil {
		log.Fatalf("failed to register %s: %v", feedback.FilterID, err)
	}

	hotkeys := host.NewHotkeys()
	hotkeys.Bind(common.KeyE, feedback.HotkeyEnable)
	hotkeys.Bind(common.KeyD, feedback.HotkeyDisable)

	// ── Engine ──────────────────────────────────────────────────────────
	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithRegistry(registry),
		engine.WithHotkeys(hotkeys),
		engine.WithDataPath(*dataPath),
		engine.WithTickRate(*fps),
		engine.WithProfiling(*profile),
	)

	size := r.SurfaceSize()
	pattern := testpattern.New(r, size.Width, size.Height)
	chain := eng.AddChain("Test Pattern", pattern)

	filterID, err := eng.AddFilter(chain.ID(), feedback.FilterID, feedback.FilterName, values)
	if err != nil {
		log.Fatalf("failed to add %s: %v", feedback.FilterName, err)
	}

	bindDemoKeys(eng, hotkeys, chain, filterID, *settingsPath)

	eng.Run()
}

// bindDemoKeys registers the demo's own hotkeys. Callbacks run with the engine lock held, so every
// engine call is made from a new goroutine.
func bindDemoKeys(eng engine.Engine, hotkeys *host.Hotkeys, chain *engine.Chain, filterID uuid.UUID, settingsPath string) {
	adjustDelay := func(delta int64) {
		s, err := eng.FilterSettings(chain.ID(), filterID)
		if err != nil {
			log.Printf("[Demo] %v", err)
			return
		}
		delay := common.Clamp(s.Int(feedback.SettingDelayMS)+delta, 1, 1000)
		update := settings.New()
		update.SetInt(feedback.SettingDelayMS, delay)
		if err := eng.UpdateFilter(chain.ID(), filterID, update); err != nil {
			log.Printf("[Demo] %v", err)
			return
		}
		log.Printf("[Demo] delay %d ms", delay)
	}
	onPress := func(fn func()) host.HotkeyFunc {
		return func(pressed bool) bool {
			if !pressed {
				return false
			}
			go fn()
			return true
		}
	}

	pairs := []struct {
		name0, desc0, name1, desc1 string
		key0, key1                 int
		fn0, fn1                   func()
	}{
		{
			name0: "Demo.ShorterDelay",
			desc0: "Shorter delay",
			name1: "Demo.LongerDelay",
			desc1: "Longer delay",
			key0:  common.Key1,
			key1:  common.Key2,
			fn0:   func() { adjustDelay(-delayStep) },
			fn1:   func() { adjustDelay(delayStep) },
		},
		{
			name0: "Demo.ToggleVisible",
			desc0: "Hide or show the chain",
			name1: "Demo.Save",
			desc1: "Save settings",
			key0:  common.KeyH,
			key1:  common.KeyS,
			fn0: func() {
				if err := eng.SetChainVisible(chain.ID(), !chain.Visible()); err != nil {
					log.Printf("[Demo] %v", err)
				}
			},
			fn1: func() {
				s, err := eng.FilterSettings(chain.ID(), filterID)
				if err != nil {
					log.Printf("[Demo] %v", err)
					return
				}
				if err := settings.Save(s, settingsPath); err != nil {
					log.Printf("[Demo] failed to save settings: %v", err)
					return
				}
				log.Printf("[Demo] saved %s", settingsPath)
			},
		},
	}
	for _, p := range pairs {
		if _, err := hotkeys.RegisterPair(chain.ID(), p.name0, p.desc0, p.name1, p.desc1, onPress(p.fn0), onPress(p.fn1)); err != nil {
			log.Printf("[Demo] failed to register %s: %v", p.name0, err)
			continue
		}
		hotkeys.Bind(p.key0, p.name0)
		hotkeys.Bind(p.key1, p.name1)
	}
}
