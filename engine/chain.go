package engine

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-recursion/engine/host"
	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
	"github.com/google/uuid"
)

// Ticker is implemented by targets that advance once per output frame, such as animated sources.
type Ticker interface {
	// Tick advances the target by one output frame.
	//
	// Parameters:
	//   - seconds: the elapsed time since the previous tick
	Tick(seconds float32)
}

// Destroyer is implemented by targets that hold resources the engine releases with their chain.
type Destroyer interface {
	// Destroy releases the target's resources.
	Destroy()
}

// Chain is a source with an ordered stack of filters applied to it. Slot 0 filters the base source
// directly and every later slot filters the output of the slot below it. The chain itself is the
// filters' parent and renders the output of the topmost slot.
type Chain struct {
	id   uuid.UUID
	name string
	base host.Target

	slots []*filterSlot

	// Written under the engine lock; readable from anywhere.
	visible atomic.Bool
	active  atomic.Bool
}

var _ host.Target = &Chain{}

func newChain(name string, base host.Target) *Chain {
	return &Chain{
		id:   uuid.New(),
		name: name,
		base: base,
	}
}

func (c *Chain) ID() uuid.UUID {
	return c.id
}

// Name returns the chain's display name.
func (c *Chain) Name() string {
	return c.name
}

// Base returns the unfiltered source.
func (c *Chain) Base() host.Target {
	return c.base
}

func (c *Chain) BaseWidth() uint32 {
	return c.base.BaseWidth()
}

func (c *Chain) BaseHeight() uint32 {
	return c.base.BaseHeight()
}

func (c *Chain) VideoRender() {
	c.renderBelow(len(c.slots))
}

// Visible reports whether the chain is shown.
func (c *Chain) Visible() bool {
	return c.visible.Load()
}

// Active reports whether the chain is on the program output.
func (c *Chain) Active() bool {
	return c.active.Load()
}

// Filters returns the ids of the chain's filters, bottom first.
func (c *Chain) Filters() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.slots))
	for i, s := range c.slots {
		ids[i] = s.id
	}
	return ids
}

// renderBelow renders the output of the first enabled slot under index, or the base source when there
// is none.
func (c *Chain) renderBelow(index int) {
	for i := index - 1; i >= 0; i-- {
		s := c.slots[i]
		if s.filter != nil && s.Enabled() {
			s.filter.Render()
			return
		}
	}
	c.base.VideoRender()
}

func (c *Chain) slot(id uuid.UUID) (int, *filterSlot) {
	for i, s := range c.slots {
		if s.id == id {
			return i, s
		}
	}
	return -1, nil
}

func (c *Chain) tick(seconds float32) {
	if t, ok := c.base.(Ticker); ok {
		t.Tick(seconds)
	}
	for _, s := range c.slots {
		if s.filter != nil {
			s.filter.Tick(seconds)
		}
	}
}

// destroyBase releases the base source when it owns resources.
func (c *Chain) destroyBase() {
	if d, ok := c.base.(Destroyer); ok {
		d.Destroy()
	}
}

func (c *Chain) remove(index int) {
	for i := index + 1; i < len(c.slots); i++ {
		c.slots[i].index--
	}
	c.slots = append(c.slots[:index], c.slots[index+1:]...)
}

// filterSlot is the host-side context of one filter in a chain.
type filterSlot struct {
	chain  *Chain
	index  int
	id     uuid.UUID
	name   string
	typeID string

	enabled  atomic.Bool
	filter   host.Filter
	settings *settings.Settings
	stage    *stageTarget
}

func newFilterSlot(c *Chain, name, typeID string) *filterSlot {
	s := &filterSlot{
		chain:  c,
		index:  len(c.slots),
		id:     uuid.New(),
		name:   name,
		typeID: typeID,
	}
	s.stage = &stageTarget{slot: s}
	s.enabled.Store(true)
	return s
}

var _ host.Source = &filterSlot{}

func (s *filterSlot) ID() uuid.UUID {
	return s.id
}

func (s *filterSlot) Name() string {
	return s.name
}

func (s *filterSlot) Enabled() bool {
	return s.enabled.Load()
}

func (s *filterSlot) SetEnabled(enabled bool) {
	s.enabled.Store(enabled)
}

func (s *filterSlot) FilterTarget() host.Target {
	return s.stage
}

func (s *filterSlot) FilterParent() host.Target {
	return s.chain
}

func (s *filterSlot) SkipVideoFilter() {
	s.chain.renderBelow(s.index)
}

// stageTarget is the view of a chain below one slot: what that slot's filter is applied to.
type stageTarget struct {
	slot *filterSlot
}

func (t *stageTarget) ID() uuid.UUID {
	return t.slot.chain.base.ID()
}

func (t *stageTarget) BaseWidth() uint32 {
	return t.slot.chain.base.BaseWidth()
}

func (t *stageTarget) BaseHeight() uint32 {
	return t.slot.chain.base.BaseHeight()
}

func (t *stageTarget) VideoRender() {
	t.slot.chain.renderBelow(t.slot.index)
}
