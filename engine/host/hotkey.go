package host

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrInvalidHotkey is returned when a hotkey pair is registered with missing names or callbacks.
var ErrInvalidHotkey = errors.New("invalid hotkey")

// HotkeyFunc handles a hotkey press or release and reports whether it acted.
type HotkeyFunc func(pressed bool) bool

type hotkey struct {
	name        string
	description string
	fn          HotkeyFunc
}

type hotkeyPair struct {
	owner uuid.UUID
	keys  [2]hotkey
}

// Hotkeys is the host hotkey registry. Hotkeys are registered in pairs (typically enable/disable) and
// bound to key codes by name.
type Hotkeys struct {
	mu       *sync.Mutex
	pairs    map[uuid.UUID]*hotkeyPair
	bindings map[int][]string
}

// NewHotkeys creates an empty hotkey registry.
//
// Returns:
//   - *Hotkeys: the registry
func NewHotkeys() *Hotkeys {
	return &Hotkeys{
		mu:       &sync.Mutex{},
		pairs:    make(map[uuid.UUID]*hotkeyPair),
		bindings: make(map[int][]string),
	}
}

// RegisterPair registers two hotkeys owned by a source.
//
// Parameters:
//   - owner: the source the pair belongs to
//   - name0, desc0, fn0: the first hotkey
//   - name1, desc1, fn1: the second hotkey
//
// Returns:
//   - uuid.UUID: the pair id used to unregister
//   - error: ErrInvalidHotkey if a name or callback is missing
func (h *Hotkeys) RegisterPair(owner uuid.UUID, name0, desc0, name1, desc1 string, fn0, fn1 HotkeyFunc) (uuid.UUID, error) {
	if name0 == "" || name1 == "" || fn0 == nil || fn1 == nil {
		return uuid.Nil, ErrInvalidHotkey
	}
	id := uuid.New()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.pairs[id] = &hotkeyPair{
		owner: owner,
		keys: [2]hotkey{
			{name: name0, description: desc0, fn: fn0},
			{name: name1, description: desc1, fn: fn1},
		},
	}
	return id, nil
}

// UnregisterPair removes a pair. Unknown ids are ignored.
func (h *Hotkeys) UnregisterPair(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pairs, id)
}

// UnregisterOwner removes every pair owned by a source.
func (h *Hotkeys) UnregisterOwner(owner uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, p := range h.pairs {
		if p.owner == owner {
			delete(h.pairs, id)
		}
	}
}

// Bind maps a key code to a hotkey name.
//
// Parameters:
//   - key: the key code
//   - name: the hotkey name
func (h *Hotkeys) Bind(key int, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bindings[key] = append(h.bindings[key], name)
}

// Len returns the number of registered pairs.
func (h *Hotkeys) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pairs)
}

// Trigger invokes every registered hotkey with the given name.
//
// Parameters:
//   - name: the hotkey name
//   - pressed: true on press, false on release
//
// Returns:
//   - int: the number of callbacks that reported they acted
func (h *Hotkeys) Trigger(name string, pressed bool) int {
	var fns []HotkeyFunc
	h.mu.Lock()
	for _, p := range h.pairs {
		for _, k := range p.keys {
			if k.name == name {
				fns = append(fns, k.fn)
			}
		}
	}
	h.mu.Unlock()

	// callbacks run unlocked so they may register or unregister
	acted := 0
	for _, fn := range fns {
		if fn(pressed) {
			acted++
		}
	}
	return acted
}

// Dispatch triggers every hotkey name bound to key.
//
// Parameters:
//   - key: the key code
//   - pressed: true on press, false on release
//
// Returns:
//   - int: the number of callbacks that reported they acted
func (h *Hotkeys) Dispatch(key int, pressed bool) int {
	h.mu.Lock()
	names := append([]string(nil), h.bindings[key]...)
	h.mu.Unlock()

	acted := 0
	for _, name := range names {
		acted += h.Trigger(name, pressed)
	}
	return acted
}
