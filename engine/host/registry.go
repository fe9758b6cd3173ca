package host

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-recursion/engine/settings"
)

var (
	// ErrDuplicateFilter is returned when a filter type id is registered twice.
	ErrDuplicateFilter = errors.New("filter type already registered")
	// ErrUnknownFilter is returned when a filter type id is not registered.
	ErrUnknownFilter = errors.New("unknown filter type")
)

// Registry holds the filter types the host can instantiate.
type Registry struct {
	mu    *sync.RWMutex
	infos map[string]FilterInfo
}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - *Registry: the registry
func NewRegistry() *Registry {
	return &Registry{
		mu:    &sync.RWMutex{},
		infos: make(map[string]FilterInfo),
	}
}

// Register installs a filter type.
//
// Parameters:
//   - info: the filter type descriptor
//
// Returns:
//   - error: ErrDuplicateFilter if the id is taken, or an error if the descriptor is incomplete
func (r *Registry) Register(info FilterInfo) error {
	if info.ID == "" || info.Create == nil {
		return fmt.Errorf("filter %q: id and create are required", info.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.infos[info.ID]; ok {
		return fmt.Errorf("%s: %w", info.ID, ErrDuplicateFilter)
	}
	r.infos[info.ID] = info
	return nil
}

// Lookup returns the descriptor for id.
func (r *Registry) Lookup(id string) (FilterInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[id]
	if !ok {
		return FilterInfo{}, fmt.Errorf("%s: %w", id, ErrUnknownFilter)
	}
	return info, nil
}

// IDs returns the sorted registered type ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.infos))
}

// Defaults returns settings holding the type's defaults.
func (r *Registry) Defaults(id string) (*settings.Settings, error) {
	info, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	s := settings.New()
	if info.Defaults != nil {
		info.Defaults(s)
	}
	return s, nil
}

// Create instantiates a filter of type id. The given values are layered over the type's defaults and
// clamped to the type's properties.
//
// Parameters:
//   - ctx: the host context handed to the filter
//   - id: the filter type id
//   - values: explicit settings, may be nil
//   - src: the host-side context of the new instance
//
// Returns:
//   - Filter: the new filter
//   - *settings.Settings: the settings the filter was created with
//   - error: an error if the type is unknown or creation failed
func (r *Registry) Create(ctx *Context, id string, values *settings.Settings, src Source) (Filter, *settings.Settings, error) {
	info, err := r.Lookup(id)
	if err != nil {
		return nil, nil, err
	}
	s, _ := r.Defaults(id)
	if values != nil {
		s.Apply(values)
	}
	if info.Properties != nil {
		info.Properties().Clamp(s)
	}
	f, err := info.Create(ctx, s, src)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", id, err)
	}
	return f, s, nil
}
