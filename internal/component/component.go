package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"triggerOracle/internal/codec"
	"triggerOracle/internal/model"
	"triggerOracle/internal/trigger"
)

// Component turns one trigger event into one encoded DataWithId envelope.
// Implementations keep no state between invocations.
type Component interface {
	Name() string
	Run(ctx context.Context, ev trigger.Event) ([]byte, error)
}

// decodeEvent unwraps the NewTrigger log and decodes its TriggerInfo.
func decodeEvent(ev trigger.Event) (model.TriggerInfo, error) {
	raw, err := trigger.Unwrap(ev)
	if err != nil {
		return model.TriggerInfo{}, err
	}
	return codec.DecodeTrigger(raw)
}

// TriggerID extracts the trigger id from an event when it is decodable.
func TriggerID(ev trigger.Event) (uint64, bool) {
	info, err := decodeEvent(ev)
	if err != nil {
		return 0, false
	}
	return info.TriggerID, true
}

// Registry maps component names to components.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

func NewRegistry(components ...Component) *Registry {
	r := &Registry{components: make(map[string]Component, len(components))}
	for _, c := range components {
		r.components[c.Name()] = c
	}
	return r
}

// Register adds c, failing when its name is already taken.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.components[c.Name()]; ok {
		return fmt.Errorf("component %q already registered", c.Name())
	}
	r.components[c.Name()] = c
	return nil
}

func (r *Registry) Get(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
