package cmd

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores commands by name and alias. It does not perform dispatch; each
// adapter looks up commands and invokes them with its own context. A Registry is
// owned by whoever builds the application; there is no package-level default.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
	names    map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
		names:    make(map[string]string),
	}
}

// Register adds a command under its name and aliases. Names are matched
// case-insensitively; registering a name or alias twice is an error.
func (r *Registry) Register(c Command) error {
	keys := []string{c.Name()}
	if a, ok := Root(c).(Aliased); ok {
		keys = append(keys, a.Aliases()...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		k = strings.ToLower(k)
		if owner, taken := r.names[k]; taken {
			return fmt.Errorf("command name %q already used by %q", k, owner)
		}
	}
	r.commands[c.Name()] = c
	for _, k := range keys {
		r.names[strings.ToLower(k)] = c.Name()
	}
	return nil
}

// Get returns the command registered under name or alias, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[r.names[strings.ToLower(name)]]
}

// GetAll returns all registered commands, sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
