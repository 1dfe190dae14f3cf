package jira

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrClientNotRegistered = errors.New("jira: client not registered")

// Registry keeps one Client per configured instance so sessions and cached
// reads survive between uses.
type Registry struct {
	clients     map[string]*Client
	mu          sync.RWMutex
	defaultOpts []Option
}

func NewRegistry(defaultOpts ...Option) *Registry {
	return &Registry{
		clients:     make(map[string]*Client),
		mu:          sync.RWMutex{},
		defaultOpts: defaultOpts,
	}
}

// Register builds a client for cfg under name, replacing any previous one.
func (r *Registry) Register(name string, cfg Config, opts ...Option) (*Client, error) {
	client, err := New(cfg, r.options(opts)...)
	if err != nil {
		return nil, fmt.Errorf("jira: register %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[name] = client

	return client, nil
}

// GetOrRegister returns the client registered under name, building one from
// cfg when there is none.
func (r *Registry) GetOrRegister(name string, cfg Config, opts ...Option) (*Client, error) {
	if client, ok := r.Get(name); ok {
		return client, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[name]; ok {
		return client, nil
	}

	client, err := New(cfg, r.options(opts)...)
	if err != nil {
		return nil, fmt.Errorf("jira: register %q: %w", name, err)
	}

	r.clients[name] = client

	return client, nil
}

func (r *Registry) options(opts []Option) []Option {
	allOpts := make([]Option, 0, len(r.defaultOpts)+len(opts))
	allOpts = append(allOpts, r.defaultOpts...)

	return append(allOpts, opts...)
}

func (r *Registry) Get(name string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[name]

	return client, ok
}

func (r *Registry) Client(name string) (*Client, error) {
	client, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotRegistered, name)
	}

	return client, nil
}

func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.clients[name]
	delete(r.clients, name)

	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}
