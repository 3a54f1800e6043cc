// Package di provides a minimal service container with typed tokens.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	Get(name string) any
}

// Container registers services and lazy factories by name.
type Container interface {
	ServiceRegistry
	Register(name string, svc any)
	RegisterFactory(name string, fn func(ServiceRegistry) any)
}

type container struct {
	mu        sync.Mutex
	services  map[string]any
	factories map[string]func(ServiceRegistry) any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{
		services:  make(map[string]any),
		factories: make(map[string]func(ServiceRegistry) any),
	}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = svc
}

func (c *container) RegisterFactory(name string, fn func(ServiceRegistry) any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[name] = fn
}

// Get resolves a service, invoking and memoizing its factory on first
// use. Unknown names panic: a missing registration is a wiring bug.
func (c *container) Get(name string) any {
	c.mu.Lock()
	if svc, ok := c.services[name]; ok {
		c.mu.Unlock()
		return svc
	}
	fn, ok := c.factories[name]
	c.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("di: no service registered for %q", name))
	}

	svc := fn(c)
	c.mu.Lock()
	c.services[name] = svc
	c.mu.Unlock()
	return svc
}

// Token is a typed handle to a registered service.
type Token[T any] struct {
	name string
}

// NewToken creates a token under a unique name.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registration name behind the token.
func (t Token[T]) Name() string { return t.name }

// RegisterToken registers a typed factory for a token.
func RegisterToken[T any](c Container, t Token[T], fn func(ServiceRegistry) T) {
	c.RegisterFactory(t.name, func(sr ServiceRegistry) any {
		return fn(sr)
	})
}

// GetToken resolves a token to its typed service.
func GetToken[T any](sr ServiceRegistry, t Token[T]) T {
	svc, ok := sr.Get(t.name).(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has unexpected type", t.name))
	}
	return svc
}
