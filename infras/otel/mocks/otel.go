package mocks

import (
	"context"
	"sync"

	"fleetops/infras/otel"
)

// Otel hands out recording scopes keyed by span name.
type Otel struct {
	mu     sync.Mutex
	scopes map[string]*Scope
}

func NewOtel() *Otel {
	return &Otel{scopes: map[string]*Scope{}}
}

var _ otel.Otel = (*Otel)(nil)

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	scope := NewScope()

	o.mu.Lock()
	o.scopes[spanName] = scope
	o.mu.Unlock()

	return ctx, scope
}

func (o *Otel) Shutdown(context.Context) error {
	return nil
}

// Scope returns the latest scope opened under spanName, or nil.
func (o *Otel) Scope(spanName string) *Scope {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.scopes[spanName]
}
