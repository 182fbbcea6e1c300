package mocks

import (
	"context"
	"sync"

	sharedEvents "github.com/vivento/vivento/internal/shared/events"
	sharedBus "github.com/vivento/vivento/internal/shared/infra/platform/bus"
)

// DummyPublisher captura los eventos publicados.
type DummyPublisher struct {
	mu     sync.Mutex
	Events []sharedEvents.IntegrationEvent
}

func (p *DummyPublisher) Publish(ctx context.Context, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if evt, ok := event.(sharedEvents.IntegrationEvent); ok {
		p.Events = append(p.Events, evt)
	}
	return nil
}

// Types devuelve los tipos de evento publicados, en orden.
func (p *DummyPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	tipos := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		tipos = append(tipos, e.Type)
	}
	return tipos
}

// Verificación estática
var _ sharedBus.EventPublisher = (*DummyPublisher)(nil)
