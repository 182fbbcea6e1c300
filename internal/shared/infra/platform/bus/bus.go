package bus

import "context"

// Keyer permite a un evento declarar su clave de partición.
type Keyer interface {
	PartitionKey() string
}

// EventPublisher publica eventos de integración. La semántica del topic y el
// formato del payload los decide cada adapter.
type EventPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}
