package events

import (
	"encoding/json"
	"time"
)

// Base de todos los eventos de integración
type IntegrationEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Key       string          `json:"-"`
	Data      json.RawMessage `json:"data"` // contenido específico del evento
}

// PartitionKey devuelve la clave de partición del evento (el agregado afectado).
func (e IntegrationEvent) PartitionKey() string {
	if e.Key != "" {
		return e.Key
	}
	return e.Type
}
