package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/vivento/vivento/internal/shared/infra/platform/bus"
)

// KafkaPublisher publica eventos de integración serializados a JSON en el
// topic del writer. Si el evento implementa Keyer, su clave de partición
// mantiene el orden por agregado dentro del topic.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewKafkaPublisher(writer *kafka.Writer, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{Value: data}
	if keyer, ok := event.(sharedBus.Keyer); ok {
		msg.Key = []byte(keyer.PartitionKey())
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Error("evento no publicado en Kafka",
			zap.String("topic", p.writer.Topic), zap.Error(err))
		return err
	}

	p.log.Debug("evento publicado en Kafka", zap.String("topic", p.writer.Topic))
	return nil
}

// Verificación estática
var _ sharedBus.EventPublisher = (*KafkaPublisher)(nil)
