package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/mgorshkov/bulk/internal/domain"
	"github.com/mgorshkov/bulk/internal/ports"
)

// Message is the JSON payload published for each command that reaches the
// publisher stage.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"ts"`
}

// KafkaPublisher forwards each command to a Kafka topic as a JSON message.
type KafkaPublisher struct {
	writer *kafka.Writer
	next   ports.Stage
	obs    ports.Observability
}

func NewKafka(brokers []string, topic string, next ports.Stage, obs ports.Observability) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.LeastBytes{},
		},
		next: next,
		obs:  obs,
	}
}

func (p *KafkaPublisher) Accept(cmd domain.Command) error {
	data, err := json.Marshal(Message{
		ID:        uuid.New().String(),
		Text:      cmd.Text,
		Timestamp: cmd.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("publish marshal: %w", err)
	}

	err = p.writer.WriteMessages(context.Background(), kafka.Message{
		Value: data,
		Time:  cmd.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p.obs.IncCounter("bulk_batches_published_total", 1)

	if p.next == nil {
		return nil
	}
	return p.next.Accept(cmd)
}

func (p *KafkaPublisher) StartBlock() error  { return nil }
func (p *KafkaPublisher) FinishBlock() error { return nil }

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ ports.Stage = (*KafkaPublisher)(nil)
