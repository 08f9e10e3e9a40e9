package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// NotificationProducer sends notification events to the downstream
// worker (swapped for a capture fake in tests).
type NotificationProducer interface {
	ProduceNotification(ctx context.Context, event string, payload map[string]interface{})
	Active() bool
}

// Producer writes notification events to a Kafka topic (best-effort,
// never blocks the API response).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer builds a producer. With no brokers or an empty topic the
// methods are no-ops.
func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return &Producer{}
	}
	return &Producer{
		topic: topic,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

func (p *Producer) Active() bool {
	return p.writer != nil
}

// ProduceNotification sends one event. payload carries recipient ids and
// contact info, ticket id, crop name, problem title, office name, image
// urls. Failures are logged and swallowed.
func (p *Producer) ProduceNotification(ctx context.Context, event string, payload map[string]interface{}) {
	if p.writer == nil {
		return
	}
	msg := map[string]interface{}{"event": event}
	for k, v := range payload {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("notify: marshal %s event: %v", event, err)
		return
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: body}); err != nil {
		log.Printf("notify: write %s event: %v", event, err)
	}
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
