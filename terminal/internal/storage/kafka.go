package storage

import (
	"context"
	"encoding/json"

	"salao/terminal/internal/domain"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaKitchenPublisher sends kitchen tickets keyed by table, so the tickets
// of one table stay in order on a single partition.
type KafkaKitchenPublisher struct {
	Writer MessageWriter
}

func NewKafkaKitchenPublisher(writer MessageWriter) *KafkaKitchenPublisher {
	return &KafkaKitchenPublisher{Writer: writer}
}

func (p *KafkaKitchenPublisher) PublishTicket(ctx context.Context, ticket domain.KitchenTicket) error {
	payload, err := json.Marshal(ticket)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ticket.TableID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "course", Value: []byte(ticket.Course)},
		},
	})
}

var _ MessageWriter = (*kafka.Writer)(nil)
