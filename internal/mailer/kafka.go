package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes messages to a topic consumed by a separate mail relay.
type Kafka struct {
	writer messageWriter
	from   Sender
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// envelope is the JSON value written to the topic.
type envelope struct {
	Message
	From string `json:"from"`
}

func NewKafka(brokers []string, topic string, from Sender) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
		from: from,
	}
}

func (k *Kafka) Send(ctx context.Context, msg Message) error {
	value, err := json.Marshal(envelope{Message: msg, From: k.from.String()})
	if err != nil {
		return fmt.Errorf("mailer/kafka: encode: %w", err)
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.To),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("mailer/kafka: publish: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
