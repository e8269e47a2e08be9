// Package events delivers tournament state changes to external consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/IBM/sarama"
)

// KafkaPublisher writes one message per tournament event, keyed by
// tournament ID so a consumer sees each tournament's events in order.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

func NewSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	return config
}

// NewKafkaPublisher dials brokers. Unlike the websocket hub, a broken Kafka
// setup is a startup error.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer, topic, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.TournamentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.TournamentID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send event %s to kafka: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "Tournament event sent to kafka",
		slog.String("event_type", string(event.Type)),
		slog.String("tournament_id", event.TournamentID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
