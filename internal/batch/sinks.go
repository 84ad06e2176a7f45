package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/plateworks/menumetrics/internal/models"
	"github.com/plateworks/menumetrics/internal/repositories"
)

// StoreSink writes event batches to the event repository.
type StoreSink struct {
	events repositories.EventRepository
}

func NewStoreSink(events repositories.EventRepository) *StoreSink {
	return &StoreSink{events: events}
}

func (s *StoreSink) WriteEvents(ctx context.Context, events []models.MenuEvent) error {
	return s.events.InsertEvents(ctx, events)
}

func (s *StoreSink) Close() error { return nil }

// KafkaSink publishes event batches to a Kafka topic, keyed by restaurant so
// one restaurant's stream stays ordered within a partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSink(brokerList, topic string) (*KafkaSink, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(brokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	return &KafkaSink{producer: producer, topic: topic}, nil
}

func (k *KafkaSink) WriteEvents(ctx context.Context, events []models.MenuEvent) error {
	messages := make([]*sarama.ProducerMessage, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", ev.ID, err)
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(ev.RestaurantID),
			Value: sarama.ByteEncoder(payload),
		})
	}

	if err := k.producer.SendMessages(messages); err != nil {
		return fmt.Errorf("failed to send %d events to topic %s: %w", len(messages), k.topic, err)
	}
	return nil
}

func (k *KafkaSink) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}

// MultiSink fans a batch out to several sinks. Every sink sees the batch;
// the last error wins.
type MultiSink []Sink

func (m MultiSink) WriteEvents(ctx context.Context, events []models.MenuEvent) error {
	var lastErr error
	for _, sink := range m {
		if err := sink.WriteEvents(ctx, events); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (m MultiSink) Close() error {
	var lastErr error
	for _, sink := range m {
		if err := sink.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
