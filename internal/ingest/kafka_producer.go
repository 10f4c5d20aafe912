package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/motogo/internal/models"
)

type KafkaProducer struct {
	writer          *kafka.Writer
	locationsTopic  string
	rideEventsTopic string
}

func NewKafkaProducer(brokers []string, locationsTopic, rideEventsTopic string) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: w, locationsTopic: locationsTopic, rideEventsTopic: rideEventsTopic}
}

func (k *KafkaProducer) PublishLocation(ctx context.Context, d models.FleetDriver) error {
	return k.publish(ctx, k.locationsTopic, d.ID, d)
}

// PublishRideEvent keys by ride id so one ride's events stay ordered on a partition.
func (k *KafkaProducer) PublishRideEvent(ctx context.Context, e models.RideEvent) error {
	return k.publish(ctx, k.rideEventsTopic, e.RideID, e)
}

func (k *KafkaProducer) publish(ctx context.Context, topic, key string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{Topic: topic, Key: []byte(key), Value: b})
}

func (k *KafkaProducer) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
