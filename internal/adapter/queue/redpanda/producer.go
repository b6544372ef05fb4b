// Package redpanda provides Redpanda/Kafka queue integration.
//
// The producer enqueues extraction tasks after upload; consumers run the
// extraction engine. Delivery is at-least-once; the profile upsert keyed
// by resume id makes reprocessing idempotent.
package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
	"github.com/fairyhunter13/resume-field-extractor/internal/observability"
)

// TopicExtract is the Kafka topic for resume extraction jobs.
const TopicExtract = "resume-extract-jobs"

// Producer wraps a Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
	topic  string
}

// kotelHooks builds OpenTelemetry instrumentation for a franz-go client.
func kotelHooks() kgo.Opt {
	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	k := kotel.NewKotel(kotel.WithTracer(tracer))
	return kgo.WithHooks(k.Hooks()...)
}

// NewProducer constructs a Producer and ensures the extract topic exists.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTopic(brokers, TopicExtract)
}

// NewProducerWithTopic constructs a Producer against a specific topic.
// Tests use unique topics for isolation.
func NewProducerWithTopic(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1_000_000),
		kotelHooks(),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	if err := ensureTopic(context.Background(), client, topic); err != nil {
		slog.Warn("topic creation failed, it may already exist",
			slog.String("topic", topic), slog.Any("error", err))
	}
	slog.Info("redpanda producer created", slog.Any("brokers", brokers), slog.String("topic", topic))
	return &Producer{client: client, topic: topic}, nil
}

// EnqueueExtract enqueues one extraction task. The job id is the record
// key so retries for one job stay on one partition.
func (p *Producer) EnqueueExtract(ctx domain.Context, payload domain.ExtractTaskPayload) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("op=queue.enqueue_marshal: %w", err)
	}
	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(payload.JobID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "job_id", Value: []byte(payload.JobID)},
			{Key: "resume_id", Value: []byte(payload.ResumeID)},
		},
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return "", fmt.Errorf("op=queue.enqueue: %w", err)
	}
	observability.JobsEnqueuedTotal.WithLabelValues("extract").Inc()
	slog.Info("extract task enqueued",
		slog.String("topic", p.topic),
		slog.String("job_id", payload.JobID),
		slog.String("resume_id", payload.ResumeID))
	return payload.JobID, nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

// ensureTopic creates the topic if it does not exist yet.
func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("op=queue.create_topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("op=queue.create_topic: %w", r.Err)
		}
	}
	return nil
}
