package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
)

// TaskHandler processes one decoded extraction task.
type TaskHandler interface {
	Handle(ctx domain.Context, payload domain.ExtractTaskPayload) error
}

// Consumer reads extraction tasks from the group and fans records out to
// per-partition worker goroutines. Each worker gets its own TaskHandler
// because handlers carry engine state.
type Consumer struct {
	client   *kgo.Client
	handlers []TaskHandler
	topic    string
	groupID  string
}

// NewConsumer constructs a Consumer with one handler per worker goroutine.
func NewConsumer(brokers []string, groupID string, handlers []TaskHandler) (*Consumer, error) {
	return NewConsumerWithTopic(brokers, groupID, TopicExtract, handlers)
}

// NewConsumerWithTopic constructs a Consumer against a specific topic.
func NewConsumerWithTopic(brokers []string, groupID, topic string, handlers []TaskHandler) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("missing required group ID")
	}
	if len(handlers) == 0 {
		return nil, fmt.Errorf("at least one task handler required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
		kotelHooks(),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda consumer client: %w", err)
	}
	slog.Info("redpanda consumer created",
		slog.Any("brokers", brokers),
		slog.String("group_id", groupID),
		slog.String("topic", topic),
		slog.Int("workers", len(handlers)))
	return &Consumer{client: client, handlers: handlers, topic: topic, groupID: groupID}, nil
}

// Run polls and processes records until ctx is cancelled. Records are
// committed only after the handler settles them, giving at-least-once
// delivery; the profile upsert absorbs duplicates.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			slog.Error("fetch error",
				slog.String("topic", topic),
				slog.Int("partition", int(partition)),
				slog.Any("error", err))
		})

		records := fetches.Records()
		if len(records) == 0 {
			continue
		}

		// Distribute records across workers by partition so per-job
		// ordering is preserved.
		buckets := make([][]*kgo.Record, len(c.handlers))
		for _, rec := range records {
			i := int(rec.Partition) % len(c.handlers)
			buckets[i] = append(buckets[i], rec)
		}

		var wg sync.WaitGroup
		done := make([][]*kgo.Record, len(c.handlers))
		for i, bucket := range buckets {
			if len(bucket) == 0 {
				continue
			}
			wg.Add(1)
			go func(i int, bucket []*kgo.Record) {
				defer wg.Done()
				done[i] = c.processBucket(ctx, c.handlers[i], bucket)
			}(i, bucket)
		}
		wg.Wait()

		var settled []*kgo.Record
		for _, d := range done {
			settled = append(settled, d...)
		}
		if len(settled) > 0 {
			if err := c.client.CommitRecords(ctx, settled...); err != nil {
				slog.Error("commit failed", slog.Any("error", err))
			}
		}
	}
}

// processBucket runs one worker's share of a fetch and returns the records
// that were settled and can be committed.
func (c *Consumer) processBucket(ctx context.Context, h TaskHandler, bucket []*kgo.Record) []*kgo.Record {
	var settled []*kgo.Record
	for _, rec := range bucket {
		var payload domain.ExtractTaskPayload
		if err := json.Unmarshal(rec.Value, &payload); err != nil {
			// Malformed records can never succeed; commit and move on.
			slog.Error("malformed task record dropped",
				slog.String("topic", rec.Topic),
				slog.Int("partition", int(rec.Partition)),
				slog.Any("error", err))
			settled = append(settled, rec)
			continue
		}
		if err := h.Handle(ctx, payload); err != nil {
			if ctx.Err() != nil {
				return settled
			}
			slog.Error("task handling failed, leaving for redelivery",
				slog.String("job_id", payload.JobID),
				slog.Any("error", err))
			// Stop this partition's bucket so offsets stay contiguous.
			return settled
		}
		settled = append(settled, rec)
	}
	return settled
}

// Close closes the consumer client.
func (c *Consumer) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
