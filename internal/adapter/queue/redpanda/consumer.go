package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// Handler processes one parse task. A returned error means the batch is
// not committed and the records will be redelivered.
type Handler func(ctx context.Context, payload domain.ParseTaskPayload) error

// Consumer reads parse tasks with a group-transact session so that
// offset commits ride the same transaction as any produced records.
type Consumer struct {
	session        *kgo.GroupTransactSession
	topic          string
	maxConcurrency int
}

// NewConsumer constructs a Consumer in the given consumer group.
func NewConsumer(brokers []string, groupID string, maxConcurrency int) (*Consumer, error) {
	return newConsumer(brokers, groupID, "resumed-parser-consumer", TopicParse, maxConcurrency)
}

func newConsumer(brokers []string, groupID, transactionalID, topic string, maxConcurrency int) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("missing required group ID")
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	// Topic creation needs a plain client; the transact session would
	// try to begin consuming immediately.
	admin, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("admin client: %w", err)
	}
	if err := createTopicIfNotExists(context.Background(), admin, topic, 1, 1); err != nil {
		slog.Warn("ensure topic failed", slog.String("topic", topic), slog.Any("error", err))
	}
	admin.Close()

	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	session, err := kgo.NewGroupTransactSession(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.RequireStableFetchOffsets(),
		kgo.WithHooks(kotel.NewKotel(kotel.WithTracer(tracer)).Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("group transact session: %w", err)
	}
	return &Consumer{session: session, topic: topic, maxConcurrency: maxConcurrency}, nil
}

// Run polls until ctx is cancelled, dispatching records to handle with
// bounded concurrency. Each poll's records are handled, then the batch
// is committed; a handler error aborts the batch for redelivery.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	slog.Info("consumer started",
		slog.String("topic", c.topic),
		slog.Int("max_concurrency", c.maxConcurrency))
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fetches := c.session.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				if isCanceled(fe.Err) {
					return ctx.Err()
				}
				slog.Error("fetch error",
					slog.String("topic", fe.Topic),
					slog.Any("error", fe.Err))
			}
			continue
		}
		if fetches.Empty() {
			continue
		}
		ok := c.handleBatch(ctx, fetches, handle)
		committed, err := c.session.End(ctx, kgo.TransactionEndTry(ok))
		if err != nil {
			slog.Error("end transaction", slog.Any("error", err))
			continue
		}
		if !committed {
			slog.Warn("batch not committed; records will be redelivered")
		}
	}
}

// handleBatch runs the handler over every record, bounded by the
// concurrency limit, and reports whether all succeeded.
func (c *Consumer) handleBatch(ctx context.Context, fetches kgo.Fetches, handle Handler) bool {
	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, c.maxConcurrency)
	allOK := true
	fetches.EachRecord(func(rec *kgo.Record) {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec *kgo.Record) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := c.handleRecord(ctx, rec, handle); err != nil {
				slog.Error("handle record", slog.Any("error", err))
				mu.Lock()
				allOK = false
				mu.Unlock()
			}
		}(rec)
	})
	wg.Wait()
	return allOK
}

func (c *Consumer) handleRecord(ctx context.Context, rec *kgo.Record, handle Handler) error {
	var payload domain.ParseTaskPayload
	if err := json.Unmarshal(rec.Value, &payload); err != nil {
		// A poison record would loop forever if it failed the batch.
		slog.Error("drop malformed record",
			slog.String("topic", rec.Topic),
			slog.Int64("offset", rec.Offset),
			slog.Any("error", err))
		return nil
	}
	return handle(ctx, payload)
}

// isCanceled matches cancellation even when franz-go wraps the
// context error inside a fetch error.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Close releases the underlying session and client.
func (c *Consumer) Close() {
	c.session.Close()
}
