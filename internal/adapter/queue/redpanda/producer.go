// Package redpanda provides the Redpanda/Kafka queue for async parse
// jobs: a transactional producer on the API side and a group-transact
// consumer on the worker side.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// TopicParse is the Kafka topic for parse jobs.
const TopicParse = "parse-jobs"

// Producer wraps a transactional Kafka producer and implements
// domain.Queue. Transactions are serialized through a channel because
// a kgo client carries at most one open transaction.
type Producer struct {
	client   *kgo.Client
	topic    string
	txnToken chan struct{}
}

// NewProducer constructs a Producer with exactly-once semantics and
// ensures the parse topic exists.
func NewProducer(brokers []string) (*Producer, error) {
	return newProducer(brokers, "resumed-parser-producer", TopicParse)
}

func newProducer(brokers []string, transactionalID, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	tracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.WithHooks(kotel.NewKotel(kotel.WithTracer(tracer)).Hooks()...),
	)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}
	if err := createTopicIfNotExists(context.Background(), client, topic, 1, 1); err != nil {
		// The broker may race us creating it; the produce will tell.
		slog.Warn("ensure topic failed", slog.String("topic", topic), slog.Any("error", err))
	}
	return &Producer{
		client:   client,
		topic:    topic,
		txnToken: make(chan struct{}, 1),
	}, nil
}

// EnqueueParse implements domain.Queue. The returned id is the job id
// the payload carries; the record key, so retries for one job land on
// one partition.
func (p *Producer) EnqueueParse(ctx domain.Context, payload domain.ParseTaskPayload) (string, error) {
	select {
	case p.txnToken <- struct{}{}:
		defer func() { <-p.txnToken }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	rec := &kgo.Record{Topic: p.topic, Key: []byte(payload.JobID), Value: b}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("produce: %w", err)
	}
	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	slog.Info("parse task enqueued",
		slog.String("job_id", payload.JobID),
		slog.String("topic", p.topic))
	return payload.JobID, nil
}

// Ping checks broker reachability, for readiness probes.
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close releases the underlying Kafka client.
func (p *Producer) Close() {
	p.client.Close()
}
