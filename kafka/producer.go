package kafka

import (
	// Go Internal Packages
	"context"
	"encoding/json"

	// Local Packages
	models "ipn-gateway/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type ProducerConfig struct {
	Brokers []string
	Name    string
	Topic   string
}

// Producer publishes transaction lifecycle events keyed by external id so a
// partition preserves per-transaction event order. Publishing is best-effort;
// the gateway reply never waits on Kafka.
type Producer struct {
	client *kgo.Client
	config *ProducerConfig
	logger *zap.Logger
}

// NewEventProducer creates a producer for lifecycle events.
func NewEventProducer(conf *ProducerConfig, logger *zap.Logger, metrics *kprom.Metrics) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),    // Connects to Kafka brokers
		kgo.ClientID(conf.Name),             // Identifies this producer
		kgo.DefaultProduceTopic(conf.Topic), // Topic for lifecycle events
		kgo.WithHooks(metrics),              // Attaches monitoring hooks
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil || client == nil {
		return nil, err
	}

	return &Producer{client: client, config: conf, logger: logger}, nil
}

// Publish emits one lifecycle event asynchronously. A nil receiver is a
// no-op, which is how the service runs with Kafka disabled.
func (p *Producer) Publish(ctx context.Context, event models.LifecycleEvent) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal lifecycle event", zap.Error(err))
		return
	}

	record := &kgo.Record{Key: []byte(event.ExternalID), Value: value}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("failed to publish lifecycle event",
				zap.String("type", event.Type),
				zap.String("transaction_id", event.ExternalID),
				zap.Error(err))
		}
	})
}

// Close flushes pending records and releases the client.
func (p *Producer) Close(ctx context.Context) {
	if p == nil {
		return
	}
	if err := p.client.Flush(ctx); err != nil {
		p.logger.Warn("failed to flush lifecycle events", zap.Error(err))
	}
	p.client.Close()
}
