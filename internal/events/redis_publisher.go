package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/NomadCrew/lunch-break-planner/logger"
	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds configuration for RedisPublisher
type Config struct {
	PublishTimeout time.Duration
	ChannelPrefix  string
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		PublishTimeout: 5 * time.Second,
		ChannelPrefix:  "trip",
	}
}

// metrics holds Prometheus metrics for the publisher
type metrics struct {
	publishLatency prometheus.Histogram
	errorCount     *prometheus.CounterVec
	eventCount     *prometheus.CounterVec
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

func newMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			publishLatency: promauto.With(defaultRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "lunchplanner_event_publish_duration_seconds",
				Help:    "Time taken to publish trip events",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			}),
			errorCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "lunchplanner_event_errors_total",
				Help: "Total number of trip event publishing errors",
			}, []string{"operation", "type"}),
			eventCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "lunchplanner_events_total",
				Help: "Total number of published trip events by type",
			}, []string{"operation", "type"}),
		}
	})
	return metricsInstance
}

// resetMetricsForTesting points the metrics at a fresh registry.
func resetMetricsForTesting() {
	defaultRegistry = prometheus.NewRegistry()
	metricsInstance = nil
	metricsOnce = sync.Once{}
}

// RedisPublisher implements types.EventPublisher using Redis Pub/Sub.
// Events go to "<prefix>:<tripID>" so listeners can PSUBSCRIBE "<prefix>:*".
type RedisPublisher struct {
	rdb     *redis.Client
	log     *zap.SugaredLogger
	metrics *metrics
	config  Config
}

var _ types.EventPublisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new RedisPublisher instance
func NewRedisPublisher(rdb *redis.Client, cfg ...Config) *RedisPublisher {
	config := DefaultConfig()
	if len(cfg) > 0 {
		config = cfg[0]
		if config.PublishTimeout <= 0 {
			config.PublishTimeout = DefaultConfig().PublishTimeout
		}
		if config.ChannelPrefix == "" {
			config.ChannelPrefix = DefaultConfig().ChannelPrefix
		}
	}

	return &RedisPublisher{
		rdb:     rdb,
		log:     logger.GetLogger().Named("events"),
		metrics: newMetrics(),
		config:  config,
	}
}

// Channel returns the Redis channel events for tripID are published on.
func (p *RedisPublisher) Channel(tripID string) string {
	return fmt.Sprintf("%s:%s", p.config.ChannelPrefix, tripID)
}

// Publish publishes an event to Redis
func (p *RedisPublisher) Publish(ctx context.Context, tripID string, event types.Event) error {
	start := time.Now()
	defer func() {
		p.metrics.publishLatency.Observe(time.Since(start).Seconds())
	}()

	data, err := p.encode(&event, "publish")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.Channel(tripID), data).Err(); err != nil {
		p.metrics.errorCount.WithLabelValues("publish", "redis").Inc()
		return fmt.Errorf("redis publish: %w", err)
	}

	p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	p.log.Debugw("Published trip event", "tripID", tripID, "type", event.Type)
	return nil
}

// PublishBatch publishes multiple events using a single Redis pipeline
func (p *RedisPublisher) PublishBatch(ctx context.Context, tripID string, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.PublishTimeout)
	defer cancel()

	channel := p.Channel(tripID)
	pipe := p.rdb.Pipeline()

	for i := range events {
		data, err := p.encode(&events[i], "publish_batch")
		if err != nil {
			return fmt.Errorf("batch event %d: %w", i, err)
		}
		pipe.Publish(ctx, channel, data)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		p.metrics.errorCount.WithLabelValues("publish_batch", "redis").Inc()
		return fmt.Errorf("execute batch publish: %w", err)
	}

	for _, event := range events {
		p.metrics.eventCount.WithLabelValues("publish", string(event.Type)).Inc()
	}
	return nil
}

// encode fills defaults, validates and serializes the event as a JSON string.
func (p *RedisPublisher) encode(event *types.Event, operation string) (string, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Version == 0 {
		event.Version = 1
	}

	if err := event.Validate(); err != nil {
		p.metrics.errorCount.WithLabelValues(operation, "validation").Inc()
		return "", fmt.Errorf("invalid event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.metrics.errorCount.WithLabelValues(operation, "marshal").Inc()
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(data), nil
}
