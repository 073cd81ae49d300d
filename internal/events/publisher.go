// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"medi-response-service/internal/models"
	"medi-response-service/internal/observability/metrics"
)

// messageWriter is the part of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher publishes dialogue events to separate Kafka topics for raw
// generations and final responses.
type Publisher struct {
	writerRaw   messageWriter
	writerFinal messageWriter
	principal   string
	topicRaw    string
	topicFinal  string
	enabled     bool
	metrics     *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers    []string
	TopicRaw   string
	TopicFinal string
	Principal  string
	Enabled    bool
}

// New creates a new Kafka event publisher.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:  cfg.Principal,
			topicRaw:   cfg.TopicRaw,
			topicFinal: cfg.TopicFinal,
			enabled:    false,
			metrics:    m,
		}
	}

	// Longer dial timeout for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicRaw", cfg.TopicRaw).
		Str("topicFinal", cfg.TopicFinal).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerRaw:   newWriter(cfg.Brokers, cfg.TopicRaw, transport),
		writerFinal: newWriter(cfg.Brokers, cfg.TopicFinal, transport),
		principal:   cfg.Principal,
		topicRaw:    cfg.TopicRaw,
		topicFinal:  cfg.TopicFinal,
		enabled:     true,
		metrics:     m,
	}
}

func newWriter(brokers []string, topic string, transport *kafka.Transport) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}
}

// Enabled reports whether events reach Kafka.
func (p *Publisher) Enabled() bool { return p.enabled }

// PublishRaw publishes a raw generation event. Keys are session ids so a
// session's turns stay ordered within one partition.
func (p *Publisher) PublishRaw(ctx context.Context, key string, event *models.GenerationRaw) error {
	return p.publish(ctx, p.writerRaw, p.topicRaw, models.EventGenerationRaw, key, event)
}

// PublishFinal publishes a final response event.
func (p *Publisher) PublishFinal(ctx context.Context, key string, event *models.ResponseFinal) error {
	return p.publish(ctx, p.writerFinal, p.topicFinal, models.EventResponseFinal, key, event)
}

func (p *Publisher) publish(ctx context.Context, writer messageWriter, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(eventType)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerRaw != nil {
		if e := p.writerRaw.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing raw writer")
			err = e
		}
	}
	if p.writerFinal != nil {
		if e := p.writerFinal.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing final writer")
			err = e
		}
	}
	return err
}
