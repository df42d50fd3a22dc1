// Package events publishes and consumes catalog change notifications over Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/catalog/internal/company/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// EventType names the kind of catalog change.
type EventType string

const (
	GameAdmitted EventType = "game_admitted"
	GameRemoved  EventType = "game_removed"
)

const (
	queueSize      = 1000
	maxSendRetries = 3
)

// Event is the message published for every catalog change.
type Event struct {
	ID         uuid.UUID    `json:"id"`
	Type       EventType    `json:"type"`
	CompanyID  uuid.UUID    `json:"company_id"`
	Game       *models.Game `json:"game"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// KafkaWriter is the subset of *kafka.Writer the producer needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues events and writes them to Kafka from a single background loop.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	loop      sync.WaitGroup
	backOff   func() backoff.BackOff
}

// NewProducer starts a producer writing to topic on brokers.
func NewProducer(brokers []string, logger *zap.Logger, topic string) *Producer {
	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
		Topic:    topic,
	}, logger)

	p.start()
	return p
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
		backOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxSendRetries)
		},
	}
}

// EnsureTopic creates topic on the first broker. An existing topic is not an error.
func EnsureTopic(brokers []string, topic string, logger *zap.Logger) error {
	if len(brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial kafka: %w", err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	return nil
}

// Produce enqueues an event without blocking. When the queue is full the event is dropped.
func (p *Producer) Produce(eventType EventType, companyID uuid.UUID, game *models.Game) {
	event := Event{
		ID:         uuid.New(),
		Type:       eventType,
		CompanyID:  companyID,
		Game:       game,
		OccurredAt: time.Now().UTC(),
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("game_code", game.Code),
		)
	}
}

func (p *Producer) start() {
	p.loop.Add(1)
	go p.eventLoop()
}

func (p *Producer) eventLoop() {
	defer p.loop.Done()
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain writes every event still queued when the producer is closed.
func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()),
		)
		return
	}
	msg := kafka.Message{
		Key:   []byte(event.CompanyID.String()),
		Value: value,
	}
	err = backoff.Retry(func() error {
		return p.writer.WriteMessages(ctx, msg)
	}, backoff.WithContext(p.backOff(), ctx))
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID.String()),
		)
	}
}

// Close flushes the queued events, waits for the event loop to stop and
// then closes the writer. Events produced after Close are never written.
func (p *Producer) Close() {
	close(p.closeChan)
	p.loop.Wait()
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
