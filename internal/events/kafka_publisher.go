package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// ErrPublisherClosed is returned when events are handed to a closed publisher.
var ErrPublisherClosed = errors.New("kafka publisher closed")

// KafkaWriter is the subset of *kafka.Writer the publisher needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher forwards dispatched events to a Kafka topic from a background loop.
type KafkaPublisher struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// mu covers closed and every enqueue so no event lands after the final drain.
	mu     sync.Mutex
	closed bool
}

// NewKafkaPublisher builds a publisher writing to topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(writer, 1000, logger)
}

func newKafkaPublisher(writer KafkaWriter, buffer int, logger *zap.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:    writer,
		events:    make(chan Event, buffer),
		logger:    logger.Named("kafka_publisher"),
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Handle enqueues the event without blocking the caller. It satisfies EventHandler.
func (p *KafkaPublisher) Handle(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.events <- event:
	default:
		p.logger.Warn("kafka publisher queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("department_id", event.DepartmentID),
		)
	}
	return nil
}

func (p *KafkaPublisher) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.send(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

func (p *KafkaPublisher) drain() {
	for {
		select {
		case event := <-p.events:
			p.send(context.Background(), event)
		default:
			return
		}
	}
}

func (p *KafkaPublisher) send(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.Error(err),
			zap.String("department_id", event.DepartmentID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.DepartmentID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("department_id", event.DepartmentID),
		)
	}
}

// Close flushes queued events and closes the writer.
func (p *KafkaPublisher) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.closeChan)
		p.mu.Unlock()
		<-p.done
		if err := p.writer.Close(); err != nil {
			p.logger.Error("failed to close kafka writer", zap.Error(err))
		}
	})
}
