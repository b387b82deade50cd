// Package eventqueue publishes billing events to RabbitMQ.
package eventqueue

import (
	"context"
	"fmt"
	"oncobilling-service/internal/app/contracts"
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/pkg/constvars"
	"oncobilling-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpChannel is the subset of *amqp.Channel the service needs.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// confirmBufferSize leaves room for confirms of publishes whose caller gave
// up waiting, so the connection's confirm dispatcher never blocks on them.
const confirmBufferSize = 16

// Service publishes persistent messages to one durable queue and waits for
// the broker confirm of each. Confirms carry sequential delivery tags
// starting at 1; a confirm older than the message being waited for belongs
// to a publish that was abandoned and is skipped.
type Service struct {
	ch        amqpChannel
	log       *zap.Logger
	queueName string
	confirms  <-chan amqp.Confirmation
	mu        sync.Mutex
	lastTag   uint64
}

// NewService declares the queue and enables publisher confirms.
func NewService(conn *amqp.Connection, log *zap.Logger, queueName string) (*Service, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &Service{
		ch:        ch,
		log:       log,
		queueName: queueName,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, confirmBufferSize)),
	}, nil
}

var _ contracts.EventPublisher = (*Service)(nil)

func (s *Service) PublishStatusChanged(ctx context.Context, event models.BillingStatusChangedEvent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("EventQueue.PublishStatusChanged called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, s.queueName),
		zap.String(constvars.LoggingTargetIDKey, event.TargetID),
	)

	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Type:         event.Type,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Body:         body,
		DeliveryMode: amqp.Persistent,
	}
	return s.publish(ctx, msg)
}

func (s *Service) publish(ctx context.Context, msg amqp.Publishing) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ch.PublishWithContext(ctx, "", s.queueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, s.queueName)
	}
	s.lastTag++
	expectedTag := s.lastTag

	for {
		select {
		case confirmed, ok := <-s.confirms:
			if !ok {
				return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("channel closed before confirm"), s.queueName)
			}
			if confirmed.DeliveryTag < expectedTag {
				s.log.Warn("EventQueue.publish skipping confirm of an abandoned publish",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingQueueNameKey, s.queueName),
					zap.Uint64("delivery_tag", confirmed.DeliveryTag),
					zap.Bool("ack", confirmed.Ack),
				)
				continue
			}
			if confirmed.DeliveryTag > expectedTag {
				return exceptions.ErrRabbitMQPublishMessage(
					fmt.Errorf("confirm for delivery tag %d received while waiting for %d", confirmed.DeliveryTag, expectedTag),
					s.queueName,
				)
			}
			if !confirmed.Ack {
				return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), s.queueName)
			}
			return nil
		case <-ctx.Done():
			return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), s.queueName)
		}
	}
}

func (s *Service) Close() error {
	return s.ch.Close()
}
