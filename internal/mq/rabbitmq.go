package mq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leadbase/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	appID = "leadbase"

	// Lead events are routed by their type, e.g. "lead.created".
	leadBindingKey    = "lead.#"
	defaultRoutingKey = "lead.event"

	headerLeadID = "x-lead-id"
)

// RabbitMQClient publishes lead events to a topic exchange named after the
// channel. Subscribers consume a queue of the same name bound to every
// lead.* routing key.
type RabbitMQClient struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	durable bool
	autoDel bool
}

// NewRabbitMQClient dials the broker and opens a channel.
func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	return &RabbitMQClient{
		conn:    conn,
		ch:      ch,
		durable: cfg.QueueDurable,
		autoDel: cfg.QueueAutoDelete,
	}, nil
}

// Publish sends a persistent JSON event to the channel's exchange, routed by
// the "type" attribute.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}
	if err := r.declareExchange(channel); err != nil {
		return "", err
	}

	msg := newPublishing(data, attrs)
	if err := r.ch.PublishWithContext(ctx, channel, routingKey(attrs), false, false, msg); err != nil {
		return "", err
	}
	return msg.MessageId, nil
}

// Subscribe consumes lead events from the channel's queue until ctx is done.
// A handler error requeues the delivery.
func (r *RabbitMQClient) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("rabbitmq channel is required")
	}
	if err := r.declareExchange(channel); err != nil {
		return err
	}
	q, err := r.ch.QueueDeclare(channel, r.durable, r.autoDel, false, false, nil)
	if err != nil {
		return err
	}
	if err := r.ch.QueueBind(q.Name, leadBindingKey, channel, false, nil); err != nil {
		return err
	}

	tag := appID + "-" + uuid.NewString()
	deliveries, err := r.ch.Consume(q.Name, tag, false, false, false, false, nil)
	if err != nil {
		return err
	}
	defer func() { _ = r.ch.Cancel(tag, false) }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := handler(ctx, toMessage(d)); err != nil {
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Close closes the channel and then the connection.
func (r *RabbitMQClient) Close() error {
	if r.ch != nil {
		_ = r.ch.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RabbitMQClient) declareExchange(name string) error {
	return r.ch.ExchangeDeclare(name, amqp.ExchangeTopic, r.durable, r.autoDel, false, false, nil)
}

func routingKey(attrs map[string]string) string {
	if key := strings.TrimSpace(attrs["type"]); key != "" {
		return key
	}
	return defaultRoutingKey
}

// newPublishing carries the event type in Type and the lead ID in the
// x-lead-id header; other attributes become plain headers.
func newPublishing(data []byte, attrs map[string]string) amqp.Publishing {
	headers := amqp.Table{}
	for key, value := range attrs {
		switch key {
		case "type":
		case "lead_id":
			headers[headerLeadID] = value
		default:
			headers[key] = value
		}
	}

	return amqp.Publishing{
		AppId:        appID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         attrs["type"],
		Headers:      headers,
		Body:         data,
	}
}

// toMessage reverses newPublishing.
func toMessage(d amqp.Delivery) Message {
	attrs := make(map[string]string, len(d.Headers)+1)
	if d.Type != "" {
		attrs["type"] = d.Type
	}
	for key, value := range d.Headers {
		if key == headerLeadID {
			key = "lead_id"
		}
		switch typed := value.(type) {
		case string:
			attrs[key] = typed
		case []byte:
			attrs[key] = string(typed)
		default:
			attrs[key] = fmt.Sprint(value)
		}
	}
	return Message{ID: d.MessageId, Data: d.Body, Attributes: attrs}
}
