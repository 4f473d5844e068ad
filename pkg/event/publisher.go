// Package event publishes attribution events to a RabbitMQ topic exchange
// so downstream reporting services can follow new submissions. Publishing
// is best-effort: a broker failure never fails a submission.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/viper"
)

const (
	RoutingAttributed = "test.attributed"
	RoutingPublic     = "test.public"
)

// TestEvent describes one accepted submission.
type TestEvent struct {
	TestID    string    `json:"test_id"`
	TestKind  string    `json:"test_kind"` // mobile or rfc6349
	Region    string    `json:"region,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher() (*Publisher, error) {
	conn, err := amqp.Dial(viper.GetString("amqp.url"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %v", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %v", err)
	}

	exchange := viper.GetString("amqp.exchange")
	if exchange == "" {
		exchange = "netmesh.tests"
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %v", err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, ev TestEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %v", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %v", err)
	}

	return nil
}

func (p *Publisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
