package audit

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const DefaultExchange = "reservas.events"

// Publisher forwards events to a RabbitMQ topic exchange. The routing key is
// the event action with underscores turned into dots, e.g.
// "reservation.created".
type Publisher struct {
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{exchange: exchange, conn: conn, ch: ch}, nil
}

func (p *Publisher) Record(ctx context.Context, ev Event) error {
	msg, err := encodePublishing(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(ev.Action),
		false, // mandatory
		false, // immediate
		msg,
	)
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func RoutingKey(action string) string {
	return strings.ReplaceAll(action, "_", ".")
}

type eventMessage struct {
	Action     string `json:"action"`
	Entity     string `json:"entity"`
	EntityID   *uint  `json:"entity_id,omitempty"`
	LocationID *uint  `json:"location_id,omitempty"`
	UserID     *uint  `json:"user_id,omitempty"`
	Metadata   any    `json:"metadata,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

func encodePublishing(ev Event) (amqp.Publishing, error) {
	body, err := json.Marshal(eventMessage{
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		LocationID: ev.LocationID,
		UserID:     ev.UserID,
		Metadata:   ev.Metadata,
		OccurredAt: ev.OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt.UTC(),
		Type:         ev.Action,
		Body:         body,
	}, nil
}
