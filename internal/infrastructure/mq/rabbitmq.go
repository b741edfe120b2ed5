package mq

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"socialmedia-api/config"
)

// "Rely on metrics, not guesses."
const bufferSize = 128

// Routing keys of lifecycle events.
const (
	MediaUploaded = "media.uploaded"
	MediaClaimed  = "media.claimed"
	MediaDeleted  = "media.deleted"
	PostCreated   = "post.created"
	PostUpdated   = "post.updated"
	PostDeleted   = "post.deleted"
	UserCreated   = "user.created"
	UserDeleted   = "user.deleted"
)

var RoutingKeys = []string{
	MediaUploaded,
	MediaClaimed,
	MediaDeleted,
	PostCreated,
	PostUpdated,
	PostDeleted,
	UserCreated,
	UserDeleted,
}

type (
	InputCh  = chan Event
	RabbitMQ struct {
		cfg   config.MQ
		log   *zap.Logger
		conn  *amqp091.Connection
		pubCh *amqp091.Channel
		in    InputCh
	}
	Event struct {
		Id      uuid.UUID `json:"event_id"`
		TS      time.Time `json:"time_stamp"`
		Action  string    `json:"event_action"`
		ActorID string    `json:"actor_id"`
		Payload any       `json:"payload"`
	}
)

func NewEvent(action string, actor uuid.UUID, payload any) Event {
	return Event{
		Id:      uuid.New(),
		TS:      time.Now().UTC(),
		Action:  action,
		ActorID: actor.String(),
		Payload: payload,
	}
}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
		in:  make(chan Event, bufferSize),
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "socialmedia-api",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return err
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return err
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return err
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for _, rk := range RoutingKeys {
		if err = r.pubCh.QueueBind(q.Name, rk, r.cfg.Exchange, false, nil); err != nil {
			return err
		}
	}

	return nil
}

func (r *RabbitMQ) PublisherWorker(ctx context.Context) {
	r.log.Info("starting publisher worker")

	defer func() {
		r.log.Info("publisher worker gracefully stopped")
	}()

	for {
		select {
		case e := <-r.in:
			if err := r.publish(ctx, e); err != nil {
				// alert
				r.log.Error("mq publish error", zap.Error(err), zap.String("action", e.Action))
			}
		case <-ctx.Done():
			r.pubCh.Close()
			return
		}
	}
}

func (r *RabbitMQ) publish(ctx context.Context, e Event) error {
	pub, err := toPublishing(e)
	if err != nil {
		return err
	}

	return r.pubCh.PublishWithContext(
		ctx,
		r.cfg.Exchange,
		e.Action,
		false,
		false,
		pub,
	)
}

func toPublishing(e Event) (amqp091.Publishing, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return amqp091.Publishing{}, err
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    e.Id.String(),
		Timestamp:    e.TS,
		Type:         e.Action,
		Body:         b,
	}, nil
}

func (r *RabbitMQ) GetInputChan() chan Event     { return r.in }
func (r *RabbitMQ) GetConn() *amqp091.Connection { return r.conn }
