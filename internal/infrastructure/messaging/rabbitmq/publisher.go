package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
)

const (
	DefaultExchange = "vidtube.recommendations"

	routingKeyEmbeddingsSynced = "embeddings.synced"

	// Wait window for Return / Confirm
	publishWait = 150 * time.Millisecond
)

type Publisher struct {
	url      string
	exchange string

	mu sync.Mutex

	conn *amqp.Connection
	ch   *amqp.Channel

	confirmCh <-chan amqp.Confirmation
	returnCh  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	// enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch

	p.confirmCh = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returnCh = ch.NotifyReturn(make(chan amqp.Return, 1))

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

type embeddingsSyncedEvent struct {
	Processed int       `json:"processed"`
	New       int       `json:"new"`
	Existing  int       `json:"existing"`
	IndexSize int       `json:"index_size"`
	SyncedAt  time.Time `json:"synced_at"`
}

// EmbeddingsSynced announces a completed catalog sync to downstream
// consumers (analytics, cache warmers).
func (p *Publisher) EmbeddingsSynced(ctx context.Context, res recommend.SyncResult) error {
	body, err := json.Marshal(embeddingsSyncedEvent{
		Processed: res.Processed,
		New:       res.New,
		Existing:  res.Existing,
		IndexSize: res.IndexSize,
		SyncedAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return p.publish(ctx, routingKeyEmbeddingsSynced, uuid.NewString(), body)
}

// publish sends a JSON body to the topic exchange with mandatory +
// confirms.
func (p *Publisher) publish(ctx context.Context, routingKey, messageID string, body []byte) error {
	if routingKey == "" {
		return errors.New("missing routingKey")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return errors.New("publisher channel not ready")
	}

	err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			MessageId:   messageID,
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Body:        body,
		},
	)
	if err != nil {
		return err
	}

	// Wait for either Return (NO_ROUTE) or Confirm
	select {
	case ret := <-p.returnCh:
		return errors.New("NO_ROUTE: " + ret.RoutingKey)
	case conf := <-p.confirmCh:
		if !conf.Ack {
			return errors.New("publish nack")
		}
		return nil
	case <-time.After(publishWait):
		// best-effort window; the event is informational, consumers can
		// always catch up from the next sync
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ recommend.Publisher = (*Publisher)(nil)
