package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
)

// VideoEventMessage is the catalog lifecycle event emitted by the main
// backend when a video is published or deleted.
type VideoEventMessage struct {
	VideoID   string    `json:"video_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	TraceID   string    `json:"trace_id"`
}

const (
	routingKeyVideoPublished = "video.published"
	routingKeyVideoDeleted   = "video.deleted"

	queueName      = "recommendation-service.video-events"
	retryQueueName = "recommendation-service.video-events.retry"
	dlxName        = "recommendations.dlx"
	dlqName        = "recommendation-service.video-events.dlq"

	maxRetries = 3
)

// Consumer keeps the embedding index in step with the catalog: published
// videos get embedded, deleted ones get evicted.
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	service  *recommend.Service
	exchange string
}

func NewConsumer(rabbitURL, exchange string, service *recommend.Service) (*Consumer, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// 1. Main exchange (topic, owned by the catalog service)
	err = ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// 2. DLX (fanout)
	err = ch.ExchangeDeclare(dlxName, "fanout", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlx: %w", err)
	}

	// 3. DLQ bound to DLX
	_, err = ch.QueueDeclare(dlqName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlq: %w", err)
	}
	if err := ch.QueueBind(dlqName, "", dlxName, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind dlq: %w", err)
	}

	// 4. Main queue with DLX configured
	mainQArgs := amqp.Table{
		"x-dead-letter-exchange": dlxName, // Nacked messages go to DLX -> DLQ
	}
	q, err := ch.QueueDeclare(queueName, true, false, false, false, mainQArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to declare main queue: %w", err)
	}

	// 5. Retry queue: TTL then back to the main queue
	retryQArgs := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queueName,
		"x-message-ttl":             5000, // 5 seconds
	}
	_, err = ch.QueueDeclare(retryQueueName, true, false, false, false, retryQArgs)
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	for _, key := range []string{routingKeyVideoPublished, routingKeyVideoDeleted} {
		if err := ch.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}

	return &Consumer{
		conn:     conn,
		channel:  ch,
		queue:    q.Name,
		service:  service,
		exchange: exchange,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) {
	go c.consume(ctx)
	log.Info().
		Str("queue", c.queue).
		Str("exchange", c.exchange).
		Msg("video events consumer started")
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Consumer) consume(ctx context.Context) {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to start consuming")
		return
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("consumer shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("consumer channel closed")
				return
			}
			c.handleMessage(msg)
		}
	}
}

func (c *Consumer) handleMessage(msg amqp.Delivery) {
	routingKey := msg.RoutingKey
	if val, ok := msg.Headers["x-original-routing-key"].(string); ok {
		routingKey = val
	}

	log.Debug().
		Str("routing_key", routingKey).
		Str("message_id", msg.MessageId).
		Msg("received video event")

	var videoMsg VideoEventMessage
	if err := json.Unmarshal(msg.Body, &videoMsg); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal video event")
		msg.Nack(false, false) // Poison message -> DLQ
		return
	}
	if videoMsg.VideoID == "" {
		log.Error().Msg("video event missing video_id")
		msg.Nack(false, false) // Poison message -> DLQ
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch routingKey {
	case routingKeyVideoPublished:
		err = c.service.EmbedVideo(ctx, videoMsg.VideoID)
	case routingKeyVideoDeleted:
		err = c.service.DeleteEmbedding(ctx, videoMsg.VideoID)
	default:
		log.Warn().Str("routing_key", routingKey).Msg("unknown routing key")
		msg.Ack(false)
		return
	}

	if err == nil {
		msg.Ack(false)
		return
	}

	// A video deleted before its publish event drained is gone for good;
	// retrying cannot bring it back.
	var appErr *domain.AppError
	if errors.As(err, &appErr) &&
		(appErr.Code == domain.CodeNotFound || appErr.Code == domain.CodeInvalidState) {
		log.Warn().
			Str("video_id", videoMsg.VideoID).
			Str("code", string(appErr.Code)).
			Msg("video event no longer applicable, dropping message")
		msg.Ack(false)
		return
	}

	c.retryOrDeadLetter(msg, routingKey, videoMsg.VideoID, err)
}

func (c *Consumer) retryOrDeadLetter(msg amqp.Delivery, routingKey, videoID string, cause error) {
	retryCount := 0
	if val, ok := msg.Headers["x-retry-count"].(int32); ok {
		retryCount = int(val)
	}

	if retryCount < maxRetries {
		log.Warn().
			Err(cause).
			Int("retry_count", retryCount).
			Str("video_id", videoID).
			Msg("processing failed, scheduling retry")

		headers := make(amqp.Table)
		for k, v := range msg.Headers {
			headers[k] = v
		}
		headers["x-retry-count"] = int32(retryCount + 1)
		headers["x-original-routing-key"] = routingKey

		pubErr := c.channel.Publish(
			"",             // default exchange
			retryQueueName, // routing key = retry queue name
			false,
			false,
			amqp.Publishing{
				ContentType: msg.ContentType,
				Body:        msg.Body,
				Headers:     headers,
				MessageId:   msg.MessageId,
			},
		)
		if pubErr != nil {
			log.Error().Err(pubErr).Msg("failed to publish to retry queue")
			msg.Nack(false, false) // Failed to retry -> DLQ
		} else {
			msg.Ack(false) // Handled via retry
		}
		return
	}

	log.Error().
		Err(cause).
		Str("video_id", videoID).
		Msg("max retries reached, sending to DLQ")
	msg.Nack(false, false)
}
