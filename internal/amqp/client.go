package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	applog "expensetracker/internal/log"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures    = 5
	openTimeout    = 30 * time.Second
	publishTimeout = 5 * time.Second
	dialTimeout    = 10 * time.Second
	maxBackoff     = 30 * time.Second
)

var (
	ErrCircuitOpen  = errors.New("circuit breaker is open")
	ErrReconnecting = errors.New("reconnect already in progress")

	errDeliveriesClosed = errors.New("message channel closed")
)

// Client publishes and consumes expense events on a direct exchange. A
// broken connection is re-dialled on the next publish by a single caller;
// concurrent publishers fail fast until it is back.
type Client struct {
	url          string
	exchangeName string
	queueName    string

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel
	dialing atomic.Bool

	failureCount int64
	state        int32
	lastFailure  time.Time
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if _, err := client.openChannel(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// openChannel returns the current channel, dialling a new connection when
// there is none. The dial is bounded by ctx's deadline and runs without
// holding c.mu.
func (c *Client) openChannel(ctx context.Context) (*amqp091.Channel, error) {
	c.mu.Lock()
	if c.channel != nil && !c.channel.IsClosed() {
		channel := c.channel
		c.mu.Unlock()
		return channel, nil
	}
	c.mu.Unlock()

	if !c.dialing.CompareAndSwap(false, true) {
		return nil, ErrReconnecting
	}
	defer c.dialing.Store(false)

	conn, channel, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.conn = conn
	c.channel = channel
	return channel, nil
}

func (c *Client) dial(ctx context.Context) (*amqp091.Connection, *amqp091.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	timeout := dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	conn, err := amqp091.DialConfig(c.url, amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp091.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	if err := c.setup(channel); err != nil {
		_ = channel.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return conn, channel, nil
}

func (c *Client) setup(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// routing key is the queue name
	if err := channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseRecorded publishes a persistent expense.recorded message.
// The whole call, reconnect included, is bounded by publishTimeout.
func (c *Client) PublishExpenseRecorded(ctx context.Context, id int64, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish expense %d: %w", id, ErrCircuitOpen)
	}

	body, err := NewExpenseRecordedMessage(id, date).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	channel, err := c.openChannel(ctx)
	if errors.Is(err, ErrReconnecting) {
		return fmt.Errorf("publish expense %d: %w", id, err)
	}
	if err != nil {
		c.recordFailure()
		return fmt.Errorf("reconnect: %w", err)
	}

	err = channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         "expense.recorded",
			Body:         body,
		},
	)
	if err != nil {
		c.recordFailure()
		if isConnectionError(err) {
			c.drop(channel)
		}
		return fmt.Errorf("publish message: %w", err)
	}

	c.recordSuccess()
	applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).DebugContext(ctx, "Published expense recorded message",
		applog.FieldExpenseID, id,
		applog.FieldDate, date,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// ConsumeExpenseRecorded delivers messages to handler until ctx is done.
// Handler errors requeue the delivery; undecodable bodies are dropped. A
// lost connection is re-dialled with backoff.
func (c *Client) ConsumeExpenseRecorded(ctx context.Context, handler func(context.Context, *ExpenseRecordedMessage) error) error {
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentAMQP)

	for attempt := 0; ; attempt++ {
		err := c.consume(ctx, logger, handler)
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.InfoContext(ctx, "Stopping message consumption", "reason", ctxErr)
			return ctxErr
		}
		if errors.Is(err, errDeliveriesClosed) {
			// the session was up; start the backoff over
			attempt = 0
		}

		wait := exponentialBackoff(attempt)
		logger.WarnContext(ctx, "Consumer interrupted, reconnecting",
			applog.FieldError, err,
			"attempt", attempt+1,
			"wait", wait)

		c.mu.Lock()
		c.closeLocked()
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) consume(ctx context.Context, logger *applog.Logger, handler func(context.Context, *ExpenseRecordedMessage) error) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	channel, err := c.openChannel(dialCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}

	if err := channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	logger.InfoContext(ctx, "Started consuming expense recorded messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}

			msg, err := ExpenseRecordedMessageFromJSON(delivery.Body)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to unmarshal message", applog.FieldError, err)
				_ = delivery.Nack(false, false)
				continue
			}

			if err := handler(ctx, msg); err != nil {
				logger.ErrorContext(ctx, "Failed to handle message", applog.FieldError, err, applog.FieldExpenseID, msg.ID)
				_ = delivery.Nack(false, true)
				continue
			}

			_ = delivery.Ack(false)
			logger.InfoContext(ctx, "Processed expense recorded message", applog.FieldExpenseID, msg.ID, applog.FieldDate, msg.Date)
		}
	}
}

// drop closes the connection behind channel unless it was already replaced.
func (c *Client) drop(channel *amqp091.Channel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == channel {
		c.closeLocked()
	}
}

func (c *Client) isCircuitOpen() bool {
	if atomic.LoadInt32(&c.state) != StateOpen {
		return false
	}
	c.mu.Lock()
	last := c.lastFailure
	c.mu.Unlock()
	if time.Since(last) > openTimeout {
		atomic.CompareAndSwapInt32(&c.state, StateOpen, StateHalfOpen)
		return false
	}
	return true
}

func (c *Client) recordFailure() {
	n := atomic.AddInt64(&c.failureCount, 1)
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()
	if n >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		atomic.StoreInt32(&c.state, StateOpen)
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) closeLocked() {
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return nil
}

// exponentialBackoff returns the wait before reconnect attempt n, capped at 30s.
func exponentialBackoff(attempt int) time.Duration {
	if attempt > 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// DialWithRetry keeps dialling until it succeeds or ctx is done.
func DialWithRetry(ctx context.Context, url, exchangeName, queueName string) (*Client, error) {
	for attempt := 0; ; attempt++ {
		client, err := NewClient(url, exchangeName, queueName)
		if err == nil {
			return client, nil
		}
		wait := exponentialBackoff(attempt)
		applog.FromContext(ctx).WithComponent(applog.ComponentAMQP).WarnContext(ctx, "AMQP connection failed, retrying",
			applog.FieldError, err,
			"attempt", attempt+1,
			"wait", wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed network"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
