package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Handler processes one queued payload. A returned error drops the message;
// delivery is at most once.
type Handler interface {
	HandleConfirmationEmail(ctx context.Context, payload []byte) error
}

type ConsumerConfig struct {
	RabbitURL string
	Exchange  string
	Queue     string
	Prefetch  int
	Workers   int
	Tag       string
}

// Consumer runs a reconnecting consume loop feeding a small worker pool.
type Consumer struct {
	cfg     ConsumerConfig
	handler Handler
	lg      zerolog.Logger

	mu      sync.Mutex
	running bool
	doneCh  chan struct{}

	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
}

func NewConsumer(cfg ConsumerConfig, h Handler, lg zerolog.Logger) *Consumer {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 8
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Consumer{
		cfg:     cfg,
		handler: h,
		lg:      lg.With().Str("component", "rabbitmq_consumer").Logger(),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}
	if c.handler == nil {
		return fmt.Errorf("nil handler")
	}

	c.doneCh = make(chan struct{})
	c.running = true
	go c.run(ctx)
	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	doneCh := c.doneCh
	c.running = false
	c.mu.Unlock()

	c.closeConn()

	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) run(ctx context.Context) {
	defer func() {
		c.mu.Lock()
		doneCh := c.doneCh
		c.doneCh = nil
		c.running = false
		c.mu.Unlock()

		if doneCh != nil {
			close(doneCh)
		}
	}()

	backoff := 1 * time.Second
	maxBackoff := 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.lg.Info().Msg("consumer supervisor exiting (ctx cancelled)")
			return
		default:
		}

		if !c.isRunning() {
			c.lg.Info().Msg("consumer supervisor exiting (stopped)")
			return
		}

		if err := c.connectAndDeclare(); err != nil {
			c.lg.Error().Err(err).Dur("backoff", backoff).Msg("connectAndDeclare failed; retrying")
			if !sleepOrDone(ctx, backoff) {
				return
			}
			backoff = minDur(backoff*2, maxBackoff)
			continue
		}

		backoff = 1 * time.Second
		c.consume(ctx)

		select {
		case <-ctx.Done():
			return
		default:
		}

		c.lg.Warn().Dur("backoff", backoff).Msg("deliveries closed; reconnecting")
		c.closeConn()

		if !sleepOrDone(ctx, backoff) {
			return
		}
		backoff = minDur(backoff*2, maxBackoff)
	}
}

func (c *Consumer) isRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Consumer) connectAndDeclare() error {
	c.closeConn()

	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}

	if _, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(c.cfg.Queue, ConfirmationEmailKey, c.cfg.Exchange, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("queue bind: %w", err)
	}

	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("qos: %w", err)
	}

	dlv, err := ch.Consume(c.cfg.Queue, c.cfg.Tag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("consume: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.ch = ch
	c.deliveries = dlv
	c.mu.Unlock()

	c.lg.Info().
		Str("exchange", c.cfg.Exchange).
		Str("queue", c.cfg.Queue).
		Int("prefetch", c.cfg.Prefetch).
		Int("workers", c.cfg.Workers).
		Msg("rabbitmq consumer ready")

	return nil
}

// consume fans deliveries out to the worker pool and returns once the
// deliveries channel closes or the context is cancelled.
func (c *Consumer) consume(ctx context.Context) {
	// snapshot under the lock; closeConn clears c.deliveries concurrently
	// during Stop
	c.mu.Lock()
	deliveries := c.deliveries
	c.mu.Unlock()
	if deliveries == nil {
		return
	}

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					c.handleDelivery(ctx, d)
				}
			}
		}()
	}
	wg.Wait()
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	switch d.RoutingKey {
	case ConfirmationEmailKey:
		start := time.Now()
		if err := c.handler.HandleConfirmationEmail(ctx, d.Body); err != nil {
			// at most once: failures are dropped, not retried
			_ = d.Nack(false, false)
			c.lg.Error().Err(err).Str("routing_key", d.RoutingKey).Msg("handle failed; dropping")
			return
		}
		_ = d.Ack(false)
		c.lg.Info().Str("routing_key", d.RoutingKey).Dur("took", time.Since(start)).Msg("message processed")

	default:
		// Drop unknown messages so a stray binding cannot block the queue.
		_ = d.Ack(false)
		c.lg.Warn().Str("routing_key", d.RoutingKey).Msg("unknown routing key; dropping")
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func minDur(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func (c *Consumer) closeConn() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ch != nil {
		_ = c.ch.Close()
		c.ch = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.deliveries = nil
}
