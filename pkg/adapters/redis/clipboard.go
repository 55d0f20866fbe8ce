package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/marginalia/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const (
	DefaultKey     = "marginalia:clipboard"
	DefaultChannel = "marginalia:clipboard:copied"
	DefaultTTL     = 24 * time.Hour
)

// ErrEmpty is returned by Latest when nothing was copied or the entry expired.
var ErrEmpty = errors.New("shared clipboard is empty")

// Clipboard implements ports.Clipboard on a Redis key, so several machines
// can share what was last copied. Every copy is also published on a channel.
type Clipboard struct {
	client  *backend.Client
	key     string
	channel string
	ttl     time.Duration
}

// Ensure Clipboard implements ports.Clipboard
var _ ports.Clipboard = (*Clipboard)(nil)

// Option configures the Clipboard.
type Option func(*Clipboard)

// WithKey sets the key holding the latest text.
func WithKey(key string) Option {
	return func(c *Clipboard) {
		c.key = key
	}
}

// WithChannel sets the pub/sub channel copies are announced on.
func WithChannel(channel string) Option {
	return func(c *Clipboard) {
		c.channel = channel
	}
}

// WithTTL sets how long the latest text is kept. Zero keeps it forever.
func WithTTL(ttl time.Duration) Option {
	return func(c *Clipboard) {
		c.ttl = ttl
	}
}

// New connects to the Redis server at addr.
func New(addr string, opts ...Option) *Clipboard {
	return NewFromClient(backend.NewClient(&backend.Options{Addr: addr}), opts...)
}

// NewFromClient uses an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Clipboard {
	c := &Clipboard{
		client:  client,
		key:     DefaultKey,
		channel: DefaultChannel,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CopyText stores text as the latest entry and announces it.
func (c *Clipboard) CopyText(ctx context.Context, text string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, c.key, text, c.ttl)
		pipe.Publish(ctx, c.channel, text)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write shared clipboard: %w", err)
	}
	return nil
}

// Latest returns the most recently copied text.
func (c *Clipboard) Latest(ctx context.Context) (string, error) {
	text, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, backend.Nil) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", fmt.Errorf("failed to read shared clipboard: %w", err)
	}
	return text, nil
}

// Subscribe streams texts copied from now on until ctx is done.
func (c *Clipboard) Subscribe(ctx context.Context) (<-chan string, error) {
	sub := c.client.Subscribe(ctx, c.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", c.channel, err)
	}

	out := make(chan string)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close releases the client.
func (c *Clipboard) Close() error {
	return c.client.Close()
}
