package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/marginalia/internal/config"
	"github.com/aretw0/marginalia/pkg/adapters/clipboard"
	"github.com/aretw0/marginalia/pkg/adapters/redis"
	"github.com/aretw0/marginalia/pkg/ports"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewClipboard returns the clipboard selected by the configuration.
// The closer releases backend connections and is never nil.
func NewClipboard(cfg *config.Config, term *os.File) (ports.Clipboard, io.Closer, error) {
	switch cfg.Clipboard.Backend {
	case "memory":
		return clipboard.NewMemory(), nopCloser{}, nil
	case "system":
		return clipboard.System{}, nopCloser{}, nil
	case "osc52":
		c, err := clipboard.NewTerminalOSC52(term)
		if err != nil {
			return nil, nil, err
		}
		return c, nopCloser{}, nil
	case "redis":
		opts := []redis.Option{}
		if cfg.Clipboard.Redis.Key != "" {
			opts = append(opts, redis.WithKey(cfg.Clipboard.Redis.Key))
		}
		if cfg.Clipboard.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Clipboard.Redis.TTL))
		}
		c := redis.New(cfg.Clipboard.Redis.Addr, opts...)
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown clipboard backend %q", cfg.Clipboard.Backend)
	}
}
