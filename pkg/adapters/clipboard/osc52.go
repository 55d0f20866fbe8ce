package clipboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aymanbagabas/go-osc52/v2"
	"golang.org/x/term"
)

// OSC52 copies through the terminal emulator with the OSC 52 escape
// sequence, which also works over SSH.
type OSC52 struct {
	mu     sync.Mutex
	w      io.Writer
	tmux   bool
	screen bool
}

// Ensure OSC52 implements ports.Clipboard
var _ ports.Clipboard = (*OSC52)(nil)

// NewOSC52 writes sequences to w, wrapped for tmux or screen when the
// environment says the terminal is multiplexed.
func NewOSC52(w io.Writer, env func(string) string) *OSC52 {
	if env == nil {
		env = os.Getenv
	}
	return &OSC52{
		w:      w,
		tmux:   env("TMUX") != "",
		screen: strings.HasPrefix(env("TERM"), "screen"),
	}
}

// NewTerminalOSC52 targets f, which must be a terminal.
func NewTerminalOSC52(f *os.File) (*OSC52, error) {
	if !term.IsTerminal(int(f.Fd())) {
		return nil, fmt.Errorf("%s is not a terminal: %w", f.Name(), domain.ErrClipboardUnavailable)
	}
	return NewOSC52(f, os.Getenv), nil
}

func (o *OSC52) CopyText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := osc52.New(text)
	switch {
	case o.tmux:
		seq = seq.Tmux()
	case o.screen:
		seq = seq.Screen()
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := seq.WriteTo(o.w); err != nil {
		return fmt.Errorf("failed to write osc52 sequence: %w", err)
	}
	return nil
}
