package clipboard

import (
	"context"
	"sync"

	"github.com/aretw0/marginalia/pkg/ports"
)

// Memory records copied texts. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	texts []string
}

// Ensure Memory implements ports.Clipboard
var _ ports.Clipboard = (*Memory)(nil)

// NewMemory creates an empty clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CopyText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.texts = append(m.texts, text)
	m.mu.Unlock()
	return nil
}

// Last returns the most recent text and whether anything was copied.
func (m *Memory) Last() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.texts) == 0 {
		return "", false
	}
	return m.texts[len(m.texts)-1], true
}

// History returns every copied text, oldest first.
func (m *Memory) History() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.texts...)
}
