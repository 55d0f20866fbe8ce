package ports

import "context"

// Clipboard is the external clipboard service.
// CopyText is asynchronous from the engine's point of view and may fail for
// permission or environment reasons; failures are returned, never panicked.
type Clipboard interface {
	CopyText(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to the Clipboard interface.
type ClipboardFunc func(ctx context.Context, text string) error

// CopyText calls f(ctx, text).
func (f ClipboardFunc) CopyText(ctx context.Context, text string) error {
	return f(ctx, text)
}
