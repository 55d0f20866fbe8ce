package clipboard

import (
	"context"
	"fmt"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/atotto/clipboard"
)

// System writes to the operating system clipboard.
type System struct{}

// Ensure System implements ports.Clipboard
var _ ports.Clipboard = System{}

func (System) CopyText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return domain.ErrClipboardUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	return nil
}
