//go:build js && wasm

package jsdom

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
)

// Clipboard writes through navigator.clipboard.writeText.
type Clipboard struct{}

// Ensure Clipboard implements ports.Clipboard
var _ ports.Clipboard = Clipboard{}

// CopyText waits for the writeText promise. It must not be called from the
// browser event loop, which settles the promise.
func (Clipboard) CopyText(ctx context.Context, text string) error {
	nav := js.Global().Get("navigator")
	if nav.IsUndefined() {
		return domain.ErrClipboardUnavailable
	}
	clip := nav.Get("clipboard")
	if clip.IsUndefined() || clip.IsNull() {
		return domain.ErrClipboardUnavailable
	}

	result := make(chan error, 1)
	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		result <- nil
		return nil
	})
	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		msg := "rejected"
		if len(args) > 0 && !args[0].IsUndefined() {
			msg = args[0].Call("toString").String()
		}
		result <- errors.New(msg)
		return nil
	})
	release := func() {
		onResolve.Release()
		onReject.Release()
	}

	clip.Call("writeText", text).Call("then", onResolve, onReject)

	select {
	case err := <-result:
		release()
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrClipboardUnavailable, err)
		}
		return nil
	case <-ctx.Done():
		// The promise still settles later; keep the callbacks alive until then.
		go func() {
			<-result
			release()
		}()
		return ctx.Err()
	}
}
