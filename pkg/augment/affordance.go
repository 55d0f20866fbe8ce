package augment

import (
	"context"
	"time"

	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/transcode"
	"github.com/benbjohnson/clock"
)

// Affordance is the export button attached to one table.
type Affordance struct {
	a      *Augmentor
	table  ports.Node
	button ports.Node
	tag    string

	state domain.CopyState
	// gen identifies the latest settled activation; a reset timer only
	// applies if no activation settled after it was armed.
	gen   int
	reset *clock.Timer
}

// Tag returns the opaque tag of the decorated table.
func (f *Affordance) Tag() string {
	return f.tag
}

// Button returns the affordance element.
func (f *Affordance) Button() ports.Node {
	return f.button
}

// State returns the current display state.
func (f *Affordance) State() domain.CopyState {
	return f.state
}

// Activate transcodes the table in its current state and copies the text.
// The clipboard call runs off the execution sequence; its outcome is posted
// back onto it.
func (f *Affordance) Activate() {
	text := transcode.Markdown(f.table)
	a := f.a

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, a.copyTimeout)
		defer cancel()
		err := a.clipboard.CopyText(ctx, text)
		a.exec.Post(func() {
			f.settle(err, len(text))
		})
	}()
}

func (f *Affordance) settle(err error, size int) {
	a := f.a
	state := domain.CopySuccess
	if err != nil {
		state = domain.CopyFailure
		a.logger.Warn("Failed to copy markdown table", "tag", f.tag, "err", err)
	} else {
		a.logger.Debug("Markdown table copied", "tag", f.tag, "bytes", size)
	}
	f.show(state)

	f.gen++
	gen := f.gen
	if f.reset != nil {
		f.reset.Stop()
	}
	f.reset = a.clock.AfterFunc(a.resetAfter, func() {
		a.exec.Post(func() {
			if gen == f.gen {
				f.show(domain.CopyIdle)
			}
		})
	})

	if a.hooks.OnCopy != nil {
		a.hooks.OnCopy(a.ctx, &domain.CopyEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCopy},
			Tag:       f.tag,
			State:     state,
			Bytes:     size,
			Err:       err,
		})
	}
}

func (f *Affordance) show(state domain.CopyState) {
	f.state = state
	f.button.SetText(state.Label())
}
