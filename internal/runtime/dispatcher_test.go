package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/marginalia/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsTasksInOrder(t *testing.T) {
	d := runtime.NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()

	var got []int
	finished := make(chan struct{})
	for i := 0; i < 50; i++ {
		i := i
		d.Post(func() { got = append(got, i) })
	}
	d.Post(func() { close(finished) })

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("tasks did not run")
	}
	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	<-d.Done()

	// Posting after shutdown must not block.
	d.Post(func() { t.Error("task ran after shutdown") })
}

func TestDispatcher_SelfPostNeverBlocks(t *testing.T) {
	d := runtime.NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	const n = 10000
	count := 0
	finished := make(chan struct{})
	d.Post(func() {
		// A single task fanning out far more posts than any fixed buffer.
		for i := 0; i < n; i++ {
			d.Post(func() { count++ })
		}
		d.Post(func() { close(finished) })
	})

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher wedged on posts from its own goroutine")
	}
	assert.Equal(t, n, count)
	assert.Equal(t, 0, d.Len())
}
