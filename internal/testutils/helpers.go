package testutils

import (
	"sync"
	"testing"

	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/stretchr/testify/require"
)

// ParseBody builds an htmldom document whose body holds the given fragment.
// It fails the test immediately on error.
func ParseBody(t *testing.T, body string) *htmldom.Document {
	t.Helper()

	doc, err := htmldom.ParseString("<!DOCTYPE html><html><head></head><body>" + body + "</body></html>")
	require.NoError(t, err, "Failed to parse fixture")
	return doc
}

// Queue is a manual ports.Executor for tests.
// Posted tasks accumulate until Drain runs them on the calling goroutine,
// which makes the engine's single execution sequence explicit in a test.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

// Post enqueues task. Safe for concurrent use.
func (q *Queue) Post(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Drain runs queued tasks, including those posted while draining.
// It returns the number of tasks run.
func (q *Queue) Drain() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return n
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
		n++
	}
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
