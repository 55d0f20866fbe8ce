package marginalia_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/ports"
)

// queue is a minimal executor: tasks run when drain is called.
type queue struct {
	tasks []func()
}

func (q *queue) Post(task func()) { q.tasks = append(q.tasks, task) }

func (q *queue) drain() {
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
	}
}

// ExampleNew shows one full pass over a static snapshot.
func ExampleNew() {
	doc, err := htmldom.ParseString(`<main>
		<p class="query-text-line ng-star-inserted">List the first three primes with their index</p>
		<table><tr><th>#</th><th>prime</th></tr><tr><td>1</td><td>2</td></tr></table>
	</main>`)
	if err != nil {
		log.Fatal(err)
	}

	noop := ports.ClipboardFunc(func(context.Context, string) error { return nil })
	q := &queue{}
	eng := marginalia.New(doc, noop, q)
	eng.Start()
	eng.Rescan()
	q.drain()

	fmt.Println(eng.Panel().Labels())
	fmt.Println(len(doc.QueryAll(".copy-markdown-button")))

	eng.Stop()
	q.drain()
	// Output:
	// [1. List the first three prim...]
	// 1
}
