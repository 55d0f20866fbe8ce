/*
Package marginalia augments a live, continuously re-rendered document.

It watches a host tree that it does not own (a chat transcript rendered by a
single-page application) and keeps two augmentations in place while the host
keeps adding, replacing and removing nodes:

  - every table gets exactly one "Copy Markdown" affordance that exports the
    table's current content as a Markdown pipe table;
  - a floating index panel lists the user's conversational turns and scrolls
    to one on click.

# Architecture

The core is written against small ports (pkg/ports): a host tree, a
clipboard, and an Executor that runs every piece of engine work on one
sequence. Adapters provide the host tree over golang.org/x/net/html
(pkg/adapters/htmldom, for snapshots, tests and the CLI) and over the live
browser DOM (pkg/adapters/jsdom, for the js/wasm build).

Change notifications are debounced: tables that arrive are decorated at
once, and a full pass (all tables, turn discovery, panel) runs after the
host has been quiet for a while.

# Usage

	doc, _ := htmldom.ParseString(page)
	exec := runtime.NewDispatcher()
	go exec.Run(ctx)

	eng := marginalia.New(doc, clipboard.NewMemory(), exec,
		marginalia.WithLogger(logger),
		marginalia.WithDebounce(300*time.Millisecond),
	)
	eng.Start()
*/
package marginalia
