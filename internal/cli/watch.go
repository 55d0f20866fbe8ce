package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/internal/config"
	"github.com/aretw0/marginalia/internal/presentation/tui"
	"github.com/aretw0/marginalia/internal/runtime"
	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/observability"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/snapshot"
	"github.com/fsnotify/fsnotify"
)

// stopTimeout bounds how long RunWatch waits for the engine to detach.
const stopTimeout = 2 * time.Second

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Path      string
	Config    *config.Config
	Clipboard ports.Clipboard
	Logger    *slog.Logger
	Hooks     domain.LifecycleHooks

	// In receives interactive commands: a table number copies it, "r" rescans, "q" quits.
	In  io.Reader
	Out io.Writer
}

// RunWatch keeps an engine attached to an HTML file. Every save of the file
// is swapped into the live document the way a host page re-renders, and the
// index is printed after each pass.
func RunWatch(ctx context.Context, opts WatchOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return err
	}

	doc, err := loadFile(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors often replace files by rename.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The dispatcher outlives ctx so the engine can be stopped on it.
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	disp := runtime.NewDispatcher()
	go func() { _ = disp.Run(runCtx) }()

	var outMu sync.Mutex
	printf := func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(opts.Out, format, args...)
	}

	var eng *marginalia.Engine
	hooks := observability.Combine(
		observability.LogHooks(logger),
		opts.Hooks,
		domain.LifecycleHooks{
			OnPass: func(_ context.Context, e *domain.PassEvent) {
				printf("%s pass %d: %d tables, %d turns (%s)\n",
					tui.Status(opts.Out, true, "index"), e.Pass, e.Tables, e.Turns, strategyName(e.Strategy))
				for _, label := range eng.Panel().Labels() {
					printf("  %s\n", label)
				}
			},
			OnCopy: func(_ context.Context, e *domain.CopyEvent) {
				if e.Err != nil {
					printf("%s %v\n", tui.Status(opts.Out, false, e.State.String()), e.Err)
					return
				}
				if e.State == domain.CopySuccess {
					printf("%s %d bytes\n", tui.Status(opts.Out, true, e.State.String()), e.Bytes)
				}
			},
		},
	)

	engOpts := append(opts.Config.EngineOptions(),
		marginalia.WithLogger(logger),
		marginalia.WithLifecycleHooks(hooks),
		marginalia.WithContext(ctx),
	)
	eng = marginalia.New(doc, opts.Clipboard, disp, engOpts...)
	disp.Post(eng.Start)
	defer func() {
		select {
		case <-eng.Stop():
		case <-time.After(stopTimeout):
			logger.Warn("Engine stop timed out")
		}
	}()

	printSystemMessage(opts.Out, "Watching %s (number = copy table, r = rescan, q = quit)", path)

	if opts.In != nil {
		go readCommands(ctx, opts.In, func(cmd string) {
			switch {
			case cmd == "q":
				cancel()
			case cmd == "r":
				eng.Rescan()
			default:
				n, err := strconv.Atoi(cmd)
				if err != nil {
					printf("unknown command %q\n", cmd)
					return
				}
				disp.Post(func() {
					if !clickAffordance(doc, eng, n) {
						printf("no table %d\n", n)
					}
				})
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			next, err := loadFile(path)
			if err != nil {
				logger.Warn("Reload failed", "path", path, "err", err)
				continue
			}
			logger.Debug("Change detected", "path", path, "op", event.Op.String())
			disp.Post(func() { doc.ReplaceBody(next) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "err", err)
		}
	}
}

func loadFile(path string) (*htmldom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return snapshot.Load(f)
}

// clickAffordance activates the copy control of table n, numbered the way
// snapshot numbers tables: every table in document order, nested ones
// included. It reports false when the table has no control.
func clickAffordance(doc *htmldom.Document, eng *marginalia.Engine, n int) bool {
	tables := doc.QueryAll("table")
	if n < 1 || n > len(tables) {
		return false
	}
	aff := eng.Augmentor().Affordance(tables[n-1])
	if aff == nil {
		return false
	}
	return doc.Click(aff.Button())
}

func readCommands(ctx context.Context, in io.Reader, handle func(string)) {
	scanner := bufio.NewScanner(NewInterruptibleReader(in, ctx.Done()))
	for scanner.Scan() {
		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if cmd != "" {
			handle(cmd)
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, ErrInterrupted) {
		slog.Debug("Command reader stopped", "err", err)
	}
}

func strategyName(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
