//go:build js && wasm

// Command marginalia-wasm runs the engine inside a browser page.
//
// Build with GOOS=js GOARCH=wasm and load it with wasm_exec.js from a user
// script. Once started it exposes window.Marginalia.
package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"syscall/js"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/internal/config"
	"github.com/aretw0/marginalia/internal/logging"
	"github.com/aretw0/marginalia/internal/runtime"
	"github.com/aretw0/marginalia/pkg/adapters/jsdom"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/observability"
)

func main() {
	level := slog.LevelInfo
	if js.Global().Get("MARGINALIA_DEBUG").Truthy() {
		level = slog.LevelDebug
	}
	logger := logging.NewConsole(level)
	cfg := config.Default()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	disp := runtime.NewDispatcher()
	go func() { _ = disp.Run(ctx) }()

	var (
		mu     sync.Mutex
		labels []string
	)
	var eng *marginalia.Engine
	hooks := observability.Combine(
		observability.LogHooks(logger),
		domain.LifecycleHooks{
			OnPass: func(context.Context, *domain.PassEvent) {
				current := eng.Panel().Labels()
				mu.Lock()
				labels = current
				mu.Unlock()
			},
		},
	)

	opts := append(cfg.EngineOptions(),
		marginalia.WithLogger(logger),
		marginalia.WithLifecycleHooks(hooks),
		marginalia.WithContext(ctx),
	)
	eng = marginalia.New(jsdom.New(), jsdom.Clipboard{}, disp, opts...)
	disp.Post(eng.Start)

	js.Global().Set("Marginalia", js.ValueOf(map[string]any{
		"version": strings.TrimSpace(marginalia.Version),
		"rescan": js.FuncOf(func(this js.Value, args []js.Value) any {
			eng.Rescan()
			return nil
		}),
		"index": js.FuncOf(func(this js.Value, args []js.Value) any {
			mu.Lock()
			defer mu.Unlock()
			out := make([]any, len(labels))
			for i, l := range labels {
				out[i] = l
			}
			return out
		}),
		"stop": js.FuncOf(func(this js.Value, args []js.Value) any {
			done := eng.Stop()
			go func() {
				<-done
				cancel()
			}()
			return nil
		}),
	}))

	// Keep the Go runtime alive
	select {}
}
