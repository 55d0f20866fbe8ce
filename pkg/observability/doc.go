/*
Package observability turns engine lifecycle hooks into Prometheus metrics
and structured log lines.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger))
	eng := marginalia.New(doc, clip, exec, marginalia.WithLifecycleHooks(hooks))
*/
package observability
