package ports

// Executor is the single execution sequence of the engine.
// Every mutation of engine state happens inside a task posted here, so the
// core needs no locks. Post must be safe to call from any goroutine.
type Executor interface {
	Post(task func())
}
