// Package transcode converts host tables into portable Markdown tables.
//
// Transcode is a pure function over the table's state at call time: it never
// caches and never writes to the tree. The escaping and padding rules it
// applies live in policy.go and are shared with the adapters that render
// cells outside of a full table.
package transcode
