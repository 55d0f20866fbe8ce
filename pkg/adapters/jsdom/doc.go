// Package jsdom implements the host document ports on the live browser DOM
// through syscall/js. It only builds for js/wasm.
//
// Change notifications come from a MutationObserver and carry element nodes
// only. Listener callbacks run on the browser event loop; the engine posts
// them onto its executor, so they never block it.
package jsdom
