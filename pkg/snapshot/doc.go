/*
Package snapshot runs the engine's read-only operations over a static HTML
document: table export and turn discovery. It backs the CLI, HTTP and MCP
surfaces, which receive a page as text rather than observing a live tree.
*/
package snapshot
