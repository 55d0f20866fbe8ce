// Package htmldom implements the host document ports on golang.org/x/net/html.
//
// Selectors are evaluated with cascadia. Because a parsed snapshot has no
// renderer, node additions under the body are reported to observers directly
// from the inserting call, and user events are raised with Dispatch/Click.
package htmldom
