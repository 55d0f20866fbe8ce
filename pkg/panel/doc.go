// Package panel renders the floating index of conversational turns.
package panel
