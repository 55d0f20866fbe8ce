/*
Package discovery finds conversational turns in a host tree.

A Cascade is an ordered list of independent strategies. Strategies are pure
functions from a root node to turns in document order; the first strategy
that yields at least one turn wins and lower-priority strategies are not
run. Specific selectors come first and a broad text heuristic comes last.

Discovery is best-effort against a page structure that can change without
notice: missed turns and stray matches are accepted, not defects.
*/
package discovery
