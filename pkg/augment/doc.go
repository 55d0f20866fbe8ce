/*
Package augment decorates host tables with a "Copy Markdown" affordance.

Decoration is idempotent: the Augmentor owns an explicit membership set of
the tables it has decorated, keyed by an opaque tag written onto each table,
and additionally honours an ancestor-scoped wrapper marker. Re-scanning the
same tree any number of times leaves exactly one affordance per table.

Activating an affordance transcodes the table as it is at that moment,
hands the text to the clipboard service and cycles the label
idle → success|failure → idle, returning to idle a fixed delay after the
last activation settled.
*/
package augment
