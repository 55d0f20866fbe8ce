/*
Package ports defines the driven ports (interfaces) for the marginalia engine.

These interfaces decouple the augmentation core from the concrete host that
renders the page. The same core runs against a parsed HTML snapshot
(adapters/htmldom) and against the live browser DOM (adapters/jsdom).

# Key Interfaces

  - Document: The host document tree. Queries, element creation and change notifications.
  - Node: A single element of the host tree. Read access plus the narrow set of writes the engine is allowed.
  - Clipboard: The external clipboard service used by the table export affordance.
  - Executor: The single execution sequence all engine work is posted onto.
*/
package ports
