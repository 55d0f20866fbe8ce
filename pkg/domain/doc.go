/*
Package domain contains the core value types of the marginalia engine.

It defines what the augmentation engine produces and reports: the portable
(Markdown) table built from a host table, the transient display state of an
export affordance, and the lifecycle events emitted by reconciliation
passes. The package is pure and free of I/O, following Hexagonal
Architecture principles; the host tree itself is described by package ports.

# Key Entities

  - PortableTable: An immutable, freshly built text table (header plus body rows).
  - CopyState: The three-state label cycle of an export affordance.
  - PassEvent / CopyEvent: Observability payloads delivered through LifecycleHooks.
*/
package domain
