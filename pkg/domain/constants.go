package domain

import "time"

// Attribute and class names written onto the host tree.
const (
	// AttrOwned marks every element created by the engine. Its value names the role.
	AttrOwned = "data-marginalia"

	// AttrTag carries the opaque augmentation tag of a decorated table.
	AttrTag = "data-marginalia-id"

	ClassWrapper    = "markdown-copy-wrapper"
	ClassAffordance = "copy-markdown-button"
	ClassPanelItem  = "toc-item"

	PanelID = "gemini-toc"
)

// Owned element roles (values of AttrOwned).
const (
	RoleWrapper     = "wrapper"
	RoleAffordance  = "affordance"
	RolePanel       = "panel"
	RoleTitle       = "title"
	RoleItem        = "item"
	RolePlaceholder = "placeholder"
)

// Default timings.
const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultInitialDelay   = time.Second
	DefaultCopyReset      = 2 * time.Second
	DefaultHighlight      = 2 * time.Second
	DefaultTruncateLength = 25
)
