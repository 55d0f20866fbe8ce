package domain

// CopyState is the display state of a table export affordance.
type CopyState int

const (
	CopyIdle CopyState = iota
	CopySuccess
	CopyFailure
)

// Label returns the affordance text for the state.
func (s CopyState) Label() string {
	switch s {
	case CopySuccess:
		return "Copied!"
	case CopyFailure:
		return "Error!"
	default:
		return "Copy Markdown"
	}
}

func (s CopyState) String() string {
	switch s {
	case CopySuccess:
		return "success"
	case CopyFailure:
		return "failure"
	default:
		return "idle"
	}
}
