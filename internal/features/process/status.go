package process

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAborted    Status = "aborted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusCompleted, StatusAborted:
		return true
	}
	return false
}

// Transition reports whether a process may move from one status to another.
// Every pair is allowed. Whether Completed -> InProgress should stay allowed
// once transfer details exist is still open; tighten it here if it gets decided.
func Transition(from, to Status) bool {
	return from.Valid() && to.Valid()
}

// StatusChange is emitted by SetStatus.
type StatusChange struct {
	From Status
	To   Status
}

// TransferDetailsVisible is true when the new status exposes transfer details editing.
func (c StatusChange) TransferDetailsVisible() bool {
	return c.To == StatusCompleted
}

func (c StatusChange) Changed() bool {
	return c.From != c.To
}
