package models

// OpState tracks an asynchronous operation's lifecycle
type OpState int

const (
	OpIdle OpState = iota
	OpPending
	OpSucceeded
	OpFailed
)

func (s OpState) String() string {
	switch s {
	case OpIdle:
		return "idle"
	case OpPending:
		return "pending"
	case OpSucceeded:
		return "succeeded"
	case OpFailed:
		return "failed"
	default:
		return "unknown"
	}
}
