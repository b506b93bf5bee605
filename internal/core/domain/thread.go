package domain

import "time"

// ThreadStatus enumerates the possible states of a conversation thread.
type ThreadStatus string

const (
	ThreadStatusActive     ThreadStatus = "active"
	ThreadStatusUnresolved ThreadStatus = "unresolved"
	ThreadStatusApproved   ThreadStatus = "approved"
	ThreadStatusDenied     ThreadStatus = "denied"
)

// ThreadStatuses lists every recognized status in a stable order.
func ThreadStatuses() []ThreadStatus {
	return []ThreadStatus{
		ThreadStatusActive,
		ThreadStatusUnresolved,
		ThreadStatusApproved,
		ThreadStatusDenied,
	}
}

// Valid reports whether the status is one of the recognized values.
func (s ThreadStatus) Valid() bool {
	switch s {
	case ThreadStatusActive, ThreadStatusUnresolved, ThreadStatusApproved, ThreadStatusDenied:
		return true
	}
	return false
}

// Terminal reports whether the status finishes a conversation. A requester
// may hold at most one non-terminal (active) thread at a time.
func (s ThreadStatus) Terminal() bool {
	return s == ThreadStatusUnresolved || s == ThreadStatusApproved || s == ThreadStatusDenied
}

// Thread mirrors the persisted representation in the threads table.
type Thread struct {
	ID             int64
	Key            string
	Status         ThreadStatus
	CreatedOn      time.Time
	LastActivityOn time.Time
	RequesterID    int64
}
