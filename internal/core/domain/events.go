package domain

import "time"

// ThreadOpenedEvent is emitted when a new conversation thread is created.
type ThreadOpenedEvent struct {
	EventID     string
	ThreadID    int64
	ThreadKey   string
	RequesterID int64
	OpenedAt    time.Time
}

// ThreadFinishedEvent is emitted when a thread transitions to a terminal
// status. It backs the post-transition hook seam: audit and notification
// consumers attach here.
type ThreadFinishedEvent struct {
	EventID         string
	ThreadID        int64
	ThreadKey       string
	RequesterID     int64
	Status          ThreadStatus
	ProcessedByID   *int64
	MessagesDeleted bool
	FinishedAt      time.Time
}
