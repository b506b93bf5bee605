package domain

import "time"

// Message is a single text entry in a thread's timeline. At most one of
// AdminUserID and RequesterID is set; it records authorship.
type Message struct {
	ID          int64
	Text        string
	CreatedOn   time.Time
	AdminUserID *int64
	RequesterID *int64
	ThreadID    int64
}
