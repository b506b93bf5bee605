package domain

import "time"

// Requester mirrors the persisted representation in the requesters table.
// A requester is anonymous to the system: it is identified only by its
// username together with the hashes of its client IP and browser fingerprint.
type Requester struct {
	ID                int64
	Username          string
	CreatedOn         time.Time
	IPHash            string
	FPHash            string
	WasApprovedBefore bool
	LastReviewedByID  *int64
}
