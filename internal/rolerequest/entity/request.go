package entity

import "time"

const (
	TypeChef  = "chef"
	TypeAdmin = "admin"
)

// Request status is monotonic: pending -> approved or pending -> rejected,
// never reversed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// RoleRequest is a durable record of an account's ask to be elevated to
// chef or admin privilege. Requester name and email are snapshotted at
// submission time.
type RoleRequest struct {
	ID            int64     `db:"id" json:"id"`
	AccountID     int64     `db:"account_id" json:"accountId"`
	RequesterName string    `db:"requester_name" json:"requesterName"`
	Email         string    `db:"email" json:"email"`
	RequestType   string    `db:"request_type" json:"requestType"`
	Status        string    `db:"status" json:"status"`
	RequestedAt   time.Time `db:"requested_at" json:"requestedAt"`
}

// ValidType reports whether t names a known elevation target.
func ValidType(t string) bool {
	return t == TypeChef || t == TypeAdmin
}
