package models

// Booking statuses. Pending is the only non-terminal state.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// User roles. Unknown labels are stored as-is and treated as requester.
const (
	RoleRequester = "requester"
	RoleApprover  = "approver"
	RoleAdmin     = "admin"
)

// BookingStatuses is the closed status set accepted by the admin patch path.
var BookingStatuses = []string{StatusPending, StatusApproved, StatusRejected, StatusCancelled}

// ValidBookingStatus reports membership in the closed status set.
func ValidBookingStatus(status string) bool {
	for _, s := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

const (
	// DefaultBcryptCost balances hashing time against login throughput.
	DefaultBcryptCost = 10

	// RateLimitRequests / RateLimitWindow bound auth requests per client.
	RateLimitRequests = 20
	RateLimitWindow   = 60 // seconds

	// MailQueueSize caps the notification dispatch backlog.
	MailQueueSize = 256
)
