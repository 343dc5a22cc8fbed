package order

import "github.com/BruksfildServices01/restaurant-app/internal/httperr"

// ===============================
// Order Status
// ===============================

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

const DefaultMethod = "Pickup"

func InitialStatus() Status {
	return StatusPending
}

// CanComplete only lets pending orders move forward.
func CanComplete(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
