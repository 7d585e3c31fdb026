package domain

const (
	RequestStatusPending  = "PENDING"
	RequestStatusAccepted = "ACCEPTED"
	RequestStatusRejected = "REJECTED"
)

const (
	NotifNewRequest      = "NEW_REQUEST"
	NotifRequestAccepted = "REQUEST_ACCEPTED"
	NotifRequestRejected = "REQUEST_REJECTED"
)

// Valid transitions for a buddy request. ACCEPTED and REJECTED are terminal.
func CanTransition(from, to string) bool {
	if from != RequestStatusPending {
		return false
	}
	return to == RequestStatusAccepted || to == RequestStatusRejected
}
