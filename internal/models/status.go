package models

// Request statuses (group invitations and guide requests).
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Review statuses (coordinator approvals and abstract review stages).
const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// Group sizing rules. A group may never exceed GroupMaxSize members;
// coordinator approval, guide requests and abstract submission require
// at least GroupReadySize.
const (
	GroupMaxSize   = 5
	GroupReadySize = 4
)
