package models

// Interest request statuses. Accepted and denied are terminal: once a
// request reaches either, no further transition is allowed.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDenied   = "denied"
)

// InterestRequest is a directed interest from one user to another.
type InterestRequest struct {
	RequestID    string `dynamodbav:"requestId" json:"requestId"`
	PairKey      string `dynamodbav:"pairKey" json:"-"`
	InterestFrom string `dynamodbav:"interestFrom" json:"interestFrom"`
	InterestTo   string `dynamodbav:"interestTo" json:"interestTo"`
	Status       string `dynamodbav:"status" json:"status"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// InterestPair marks the unordered pair as having an active (pending or
// accepted) request. Its conditional insert is what makes duplicate
// suppression atomic; it is removed when the request is denied.
type InterestPair struct {
	PairKey   string `dynamodbav:"pairKey"`
	RequestID string `dynamodbav:"requestId"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// InterestRequestView is an InterestRequest with the profile cards of one
// or both parties populated from the external user store.
type InterestRequestView struct {
	InterestRequest
	FromUser *UserProfile `json:"fromUser,omitempty"`
	ToUser   *UserProfile `json:"toUser,omitempty"`
}

// DeniedRequestView is the shape returned by the denied-requests query:
// the viewer only learns who the other party was and which side denied.
type DeniedRequestView struct {
	RequestID string       `json:"requestId"`
	Status    string       `json:"status"`
	DeniedBy  string       `json:"deniedBy"` // "me" or "them"
	User      *UserProfile `json:"user,omitempty"`
	UserID    string       `json:"userId"`
}

const (
	InterestRequestsTable = "InterestRequests"
	InterestPairsTable    = "InterestPairs"

	PairKeyIndex      = "pairKey-index"
	InterestFromIndex = "interestFrom-index"
	InterestToIndex   = "interestTo-index"
)

// ValidRequestStatus reports whether s is one of the defined statuses.
func ValidRequestStatus(s string) bool {
	return s == RequestStatusPending || s == RequestStatusAccepted || s == RequestStatusDenied
}

// TerminalRequestStatus reports whether s has no outgoing transitions.
func TerminalRequestStatus(s string) bool {
	return s == RequestStatusAccepted || s == RequestStatusDenied
}
