package session

// Session defines a public type used by the portal authorization layer.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// CaseID is a weak reference used only for lookup: the Guard re-resolves the
// case record on every request and never treats the session as owning it.
type Session struct {
	TokenID    string
	CaseID     string
	CaseNumber string

	// Unix milliseconds.
	IssuedAt   int64
	LastSeenAt int64
}
