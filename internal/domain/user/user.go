package user

import "context"

// User is a snapshot of a directory record at validation time. It is not
// persisted by this service; orders reference users by identifier only.
type User struct {
	ID     int64
	Name   string
	Email  string
	Active bool
}

// Verdict reasons for rejected users. The directory service serves these on
// the wire, so handlers match on the constants rather than on prose.
const (
	ReasonNotFound = "User not found"
	ReasonInactive = "User is inactive"
)

// ValidationResult is the directory's verdict for a single user. A negative
// verdict (unknown or inactive user) is a normal result, not an error; only
// transport-level failures surface as errors from Directory implementations.
type ValidationResult struct {
	Valid  bool
	Reason string
	// User is set only when Valid is true.
	User *User
}

// Directory validates users against the remote user directory service.
type Directory interface {
	Validate(ctx context.Context, userID int64) (*ValidationResult, error)
}
