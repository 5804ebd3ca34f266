package models

// Actor is the capability surface shared by authenticated users and the
// anonymous placeholder. Callers never need to branch on "is there a user"
// before invoking these methods.
type Actor interface {
	CheckPassword(plaintext string) bool
	Avatar(size int) string
	IsAdmin() bool
}

// AnonymousUser stands in for an unauthenticated session. Every capability
// deterministically reports negative.
type AnonymousUser struct{}

// CheckPassword always fails for anonymous sessions.
func (AnonymousUser) CheckPassword(string) bool { return false }

// Avatar returns an empty URL; anonymous sessions have no email to hash.
func (AnonymousUser) Avatar(int) string { return "" }

// IsAdmin is always false for anonymous sessions.
func (AnonymousUser) IsAdmin() bool { return false }

var _ Actor = (*User)(nil)
var _ Actor = AnonymousUser{}
