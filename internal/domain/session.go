package domain

// Storage keys of the persisted session layout.
const (
	StorageKeyToken = "token"
	StorageKeyUser  = "user"
)

// Session pairs a bearer token with the identity decoded from it. Sessions are
// never mutated once built; a new login replaces the whole value.
type Session struct {
	Token    string
	Identity Identity
}

// AuthorizationHeader is the header value for authenticated backend calls.
func (s *Session) AuthorizationHeader() string {
	return "Bearer " + s.Token
}
