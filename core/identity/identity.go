package identity

import "fmt"

// ErrorKind classifies why a bearer token was rejected.
type ErrorKind int

const (
	// Invalid covers malformed, unsigned or otherwise unverifiable tokens.
	Invalid ErrorKind = iota
	// Expired means the token was once valid but its lifetime has elapsed.
	Expired
	// Revoked means the token was explicitly invalidated before expiry.
	Revoked
)

// VerificationError reports a rejected bearer token along with the reason,
// so the transport layer can map each reason to its own response text.
type VerificationError struct {
	Kind ErrorKind
	Err  error
}

func (e *VerificationError) Error() string {
	switch e.Kind {
	case Expired:
		return "token expired"
	case Revoked:
		return "token revoked"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid token: %v", e.Err)
	}
	return "invalid token"
}

func (e *VerificationError) Unwrap() error { return e.Err }

// Identity is the authenticated subject of a request.
type Identity struct {
	UserID string
	Email  string
}

// Verifier validates a bearer token and resolves the identity it carries.
type Verifier interface {
	// Verify returns the token's identity, or a *VerificationError when the
	// token is expired, revoked or invalid.
	Verify(token string) (Identity, error)
}

// RevocationList knows which tokens have been invalidated before expiry.
type RevocationList interface {
	IsRevoked(tokenID string) (bool, error)
	Revoke(tokenID string) error
}
