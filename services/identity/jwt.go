// Package identitysvc verifies bearer credentials as signed JWTs, checking a
// revocation list so tokens can be invalidated before expiry.
package identitysvc

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/identity"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

type verifier struct {
	secret  []byte
	revoked identity.RevocationList
}

var _ identity.Verifier = (*verifier)(nil)

func NewVerifier(conf *core.Config, revoked identity.RevocationList) identity.Verifier {
	return &verifier{secret: conf.SecretKey, revoked: revoked}
}

// Verify parses and validates the token, distinguishing expired and revoked
// tokens from plainly invalid ones so the transport can answer each with its
// own text.
func (v *verifier) Verify(token string) (identity.Identity, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return identity.Identity{}, &identity.VerificationError{Kind: identity.Expired, Err: err}
		}
		return identity.Identity{}, &identity.VerificationError{Kind: identity.Invalid, Err: err}
	}
	if !parsed.Valid {
		return identity.Identity{}, &identity.VerificationError{Kind: identity.Invalid}
	}

	if claims.Id != "" {
		revoked, err := v.revoked.IsRevoked(claims.Id)
		if err != nil {
			return identity.Identity{}, errors.Wrap(err, "checking token revocation")
		}
		if revoked {
			return identity.Identity{}, &identity.VerificationError{Kind: identity.Revoked}
		}
	}

	return identity.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// GenerateToken signs a token for the subject, stamping a unique token id so
// it can be revoked later.
func GenerateToken(conf *core.Config, userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Issuer:    conf.AppName,
			Subject:   userID,
			ExpiresAt: now.Add(conf.TokenExpiration).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}
