package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/identity"
)

const contextIdentityKey = "identity"

// bearerAuthMiddleware verifies the Authorization bearer credential and
// stores the resolved identity on the request context. A missing header,
// a blank credential and a rejected token each answer differently so clients
// can tell them apart.
func bearerAuthMiddleware(verifier identity.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return errNoToken
			}

			token := header
			if len(header) >= len("bearer") && strings.EqualFold(header[:len("bearer")], "bearer") {
				token = strings.TrimSpace(header[len("bearer"):])
			}
			if token == "" {
				return errBlankToken
			}

			ident, err := verifier.Verify(token)
			if err != nil {
				return err
			}
			ctx.Set(contextIdentityKey, ident)
			return next(ctx)
		}
	}
}

func contextIdentity(ctx echo.Context) (identity.Identity, error) {
	if ident, ok := ctx.Get(contextIdentityKey).(identity.Identity); ok {
		return ident, nil
	}
	return identity.Identity{}, errUnauthorized
}

// resolveUserID expands the "me" alias to the authenticated subject.
func resolveUserID(ident identity.Identity, userID string) string {
	if userID == "me" {
		return ident.UserID
	}
	return userID
}
