package photoshare

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// SessionContextKey is where the middleware stores the decoded session.
const SessionContextKey = "session"

const authScheme = "Bearer"

// ErrMissingAuthHeader covers requests that never presented a token.
var ErrMissingAuthHeader = goerrors.New("missing or malformed authorization header", goerrors.CategoryAuth).
	WithTextCode("MISSING_AUTH_HEADER").
	WithCode(goerrors.CodeUnauthorized)

// ProtectedRoute gates a route behind a valid access token. The decoded
// session lands in Locals under SessionContextKey.
func ProtectedRoute(codec TokenService, errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = func(c router.Context, err error) error {
			return renderError(c, err)
		}
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw, err := tokenFromHeader(c)
			if err != nil {
				return errorHandler(c, err)
			}

			claims, err := codec.Decode(raw)
			if err != nil {
				return errorHandler(c, err)
			}

			purpose, err := claims.Purpose()
			if err != nil {
				return errorHandler(c, err)
			}

			if purpose != TokenPurposeAccess {
				return errorHandler(c, ErrWrongTokenPurpose)
			}

			session, err := sessionFromClaims(claims)
			if err != nil {
				return errorHandler(c, err)
			}

			c.Locals(SessionContextKey, session)

			return hf(c)
		}
	}
}

// SessionFromContext retrieves what ProtectedRoute stored for this request.
func SessionFromContext(c router.Context) (Session, error) {
	session, ok := c.Locals(SessionContextKey).(Session)
	if !ok || session == nil {
		return nil, ErrMissingAuthHeader
	}
	return session, nil
}

func tokenFromHeader(c router.Context) (string, error) {
	header := c.GetString("Authorization", "")
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:]), nil
	}

	return "", ErrMissingAuthHeader
}
