package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	userNameKey contextKey = "user_name"
	userRoleKey contextKey = "user_role"
	tokenIDKey  contextKey = "token_id"
)

// Identity is the authenticated caller as seen by domain code.
type Identity struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// Middleware validates the bearer token, rejects revoked tokens, and places
// the caller's identity on the request context. Role normalization happens
// here, at the trust boundary, and nowhere else.
func Middleware(issuer *TokenIssuer, revoked RevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "revocation check failed")
				}
				if isRevoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			role, err := ParseRole(claims.Role)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token role")
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, userIDKey, userID)
			ctx = context.WithValue(ctx, userNameKey, claims.Name)
			ctx = context.WithValue(ctx, userRoleKey, role)
			ctx = context.WithValue(ctx, tokenIDKey, claims.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireRole returns middleware that checks if the caller has one of the
// specified roles. Admins pass every check.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role == RoleAdmin {
				return next(c)
			}
			for _, required := range roles {
				if role == required {
					return next(c)
				}
			}
			names := make([]string, len(roles))
			for i, r := range roles {
				names[i] = string(r)
			}
			return echo.NewHTTPError(http.StatusForbidden,
				"required role: "+strings.Join(names, " or "))
		}
	}
}

// IdentityFromContext returns the authenticated caller, or a zero Identity
// for unauthenticated requests.
func IdentityFromContext(ctx context.Context) Identity {
	return Identity{
		ID:   UserIDFromContext(ctx),
		Name: UserNameFromContext(ctx),
		Role: RoleFromContext(ctx),
	}
}

func UserIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(userIDKey).(uuid.UUID)
	return id
}

func UserNameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(userNameKey).(string)
	return name
}

func RoleFromContext(ctx context.Context) Role {
	role, _ := ctx.Value(userRoleKey).(Role)
	return role
}

func TokenIDFromContext(ctx context.Context) string {
	jti, _ := ctx.Value(tokenIDKey).(string)
	return jti
}

// WithIdentity places an identity on the context directly. Used by tests and
// by the CLI, which act without an HTTP request.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.ID)
	ctx = context.WithValue(ctx, userNameKey, id.Name)
	return context.WithValue(ctx, userRoleKey, id.Role)
}
