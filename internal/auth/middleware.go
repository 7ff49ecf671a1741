package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/bankerr"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/storage/user"
)

type principalKey struct{}

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*user.User, error)
}

// Authenticator resolves the bearer token on a request to an active user.
type Authenticator struct {
	tokens *TokenIssuer
	users  userFinder
}

func NewAuthenticator(tokens *TokenIssuer, users userFinder) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Middleware rejects requests without a valid token for an active user and
// otherwise stores the principal in the request context.
func (a *Authenticator) Middleware(ctx huma.Context, next func(huma.Context)) {
	scheme, token, found := strings.Cut(ctx.Header("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		apierror.Write(ctx, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	userID, err := a.tokens.Parse(token)
	if err != nil {
		apierror.Write(ctx, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	u, err := a.users.FindByID(ctx.Context(), userID)
	if errors.Is(err, bankerr.ErrUserNotFound) || (err == nil && !u.Active()) {
		apierror.Write(ctx, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	if err != nil {
		if logData := logging.GetLogData(ctx.Context()); logData != nil {
			logData.AddData("authError", err.Error())
		}
		apierror.Write(ctx, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	principal := policy.Principal{UserID: u.ID, Username: u.Username, Admin: u.Admin}
	if logData := logging.GetLogData(ctx.Context()); logData != nil {
		logData.AddData("userID", u.ID)
	}
	next(huma.WithValue(ctx, principalKey{}, principal))
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by Middleware.
func PrincipalFrom(ctx context.Context) (policy.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(policy.Principal)
	return p, ok
}

// RequirePrincipal is PrincipalFrom for handlers: a request that reached a
// handler without a principal is answered with 401.
func RequirePrincipal(ctx context.Context) (policy.Principal, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return policy.Principal{}, apierror.New(http.StatusUnauthorized, "authentication required")
	}
	return p, nil
}
