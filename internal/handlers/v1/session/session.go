package session

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/account"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/handlers/v1/user"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/service"
)

// RegisterInput is the Huma input for signing up.
type RegisterInput struct {
	Body struct {
		Username           string `json:"username" minLength:"1" maxLength:"32" doc:"Unique username"`
		Email              string `json:"email" format:"email" maxLength:"64" doc:"Unique email address"`
		Password           string `json:"password" minLength:"1" maxLength:"72" doc:"Password"`
		InitialAccountName string `json:"initial_account_name,omitempty" maxLength:"32" doc:"Opens a first account with this name when set"`
	}
}

// RegisterOutput is the response for signing up.
type RegisterOutput struct {
	Status int
	Body   struct {
		User    user.User        `json:"user" doc:"The new user"`
		Account *account.Account `json:"account,omitempty" doc:"The first account, when one was requested"`
	}
}

// LoginInput is the Huma input for logging in.
type LoginInput struct {
	Body struct {
		Email    string `json:"email" doc:"Registered email address"`
		Password string `json:"password" doc:"Password"`
	}
}

// LoginOutput carries the bearer token for later requests.
type LoginOutput struct {
	Body struct {
		Token     string    `json:"token" doc:"Bearer token for the Authorization header"`
		ExpiresAt string    `json:"expires_at" doc:"RFC3339 expiry of the token"`
		User      user.User `json:"user" doc:"The logged in user"`
	}
}

// LogoutOutput is the response for logging out.
type LogoutOutput struct {
	Body struct {
		Message string `json:"message" doc:"Outcome of the request"`
	}
}

type sessionService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*service.User, *service.Account, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
}

// Handler serves register and login, which run unauthenticated.
type Handler struct {
	UserService sessionService
}

func NewHandler(svc sessionService) *Handler {
	return &Handler{UserService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/v1/register",
		Summary:       "Register a user",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusCreated,
	}, h.register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/v1/login",
		Summary:     "Log in",
		Description: "Exchanges an email and password for a bearer token.",
		Tags:        []string{"Session"},
	}, h.login)
}

func (h *Handler) register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	u, acct, err := h.UserService.Register(ctx, service.RegisterRequest{
		Username:           input.Body.Username,
		Email:              input.Body.Email,
		Password:           input.Body.Password,
		InitialAccountName: input.Body.InitialAccountName,
	})
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to register")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", u.ID)
	}

	out := &RegisterOutput{Status: http.StatusCreated}
	out.Body.User = user.FromService(u)
	if acct != nil {
		a := account.FromService(acct)
		out.Body.Account = &a
	}
	return out, nil
}

func (h *Handler) login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("loginMs")
	}
	sess, err := h.UserService.Login(ctx, input.Body.Email, input.Body.Password)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to log in")
	}

	if logData != nil {
		logData.AddData("userID", sess.User.ID)
	}

	out := &LoginOutput{}
	out.Body.Token = sess.Token
	out.Body.ExpiresAt = sess.ExpiresAt.UTC().Format(time.RFC3339)
	out.Body.User = user.FromService(&sess.User)
	return out, nil
}

// LogoutHandler serves POST /v1/logout. Tokens are stateless, so logging out
// only confirms the token was valid; clients discard it.
type LogoutHandler struct{}

func NewLogoutHandler() *LogoutHandler {
	return &LogoutHandler{}
}

func (h *LogoutHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/v1/logout",
		Summary:     "Log out",
		Tags:        []string{"Session"},
	}, h.handle)
}

func (h *LogoutHandler) handle(ctx context.Context, _ *struct{}) (*LogoutOutput, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	out := &LogoutOutput{}
	out.Body.Message = "Logged out"
	return out, nil
}
