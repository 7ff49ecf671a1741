package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/bank-server/internal/auth"
	"github.com/carson-networks/bank-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/policy"
	"github.com/carson-networks/bank-server/internal/service"
)

const defaultListLimit = 20

// ListUsersInput is the Huma input for listing users.
type ListUsersInput struct {
	Position int `query:"position" minimum:"0" doc:"Offset for pagination"`
	Limit    int `query:"limit" minimum:"0" maximum:"100" doc:"Page size, default 20"`
}

// ListUsersCursor points at the next page.
type ListUsersCursor struct {
	Position int `json:"position" doc:"Offset for next page"`
	Limit    int `json:"limit" doc:"Page size"`
}

// ListUsersOutput is the Huma output for listing users.
type ListUsersOutput struct {
	Body struct {
		Users      []User           `json:"users" doc:"Page of active users"`
		NextCursor *ListUsersCursor `json:"next_cursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
	}
}

// CreateUserInput is the Huma input for an admin creating a user.
type CreateUserInput struct {
	Body struct {
		Username string `json:"username" minLength:"1" maxLength:"32" doc:"Unique username"`
		Email    string `json:"email" format:"email" maxLength:"64" doc:"Unique email address"`
		Password string `json:"password" minLength:"1" maxLength:"72" doc:"Initial password"`
		Admin    bool   `json:"admin,omitempty" doc:"Grant administrator rights"`
	}
}

// UpdateUserInput is the Huma input for an admin changing a user. Only the
// fields present are changed.
type UpdateUserInput struct {
	UserPathInput
	Body struct {
		Username *string `json:"username,omitempty" minLength:"1" maxLength:"32" doc:"New username"`
		Email    *string `json:"email,omitempty" format:"email" maxLength:"64" doc:"New email address"`
		Password *string `json:"password,omitempty" minLength:"1" maxLength:"72" doc:"New password"`
		Admin    *bool   `json:"admin,omitempty" doc:"Grant or revoke administrator rights"`
	}
}

// UserOutput is the Huma output carrying one user.
type UserOutput struct {
	Status int
	Body   User
}

// MessageOutput is a response carrying only a message.
type MessageOutput struct {
	Body struct {
		Message string `json:"message" doc:"Outcome of the request"`
	}
}

type userAdmin interface {
	ListUsers(ctx context.Context, p policy.Principal, cursor *service.UserCursor) ([]service.User, *service.UserCursor, error)
	CreateUser(ctx context.Context, p policy.Principal, req service.CreateUserRequest) (*service.User, error)
	UpdateUser(ctx context.Context, p policy.Principal, id int64, req service.UpdateUserRequest) (*service.User, error)
	DeactivateUser(ctx context.Context, p policy.Principal, id int64) error
}

// Handler serves the admin-only /v1/user endpoints.
type Handler struct {
	UserService userAdmin
}

func NewHandler(svc userAdmin) *Handler {
	return &Handler{UserService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/v1/user",
		Summary:     "List users",
		Tags:        []string{"Users"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID:   "create-user",
		Method:        http.MethodPost,
		Path:          "/v1/user",
		Summary:       "Create a user",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPut,
		Path:        "/v1/user/{id}",
		Summary:     "Update a user",
		Tags:        []string{"Users"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-user",
		Method:      http.MethodDelete,
		Path:        "/v1/user/{id}",
		Summary:     "Delete a user",
		Description: "Deactivates the user. Their accounts and ledger entries are kept.",
		Tags:        []string{"Users"},
	}, h.delete)
}

func (h *Handler) list(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	users, next, err := h.UserService.ListUsers(ctx, principal, &service.UserCursor{Position: input.Position, Limit: limit})
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to list users")
	}

	out := &ListUsersOutput{}
	out.Body.Users = make([]User, len(users))
	for i := range users {
		out.Body.Users[i] = FromService(&users[i])
	}
	if next != nil {
		out.Body.NextCursor = &ListUsersCursor{Position: next.Position, Limit: next.Limit}
	}
	return out, nil
}

func (h *Handler) create(ctx context.Context, input *CreateUserInput) (*UserOutput, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	u, err := h.UserService.CreateUser(ctx, principal, service.CreateUserRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Admin:    input.Body.Admin,
	})
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to create user")
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("createdUserID", u.ID)
	}
	return &UserOutput{Status: http.StatusCreated, Body: FromService(u)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	u, err := h.UserService.UpdateUser(ctx, principal, input.ID, service.UpdateUserRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Admin:    input.Body.Admin,
	})
	if err != nil {
		return nil, apierror.FromDomain(err, "failed to update user")
	}
	return &UserOutput{Status: http.StatusOK, Body: FromService(u)}, nil
}

func (h *Handler) delete(ctx context.Context, input *UserPathInput) (*MessageOutput, error) {
	principal, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.UserService.DeactivateUser(ctx, principal, input.ID); err != nil {
		return nil, apierror.FromDomain(err, "failed to delete user")
	}

	out := &MessageOutput{}
	out.Body.Message = "User deleted"
	return out, nil
}
