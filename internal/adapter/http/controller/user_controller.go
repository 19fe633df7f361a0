package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/api-sage/core-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/internal/commons"
	"github.com/api-sage/core-ledger/internal/domain"
)

type IdentityService interface {
	Register(ctx context.Context, username, password, email, phone string, role domain.UserRole) (domain.User, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetUser(id string) (domain.User, error)
	ListAll() []domain.User
	Deactivate(ctx context.Context, id string) error
}

type UserController struct {
	service IdentityService
}

func NewUserController(service IdentityService) *UserController {
	return &UserController{service: service}
}

func (c *UserController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	wrap := func(h http.HandlerFunc) http.Handler {
		if authMiddleware != nil {
			return authMiddleware(h)
		}
		return h
	}

	mux.Handle("/auth/register", wrap(c.register))
	mux.Handle("/auth/login", wrap(c.login))
	mux.Handle("/auth/password", wrap(c.changePassword))
	mux.Handle("/users", wrap(c.listUsers))
	mux.Handle("/users/get", wrap(c.getUser))
	mux.Handle("/users/deactivate", wrap(c.deactivate))
}

func (c *UserController) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.UserResponse]("method not allowed"))
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()))
		return
	}

	user, err := c.service.Register(r.Context(), req.Username, req.Password, req.Email, req.Phone, domain.UserRole(req.Role))
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.UserResponse]("failed to register user", err.Error()))
		return
	}

	writeJSON(w, http.StatusCreated, commons.SuccessResponse("user registered successfully", models.NewUserResponse(user)))
}

func (c *UserController) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.UserResponse]("method not allowed"))
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.UserResponse]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.UserResponse]("validation failed", err.Error()))
		return
	}

	user, err := c.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.UserResponse]("authentication failed"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("authenticated successfully", models.NewUserResponse(user)))
}

func (c *UserController) changePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[struct{}]("method not allowed"))
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[struct{}]("invalid request body", err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[struct{}]("validation failed", err.Error()))
		return
	}

	if err := c.service.ChangePassword(r.Context(), req.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[struct{}]("failed to change password"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("password changed successfully", struct{}{}))
}

func (c *UserController) listUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[[]models.UserResponse]("method not allowed"))
		return
	}

	users := c.service.ListAll()
	responses := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, models.NewUserResponse(user))
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("users fetched successfully", responses))
}

func (c *UserController) getUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.UserResponse]("method not allowed"))
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.UserResponse]("validation failed", "id is required"))
		return
	}

	user, err := c.service.GetUser(id)
	if err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[models.UserResponse]("user not found"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("user fetched successfully", models.NewUserResponse(user)))
}

func (c *UserController) deactivate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[struct{}]("method not allowed"))
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[struct{}]("invalid request body", err.Error()))
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[struct{}]("validation failed", "userId is required"))
		return
	}

	if err := c.service.Deactivate(r.Context(), req.UserID); err != nil {
		writeJSON(w, errorStatus(err), commons.ErrorResponse[struct{}]("failed to deactivate user"))
		return
	}

	writeJSON(w, http.StatusOK, commons.SuccessResponse("user deactivated successfully", struct{}{}))
}
