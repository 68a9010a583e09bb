package handler

import (
	"net/http"

	"github.com/Rrens/thai-travel-share/internal/api/response"
	"github.com/Rrens/thai-travel-share/internal/domain"
)

// UserHandler handles account and profile endpoints
type UserHandler struct {
	authService AuthService
	userService UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService AuthService, userService UserService) *UserHandler {
	return &UserHandler{authService: authService, userService: userService}
}

// Register handles user registration
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input domain.UserCreate
	if !decode(w, r, &input) {
		return
	}

	result, err := h.authService.Register(r.Context(), input)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.Created(w, result)
}

// Login handles user login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.UserLogin
	if !decode(w, r, &input) {
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, result)
}

// Refresh handles token refresh
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if !decode(w, r, &input) {
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, tokens)
}

// Me returns the current authenticated user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	response.OK(w, caller)
}

// Get returns any user's public profile
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID", domain.ErrUserNotFound)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, user)
}

// Update applies a partial profile update to the caller's own account
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, "userID", domain.ErrForbidden)
	if !ok {
		return
	}

	var patch domain.UserPatch
	if !decode(w, r, &patch) {
		return
	}

	result, err := h.userService.UpdateProfile(r.Context(), caller.ID, userID, patch)
	if err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, result)
}

// ChangePassword replaces the caller's password after checking the old one
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := principal(w, r)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, "userID", domain.ErrForbidden)
	if !ok {
		return
	}

	var input domain.PasswordChange
	if !decode(w, r, &input) {
		return
	}

	if err := h.userService.ChangePassword(r.Context(), caller.ID, userID, input); err != nil {
		response.FromError(w, r, err)
		return
	}

	response.OK(w, map[string]string{"message": "Password updated successfully"})
}
