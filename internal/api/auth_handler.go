package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paggie/trainer-app/internal/domain"
	"paggie/trainer-app/internal/service"
	"paggie/trainer-app/internal/validation"
)

const msgRecoverySent = "Se o e-mail estiver cadastrado em nossa base, você receberá um link para redefinir sua senha em instantes."

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	workspace   *service.Workspace
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, workspace *service.Workspace) *AuthHandler {
	return &AuthHandler{authService: authService, workspace: workspace}
}

// --- Request/Response Structs ---

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignInResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type RecoverRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// PasswordStrengthRequest asks for live password feedback.
type PasswordStrengthRequest struct {
	Password string `json:"password"`
}

// --- Handler Methods ---

// SignUp creates an account. The trainer still has to sign in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	user, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// SignIn opens a session and returns its bearer token.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	token, user, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SignInResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// SignOut closes the session and drops the workspace drafts.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.workspace.Reset()
	c.Status(http.StatusNoContent)
}

// ForgotPassword always answers with the same message for valid emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": msgRecoverySent})
}

// Recover opens the reset password screen from a recovery token.
func (h *AuthHandler) Recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.authService.Recover(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetPassword sets the new password of the recovery session.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req.NewPassword, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}
	h.workspace.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Senha atualizada com sucesso!"})
}

// PasswordStrength grades a password without storing anything.
func (h *AuthHandler) PasswordStrength(c *gin.Context) {
	var req PasswordStrengthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	c.JSON(http.StatusOK, validation.Password(req.Password))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
