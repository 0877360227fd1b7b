package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	user "vanpos-system/internal/services/user/handler"
)

type UserHTTPHandler struct {
	users *user.UserService
}

func NewUserHTTPHandler(svc *user.UserService) *UserHTTPHandler {
	return &UserHTTPHandler{users: svc}
}

func (h *UserHTTPHandler) Register(c *gin.Context) {
	var req user.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	created(c, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
			"email":    result.User.Email,
			"role":     result.User.Role,
		},
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *UserHTTPHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		failFromErr(c, err)
		return
	}
	success(c, gin.H{"changed": true})
}
