package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordResetRequest struct {
	Username string `json:"username"`
}

// Login 校验管理员账号并签发令牌
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Username and password are required") {
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	identity, err := a.admins.VerifyCredentials(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		respondServerError(c, "Server error during login", err)
		return
	}

	token, expiresAt, err := a.tokens.Issue(identity)
	if err != nil {
		respondServerError(c, "Server error during login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": expiresAt})
}

// PasswordReset 只确认账号存在并返回提示，不发送邮件
func (a *API) PasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if !bindJSON(c, &req, "Username is required") {
		return
	}

	notice, err := a.admins.RequestPasswordReset(req.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminInvalidInput):
			respondError(c, http.StatusBadRequest, "Username is required")
		case errors.Is(err, service.ErrAdminNotFound):
			respondError(c, http.StatusNotFound, "No admin found with that username")
		default:
			respondServerError(c, "Server error during password reset", err)
		}
		return
	}

	c.JSON(http.StatusOK, notice)
}

// Session 返回当前令牌中携带的管理员身份
func (a *API) Session(c *gin.Context) {
	access, ok := accessFrom(c)
	if !ok || !access.Authenticated() {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       access.Identity.ID,
		"username": access.Identity.Username,
		"is_admin": true,
	})
}
