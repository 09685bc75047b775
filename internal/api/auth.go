package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

// AuthHandler serves account endpoints under /api/auth.
type AuthHandler struct {
	auth service.IAuthService
}

func NewAuthHandler(auth service.IAuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes mounts the handler. limit guards register and login.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.POST("/register", limit, h.Register)
	auth.POST("/login", limit, h.Login)

	private := auth.Group("")
	private.Use(middleware.AuthMiddleware(h.auth))
	{
		private.GET("/verify", h.Verify)
		private.GET("/profile", h.GetProfile)
		private.PUT("/profile", h.UpdateProfile)
		private.DELETE("/profile/delete", h.DeleteAccount)
		private.POST("/change-password", h.ChangePassword)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.RespondError(c, err)
		return
	}
	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.RespondError(c, err)
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Verify confirms the token and returns a fresh long-lived one.
func (h *AuthHandler) Verify(c *gin.Context) {
	resp, err := h.auth.Refresh(c.Request.Context(), principal(c))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), principal(c).ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile accepts JSON or a multipart form with an optional avatar.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	var avatar *types.Upload
	if isMultipart(c) {
		for field, dst := range map[string]**string{
			"name":    &req.Name,
			"bio":     &req.Bio,
			"phone":   &req.Phone,
			"address": &req.Address,
		} {
			if v, ok := c.GetPostForm(field); ok {
				v := v
				*dst = &v
			}
		}
		var err error
		if avatar, err = formUpload(c, "avatar"); err != nil {
			middleware.RespondError(c, err)
			return
		}
		defer closeUpload(avatar)
	} else if err := bindJSON(c, &req); err != nil {
		middleware.RespondError(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), principal(c).ID, req, avatar)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	if err := h.auth.DeleteAccount(c.Request.Context(), principal(c).ID); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, http.StatusOK, "Account deleted successfully")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.RespondError(c, err)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), principal(c).ID, req); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, http.StatusOK, "Password updated successfully")
}
