package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

type NGOHandler struct {
	ngos service.INGOService
	auth middleware.Authenticator
}

func NewNGOHandler(ngos service.INGOService, auth middleware.Authenticator) *NGOHandler {
	return &NGOHandler{ngos: ngos, auth: auth}
}

func (h *NGOHandler) RegisterRoutes(router *gin.RouterGroup) {
	ngos := router.Group("/ngos")
	ngos.POST("/register", h.Register)
	ngos.GET("", h.List)
	ngos.PATCH("/:id/status", middleware.AuthMiddleware(h.auth), middleware.RequireRole(models.RoleAdmin), h.SetStatus)
}

// Register accepts a multipart form with optional logo and certification
// files, or a plain JSON body.
func (h *NGOHandler) Register(c *gin.Context) {
	var in types.NGORegistration
	var logo, certificate *types.Upload
	defer func() { closeUpload(logo, certificate) }()

	if isMultipart(c) {
		in.Name = c.PostForm("name")
		in.Email = c.PostForm("email")
		in.Phone = c.PostForm("phone")
		in.Website = c.PostForm("website")
		in.Type = c.PostForm("type")
		in.IncorporationDate = c.PostForm("incorporationDate")
		in.Address = c.PostForm("address")
		in.ContactPerson = models.ContactPerson{
			Name:  c.PostForm("contactPerson[name]"),
			Email: c.PostForm("contactPerson[email]"),
			Phone: c.PostForm("contactPerson[phone]"),
		}
		if err := formJSON(c, "contactPerson", &in.ContactPerson); err != nil {
			middleware.RespondError(c, err)
			return
		}
		if err := formJSON(c, "socialLinks", &in.SocialLinks); err != nil {
			middleware.RespondError(c, err)
			return
		}
		var err error
		if logo, err = formUpload(c, "logo"); err != nil {
			middleware.RespondError(c, err)
			return
		}
		if certificate, err = formUpload(c, "certification"); err != nil {
			middleware.RespondError(c, err)
			return
		}
	} else if err := bindJSON(c, &in); err != nil {
		middleware.RespondError(c, err)
		return
	}

	ngo, err := h.ngos.Register(c.Request.Context(), in, logo, certificate)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "NGO registration submitted successfully",
		"ngo":     ngo,
	})
}

func (h *NGOHandler) List(c *gin.Context) {
	ngos, err := h.ngos.List(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ngos)
}

func (h *NGOHandler) SetStatus(c *gin.Context) {
	var in types.NGOStatusRequest
	if err := bindJSON(c, &in); err != nil {
		middleware.RespondError(c, err)
		return
	}
	ngo, err := h.ngos.SetStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ngo)
}
