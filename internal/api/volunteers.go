package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

type VolunteerHandler struct {
	volunteers service.IVolunteerService
	auth       middleware.Authenticator
}

func NewVolunteerHandler(volunteers service.IVolunteerService, auth middleware.Authenticator) *VolunteerHandler {
	return &VolunteerHandler{volunteers: volunteers, auth: auth}
}

// RegisterRoutes mounts both sign-up paths; they share one policy.
func (h *VolunteerHandler) RegisterRoutes(router *gin.RouterGroup) {
	volunteers := router.Group("/volunteers")
	volunteers.Use(middleware.OptionalAuth(h.auth))
	volunteers.POST("", h.Register)
	volunteers.POST("/register", h.Register)
}

func (h *VolunteerHandler) Register(c *gin.Context) {
	var in types.VolunteerRegistration
	if err := bindJSON(c, &in); err != nil {
		middleware.RespondError(c, err)
		return
	}
	caller, _ := middleware.CurrentUser(c)
	resp, err := h.volunteers.Register(c.Request.Context(), caller, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
