package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

type RequestHandler struct {
	requests service.IRequestService
	auth     middleware.Authenticator
}

func NewRequestHandler(requests service.IRequestService, auth middleware.Authenticator) *RequestHandler {
	return &RequestHandler{requests: requests, auth: auth}
}

// RegisterRoutes mounts the handler. limit guards request creation and runs
// after authentication.
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup, limit gin.HandlerFunc) {
	requests := router.Group("/requests")
	requests.Use(middleware.AuthMiddleware(h.auth))
	{
		requests.POST("", limit, h.Create)
		requests.GET("/my-requests", h.ListMine)
		requests.GET("/received", h.ListReceived)
		requests.PATCH("/:id/status", h.UpdateStatus)
		requests.DELETE("/:id", h.Delete)
	}
}

func (h *RequestHandler) Create(c *gin.Context) {
	var in types.CreateRequestInput
	if err := bindJSON(c, &in); err != nil {
		middleware.RespondError(c, err)
		return
	}
	req, err := h.requests.Create(c.Request.Context(), principal(c), in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (h *RequestHandler) ListMine(c *gin.Context) {
	requests, err := h.requests.ListMine(c.Request.Context(), principal(c).ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ListReceived(c *gin.Context) {
	requests, err := h.requests.ListReceived(c.Request.Context(), principal(c).ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	var in types.RequestStatusRequest
	if err := bindJSON(c, &in); err != nil {
		middleware.RespondError(c, err)
		return
	}
	req, err := h.requests.UpdateStatus(c.Request.Context(), principal(c).ID, c.Param("id"), in.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requests.Delete(c.Request.Context(), principal(c).ID, c.Param("id")); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, http.StatusOK, "Request deleted successfully")
}
