package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

type FreeFoodHandler struct {
	listings service.IFreeFoodService
	auth     middleware.Authenticator
}

func NewFreeFoodHandler(listings service.IFreeFoodService, auth middleware.Authenticator) *FreeFoodHandler {
	return &FreeFoodHandler{listings: listings, auth: auth}
}

func (h *FreeFoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	freeFood := router.Group("/free-food")
	freeFood.GET("", h.List)

	private := freeFood.Group("")
	private.Use(middleware.AuthMiddleware(h.auth))
	{
		private.GET("/my-listings", h.ListMine)
		private.POST("", h.Create)
		private.PUT("/:id", h.Update)
		private.DELETE("/:id", h.Delete)
	}
	freeFood.GET("/:id", h.Get)
}

func freeFoodInput(c *gin.Context) (types.FreeFoodInput, *types.Upload, error) {
	var in types.FreeFoodInput
	if !isMultipart(c) {
		return in, nil, bindJSON(c, &in)
	}

	in.Type = c.PostForm("type")
	in.VenueName = c.PostForm("venueName")
	in.FoodType = c.PostForm("foodType")
	in.Organizer = c.PostForm("organizer")
	if err := formJSON(c, "availability", &in.Availability); err != nil {
		return in, nil, err
	}
	if err := formJSON(c, "location", &in.Location); err != nil {
		return in, nil, err
	}
	image, err := formUpload(c, "image")
	return in, image, err
}

// List accepts an optional city query parameter.
func (h *FreeFoodHandler) List(c *gin.Context) {
	listings, err := h.listings.List(c.Request.Context(), c.Query("city"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *FreeFoodHandler) ListMine(c *gin.Context) {
	listings, err := h.listings.ListByUploader(c.Request.Context(), principal(c).ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *FreeFoodHandler) Get(c *gin.Context) {
	l, err := h.listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *FreeFoodHandler) Create(c *gin.Context) {
	in, image, err := freeFoodInput(c)
	defer closeUpload(image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	l, err := h.listings.Create(c.Request.Context(), principal(c), in, image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *FreeFoodHandler) Update(c *gin.Context) {
	in, image, err := freeFoodInput(c)
	defer closeUpload(image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	l, err := h.listings.Update(c.Request.Context(), principal(c).ID, c.Param("id"), in, image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *FreeFoodHandler) Delete(c *gin.Context) {
	if err := h.listings.Delete(c.Request.Context(), principal(c).ID, c.Param("id")); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, http.StatusOK, "Listing deleted successfully")
}
