package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wallofhumanity/backend/internal/middleware"
	"github.com/wallofhumanity/backend/internal/models"
	"github.com/wallofhumanity/backend/internal/service"
	"github.com/wallofhumanity/backend/internal/types"
)

type DonationHandler struct {
	donations service.IDonationService
	stats     service.IStatsService
	auth      middleware.Authenticator
}

func NewDonationHandler(donations service.IDonationService, stats service.IStatsService, auth middleware.Authenticator) *DonationHandler {
	return &DonationHandler{donations: donations, stats: stats, auth: auth}
}

func (h *DonationHandler) RegisterRoutes(router *gin.RouterGroup) {
	donations := router.Group("/donations")
	donations.GET("/public", h.ListPublic)
	donations.GET("/stats", h.Stats)
	donations.GET("", h.List)
	donations.GET("/:id", h.Get)

	private := donations.Group("")
	private.Use(middleware.AuthMiddleware(h.auth))
	{
		private.GET("/my-donations", h.ListMine)
		private.POST("", h.Create)
		private.PUT("/:id", h.Update)
		private.PATCH("/:id/status", h.UpdateStatus)
		private.DELETE("/:id", h.Delete)
	}
}

func (h *DonationHandler) List(c *gin.Context) {
	donations, err := h.donations.List(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

// ListPublic returns available donations without owner ids.
func (h *DonationHandler) ListPublic(c *gin.Context) {
	donations, err := h.donations.ListPublic(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	out := make([]types.PublicDonation, 0, len(donations))
	for _, d := range donations {
		out = append(out, types.NewPublicDonation(d))
	}
	c.JSON(http.StatusOK, out)
}

func (h *DonationHandler) ListMine(c *gin.Context) {
	donations, err := h.donations.ListByOwner(c.Request.Context(), principal(c).ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, donations)
}

func (h *DonationHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DonationHandler) Get(c *gin.Context) {
	d, err := h.donations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// donationInput reads a donation from JSON or from a multipart form whose
// availability and location fields hold JSON documents.
func donationInput(c *gin.Context) (types.DonationInput, *types.Upload, error) {
	var in types.DonationInput
	if !isMultipart(c) {
		return in, nil, bindJSON(c, &in)
	}

	in.Type = models.DonationType(c.PostForm("type"))
	in.Title = c.PostForm("title")
	in.Description = c.PostForm("description")
	in.DonorName = c.PostForm("donorName")
	in.Quantity = c.PostForm("quantity")
	in.FoodType = c.PostForm("foodType")
	if err := formJSON(c, "availability", &in.Availability); err != nil {
		return in, nil, err
	}
	if err := formJSON(c, "location", &in.Location); err != nil {
		return in, nil, err
	}
	image, err := formUpload(c, "images")
	return in, image, err
}

func (h *DonationHandler) Create(c *gin.Context) {
	in, image, err := donationInput(c)
	defer closeUpload(image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	d, err := h.donations.Create(c.Request.Context(), principal(c), in, image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DonationHandler) Update(c *gin.Context) {
	in, image, err := donationInput(c)
	defer closeUpload(image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	d, err := h.donations.Update(c.Request.Context(), principal(c).ID, c.Param("id"), in, image)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DonationHandler) UpdateStatus(c *gin.Context) {
	var req types.DonationStatusRequest
	if err := bindJSON(c, &req); err != nil {
		middleware.RespondError(c, err)
		return
	}
	d, err := h.donations.Complete(c.Request.Context(), principal(c).ID, c.Param("id"), req.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *DonationHandler) Delete(c *gin.Context) {
	if err := h.donations.Delete(c.Request.Context(), principal(c).ID, c.Param("id")); err != nil {
		middleware.RespondError(c, err)
		return
	}
	message(c, http.StatusOK, "Donation deleted successfully")
}
