package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xplorhq/asset-service/internal/metrics"
	"github.com/xplorhq/asset-service/internal/service"
)

// UploadAsset godoc
// @Summary Upload a 3D model with an optional thumbnail
// @Tags assets
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "model file"
// @Param thumbnail formData file false "preview image"
// @Param name formData string false "display name"
// @Success 201 {object} domain.Asset
// @Failure 400 {object} map[string]string
// @Router /assets/upload [post]
func (h *Handler) UploadAsset(c *gin.Context) {
	fileHdr, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "model file is required")
		return
	}
	file, err := fileHdr.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "cannot read model file")
		return
	}
	defer file.Close()

	in := service.UploadInput{
		Name:       c.PostForm("name"),
		FileName:   fileHdr.Filename,
		Model:      file,
		UploadedBy: currentUser(c).Email,
	}

	if thumbHdr, err := c.FormFile("thumbnail"); err == nil {
		thumb, err := thumbHdr.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, "cannot read thumbnail")
			return
		}
		defer thumb.Close()
		in.Thumbnail = thumb
		in.ThumbnailName = thumbHdr.Filename
	}

	a, err := h.Assets.Upload(c.Request.Context(), in)
	if err != nil {
		h.renderError(c, err)
		return
	}
	metrics.AssetUploadsTotal.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Upload successful",
		"asset":   a,
	})
}

// ListAssets godoc
// @Summary List all assets
// @Tags assets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Router /assets [get]
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.Assets.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(assets), "assets": assets})
}

// GetAsset godoc
// @Summary Get one asset by file id
// @Tags assets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Asset
// @Failure 404 {object} map[string]string
// @Router /assets/{file_id} [get]
func (h *Handler) GetAsset(c *gin.Context) {
	a, err := h.Assets.Get(c.Request.Context(), c.Param("file_id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAsset godoc
// @Summary Delete an asset and its stored files
// @Tags assets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /assets/{file_id} [delete]
func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.Assets.Delete(c.Request.Context(), c.Param("file_id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}
