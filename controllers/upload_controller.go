package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/services"
)

type UploadController struct {
	cfg     *config.Config
	service *services.ProductService
}

func NewUploadController(cfg *config.Config, service *services.ProductService) *UploadController {
	return &UploadController{cfg: cfg, service: service}
}

// @Summary Upload image
// @Description Stores one image without attaching it to a product
// @Tags Uploads
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file"
// @Success 200 {object} models.UploadResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /upload [post]
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctrl.cfg.MaxUploadSize+1<<20)

	header, err := c.FormFile(fileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "No file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, ctrl.cfg, err, "File upload failed")
		return
	}
	defer file.Close()

	ref, err := ctrl.service.Upload(c.Request.Context(), models.UploadedFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		respondError(c, ctrl.cfg, err, "File upload failed")
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Message:  "File uploaded successfully",
		ImageURL: ctrl.service.Resolver().Resolve(ref, baseURL(c, ctrl.cfg)),
	})
}
