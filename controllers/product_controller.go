package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/services"
)

type ProductController struct {
	cfg     *config.Config
	service *services.ProductService
}

func NewProductController(cfg *config.Config, service *services.ProductService) *ProductController {
	return &ProductController{cfg: cfg, service: service}
}

// present returns p with every image resolved to an absolute URL.
func (ctrl *ProductController) present(c *gin.Context, p models.Product) models.Product {
	out := p.Clone()
	out.Images = ctrl.service.Resolver().ResolveAll(p.Images, baseURL(c, ctrl.cfg))
	return out
}

func (ctrl *ProductController) presentAll(c *gin.Context, products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		out = append(out, ctrl.present(c, p))
	}
	return out
}

// @Summary Create product
// @Description Create a product from uploaded images and/or image links
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Product name"
// @Param title formData string false "Title"
// @Param des formData string false "Description"
// @Param rating formData string false "Rating"
// @Param price formData string false "Price"
// @Param weight formData string false "Weight"
// @Param tag formData string false "Tag"
// @Param category formData string false "Category"
// @Param linkImages formData string false "JSON array of image URLs"
// @Param image formData file false "Product image (repeatable, max 5)"
// @Success 201 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /add [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	form, err := parseProductForm(c, ctrl.cfg)
	if err != nil {
		respondError(c, ctrl.cfg, err, "Failed to add product")
		return
	}
	defer form.Close()

	product, err := ctrl.service.Create(c.Request.Context(), form.Input, form.Files, form.Links)
	if err != nil {
		respondError(c, ctrl.cfg, err, "Failed to add product")
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Message: "Product added successfully",
		Data:    ctrl.present(c, *product),
	})
}

// @Summary List products
// @Description All products, newest first unless sort=asc
// @Tags Products
// @Produce json
// @Param sort query string false "Sort by creation time" Enums(asc, desc)
// @Success 200 {object} models.Response{data=[]models.Product}
// @Failure 500 {object} models.ErrorResponse
// @Router /get [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	newestFirst := c.DefaultQuery("sort", "desc") != "asc"

	products, err := ctrl.service.List(c.Request.Context(), newestFirst)
	if err != nil {
		respondError(c, ctrl.cfg, err, "Error fetching products")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Message: "Products fetched",
		Data:    ctrl.presentAll(c, products),
	})
}

// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /product/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	ctrl.getOne(c, "Fetched")
}

// @Summary Get product for editing
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /edite-get/{id} [get]
func (ctrl *ProductController) GetProductForEdit(c *gin.Context) {
	ctrl.getOne(c, "Fetched for edit")
}

func (ctrl *ProductController) getOne(c *gin.Context, message string) {
	product, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.cfg, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Message: message,
		Data:    ctrl.present(c, *product),
	})
}

// @Summary Related products
// @Description Products in the same category as the given one, itself included
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=[]models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Router /product/{id}/related [get]
func (ctrl *ProductController) GetRelatedProducts(c *gin.Context) {
	products, err := ctrl.service.Related(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.cfg, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Message: "Fetched related products",
		Data:    ctrl.presentAll(c, products),
	})
}

// @Summary Update product
// @Description Sent fields overwrite, omitted fields are kept. New images replace the old list; links are appended.
// @Tags Products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Product ID"
// @Param name formData string false "Product name"
// @Param title formData string false "Title"
// @Param des formData string false "Description"
// @Param rating formData string false "Rating"
// @Param price formData string false "Price"
// @Param weight formData string false "Weight"
// @Param tag formData string false "Tag"
// @Param category formData string false "Category"
// @Param linkImages formData string false "JSON array of image URLs"
// @Param image formData file false "Replacement image (repeatable, max 5)"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /edite/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	form, err := parseProductForm(c, ctrl.cfg)
	if err != nil {
		respondError(c, ctrl.cfg, err, "Update failed")
		return
	}
	defer form.Close()

	product, err := ctrl.service.Update(c.Request.Context(), c.Param("id"), form.Input, form.Files, form.Links)
	if err != nil {
		respondError(c, ctrl.cfg, err, "Update failed")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Message: "Updated",
		Data:    ctrl.present(c, *product),
	})
}

// @Summary Delete product
// @Description Deletes the record, then its uploaded images
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Response{data=models.Product}
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /del/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	product, err := ctrl.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, ctrl.cfg, err, "Failed to delete")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Message: "Deleted",
		Data:    ctrl.present(c, *product),
	})
}
