package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"product-catalog/config"
	"product-catalog/models"
	"product-catalog/services"
)

// CategoryController serves category views over the product catalog.
type CategoryController struct {
	products *ProductController
}

func NewCategoryController(cfg *config.Config, service *services.ProductService) *CategoryController {
	return &CategoryController{products: NewProductController(cfg, service)}
}

// @Summary Products by category
// @Description Exact, case-sensitive match. Responds with a bare array.
// @Tags Products
// @Produce json
// @Param category path string true "Category"
// @Success 200 {array} models.Product
// @Failure 500 {object} models.ErrorResponse
// @Router /category/{category} [get]
func (ctrl *CategoryController) GetProductsByCategory(c *gin.Context) {
	products, err := ctrl.products.service.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, ctrl.products.cfg, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, ctrl.products.presentAll(c, products))
}

// @Summary List categories
// @Description Every non-empty category with its product count
// @Tags Products
// @Produce json
// @Success 200 {object} models.Response{data=[]models.CategorySummary}
// @Failure 500 {object} models.ErrorResponse
// @Router /categories [get]
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.products.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.products.cfg, err, "Something went wrong")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Message: "Categories fetched",
		Data:    categories,
	})
}
