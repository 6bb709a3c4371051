package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"product-catalog/config"
	"product-catalog/controllers"
	"product-catalog/handler"
	"product-catalog/middleware"
	"product-catalog/services"
)

func SetupRoutes(router *gin.Engine, cfg *config.Config, service *services.ProductService) {
	productCtrl := controllers.NewProductController(cfg, service)
	categoryCtrl := controllers.NewCategoryController(cfg, service)
	uploadCtrl := controllers.NewUploadController(cfg, service)
	guard := middleware.WriteGuard(cfg)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", handler.Health(service, 3*time.Second))

	router.GET("/get", productCtrl.GetAllProducts)
	router.GET("/product/:id", productCtrl.GetProductByID)
	router.GET("/product/:id/related", productCtrl.GetRelatedProducts)
	router.GET("/SinglePage/:id", productCtrl.GetProductByID)
	router.GET("/related/:id", productCtrl.GetRelatedProducts)
	router.GET("/edite-get/:id", productCtrl.GetProductForEdit)
	router.GET("/category/:category", categoryCtrl.GetProductsByCategory)
	router.GET("/categories", categoryCtrl.GetCategories)

	write := router.Group("/")
	write.Use(guard)
	{
		write.POST("/add", productCtrl.CreateProduct)
		write.POST("/product/add", productCtrl.CreateProduct)
		write.PUT("/edite/:id", productCtrl.UpdateProduct)
		write.DELETE("/del/:id", productCtrl.DeleteProduct)
		write.POST("/upload", uploadCtrl.UploadImage)
	}

	router.Static(cfg.StaticPrefix, cfg.UploadDir)
}
