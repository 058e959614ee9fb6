package routes

import (
	"net/http"

	"github.com/loomline/catalog_end/controllers"
	"github.com/loomline/catalog_end/middleware"
	"github.com/loomline/catalog_end/models"

	"github.com/gin-gonic/gin"
)

// SetupRouter registers every route group on the engine.
func SetupRouter(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	registerAuthRoutes(api)
	registerPublicEnquiryRoutes(api)
	registerDashboardRoutes(api)
}

func registerAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/login", controllers.Login)
}

// registerPublicEnquiryRoutes covers the unauthenticated customer channel.
func registerPublicEnquiryRoutes(api *gin.RouterGroup) {
	public := api.Group("/enquiries")
	public.POST("", controllers.CreateEnquiry)
	public.GET("/status", controllers.LookupEnquiryStatus)

	api.POST("/contact", controllers.SubmitContactForm)
}

// registerDashboardRoutes covers the staff dashboard. Every route requires a
// token; mutating routes additionally require the admin or editor role.
func registerDashboardRoutes(api *gin.RouterGroup) {
	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware())

	canEdit := middleware.RestrictTo(models.UserRoleAdmin, models.UserRoleEditor)

	enquiries := dashboard.Group("/enquiries")
	enquiries.GET("", controllers.ListEnquiries)
	enquiries.GET("/stats", controllers.EnquiryStats)
	enquiries.GET("/:id", controllers.GetEnquiry)
	enquiries.PATCH("/:id", canEdit, controllers.UpdateEnquiry)
	enquiries.POST("/:id/communications", canEdit, controllers.AddEnquiryCommunication)

	quotations := dashboard.Group("/quotations")
	quotations.GET("", controllers.ListQuotations)
	quotations.GET("/stats", controllers.QuotationStats)
	quotations.GET("/:id", controllers.GetQuotation)
	quotations.POST("", canEdit, controllers.CreateQuotation)
	quotations.PATCH("/:id", canEdit, controllers.UpdateQuotation)
	quotations.POST("/:id/send", canEdit, controllers.SendQuotation)
}
