package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"samurai/internal/app/middleware"
	"samurai/internal/app/role"
)

// RegisterRoutes регистрирует все маршруты API
func (h *APIHandler) RegisterRoutes(router *gin.Engine, am *middleware.AuthMiddleware) {
	router.GET("/ping", h.Ping)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		// Аутентификация
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.AuthHandler.Register)
			auth.POST("/login", h.AuthHandler.Login)
			auth.POST("/logout", am.WithAuthCheck(role.Standard, role.Admin), h.AuthHandler.Logout)
			auth.GET("/profile", am.WithAuthCheck(role.Standard, role.Admin), h.AuthHandler.GetProfile)
			auth.PUT("/profile", am.WithAuthCheck(role.Standard, role.Admin), h.AuthHandler.UpdateProfile)
		}

		// Программные активы: чтение для всех авторизованных, запись для администратора
		assets := api.Group("/assets")
		{
			assets.GET("", am.WithAuthCheck(role.Standard, role.Admin), h.GetAssets)
			assets.GET("/:id", am.WithAuthCheck(role.Standard, role.Admin), h.GetAsset)
			assets.GET("/:id/usage", am.WithAuthCheck(role.Standard, role.Admin), h.GetAssetUsage)
			assets.POST("", am.WithAuthCheck(role.Admin), h.CreateAsset)
			assets.PUT("/:id", am.WithAuthCheck(role.Admin), h.UpdateAsset)
			assets.DELETE("/:id", am.WithAuthCheck(role.Admin), h.DeleteAsset)
		}

		// Записи использования
		usage := api.Group("/usage")
		{
			usage.POST("", am.WithAuthCheck(role.Standard, role.Admin), h.CreateUsageRecord)
			usage.DELETE("/:id", am.WithAuthCheck(role.Standard, role.Admin), h.DeleteUsageRecord)
		}

		// Управление пользователями: только администратор
		users := api.Group("/users", am.WithAuthCheck(role.Admin))
		{
			users.GET("", h.GetUsers)
			users.POST("", h.CreateUser)
			users.PUT("/:id", h.UpdateUser)
			users.DELETE("/:id", h.DeleteUser)
		}

		// Отчёты доступны всем авторизованным, экспорт — администратору
		reports := api.Group("/reports")
		{
			reports.GET("/summary", am.WithAuthCheck(role.Standard, role.Admin), h.GetReportSummary)
			reports.GET("/export", am.WithAuthCheck(role.Admin), h.ExportReport)
			reports.POST("/recommendations", am.WithAuthCheck(role.Standard, role.Admin), h.GetRecommendations)
		}
	}
}
