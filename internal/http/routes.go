package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), CORS(), Metrics())

	r.GET("/", h.Home)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.RateLimit("register"), h.Register)
		auth.POST("/verify-email", h.RateLimit("verify"), h.VerifyEmail)
		auth.POST("/login", h.RateLimit("login"), h.Login)
		auth.POST("/forgot-password", h.RateLimit("forgot"), h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
		auth.GET("/google", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
		auth.GET("/me", h.RequireAuth(), h.Me)
	}

	assets := r.Group("/assets", h.RequireAuth())
	{
		assets.POST("/upload", h.UploadAsset)
		assets.GET("", h.ListAssets)
		assets.GET("/:file_id", h.GetAsset)
		assets.DELETE("/:file_id", h.DeleteAsset)
	}

	return r
}
