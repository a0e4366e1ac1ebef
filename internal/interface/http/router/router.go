// Package router 组装Gin引擎：全局中间件和所有路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/interface/http/handler"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User   *handler.UserHandler
	Book   *handler.BookHandler
	Review *handler.ReviewHandler
}

// New 创建Gin引擎
//
// 中间件顺序：Recovery → Logger → Tracing → Metrics → CORS
// 认证接口额外挂限流；写操作和个人信息接口需要登录
func New(cfg *config.Config, h Handlers, auth *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := auth.RequireAuth()

	api := r.Group("/api")
	{
		// 认证模块
		authGroup := api.Group("/auth")
		if limiter != nil {
			authGroup.Use(limiter.Middleware())
		}
		{
			authGroup.POST("/signup", h.User.Signup)
			authGroup.POST("/login", h.User.Login)
			authGroup.POST("/refresh", h.User.Refresh)
			authGroup.POST("/logout", requireAuth, h.User.Logout)
			authGroup.GET("/me", requireAuth, h.User.Me)
		}

		// 图书模块
		books := api.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)
			books.POST("", requireAuth, h.Book.CreateBook)
		}

		// 书评模块
		reviews := api.Group("/reviews")
		{
			reviews.GET("/:bookId", h.Review.ListReviews)
			reviews.POST("/:bookId", requireAuth, h.Review.CreateReview)
		}
	}

	return r
}
