package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/nbekov/bookshelf/internal/transport/http/handler"
	"github.com/nbekov/bookshelf/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	analysisHandler *handler.AnalysisHandler,
	jwtKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(jwtKey)

	// Public routes
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/books/search", bookHandler.Search)

	// Protected user routes
	user := r.Group("/user", authMW)
	user.GET("/profile", userHandler.GetProfile)
	user.PUT("/profile", userHandler.UpdateProfile)

	// Protected book routes
	books := r.Group("/books", authMW)
	books.POST("", bookHandler.Add)
	books.GET("", bookHandler.List)
	books.PUT("/:id", bookHandler.Update)
	books.DELETE("/:id", bookHandler.Delete)
	books.PATCH("/:id/reading-status", bookHandler.UpdateReadingStatus)
	books.PATCH("/:id/favorite", bookHandler.UpdateFavorite)

	// Protected analysis routes
	analysis := r.Group("/analysis", authMW)
	analysis.GET("/reading-analysis", analysisHandler.ReadingAnalysis)
	analysis.GET("/detailed-insights", analysisHandler.DetailedInsights)

	return r
}
