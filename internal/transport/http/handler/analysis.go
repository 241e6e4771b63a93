package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbekov/bookshelf/internal/insight"
	"github.com/nbekov/bookshelf/internal/transport/http/middleware"
)

type AnalysisHandler struct {
	bookUsecase bookUsecaser
	analyzer    *insight.Analyzer
	logger      *slog.Logger
}

func NewAnalysisHandler(bookUsecase bookUsecaser, analyzer *insight.Analyzer, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		bookUsecase: bookUsecase,
		analyzer:    analyzer,
		logger:      logger.With("component", "analysis_handler"),
	}
}

// GET /analysis/reading-analysis
func (h *AnalysisHandler) ReadingAnalysis(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}

	books, err := h.bookUsecase.ListBooks(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "reading analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": "Failed to generate reading analysis"})
		return
	}

	c.JSON(http.StatusOK, h.analyzer.Analyze(books))
}

// GET /analysis/detailed-insights
func (h *AnalysisHandler) DetailedInsights(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}

	books, err := h.bookUsecase.ListBooks(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "detailed insights", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": "Failed to generate detailed insights"})
		return
	}

	c.JSON(http.StatusOK, h.analyzer.Detailed(books))
}
