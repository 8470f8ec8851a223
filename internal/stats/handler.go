package stats

import (
	"errors"
	"net/http"

	"explore-with-me/internal/model"
	apperrors "explore-with-me/pkg/app_errors"
	"explore-with-me/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/hit", h.Hit)
	r.GET("/stats", h.Stats)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) Hit(c *gin.Context) {
	var hit model.EndpointHit
	if err := c.ShouldBindJSON(&hit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.service.RecordHit(c, &hit); err != nil {
		h.handleError(c, err, "Hit")
		return
	}
	c.Status(http.StatusCreated)
}

// StatsQuery GET /stats 查詢參數；start/end 為 "yyyy-MM-dd HH:mm:ss"
type StatsQuery struct {
	Start  string   `form:"start" binding:"required"`
	End    string   `form:"end" binding:"required"`
	URIs   []string `form:"uris"`
	Unique bool     `form:"unique"`
}

func (h *Handler) Stats(c *gin.Context) {
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	start, err := model.ParseDateTime(q.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start datetime"})
		return
	}
	end, err := model.ParseDateTime(q.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end datetime"})
		return
	}

	result, err := h.service.GetStats(c, start, end, q.URIs, q.Unique)
	if err != nil {
		h.handleError(c, err, "Stats")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("stats-handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
