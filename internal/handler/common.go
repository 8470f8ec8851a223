package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"explore-with-me/internal/model"
	apperrors "explore-with-me/pkg/app_errors"
	"explore-with-me/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// ParamInt64 解析路徑參數，失敗時直接回 400
func ParamInt64(c *gin.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid path parameter: " + name,
		})
		return 0, err
	}
	return value, nil
}

// parseTimeQuery 解析 yyyy-MM-dd HH:mm:ss 格式的時間查詢參數，空字串回傳 nil
func parseTimeQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := model.ParseDateTime(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// handleError 依錯誤分類對應 HTTP 狀態碼：404/409/400，其餘一律 500
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		log.Warn("Resource not found")
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, apperrors.ErrConflict):
		log.Warn("Business rule conflict")
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	default:
		log.Error("Internal server error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
