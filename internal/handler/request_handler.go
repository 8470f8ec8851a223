package handler

import (
	"net/http"
	"strconv"

	"explore-with-me/internal/model"
	"explore-with-me/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestHandler 參與申請的私有 API：申請人路由 + 發起人審核路由
type RequestHandler struct {
	service service.RequestService
}

func NewRequestHandler(service service.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

func (h *RequestHandler) RegisterRoutes(r *gin.Engine) {
	requester := r.Group("/users/:userId/requests")
	{
		requester.GET("", h.ListOwnRequests)
		requester.POST("", h.CreateRequest)
		requester.PATCH("/:requestId/cancel", h.CancelRequest)
	}

	moderation := r.Group("/users/:userId/events/:eventId/requests")
	{
		moderation.GET("", h.ListEventRequests)
		moderation.PATCH("", h.ChangeRequestStatus)
	}
}

func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}

	eventID, err := strconv.ParseInt(c.Query("eventId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameter: eventId",
		})
		return
	}

	created, err := h.service.Create(c, userID, eventID)
	if err != nil {
		handleError(c, err, "CreateRequest")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *RequestHandler) CancelRequest(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}
	requestID, err := ParamInt64(c, "requestId")
	if err != nil {
		return
	}

	canceled, err := h.service.Cancel(c, userID, requestID)
	if err != nil {
		handleError(c, err, "CancelRequest")
		return
	}

	c.JSON(http.StatusOK, canceled)
}

func (h *RequestHandler) ListOwnRequests(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}

	requests, err := h.service.ListByRequester(c, userID)
	if err != nil {
		handleError(c, err, "ListOwnRequests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ListEventRequests(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}
	eventID, err := ParamInt64(c, "eventId")
	if err != nil {
		return
	}

	requests, err := h.service.ListByEvent(c, userID, eventID)
	if err != nil {
		handleError(c, err, "ListEventRequests")
		return
	}

	c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) ChangeRequestStatus(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}
	eventID, err := ParamInt64(c, "eventId")
	if err != nil {
		return
	}

	var req model.StatusUpdateRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.ChangeStatus(c, userID, eventID, req)
	if err != nil {
		handleError(c, err, "ChangeRequestStatus")
		return
	}

	c.JSON(http.StatusOK, result)
}
