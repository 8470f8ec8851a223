package handler

import (
	"net/http"

	"explore-with-me/internal/model"
	"explore-with-me/internal/service"

	"github.com/gin-gonic/gin"
)

// EventHandler 發起人操作自己事件的私有 API
type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/users/:userId/events")
	{
		router.GET("", h.ListOwnEvents)
		router.POST("", h.CreateEvent)
		router.GET("/:eventId", h.GetOwnEvent)
		router.PATCH("/:eventId", h.UpdateOwnEvent)
	}
}

type pageQuery struct {
	From int `form:"from,default=0" binding:"min=0"`
	Size int `form:"size,default=10" binding:"min=1"`
}

func (q pageQuery) page() model.Page {
	return model.Page{From: q.From, Size: q.Size}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}

	var req model.NewEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, userID, req)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) ListOwnEvents(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}

	var query pageQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	events, err := h.service.ListByInitiator(c, userID, query.page())
	if err != nil {
		handleError(c, err, "ListOwnEvents")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetOwnEvent(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}
	eventID, err := ParamInt64(c, "eventId")
	if err != nil {
		return
	}

	event, err := h.service.GetByInitiator(c, userID, eventID)
	if err != nil {
		handleError(c, err, "GetOwnEvent")
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) UpdateOwnEvent(c *gin.Context) {
	userID, err := ParamInt64(c, "userId")
	if err != nil {
		return
	}
	eventID, err := ParamInt64(c, "eventId")
	if err != nil {
		return
	}

	var req model.UpdateEventUserRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateByInitiator(c, userID, eventID, req)
	if err != nil {
		handleError(c, err, "UpdateOwnEvent")
		return
	}

	c.JSON(http.StatusOK, updated)
}
