package handler

import (
	"net/http"

	"explore-with-me/internal/model"
	"explore-with-me/internal/service"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

// PublicEventHandler 公開查詢 API，每次讀取都會記一筆瀏覽
type PublicEventHandler struct {
	service service.EventService
}

func NewPublicEventHandler(service service.EventService) *PublicEventHandler {
	return &PublicEventHandler{service: service}
}

func (h *PublicEventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/events")
	{
		router.GET("", h.SearchEvents)
		router.GET("/:eventId", h.GetEvent)
	}
}

type publicEventQuery struct {
	Text          string  `form:"text"`
	Categories    []int64 `form:"categories"`
	Paid          *bool   `form:"paid"`
	RangeStart    string  `form:"rangeStart"`
	RangeEnd      string  `form:"rangeEnd"`
	OnlyAvailable bool    `form:"onlyAvailable,default=false"`
	Sort          string  `form:"sort"`
	From          int     `form:"from,default=0" binding:"min=0"`
	Size          int     `form:"size,default=10" binding:"min=1"`
}

func (h *PublicEventHandler) SearchEvents(c *gin.Context) {
	var query publicEventQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	rangeStart, err := parseTimeQuery(query.RangeStart)
	if err != nil {
		handleError(c, apperrors.InvalidInputf("invalid rangeStart: %s", query.RangeStart), "SearchEvents")
		return
	}
	rangeEnd, err := parseTimeQuery(query.RangeEnd)
	if err != nil {
		handleError(c, apperrors.InvalidInputf("invalid rangeEnd: %s", query.RangeEnd), "SearchEvents")
		return
	}

	filter := model.PublicEventFilter{
		CategoryIDs:   query.Categories,
		Paid:          query.Paid,
		RangeStart:    rangeStart,
		RangeEnd:      rangeEnd,
		OnlyAvailable: query.OnlyAvailable,
	}
	if query.Text != "" {
		filter.Text = &query.Text
	}

	events, err := h.service.ListPublic(c, filter, query.Sort,
		model.Page{From: query.From, Size: query.Size},
		c.Request.URL.Path, c.ClientIP())
	if err != nil {
		handleError(c, err, "SearchEvents")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *PublicEventHandler) GetEvent(c *gin.Context) {
	eventID, err := ParamInt64(c, "eventId")
	if err != nil {
		return
	}

	event, err := h.service.GetPublic(c, eventID, c.ClientIP())
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}

	c.JSON(http.StatusOK, event)
}
