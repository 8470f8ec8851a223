package handler

import (
	"net/http"

	"explore-with-me/internal/model"
	"explore-with-me/internal/service"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

// AdminEventHandler 管理員審核與查詢事件的 API
type AdminEventHandler struct {
	service service.EventService
}

func NewAdminEventHandler(service service.EventService) *AdminEventHandler {
	return &AdminEventHandler{service: service}
}

func (h *AdminEventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/admin/events")
	{
		router.GET("", h.SearchEvents)
		router.PATCH("/:eventId", h.UpdateEvent)
	}
}

type adminEventQuery struct {
	Users      []int64  `form:"users"`
	States     []string `form:"states"`
	Categories []int64  `form:"categories"`
	RangeStart string   `form:"rangeStart"`
	RangeEnd   string   `form:"rangeEnd"`
	From       int      `form:"from,default=0" binding:"min=0"`
	Size       int      `form:"size,default=10" binding:"min=1"`
}

func (h *AdminEventHandler) SearchEvents(c *gin.Context) {
	var query adminEventQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	states := make([]model.EventState, 0, len(query.States))
	for _, s := range query.States {
		state := model.EventState(s)
		if !state.IsValid() {
			handleError(c, apperrors.InvalidInputf("unknown event state: %s", s), "SearchEvents")
			return
		}
		states = append(states, state)
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

	filter := model.AdminEventFilter{
		UserIDs:     query.Users,
		States:      states,
		CategoryIDs: query.Categories,
		RangeStart:  rangeStart,
		RangeEnd:    rangeEnd,
	}

	events, err := h.service.ListAdmin(c, filter, model.Page{From: query.From, Size: query.Size})
	if err != nil {
		handleError(c, err, "SearchEvents")
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *AdminEventHandler) UpdateEvent(c *gin.Context) {
	eventID, err := ParamInt64(c, "eventId")
	if err != nil {
		return
	}

	var req model.UpdateEventAdminRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateByAdmin(c, eventID, req)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}

	c.JSON(http.StatusOK, updated)
}
