package model

import (
	"time"
)

// EventState 事件狀態類型
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// IsValid 驗證狀態是否有效
func (s EventState) IsValid() bool {
	switch s {
	case EventStatePending, EventStatePublished, EventStateCanceled:
		return true
	}
	return false
}

// StateAction 事件狀態轉換動作：前兩個屬於發起人，後兩個屬於管理員
type StateAction string

const (
	StateActionSendToReview StateAction = "SEND_TO_REVIEW"
	StateActionCancelReview StateAction = "CANCEL_REVIEW"
	StateActionPublishEvent StateAction = "PUBLISH_EVENT"
	StateActionRejectEvent  StateAction = "REJECT_EVENT"
)

func (a StateAction) IsValid() bool {
	switch a {
	case StateActionSendToReview, StateActionCancelReview, StateActionPublishEvent, StateActionRejectEvent:
		return true
	}
	return false
}

// Location 事件地點座標
type Location struct {
	Lat float64 `json:"lat" db:"location_lat"`
	Lon float64 `json:"lon" db:"location_lon"`
}

// Event 事件模型。PublishedAt 非 nil 若且唯若 State == PUBLISHED
type Event struct {
	ID                int64      `json:"id" db:"id"`
	Title             string     `json:"title" db:"title"`
	Annotation        string     `json:"annotation" db:"annotation"`
	Description       string     `json:"description" db:"description"`
	CategoryID        int64      `json:"category" db:"category_id"`
	InitiatorID       int64      `json:"initiator" db:"initiator_id"`
	CreatedAt         time.Time  `json:"createdOn" db:"created_on"`
	EventDate         time.Time  `json:"eventDate" db:"event_date"`
	PublishedAt       *time.Time `json:"publishedOn,omitempty" db:"published_on"`
	Location          Location   `json:"location" db:"-"`
	Paid              bool       `json:"paid" db:"paid"`
	ParticipantLimit  int        `json:"participantLimit" db:"participant_limit"`
	RequestModeration bool       `json:"requestModeration" db:"request_moderation"`
	State             EventState `json:"state" db:"state"`
}

// IsPublished 檢查事件是否已發佈
func (e *Event) IsPublished() bool {
	return e.State == EventStatePublished
}

// HasUnlimitedSlots participantLimit 為 0 表示不限人數
func (e *Event) HasUnlimitedSlots() bool {
	return e.ParticipantLimit == 0
}

// NeedsModeration 只有開啟審核且有人數上限時才需要人工確認
func (e *Event) NeedsModeration() bool {
	return e.RequestModeration && e.ParticipantLimit > 0
}

// NewEventRequest 建立事件請求
type NewEventRequest struct {
	Title             string   `json:"title" binding:"required,min=3,max=120"`
	Annotation        string   `json:"annotation" binding:"required,min=20,max=2000"`
	Description       string   `json:"description" binding:"required,min=20,max=7000"`
	CategoryID        int64    `json:"category" binding:"required"`
	EventDate         DateTime `json:"eventDate" binding:"required"`
	Location          Location `json:"location" binding:"required"`
	Paid              *bool    `json:"paid"`
	ParticipantLimit  *int     `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool    `json:"requestModeration"`
}

// UpdateEventUserRequest 發起人更新事件請求。nil 欄位表示不變更
type UpdateEventUserRequest struct {
	Title             *string   `json:"title" binding:"omitempty,min=3,max=120"`
	Annotation        *string   `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Description       *string   `json:"description" binding:"omitempty,min=20,max=7000"`
	CategoryID        *int64    `json:"category"`
	EventDate         *DateTime `json:"eventDate"`
	Location          *Location `json:"location"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool     `json:"requestModeration"`
	StateAction       *string   `json:"stateAction"`
}

// UpdateEventAdminRequest 管理員更新事件請求。nil 欄位表示不變更
type UpdateEventAdminRequest struct {
	Title             *string   `json:"title" binding:"omitempty,min=3,max=120"`
	Annotation        *string   `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Description       *string   `json:"description" binding:"omitempty,min=20,max=7000"`
	CategoryID        *int64    `json:"category"`
	EventDate         *DateTime `json:"eventDate"`
	Location          *Location `json:"location"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool     `json:"requestModeration"`
	StateAction       *string   `json:"stateAction"`
}

// EventUpdate repository 層的部分更新參數，nil 欄位不會寫入
type EventUpdate struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	EventDate         *time.Time
	Location          *Location
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	State             *EventState
	PublishedAt       *time.Time
}

// EventFullResponse 事件完整響應，含推導欄位 confirmedRequests 與 views
type EventFullResponse struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Annotation        string    `json:"annotation"`
	Description       string    `json:"description"`
	CategoryID        int64     `json:"category"`
	InitiatorID       int64     `json:"initiator"`
	CreatedAt         DateTime  `json:"createdOn"`
	EventDate         DateTime  `json:"eventDate"`
	PublishedAt       *DateTime `json:"publishedOn,omitempty"`
	Location          Location  `json:"location"`
	Paid              bool      `json:"paid"`
	ParticipantLimit  int       `json:"participantLimit"`
	RequestModeration bool      `json:"requestModeration"`
	State             string    `json:"state"`
	ConfirmedRequests int64     `json:"confirmedRequests"`
	Views             int64     `json:"views"`
}

// EventShortResponse 事件簡短響應
type EventShortResponse struct {
	ID                int64    `json:"id"`
	Title             string   `json:"title"`
	Annotation        string   `json:"annotation"`
	CategoryID        int64    `json:"category"`
	InitiatorID       int64    `json:"initiator"`
	EventDate         DateTime `json:"eventDate"`
	Paid              bool     `json:"paid"`
	ConfirmedRequests int64    `json:"confirmedRequests"`
	Views             int64    `json:"views"`
}

// ToFullResponse 轉換為完整響應（推導欄位由 enricher 填入）
func (e *Event) ToFullResponse() EventFullResponse {
	resp := EventFullResponse{
		ID:                e.ID,
		Title:             e.Title,
		Annotation:        e.Annotation,
		Description:       e.Description,
		CategoryID:        e.CategoryID,
		InitiatorID:       e.InitiatorID,
		CreatedAt:         NewDateTime(e.CreatedAt),
		EventDate:         NewDateTime(e.EventDate),
		Location:          e.Location,
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             string(e.State),
	}
	if e.PublishedAt != nil {
		published := NewDateTime(*e.PublishedAt)
		resp.PublishedAt = &published
	}
	return resp
}

// ToShortResponse 轉換為簡短響應
func (e *Event) ToShortResponse() EventShortResponse {
	return EventShortResponse{
		ID:          e.ID,
		Title:       e.Title,
		Annotation:  e.Annotation,
		CategoryID:  e.CategoryID,
		InitiatorID: e.InitiatorID,
		EventDate:   NewDateTime(e.EventDate),
		Paid:        e.Paid,
	}
}

// AdminEventFilter 管理員事件查詢條件。存在的條件以 AND 組合
type AdminEventFilter struct {
	UserIDs     []int64
	States      []EventState
	CategoryIDs []int64
	RangeStart  *time.Time
	RangeEnd    *time.Time
}

// PublicEventFilter 公開事件查詢條件。state = PUBLISHED 永遠隱含
type PublicEventFilter struct {
	Text          *string
	CategoryIDs   []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
}

const (
	SortByEventDate = "EVENT_DATE"
	SortByViews     = "VIEWS"
)

// Page offset/limit 分頁，轉換規則為 page = from / size
type Page struct {
	From int
	Size int
}

// Offset 回傳 SQL OFFSET 值
func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

// Limit 回傳 SQL LIMIT 值
func (p Page) Limit() int {
	if p.Size <= 0 {
		return 10
	}
	return p.Size
}
