package model

import "time"

// RequestStatus 參與請求狀態類型
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// IsValid 驗證狀態是否有效
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusConfirmed, RequestStatusRejected, RequestStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態。
// 審核流程只允許 PENDING → CONFIRMED/REJECTED；請求人可取消任何非終態請求。
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	transitions := map[RequestStatus][]RequestStatus{
		RequestStatusPending:   {RequestStatusConfirmed, RequestStatusRejected, RequestStatusCanceled},
		RequestStatusConfirmed: {RequestStatusCanceled},
		RequestStatusRejected:  {},
		RequestStatusCanceled:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// ParticipationRequest 參與請求模型
type ParticipationRequest struct {
	ID          int64         `json:"id" db:"id"`
	EventID     int64         `json:"event" db:"event_id"`
	RequesterID int64         `json:"requester" db:"requester_id"`
	Created     time.Time     `json:"created" db:"created"`
	Status      RequestStatus `json:"status" db:"status"`
}

// RequestResponse 參與請求響應
type RequestResponse struct {
	ID          int64    `json:"id"`
	EventID     int64    `json:"event"`
	RequesterID int64    `json:"requester"`
	Created     DateTime `json:"created"`
	Status      string   `json:"status"`
}

// ToResponse 轉換為響應
func (r *ParticipationRequest) ToResponse() RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		RequesterID: r.RequesterID,
		Created:     NewDateTime(r.Created),
		Status:      string(r.Status),
	}
}

// StatusUpdateRequest 批次審核請求
type StatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds" binding:"required,min=1"`
	Status     string  `json:"status" binding:"required"`
}

// StatusUpdateResult 批次審核結果，依最終狀態分組
type StatusUpdateResult struct {
	Confirmed []RequestResponse `json:"confirmedRequests"`
	Rejected  []RequestResponse `json:"rejectedRequests"`
}
