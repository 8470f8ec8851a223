package service

import (
	"context"
	"time"

	"explore-with-me/internal/database"
	"explore-with-me/internal/model"
	"explore-with-me/internal/repository"
	apperrors "explore-with-me/pkg/app_errors"
)

type RequestService interface {
	Create(ctx context.Context, userID, eventID int64) (*model.RequestResponse, error)
	Cancel(ctx context.Context, userID, requestID int64) (*model.RequestResponse, error)
	ListByRequester(ctx context.Context, userID int64) ([]model.RequestResponse, error)
	ListByEvent(ctx context.Context, userID, eventID int64) ([]model.RequestResponse, error)
	ChangeStatus(ctx context.Context, userID, eventID int64, req model.StatusUpdateRequest) (*model.StatusUpdateResult, error)
}

type RequestServiceImpl struct {
	pool            database.TxStarter
	repository      repository.RequestRepository
	eventRepository repository.EventRepository
	userRepository  repository.UserRepository
}

func NewRequestService(
	pool database.TxStarter,
	requestRepository repository.RequestRepository,
	eventRepository repository.EventRepository,
	userRepository repository.UserRepository,
) RequestService {
	return &RequestServiceImpl{
		pool:            pool,
		repository:      requestRepository,
		eventRepository: eventRepository,
		userRepository:  userRepository,
	}
}

// Create 建立參與申請。名額檢查與寫入在同一個交易內，
// 事件列先上鎖，確保同一事件的並發申請不會超賣名額。
func (s *RequestServiceImpl) Create(ctx context.Context, userID, eventID int64) (*model.RequestResponse, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.eventRepository.FindByIDWithLock(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	if event.InitiatorID == userID {
		return nil, apperrors.Conflictf("initiator cannot request participation in own event")
	}
	if !event.IsPublished() {
		return nil, apperrors.Conflictf("cannot participate in an unpublished event")
	}

	exists, err := s.repository.ExistsActive(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflictf("participation request already exists")
	}

	if !event.HasUnlimitedSlots() {
		confirmed, err := s.repository.CountConfirmedTx(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed >= int64(event.ParticipantLimit) {
			return nil, apperrors.Conflictf("participant limit reached")
		}
	}

	status := model.RequestStatusPending
	if !event.NeedsModeration() {
		status = model.RequestStatusConfirmed
	}

	request := &model.ParticipationRequest{
		EventID:     eventID,
		RequesterID: userID,
		Created:     time.Now().UTC(),
		Status:      status,
	}

	created, err := s.repository.Create(ctx, tx, request)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	resp := created.ToResponse()
	return &resp, nil
}

// Cancel 取消自己的申請。操作是全函數：重複取消不報錯，
// 已確認或已拒絕的申請也一樣記成 CANCELED
func (s *RequestServiceImpl) Cancel(ctx context.Context, userID, requestID int64) (*model.RequestResponse, error) {
	request, err := s.repository.FindByIDAndRequester(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}

	if request.Status == model.RequestStatusCanceled {
		resp := request.ToResponse()
		return &resp, nil
	}

	canceled, err := s.repository.UpdateStatusByRequester(ctx, requestID, userID, model.RequestStatusCanceled)
	if err != nil {
		return nil, err
	}

	resp := canceled.ToResponse()
	return &resp, nil
}

func (s *RequestServiceImpl) ListByRequester(ctx context.Context, userID int64) ([]model.RequestResponse, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repository.FindAllByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	return toResponses(requests), nil
}

func (s *RequestServiceImpl) ListByEvent(ctx context.Context, userID, eventID int64) ([]model.RequestResponse, error) {
	event, err := s.eventRepository.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != userID {
		return nil, apperrors.Conflictf("only the initiator can view participation requests")
	}

	requests, err := s.repository.FindAllByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return toResponses(requests), nil
}

// ChangeStatus 批次審核申請，全有或全無：任何一筆不是 PENDING 或名額不足，
// 整批失敗且不留下部分變更。名額判斷在事件列鎖下進行。
func (s *RequestServiceImpl) ChangeStatus(ctx context.Context, userID, eventID int64, req model.StatusUpdateRequest) (*model.StatusUpdateResult, error) {
	target := model.RequestStatus(req.Status)
	if target != model.RequestStatusConfirmed && target != model.RequestStatusRejected {
		return nil, apperrors.InvalidInputf("status must be CONFIRMED or REJECTED, got %s", req.Status)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	event, err := s.eventRepository.FindByIDWithLock(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if event.InitiatorID != userID {
		return nil, apperrors.Conflictf("only the initiator can moderate participation requests")
	}
	if !event.NeedsModeration() {
		return nil, apperrors.Conflictf("event does not require request moderation")
	}

	requests, err := s.repository.FindAllByIDsForEvent(ctx, tx, eventID, req.RequestIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) != len(req.RequestIDs) {
		return nil, apperrors.ErrRequestNotFound
	}

	for _, request := range requests {
		if !request.Status.CanTransitionTo(target) {
			return nil, apperrors.Conflictf("request %d is %s, only pending requests can be moderated",
				request.ID, request.Status)
		}
	}

	if target == model.RequestStatusConfirmed {
		confirmed, err := s.repository.CountConfirmedTx(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		if confirmed+int64(len(requests)) > int64(event.ParticipantLimit) {
			return nil, apperrors.Conflictf("participant limit reached")
		}
	}

	if err := s.repository.UpdateStatus(ctx, tx, req.RequestIDs, target); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	result := &model.StatusUpdateResult{
		Confirmed: []model.RequestResponse{},
		Rejected:  []model.RequestResponse{},
	}
	for _, request := range requests {
		request.Status = target
		if target == model.RequestStatusConfirmed {
			result.Confirmed = append(result.Confirmed, request.ToResponse())
		} else {
			result.Rejected = append(result.Rejected, request.ToResponse())
		}
	}
	return result, nil
}

func (s *RequestServiceImpl) ensureUserExists(ctx context.Context, userID int64) error {
	exists, err := s.userRepository.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func toResponses(requests []*model.ParticipationRequest) []model.RequestResponse {
	responses := make([]model.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}
	return responses
}
