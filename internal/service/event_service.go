package service

import (
	"context"
	"sort"
	"time"

	"explore-with-me/config"
	"explore-with-me/internal/model"
	"explore-with-me/internal/repository"
	apperrors "explore-with-me/pkg/app_errors"
)

type EventService interface {
	Create(ctx context.Context, userID int64, req model.NewEventRequest) (*model.EventFullResponse, error)
	GetByInitiator(ctx context.Context, userID, eventID int64) (*model.EventFullResponse, error)
	ListByInitiator(ctx context.Context, userID int64, page model.Page) ([]model.EventShortResponse, error)
	UpdateByInitiator(ctx context.Context, userID, eventID int64, req model.UpdateEventUserRequest) (*model.EventFullResponse, error)
	ListAdmin(ctx context.Context, filter model.AdminEventFilter, page model.Page) ([]model.EventFullResponse, error)
	UpdateByAdmin(ctx context.Context, eventID int64, req model.UpdateEventAdminRequest) (*model.EventFullResponse, error)
	GetPublic(ctx context.Context, eventID int64, ip string) (*model.EventFullResponse, error)
	ListPublic(ctx context.Context, filter model.PublicEventFilter, sortBy string, page model.Page, uri, ip string) ([]model.EventShortResponse, error)
}

type EventServiceImpl struct {
	repository         repository.EventRepository
	userRepository     repository.UserRepository
	categoryRepository repository.CategoryRepository
	enricher           EventEnricher
	rules              config.RulesConfig
}

func NewEventService(
	eventRepository repository.EventRepository,
	userRepository repository.UserRepository,
	categoryRepository repository.CategoryRepository,
	enricher EventEnricher,
	rules config.RulesConfig,
) EventService {
	return &EventServiceImpl{
		repository:         eventRepository,
		userRepository:     userRepository,
		categoryRepository: categoryRepository,
		enricher:           enricher,
		rules:              rules,
	}
}

func (s *EventServiceImpl) Create(ctx context.Context, userID int64, req model.NewEventRequest) (*model.EventFullResponse, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryExists(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	eventDate := req.EventDate.Time()
	if err := s.validateLeadTime(eventDate, s.rules.CreateLeadTime); err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		InitiatorID:       userID,
		CreatedAt:         time.Now().UTC(),
		EventDate:         eventDate,
		Location:          req.Location,
		Paid:              false,
		ParticipantLimit:  0,
		RequestModeration: true,
		State:             model.EventStatePending,
	}
	if req.Paid != nil {
		event.Paid = *req.Paid
	}
	if req.ParticipantLimit != nil {
		event.ParticipantLimit = *req.ParticipantLimit
	}
	if req.RequestModeration != nil {
		event.RequestModeration = *req.RequestModeration
	}

	created, err := s.repository.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	resp, err := s.enricher.EnrichFull(ctx, created)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *EventServiceImpl) GetByInitiator(ctx context.Context, userID, eventID int64) (*model.EventFullResponse, error) {
	event, err := s.repository.FindByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.enricher.EnrichFull(ctx, event)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *EventServiceImpl) ListByInitiator(ctx context.Context, userID int64, page model.Page) ([]model.EventShortResponse, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	events, err := s.repository.FindAllByInitiator(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	return s.enricher.EnrichShortBatch(ctx, events)
}

func (s *EventServiceImpl) UpdateByInitiator(ctx context.Context, userID, eventID int64, req model.UpdateEventUserRequest) (*model.EventFullResponse, error) {
	event, err := s.repository.FindByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if event.IsPublished() {
		return nil, apperrors.Conflictf("only pending or canceled events can be changed")
	}

	update, err := s.buildContentUpdate(ctx, req.Title, req.Annotation, req.Description,
		req.CategoryID, req.EventDate, req.Location, req.Paid, req.ParticipantLimit,
		req.RequestModeration, s.rules.CreateLeadTime)
	if err != nil {
		return nil, err
	}

	if req.StateAction != nil {
		action := model.StateAction(*req.StateAction)
		var state model.EventState
		switch action {
		case model.StateActionSendToReview:
			state = model.EventStatePending
		case model.StateActionCancelReview:
			state = model.EventStateCanceled
		default:
			return nil, apperrors.InvalidInputf("unknown state action: %s", *req.StateAction)
		}
		update.State = &state
	}

	updated, err := s.repository.Update(ctx, eventID, update)
	if err != nil {
		return nil, err
	}

	resp, err := s.enricher.EnrichFull(ctx, updated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *EventServiceImpl) ListAdmin(ctx context.Context, filter model.AdminEventFilter, page model.Page) ([]model.EventFullResponse, error) {
	events, err := s.repository.FindAdmin(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	return s.enricher.EnrichFullBatch(ctx, events)
}

func (s *EventServiceImpl) UpdateByAdmin(ctx context.Context, eventID int64, req model.UpdateEventAdminRequest) (*model.EventFullResponse, error) {
	event, err := s.repository.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	update, err := s.buildContentUpdate(ctx, req.Title, req.Annotation, req.Description,
		req.CategoryID, req.EventDate, req.Location, req.Paid, req.ParticipantLimit,
		req.RequestModeration, 0)
	if err != nil {
		return nil, err
	}

	if req.StateAction != nil {
		action := model.StateAction(*req.StateAction)
		switch action {
		case model.StateActionPublishEvent:
			if event.State != model.EventStatePending {
				return nil, apperrors.Conflictf("cannot publish event in state %s", event.State)
			}
			// 發佈用的 eventDate 以這次請求帶的新值優先
			eventDate := event.EventDate
			if update.EventDate != nil {
				eventDate = *update.EventDate
			}
			if time.Until(eventDate) < s.rules.PublishLeadTime {
				return nil, apperrors.Conflictf("event date must be at least %s after publication", s.rules.PublishLeadTime)
			}
			published := model.EventStatePublished
			now := time.Now().UTC()
			update.State = &published
			update.PublishedAt = &now
		case model.StateActionRejectEvent:
			if event.IsPublished() {
				return nil, apperrors.Conflictf("cannot reject a published event")
			}
			canceled := model.EventStateCanceled
			update.State = &canceled
		default:
			return nil, apperrors.InvalidInputf("unknown state action: %s", *req.StateAction)
		}
	}

	updated, err := s.repository.Update(ctx, eventID, update)
	if err != nil {
		return nil, err
	}

	resp, err := s.enricher.EnrichFull(ctx, updated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *EventServiceImpl) GetPublic(ctx context.Context, eventID int64, ip string) (*model.EventFullResponse, error) {
	event, err := s.repository.FindPublishedByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	s.enricher.RecordHit(model.EventURI(eventID), ip)

	resp, err := s.enricher.EnrichFull(ctx, event)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *EventServiceImpl) ListPublic(ctx context.Context, filter model.PublicEventFilter, sortBy string, page model.Page, uri, ip string) ([]model.EventShortResponse, error) {
	if sortBy != "" && sortBy != model.SortByEventDate && sortBy != model.SortByViews {
		return nil, apperrors.InvalidInputf("unknown sort: %s", sortBy)
	}
	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeEnd.Before(*filter.RangeStart) {
		return nil, apperrors.InvalidInputf("rangeEnd must not be before rangeStart")
	}

	events, err := s.repository.FindPublic(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	// 搜尋本身也算一次瀏覽，空結果照記
	s.enricher.RecordHit(uri, ip)

	responses, err := s.enricher.EnrichShortBatch(ctx, events)
	if err != nil {
		return nil, err
	}

	if sortBy == model.SortByViews {
		sort.SliceStable(responses, func(i, j int) bool {
			if responses[i].Views != responses[j].Views {
				return responses[i].Views > responses[j].Views
			}
			return responses[i].EventDate.Time().Before(responses[j].EventDate.Time())
		})
	}

	return responses, nil
}

// buildContentUpdate 把 patch 的非 nil 內容欄位搬進 repository 更新參數。
// leadTime > 0 時對新的 eventDate 套用最小提前時間檢查，否則只要求在未來。
func (s *EventServiceImpl) buildContentUpdate(
	ctx context.Context,
	title, annotation, description *string,
	categoryID *int64,
	eventDate *model.DateTime,
	location *model.Location,
	paid *bool,
	participantLimit *int,
	requestModeration *bool,
	leadTime time.Duration,
) (model.EventUpdate, error) {
	update := model.EventUpdate{
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		Location:          location,
		Paid:              paid,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
	}

	if categoryID != nil {
		if err := s.ensureCategoryExists(ctx, *categoryID); err != nil {
			return model.EventUpdate{}, err
		}
		update.CategoryID = categoryID
	}

	if eventDate != nil {
		date := eventDate.Time()
		if err := s.validateLeadTime(date, leadTime); err != nil {
			return model.EventUpdate{}, err
		}
		update.EventDate = &date
	}

	return update, nil
}

func (s *EventServiceImpl) validateLeadTime(eventDate time.Time, leadTime time.Duration) error {
	if time.Until(eventDate) < leadTime {
		if leadTime > 0 {
			return apperrors.InvalidInputf("event date must be at least %s in the future", leadTime)
		}
		return apperrors.InvalidInputf("event date must be in the future")
	}
	return nil
}

func (s *EventServiceImpl) ensureUserExists(ctx context.Context, userID int64) error {
	exists, err := s.userRepository.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *EventServiceImpl) ensureCategoryExists(ctx context.Context, categoryID int64) error {
	exists, err := s.categoryRepository.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
