package service_test

import (
	"context"
	"testing"
	"time"

	"explore-with-me/config"
	"explore-with-me/internal/model"
	repoMocks "explore-with-me/internal/repository/mocks"
	"explore-with-me/internal/service"
	svcMocks "explore-with-me/internal/service/mocks"
	apperrors "explore-with-me/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRules = config.RulesConfig{
	CreateLeadTime:  2 * time.Hour,
	PublishLeadTime: time.Hour,
}

type eventServiceFixture struct {
	eventRepo    *repoMocks.EventRepositoryMock
	userRepo     *repoMocks.UserRepositoryMock
	categoryRepo *repoMocks.CategoryRepositoryMock
	enricher     *svcMocks.EventEnricherMock
	service      service.EventService
}

func newEventServiceFixture() *eventServiceFixture {
	f := &eventServiceFixture{
		eventRepo:    repoMocks.NewEventRepositoryMock(),
		userRepo:     repoMocks.NewUserRepositoryMock(),
		categoryRepo: repoMocks.NewCategoryRepositoryMock(),
		enricher:     svcMocks.NewEventEnricherMock(),
	}
	f.service = service.NewEventService(f.eventRepo, f.userRepo, f.categoryRepo, f.enricher, testRules)
	return f
}

func newEventRequest(eventDate time.Time) model.NewEventRequest {
	return model.NewEventRequest{
		Title:      "City marathon",
		Annotation: "Annual marathon through the old town center",
		Description: "A 42km run starting at the main square, " +
			"open to amateurs and professionals alike.",
		CategoryID: 3,
		EventDate:  model.NewDateTime(eventDate),
		Location:   model.Location{Lat: 55.75, Lon: 37.61},
	}
}

func TestEventService_Create_AppliesDefaults(t *testing.T) {
	f := newEventServiceFixture()
	ctx := context.Background()

	f.userRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.categoryRepo.On("Exists", mock.Anything, int64(3)).Return(true, nil)

	created := &model.Event{ID: 10, State: model.EventStatePending}
	f.eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
		return e.State == model.EventStatePending &&
			!e.Paid &&
			e.ParticipantLimit == 0 &&
			e.RequestModeration &&
			e.InitiatorID == 1 &&
			!e.CreatedAt.IsZero()
	})).Return(created, nil)
	f.enricher.On("EnrichFull", mock.Anything, created).Return(created.ToFullResponse(), nil)

	resp, err := f.service.Create(ctx, 1, newEventRequest(time.Now().Add(3*time.Hour)))

	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ID)
	f.eventRepo.AssertExpectations(t)
}

func TestEventService_Create_EventDateTooSoon(t *testing.T) {
	f := newEventServiceFixture()

	f.userRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.categoryRepo.On("Exists", mock.Anything, int64(3)).Return(true, nil)

	// 提前時間不足 2 小時 → 400
	_, err := f.service.Create(context.Background(), 1, newEventRequest(time.Now().Add(90*time.Minute)))

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	f.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEventService_Create_UnknownCategory(t *testing.T) {
	f := newEventServiceFixture()

	f.userRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.categoryRepo.On("Exists", mock.Anything, int64(3)).Return(false, nil)

	_, err := f.service.Create(context.Background(), 1, newEventRequest(time.Now().Add(3*time.Hour)))

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEventService_UpdateByInitiator_PublishedEventRejected(t *testing.T) {
	f := newEventServiceFixture()

	published := time.Now()
	f.eventRepo.On("FindByIDAndInitiator", mock.Anything, int64(10), int64(1)).Return(&model.Event{
		ID:          10,
		InitiatorID: 1,
		State:       model.EventStatePublished,
		PublishedAt: &published,
	}, nil)

	title := "New title"
	_, err := f.service.UpdateByInitiator(context.Background(), 1, 10, model.UpdateEventUserRequest{Title: &title})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.eventRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestEventService_UpdateByInitiator_CancelReview(t *testing.T) {
	f := newEventServiceFixture()

	pending := &model.Event{ID: 10, InitiatorID: 1, State: model.EventStatePending}
	canceled := &model.Event{ID: 10, InitiatorID: 1, State: model.EventStateCanceled}

	f.eventRepo.On("FindByIDAndInitiator", mock.Anything, int64(10), int64(1)).Return(pending, nil)
	f.eventRepo.On("Update", mock.Anything, int64(10), mock.MatchedBy(func(u model.EventUpdate) bool {
		return u.State != nil && *u.State == model.EventStateCanceled && u.PublishedAt == nil
	})).Return(canceled, nil)
	f.enricher.On("EnrichFull", mock.Anything, canceled).Return(canceled.ToFullResponse(), nil)

	action := string(model.StateActionCancelReview)
	resp, err := f.service.UpdateByInitiator(context.Background(), 1, 10, model.UpdateEventUserRequest{StateAction: &action})

	require.NoError(t, err)
	assert.Equal(t, string(model.EventStateCanceled), resp.State)
}

func TestEventService_UpdateByInitiator_AdminActionRejected(t *testing.T) {
	f := newEventServiceFixture()

	f.eventRepo.On("FindByIDAndInitiator", mock.Anything, int64(10), int64(1)).Return(&model.Event{
		ID:          10,
		InitiatorID: 1,
		State:       model.EventStatePending,
	}, nil)

	// 發起人不能用管理員的動作
	action := string(model.StateActionPublishEvent)
	_, err := f.service.UpdateByInitiator(context.Background(), 1, 10, model.UpdateEventUserRequest{StateAction: &action})

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEventService_UpdateByAdmin_PublishPendingEvent(t *testing.T) {
	f := newEventServiceFixture()

	pending := &model.Event{
		ID:        10,
		State:     model.EventStatePending,
		EventDate: time.Now().Add(3 * time.Hour),
	}
	publishedAt := time.Now()
	published := &model.Event{ID: 10, State: model.EventStatePublished, PublishedAt: &publishedAt}

	f.eventRepo.On("FindByID", mock.Anything, int64(10)).Return(pending, nil)
	f.eventRepo.On("Update", mock.Anything, int64(10), mock.MatchedBy(func(u model.EventUpdate) bool {
		// 發佈必須同時寫入狀態與發佈時間
		return u.State != nil && *u.State == model.EventStatePublished && u.PublishedAt != nil
	})).Return(published, nil)
	f.enricher.On("EnrichFull", mock.Anything, published).Return(published.ToFullResponse(), nil)

	action := string(model.StateActionPublishEvent)
	resp, err := f.service.UpdateByAdmin(context.Background(), 10, model.UpdateEventAdminRequest{StateAction: &action})

	require.NoError(t, err)
	assert.Equal(t, string(model.EventStatePublished), resp.State)
	assert.NotNil(t, resp.PublishedAt)
}

func TestEventService_UpdateByAdmin_PublishNonPendingEvent(t *testing.T) {
	for _, state := range []model.EventState{model.EventStatePublished, model.EventStateCanceled} {
		f := newEventServiceFixture()
		f.eventRepo.On("FindByID", mock.Anything, int64(10)).Return(&model.Event{
			ID:        10,
			State:     state,
			EventDate: time.Now().Add(3 * time.Hour),
		}, nil)

		action := string(model.StateActionPublishEvent)
		_, err := f.service.UpdateByAdmin(context.Background(), 10, model.UpdateEventAdminRequest{StateAction: &action})

		assert.ErrorIs(t, err, apperrors.ErrConflict, "state %s", state)
	}
}

func TestEventService_UpdateByAdmin_PublishTooCloseToEventDate(t *testing.T) {
	f := newEventServiceFixture()

	f.eventRepo.On("FindByID", mock.Anything, int64(10)).Return(&model.Event{
		ID:        10,
		State:     model.EventStatePending,
		EventDate: time.Now().Add(30 * time.Minute), // 距離發佈不足 1 小時
	}, nil)

	action := string(model.StateActionPublishEvent)
	_, err := f.service.UpdateByAdmin(context.Background(), 10, model.UpdateEventAdminRequest{StateAction: &action})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEventService_UpdateByAdmin_RejectPublishedEvent(t *testing.T) {
	f := newEventServiceFixture()

	publishedAt := time.Now()
	f.eventRepo.On("FindByID", mock.Anything, int64(10)).Return(&model.Event{
		ID:          10,
		State:       model.EventStatePublished,
		PublishedAt: &publishedAt,
	}, nil)

	action := string(model.StateActionRejectEvent)
	_, err := f.service.UpdateByAdmin(context.Background(), 10, model.UpdateEventAdminRequest{StateAction: &action})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEventService_GetPublic_RecordsHit(t *testing.T) {
	f := newEventServiceFixture()

	event := &model.Event{ID: 10, State: model.EventStatePublished}
	f.eventRepo.On("FindPublishedByID", mock.Anything, int64(10)).Return(event, nil)
	f.enricher.On("RecordHit", "/events/10", "203.0.113.7").Return()
	f.enricher.On("EnrichFull", mock.Anything, event).Return(event.ToFullResponse(), nil)

	_, err := f.service.GetPublic(context.Background(), 10, "203.0.113.7")

	require.NoError(t, err)
	f.enricher.AssertCalled(t, "RecordHit", "/events/10", "203.0.113.7")
}

func TestEventService_GetPublic_UnpublishedIsNotFound(t *testing.T) {
	f := newEventServiceFixture()

	f.eventRepo.On("FindPublishedByID", mock.Anything, int64(10)).Return(nil, apperrors.ErrEventNotFound)

	_, err := f.service.GetPublic(context.Background(), 10, "203.0.113.7")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.enricher.AssertNotCalled(t, "RecordHit", mock.Anything, mock.Anything)
}

func TestEventService_ListPublic_UnknownSort(t *testing.T) {
	f := newEventServiceFixture()

	_, err := f.service.ListPublic(context.Background(), model.PublicEventFilter{}, "POPULARITY",
		model.Page{From: 0, Size: 10}, "/events", "203.0.113.7")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEventService_ListPublic_InvertedRange(t *testing.T) {
	f := newEventServiceFixture()

	start := time.Now().Add(2 * time.Hour)
	end := time.Now().Add(time.Hour)
	filter := model.PublicEventFilter{RangeStart: &start, RangeEnd: &end}

	_, err := f.service.ListPublic(context.Background(), filter, "",
		model.Page{From: 0, Size: 10}, "/events", "203.0.113.7")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEventService_ListPublic_RecordsHitEvenWhenEmpty(t *testing.T) {
	f := newEventServiceFixture()

	f.eventRepo.On("FindPublic", mock.Anything, mock.Anything, mock.Anything).Return([]*model.Event{}, nil)
	f.enricher.On("RecordHit", "/events", "203.0.113.7").Return()
	f.enricher.On("EnrichShortBatch", mock.Anything, mock.Anything).Return([]model.EventShortResponse{}, nil)

	resp, err := f.service.ListPublic(context.Background(), model.PublicEventFilter{}, "",
		model.Page{From: 0, Size: 10}, "/events", "203.0.113.7")

	require.NoError(t, err)
	assert.Empty(t, resp)
	f.enricher.AssertCalled(t, "RecordHit", "/events", "203.0.113.7")
}

func TestEventService_ListPublic_SortByViews(t *testing.T) {
	f := newEventServiceFixture()

	events := []*model.Event{{ID: 1}, {ID: 2}, {ID: 3}}
	now := time.Now()
	enriched := []model.EventShortResponse{
		{ID: 1, EventDate: model.NewDateTime(now.Add(time.Hour)), Views: 5},
		{ID: 2, EventDate: model.NewDateTime(now.Add(2 * time.Hour)), Views: 20},
		{ID: 3, EventDate: model.NewDateTime(now.Add(30 * time.Minute)), Views: 5},
	}

	f.eventRepo.On("FindPublic", mock.Anything, mock.Anything, mock.Anything).Return(events, nil)
	f.enricher.On("RecordHit", "/events", "203.0.113.7").Return()
	f.enricher.On("EnrichShortBatch", mock.Anything, events).Return(enriched, nil)

	resp, err := f.service.ListPublic(context.Background(), model.PublicEventFilter{}, model.SortByViews,
		model.Page{From: 0, Size: 10}, "/events", "203.0.113.7")

	require.NoError(t, err)
	require.Len(t, resp, 3)
	// 瀏覽數多的在前，同瀏覽數以 eventDate 早的在前
	assert.Equal(t, int64(2), resp[0].ID)
	assert.Equal(t, int64(3), resp[1].ID)
	assert.Equal(t, int64(1), resp[2].ID)
}
