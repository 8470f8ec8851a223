package mocks

import (
	"context"

	"explore-with-me/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) Create(ctx context.Context, userID int64, req model.NewEventRequest) (*model.EventFullResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventFullResponse), args.Error(1)
}

func (m *EventServiceMock) GetByInitiator(ctx context.Context, userID, eventID int64) (*model.EventFullResponse, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventFullResponse), args.Error(1)
}

func (m *EventServiceMock) ListByInitiator(ctx context.Context, userID int64, page model.Page) ([]model.EventShortResponse, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventShortResponse), args.Error(1)
}

func (m *EventServiceMock) UpdateByInitiator(ctx context.Context, userID, eventID int64, req model.UpdateEventUserRequest) (*model.EventFullResponse, error) {
	args := m.Called(ctx, userID, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventFullResponse), args.Error(1)
}

func (m *EventServiceMock) ListAdmin(ctx context.Context, filter model.AdminEventFilter, page model.Page) ([]model.EventFullResponse, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventFullResponse), args.Error(1)
}

func (m *EventServiceMock) UpdateByAdmin(ctx context.Context, eventID int64, req model.UpdateEventAdminRequest) (*model.EventFullResponse, error) {
	args := m.Called(ctx, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventFullResponse), args.Error(1)
}

func (m *EventServiceMock) GetPublic(ctx context.Context, eventID int64, ip string) (*model.EventFullResponse, error) {
	args := m.Called(ctx, eventID, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventFullResponse), args.Error(1)
}

func (m *EventServiceMock) ListPublic(ctx context.Context, filter model.PublicEventFilter, sortBy string, page model.Page, uri, ip string) ([]model.EventShortResponse, error) {
	args := m.Called(ctx, filter, sortBy, page, uri, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventShortResponse), args.Error(1)
}
