package mocks

import (
	"context"

	"explore-with-me/internal/model"

	"github.com/stretchr/testify/mock"
)

type RequestServiceMock struct {
	mock.Mock
}

func NewRequestServiceMock() *RequestServiceMock {
	return &RequestServiceMock{}
}

func (m *RequestServiceMock) Create(ctx context.Context, userID, eventID int64) (*model.RequestResponse, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestResponse), args.Error(1)
}

func (m *RequestServiceMock) Cancel(ctx context.Context, userID, requestID int64) (*model.RequestResponse, error) {
	args := m.Called(ctx, userID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestResponse), args.Error(1)
}

func (m *RequestServiceMock) ListByRequester(ctx context.Context, userID int64) ([]model.RequestResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestResponse), args.Error(1)
}

func (m *RequestServiceMock) ListByEvent(ctx context.Context, userID, eventID int64) ([]model.RequestResponse, error) {
	args := m.Called(ctx, userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RequestResponse), args.Error(1)
}

func (m *RequestServiceMock) ChangeStatus(ctx context.Context, userID, eventID int64, req model.StatusUpdateRequest) (*model.StatusUpdateResult, error) {
	args := m.Called(ctx, userID, eventID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StatusUpdateResult), args.Error(1)
}
