package mocks

import (
	"context"

	"explore-with-me/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type RequestRepositoryMock struct {
	mock.Mock
}

func NewRequestRepositoryMock() *RequestRepositoryMock {
	return &RequestRepositoryMock{}
}

func (m *RequestRepositoryMock) FindByIDAndRequester(ctx context.Context, id, requesterID int64) (*model.ParticipationRequest, error) {
	args := m.Called(ctx, id, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParticipationRequest), args.Error(1)
}

func (m *RequestRepositoryMock) FindAllByRequester(ctx context.Context, requesterID int64) ([]*model.ParticipationRequest, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ParticipationRequest), args.Error(1)
}

func (m *RequestRepositoryMock) FindAllByEvent(ctx context.Context, eventID int64) ([]*model.ParticipationRequest, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ParticipationRequest), args.Error(1)
}

func (m *RequestRepositoryMock) ExistsActive(ctx context.Context, eventID, requesterID int64) (bool, error) {
	args := m.Called(ctx, eventID, requesterID)
	return args.Bool(0), args.Error(1)
}

func (m *RequestRepositoryMock) CountConfirmed(ctx context.Context, eventID int64) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RequestRepositoryMock) CountConfirmedBatch(ctx context.Context, eventIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *RequestRepositoryMock) UpdateStatusByRequester(ctx context.Context, id, requesterID int64, status model.RequestStatus) (*model.ParticipationRequest, error) {
	args := m.Called(ctx, id, requesterID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParticipationRequest), args.Error(1)
}

func (m *RequestRepositoryMock) Create(ctx context.Context, tx pgx.Tx, request *model.ParticipationRequest) (*model.ParticipationRequest, error) {
	args := m.Called(ctx, tx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ParticipationRequest), args.Error(1)
}

func (m *RequestRepositoryMock) FindAllByIDsForEvent(ctx context.Context, tx pgx.Tx, eventID int64, ids []int64) ([]*model.ParticipationRequest, error) {
	args := m.Called(ctx, tx, eventID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ParticipationRequest), args.Error(1)
}

func (m *RequestRepositoryMock) CountConfirmedTx(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RequestRepositoryMock) UpdateStatus(ctx context.Context, tx pgx.Tx, ids []int64, status model.RequestStatus) error {
	args := m.Called(ctx, tx, ids, status)
	return args.Error(0)
}
