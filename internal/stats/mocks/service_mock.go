package mocks

import (
	"context"
	"time"

	"explore-with-me/internal/model"

	"github.com/stretchr/testify/mock"
)

type ServiceMock struct {
	mock.Mock
}

func NewServiceMock() *ServiceMock {
	return &ServiceMock{}
}

func (m *ServiceMock) RecordHit(ctx context.Context, hit *model.EndpointHit) error {
	args := m.Called(ctx, hit)
	return args.Error(0)
}

func (m *ServiceMock) PersistHit(ctx context.Context, hit *model.EndpointHit) error {
	args := m.Called(ctx, hit)
	return args.Error(0)
}

func (m *ServiceMock) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error) {
	args := m.Called(ctx, start, end, uris, unique)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ViewStats), args.Error(1)
}
