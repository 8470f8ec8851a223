package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ViewsCacheMock struct {
	mock.Mock
}

func NewViewsCacheMock() *ViewsCacheMock {
	return &ViewsCacheMock{}
}

func (m *ViewsCacheMock) GetViews(ctx context.Context, uris []string) (map[string]int64, error) {
	args := m.Called(ctx, uris)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *ViewsCacheMock) SetViews(ctx context.Context, views map[string]int64) error {
	args := m.Called(ctx, views)
	return args.Error(0)
}
