package mocks

import (
	"context"

	"explore-with-me/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventEnricherMock struct {
	mock.Mock
}

func NewEventEnricherMock() *EventEnricherMock {
	return &EventEnricherMock{}
}

func (m *EventEnricherMock) EnrichFull(ctx context.Context, event *model.Event) (model.EventFullResponse, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(model.EventFullResponse), args.Error(1)
}

func (m *EventEnricherMock) EnrichFullBatch(ctx context.Context, events []*model.Event) ([]model.EventFullResponse, error) {
	args := m.Called(ctx, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventFullResponse), args.Error(1)
}

func (m *EventEnricherMock) EnrichShortBatch(ctx context.Context, events []*model.Event) ([]model.EventShortResponse, error) {
	args := m.Called(ctx, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventShortResponse), args.Error(1)
}

func (m *EventEnricherMock) RecordHit(uri, ip string) {
	m.Called(uri, ip)
}
