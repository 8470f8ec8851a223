package stats

import (
	"context"
	"strconv"
	"time"

	"explore-with-me/internal/model"
	"explore-with-me/internal/queue"
	apperrors "explore-with-me/pkg/app_errors"
	"explore-with-me/pkg/metrics"
)

type Service interface {
	// RecordHit 接收一筆瀏覽紀錄並送入隊列（非同步持久化）
	RecordHit(ctx context.Context, hit *model.EndpointHit) error
	// PersistHit 將一筆瀏覽紀錄寫入儲存，由 worker 呼叫
	PersistHit(ctx context.Context, hit *model.EndpointHit) error
	GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error)
}

type ServiceImpl struct {
	repository Repository
	hitQueue   queue.HitQueue
}

func NewService(repository Repository, hitQueue queue.HitQueue) Service {
	return &ServiceImpl{
		repository: repository,
		hitQueue:   hitQueue,
	}
}

func (s *ServiceImpl) RecordHit(ctx context.Context, hit *model.EndpointHit) error {
	if err := s.hitQueue.PublishHit(ctx, hit); err != nil {
		return err
	}
	metrics.HitsReceivedTotal.Inc()
	return nil
}

func (s *ServiceImpl) PersistHit(ctx context.Context, hit *model.EndpointHit) error {
	if _, err := s.repository.SaveHit(ctx, hit); err != nil {
		metrics.HitsFailedTotal.Inc()
		return err
	}
	metrics.HitsPersistedTotal.Inc()
	return nil
}

func (s *ServiceImpl) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]model.ViewStats, error) {
	if end.Before(start) {
		return nil, apperrors.InvalidInputf("start must not be after end")
	}
	metrics.StatsQueriesTotal.WithLabelValues(strconv.FormatBool(unique)).Inc()
	return s.repository.FindStats(ctx, start, end, uris, unique)
}
