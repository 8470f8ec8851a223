package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"explore-with-me/internal/model"
	"explore-with-me/internal/queue"
	"explore-with-me/internal/stats"
	"explore-with-me/internal/worker"
)

// 簡單的 Mock 實作
type mockStatsService struct {
	stats.Service // 嵌入介面
	onPersist     func(*model.EndpointHit) error
}

func (m *mockStatsService) PersistHit(ctx context.Context, hit *model.EndpointHit) error {
	return m.onPersist(hit)
}

func TestHitWorker_PersistsQueuedHits(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// 1. 準備：記憶體版隊列
	q := queue.NewHitQueue(10)

	// 2. 準備：用 channel 驗證 service 有沒有被呼叫
	persisted := make(chan *model.EndpointHit, 1)
	mockSvc := &mockStatsService{
		onPersist: func(hit *model.EndpointHit) error {
			persisted <- hit
			return nil
		},
	}

	// 3. 啟動 Worker
	w := worker.NewHitWorker(mockSvc, q)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	// 4. 執行：丟入一筆瀏覽紀錄
	hit := &model.EndpointHit{App: "ewm-main-service", URI: "/events/1", IP: "1.2.3.4"}
	if err := q.PublishHit(ctx, hit); err != nil {
		t.Fatalf("failed to publish hit: %v", err)
	}

	// 5. 驗證：檢查紀錄是否在時間內落地
	select {
	case got := <-persisted:
		if got.URI != "/events/1" {
			t.Errorf("persisted wrong hit: %+v", got)
		}
	case <-time.After(time.Second):
		t.Error("超時！Worker 沒有在時間內處理瀏覽紀錄")
	}
}

func TestHitWorker_RetriesOnPersistFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewHitQueue(10)

	// 第一次失敗，Nack 重回隊列後第二次成功
	var attempts int32
	done := make(chan struct{})
	mockSvc := &mockStatsService{
		onPersist: func(hit *model.EndpointHit) error {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return errors.New("db unavailable")
			}
			close(done)
			return nil
		},
	}

	w := worker.NewHitWorker(mockSvc, q)
	if err := w.Start(ctx); err != nil {
		t.Fatalf("failed to start worker: %v", err)
	}

	if err := q.PublishHit(ctx, &model.EndpointHit{URI: "/events/1"}); err != nil {
		t.Fatalf("failed to publish hit: %v", err)
	}

	select {
	case <-done:
		if got := atomic.LoadInt32(&attempts); got < 2 {
			t.Errorf("expected at least 2 attempts, got %d", got)
		}
	case <-time.After(time.Second):
		t.Error("超時！失敗的紀錄沒有被重新處理")
	}
}
