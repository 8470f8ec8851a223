package worker

import (
	"context"

	"explore-with-me/internal/queue"
	"explore-with-me/internal/stats"
)

// HitWorker 把隊列中的瀏覽紀錄搬進儲存層
type HitWorker interface {
	// 訂閱瀏覽紀錄隊列
	Start(ctx context.Context) error
}

type HitWorkerImpl struct {
	service stats.Service
	queue   queue.HitQueue
}

func NewHitWorker(service stats.Service, queue queue.HitQueue) HitWorker {
	return &HitWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *HitWorkerImpl) Start(ctx context.Context) error {
	msgs, _ := w.queue.SubscribeHits(ctx)

	go func() {
		for msg := range msgs {
			err := w.service.PersistHit(ctx, msg.Data)

			if err != nil {
				// 儲存層暫時不可用時重試；瀏覽紀錄可以晚到，不能亂序失敗就丟
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
