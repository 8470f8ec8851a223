package queue

import (
	"context"

	"explore-with-me/internal/model"
)

type Delivery struct {
	Data *model.EndpointHit
	Ack  func()
	Nack func(requeue bool)
}

// HitQueue 統計服務的瀏覽紀錄緩衝隊列：handler 發佈，worker 訂閱後寫入儲存
type HitQueue interface {
	// 發送瀏覽紀錄到隊列
	PublishHit(ctx context.Context, hit *model.EndpointHit) error
	// 訂閱瀏覽紀錄隊列
	SubscribeHits(ctx context.Context) (<-chan Delivery, error)
}

type HitQueueImpl struct {
	// 使用 Go channel 的記憶體版隊列，供單機與測試使用
	ch chan *model.EndpointHit
}

func NewHitQueue(bufferSize int) HitQueue {
	return &HitQueueImpl{
		ch: make(chan *model.EndpointHit, bufferSize),
	}
}

func (q *HitQueueImpl) PublishHit(ctx context.Context, hit *model.EndpointHit) error {
	q.ch <- hit
	return nil
}

func (q *HitQueueImpl) SubscribeHits(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case hit, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: hit,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- hit // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
