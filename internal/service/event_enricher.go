package service

import (
	"context"
	"time"

	"explore-with-me/internal/cache"
	"explore-with-me/internal/model"
	"explore-with-me/internal/repository"
	"explore-with-me/internal/stats"
	"explore-with-me/pkg/logger"

	"go.uber.org/zap"
)

const hitTimeout = 3 * time.Second

// EventEnricher 替事件 DTO 補上 confirmedRequests 與 views 兩個推導欄位。
// confirmed 數來自本服務自己的資料庫，查詢失敗會回傳錯誤；
// 統計服務是 best-effort：查詢失敗時 views 一律回報 0，不阻斷讀取路徑。
type EventEnricher interface {
	EnrichFull(ctx context.Context, event *model.Event) (model.EventFullResponse, error)
	EnrichFullBatch(ctx context.Context, events []*model.Event) ([]model.EventFullResponse, error)
	EnrichShortBatch(ctx context.Context, events []*model.Event) ([]model.EventShortResponse, error)
	// RecordHit fire-and-forget 紀錄一次瀏覽，失敗只記 log
	RecordHit(uri, ip string)
}

type EventEnricherImpl struct {
	requestRepository repository.RequestRepository
	statsClient       stats.Client
	viewsCache        cache.RedisViewsCacheManager
	appName           string
	logger            *zap.Logger
}

func NewEventEnricher(
	requestRepository repository.RequestRepository,
	statsClient stats.Client,
	viewsCache cache.RedisViewsCacheManager,
	appName string,
) EventEnricher {
	return &EventEnricherImpl{
		requestRepository: requestRepository,
		statsClient:       statsClient,
		viewsCache:        viewsCache,
		appName:           appName,
		logger:            logger.WithComponent("event-enricher"),
	}
}

func (e *EventEnricherImpl) EnrichFull(ctx context.Context, event *model.Event) (model.EventFullResponse, error) {
	confirmed, err := e.requestRepository.CountConfirmed(ctx, event.ID)
	if err != nil {
		return model.EventFullResponse{}, err
	}
	views := e.viewCounts(ctx, []*model.Event{event})

	resp := event.ToFullResponse()
	resp.ConfirmedRequests = confirmed
	resp.Views = views[event.ID]
	return resp, nil
}

// EnrichFullBatch 一次查整批的 confirmed 數與瀏覽數，避免 N+1
func (e *EventEnricherImpl) EnrichFullBatch(ctx context.Context, events []*model.Event) ([]model.EventFullResponse, error) {
	confirmed, err := e.confirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}
	views := e.viewCounts(ctx, events)

	responses := make([]model.EventFullResponse, 0, len(events))
	for _, event := range events {
		resp := event.ToFullResponse()
		resp.ConfirmedRequests = confirmed[event.ID]
		resp.Views = views[event.ID]
		responses = append(responses, resp)
	}
	return responses, nil
}

func (e *EventEnricherImpl) EnrichShortBatch(ctx context.Context, events []*model.Event) ([]model.EventShortResponse, error) {
	confirmed, err := e.confirmedCounts(ctx, events)
	if err != nil {
		return nil, err
	}
	views := e.viewCounts(ctx, events)

	responses := make([]model.EventShortResponse, 0, len(events))
	for _, event := range events {
		resp := event.ToShortResponse()
		resp.ConfirmedRequests = confirmed[event.ID]
		resp.Views = views[event.ID]
		responses = append(responses, resp)
	}
	return responses, nil
}

func (e *EventEnricherImpl) RecordHit(uri, ip string) {
	hit := &model.EndpointHit{
		App:       e.appName,
		URI:       uri,
		IP:        ip,
		Timestamp: model.NewDateTime(time.Now()),
	}

	// 不跟隨請求的 ctx：瀏覽紀錄不該因為請求先結束而丟失
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), hitTimeout)
		defer cancel()

		if err := e.statsClient.Hit(ctx, hit); err != nil {
			e.logger.Warn("failed to record endpoint hit",
				zap.String("uri", uri),
				zap.Error(err))
		}
	}()
}

// confirmedCounts 結果裡缺少的事件視為 0；查詢失敗直接回傳錯誤，
// 這裡查的是自己的資料庫，不是可降級的外部依賴
func (e *EventEnricherImpl) confirmedCounts(ctx context.Context, events []*model.Event) (map[int64]int64, error) {
	if len(events) == 0 {
		return map[int64]int64{}, nil
	}

	ids := make([]int64, len(events))
	for i, event := range events {
		ids[i] = event.ID
	}

	return e.requestRepository.CountConfirmedBatch(ctx, ids)
}

// viewCounts 先查 Redis 快取，未命中的部分才打統計服務，
// 查詢區間從整批最早的 createdOn 到現在，unique=true 以不同 IP 計數
func (e *EventEnricherImpl) viewCounts(ctx context.Context, events []*model.Event) map[int64]int64 {
	views := make(map[int64]int64, len(events))
	if len(events) == 0 {
		return views
	}

	uris := make([]string, len(events))
	earliest := events[0].CreatedAt
	for i, event := range events {
		uris[i] = model.EventURI(event.ID)
		if event.CreatedAt.Before(earliest) {
			earliest = event.CreatedAt
		}
	}

	cached, err := e.viewsCache.GetViews(ctx, uris)
	if err != nil {
		e.logger.Warn("views cache read failed", zap.Error(err))
		cached = map[string]int64{}
	}

	missing := make([]string, 0, len(uris))
	for _, uri := range uris {
		if hits, ok := cached[uri]; ok {
			if id, ok := model.ParseEventURI(uri); ok {
				views[id] = hits
			}
		} else {
			missing = append(missing, uri)
		}
	}

	if len(missing) == 0 {
		return views
	}

	result, err := e.statsClient.Stats(ctx, earliest, time.Now(), missing, true)
	if err != nil {
		// 降級：統計服務失敗時瀏覽數回報 0，不阻斷請求
		e.logger.Warn("failed to fetch view stats", zap.Error(err))
		return views
	}

	fetched := make(map[string]int64, len(result))
	for _, stat := range result {
		id, ok := model.ParseEventURI(stat.URI)
		if !ok {
			continue
		}
		views[id] = stat.Hits
		fetched[stat.URI] = stat.Hits
	}

	// 統計結果裡沒出現的 URI 代表 0 次瀏覽，也寫進快取
	for _, uri := range missing {
		if _, ok := fetched[uri]; !ok {
			fetched[uri] = 0
		}
	}

	if err := e.viewsCache.SetViews(ctx, fetched); err != nil {
		e.logger.Warn("views cache write failed", zap.Error(err))
	}

	return views
}
