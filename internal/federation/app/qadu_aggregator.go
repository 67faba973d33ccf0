package app

import (
	"context"
	"strings"
	"time"

	"federation_video_service/internal/federation/domain"
	"federation_video_service/pkg/database"
	"federation_video_service/pkg/logger"
)

// qaduKeyPrefix redis key 前綴，一個影片一個 pending patch
const qaduKeyPrefix = "qadu_pending:"

// QaduAggregator 緩衝本地的小額計數變動，週期性彙整成一個 QADU batch 送出
// 避免每一次 view/like 都重送整個影片描述
type QaduAggregator interface {
	// MarkDirty 記下影片目前的 counter 值，蓋掉同一影片先前的 pending patch
	MarkDirty(ctx context.Context, patch domain.QaduPayload) error
	// Flush 取出並清空所有 pending patch
	Flush(ctx context.Context) ([]domain.QaduPayload, error)
}

type qaduAggregator struct {
	redisRepo database.RedisRepository[domain.QaduPayload]
}

// NewQaduAggregator 建立一個新的 QaduAggregator
func NewQaduAggregator(redisRepo database.RedisRepository[domain.QaduPayload]) QaduAggregator {
	return &qaduAggregator{redisRepo: redisRepo}
}

// MarkDirty
func (q *qaduAggregator) MarkDirty(ctx context.Context, patch domain.QaduPayload) error {
	// ttl 0：pending patch 不過期，只能被 Flush 清掉
	return q.redisRepo.Set(ctx, qaduKeyPrefix+patch.UUID, patch, 0)
}

// Flush
func (q *qaduAggregator) Flush(ctx context.Context) ([]domain.QaduPayload, error) {
	keys, err := q.redisRepo.Keys(ctx, qaduKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	batch := make([]domain.QaduPayload, 0, len(keys))
	for _, key := range keys {
		// 取與刪必須是同一個原子操作：分開做的話，夾在中間的
		// MarkDirty 會被刪掉而沒送出，follower 就停在舊值
		patch, err := q.redisRepo.GetDel(ctx, key)
		if err != nil {
			// 可能被並行的 Flush 搶走了，跳過
			continue
		}
		if patch.UUID == "" {
			patch.UUID = strings.TrimPrefix(key, qaduKeyPrefix)
		}
		batch = append(batch, patch)
	}
	return batch, nil
}

// RunQaduFlushLoop 週期性把彙整好的 patch fan-out 給 follower
// ctx 取消時結束；傳送細節（重試、退避）交給 delivery queue
func RunQaduFlushLoop(ctx context.Context, interval time.Duration,
	aggregator QaduAggregator, delivery DeliveryUseCase, author domain.ActorRef,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			batch, err := aggregator.Flush(ctx)
			if err != nil {
				logger.Log.Errorf("qadu flush failed :", err)
				continue
			}
			if len(batch) == 0 {
				continue
			}
			if _, err := delivery.FanOutQadu(ctx, author, batch); err != nil {
				logger.Log.Errorf("qadu fan-out failed :", err)
			}
		}
	}
}
