package app

import (
	"context"
	"encoding/json"
	"time"

	"federation_video_service/internal/federation/domain"
	"federation_video_service/internal/federation/repository"
	"federation_video_service/pkg/database"
	"federation_video_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// 一次抓多少 follower 來 fan-out
const fanOutPageSize = 100

// KafkaPublisher 寫 counter 事件的最小介面，測試時換成 mock
type KafkaPublisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// DeliveryUseCase 這裡封裝對外送出：eligibility 在送出當下評估，不快取
type DeliveryUseCase interface {
	// FanOutActivity 對作者的每個 ACCEPTED follower 排一筆傳送工作，回傳數量
	FanOutActivity(ctx context.Context, author domain.ActorRef, activity domain.RemoteActivity) (int, error)
	// FanOutQadu 彙整後的 counter patch 一樣走 follower fan-out
	FanOutQadu(ctx context.Context, author domain.ActorRef, batch []domain.QaduPayload) (int, error)
	PublishCounterEvent(ctx context.Context, event *domain.EventPayload) error
}

type deliveryUseCase struct {
	followRepo  repository.FollowRepository
	rabbitRepo  database.RabbitRepo
	kafkaWriter KafkaPublisher
}

// NewDeliveryUseCase 建立一個新的 DeliveryUseCase
func NewDeliveryUseCase(followRepo repository.FollowRepository,
	rabbitRepo database.RabbitRepo,
	kafkaWriter KafkaPublisher,
) DeliveryUseCase {
	return &deliveryUseCase{
		followRepo:  followRepo,
		rabbitRepo:  rabbitRepo,
		kafkaWriter: kafkaWriter,
	}
}

// FanOutActivity
func (d *deliveryUseCase) FanOutActivity(ctx context.Context, author domain.ActorRef, activity domain.RemoteActivity) (int, error) {
	body, err := json.Marshal([]domain.RemoteActivity{activity})
	if err != nil {
		return 0, err
	}
	return d.fanOut(ctx, author, domain.InboxActivitiesPath, body)
}

// FanOutQadu
func (d *deliveryUseCase) FanOutQadu(ctx context.Context, author domain.ActorRef, batch []domain.QaduPayload) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	body, err := json.Marshal(batch)
	if err != nil {
		return 0, err
	}
	return d.fanOut(ctx, author, domain.InboxQaduPath, body)
}

// PublishCounterEvent 計數事件另外丟到 kafka 給分析端消化
func (d *deliveryUseCase) PublishCounterEvent(ctx context.Context, event *domain.EventPayload) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return d.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UUID),
		Value: value,
	})
}

// fanOut 逐頁撈 ACCEPTED follower，每個 follower host 排一筆 durable 工作
func (d *deliveryUseCase) fanOut(ctx context.Context, author domain.ActorRef, endpoint string, body []byte) (int, error) {
	accepted := domain.FollowStateAccepted
	delivered := 0

	for start := 0; ; start += fanOutPageSize {
		followers, _, err := d.followRepo.List(ctx, &domain.FollowQuery{
			ActorUUID: author.UUID,
			Direction: domain.DirectionFollowers,
			State:     &accepted,
			Start:     start,
			Count:     fanOutPageSize,
		})
		if err != nil {
			return delivered, err
		}

		for _, follower := range followers {
			job := domain.DeliveryJob{
				TargetHost: follower.Follower.Host,
				Endpoint:   endpoint,
				Body:       body,
				EnqueuedAt: time.Now().UTC(),
			}
			jobBody, err := json.Marshal(job)
			if err != nil {
				return delivered, err
			}

			if err := d.rabbitRepo.Publish("", domain.QueueName, false, false, amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         jobBody,
			}); err != nil {
				// 單一 follower 失敗不中斷其他人的傳送
				logger.Log.Errorf("publish delivery job failed :", err,
					zap.String("targetHost", follower.Follower.Host),
				)
				continue
			}
			delivered++
		}

		if len(followers) < fanOutPageSize {
			break
		}
	}

	logger.Log.Debug("fan-out finished",
		zap.String("author", author.UUID.String()),
		zap.Int("delivered", delivered),
	)
	return delivered, nil
}
