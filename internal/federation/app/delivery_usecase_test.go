package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"federation_video_service/internal/federation/domain"
	"federation_video_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRabbitRepo Mock RabbitRepo
type MockRabbitRepo struct {
	mock.Mock
}

func (m *MockRabbitRepo) GetRabbit() *amqp.Channel {
	return nil
}
func (m *MockRabbitRepo) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

// MockKafkaWriter Mock KafkaPublisher
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func acceptedFollower(followed domain.ActorRef, host string) domain.FollowRelationship {
	follow := domain.NewFollowRequest(
		domain.ActorRef{UUID: uuid.New(), Type: domain.ActorTypeApplication, Host: host},
		followed,
	)
	_ = follow.Accept()
	return *follow
}

func TestDeliveryUseCase_FanOutActivity(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()
	author := domain.ActorRef{UUID: uuid.New(), Type: domain.ActorTypeApplication, Host: "pod-a.example.com"}
	activity := domain.RemoteActivity{
		Type: domain.ActionRemoveVideo,
		Data: map[string]interface{}{"uuid": uuid.NewString()},
	}

	t.Run("每個 ACCEPTED follower 排一筆工作", func(t *testing.T) {
		mockRepo := new(MockFollowRepo)
		mockRabbit := new(MockRabbitRepo)
		followers := []domain.FollowRelationship{
			acceptedFollower(author, "pod-b.example.com"),
			acceptedFollower(author, "pod-c.example.com"),
		}

		mockRepo.On("List", ctx, mock.MatchedBy(func(query *domain.FollowQuery) bool {
			return query.ActorUUID == author.UUID &&
				query.Direction == domain.DirectionFollowers &&
				query.State != nil && *query.State == domain.FollowStateAccepted
		})).Return(followers, int64(2), nil).Once()
		mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
			var job domain.DeliveryJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				return false
			}
			return job.Endpoint == domain.InboxActivitiesPath && msg.DeliveryMode == amqp.Persistent
		})).Return(nil).Twice()

		uc := NewDeliveryUseCase(mockRepo, mockRabbit, new(MockKafkaWriter))
		delivered, err := uc.FanOutActivity(ctx, author, activity)

		assert.NoError(t, err)
		assert.Equal(t, 2, delivered)
		mockRabbit.AssertExpectations(t)
	})

	t.Run("單一 follower 失敗不中斷其他人的傳送", func(t *testing.T) {
		mockRepo := new(MockFollowRepo)
		mockRabbit := new(MockRabbitRepo)
		followers := []domain.FollowRelationship{
			acceptedFollower(author, "pod-b.example.com"),
			acceptedFollower(author, "pod-c.example.com"),
		}

		mockRepo.On("List", ctx, mock.Anything).Return(followers, int64(2), nil).Once()
		mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.Anything).
			Return(errors.New("channel closed")).Once()
		mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.Anything).
			Return(nil).Once()

		uc := NewDeliveryUseCase(mockRepo, mockRabbit, new(MockKafkaWriter))
		delivered, err := uc.FanOutActivity(ctx, author, activity)

		assert.NoError(t, err)
		assert.Equal(t, 1, delivered)
	})

	t.Run("沒有 follower 就什麼都不送", func(t *testing.T) {
		mockRepo := new(MockFollowRepo)
		mockRabbit := new(MockRabbitRepo)

		mockRepo.On("List", ctx, mock.Anything).Return([]domain.FollowRelationship{}, int64(0), nil).Once()

		uc := NewDeliveryUseCase(mockRepo, mockRabbit, new(MockKafkaWriter))
		delivered, err := uc.FanOutActivity(ctx, author, activity)

		assert.NoError(t, err)
		assert.Zero(t, delivered)
		mockRabbit.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeliveryUseCase_FanOutQadu(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()
	author := domain.ActorRef{UUID: uuid.New(), Type: domain.ActorTypeApplication, Host: "pod-a.example.com"}

	t.Run("空 batch 不查 follower", func(t *testing.T) {
		mockRepo := new(MockFollowRepo)
		mockRabbit := new(MockRabbitRepo)

		uc := NewDeliveryUseCase(mockRepo, mockRabbit, new(MockKafkaWriter))
		delivered, err := uc.FanOutQadu(ctx, author, nil)

		assert.NoError(t, err)
		assert.Zero(t, delivered)
		mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("patch batch 走 qadu inbox", func(t *testing.T) {
		mockRepo := new(MockFollowRepo)
		mockRabbit := new(MockRabbitRepo)
		views := int64(42)
		batch := []domain.QaduPayload{{UUID: uuid.NewString(), Views: &views}}

		mockRepo.On("List", ctx, mock.Anything).
			Return([]domain.FollowRelationship{acceptedFollower(author, "pod-b.example.com")}, int64(1), nil).Once()
		mockRabbit.On("Publish", "", domain.QueueName, false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
			var job domain.DeliveryJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				return false
			}
			return job.Endpoint == domain.InboxQaduPath && job.TargetHost == "pod-b.example.com"
		})).Return(nil).Once()

		uc := NewDeliveryUseCase(mockRepo, mockRabbit, new(MockKafkaWriter))
		delivered, err := uc.FanOutQadu(ctx, author, batch)

		assert.NoError(t, err)
		assert.Equal(t, 1, delivered)
		mockRabbit.AssertExpectations(t)
	})
}

func TestDeliveryUseCase_PublishCounterEvent(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()

	mockKafka := new(MockKafkaWriter)
	event := &domain.EventPayload{UUID: uuid.NewString(), EventType: domain.EventViews, Count: 1}

	mockKafka.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 && string(msgs[0].Key) == event.UUID
	})).Return(nil).Once()

	uc := NewDeliveryUseCase(new(MockFollowRepo), new(MockRabbitRepo), mockKafka)
	assert.NoError(t, uc.PublishCounterEvent(ctx, event))
	mockKafka.AssertExpectations(t)
}
