package app

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"federation_video_service/internal/federation/domain"
	"federation_video_service/internal/federation/repository"
	"federation_video_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCatalogStore Mock CatalogStore
type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) AddVideo(ctx context.Context, video *domain.VideoPayload) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}
func (m *MockCatalogStore) UpdateVideo(ctx context.Context, video *domain.VideoPayload) error {
	args := m.Called(ctx, video)
	return args.Error(0)
}
func (m *MockCatalogStore) RemoveVideo(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}
func (m *MockCatalogStore) AddAbuseReport(ctx context.Context, report *domain.AbuseReportPayload) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}
func (m *MockCatalogStore) AddChannel(ctx context.Context, channel *domain.ChannelPayload) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}
func (m *MockCatalogStore) UpdateChannel(ctx context.Context, channel *domain.ChannelPayload) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}
func (m *MockCatalogStore) RemoveChannel(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}
func (m *MockCatalogStore) AddAuthor(ctx context.Context, author *domain.AuthorPayload) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}
func (m *MockCatalogStore) RemoveAuthor(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

// MockCounterRepo Mock CounterRepository
type MockCounterRepo struct {
	mock.Mock
}

func (m *MockCounterRepo) ApplyQadu(ctx context.Context, patch *domain.QaduPayload) error {
	args := m.Called(ctx, patch)
	return args.Error(0)
}
func (m *MockCounterRepo) ApplyEvent(ctx context.Context, event *domain.EventPayload) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockThumbnailStore Mock ThumbnailStore
type MockThumbnailStore struct {
	mock.Mock
}

func (m *MockThumbnailStore) Save(ctx context.Context, videoUUID, thumbnailData string) (string, error) {
	args := m.Called(ctx, videoUUID, thumbnailData)
	return args.String(0), args.Error(1)
}
func (m *MockThumbnailStore) Remove(ctx context.Context, videoUUID string) error {
	args := m.Called(ctx, videoUUID)
	return args.Error(0)
}

// MockActivityLog Mock ActivityLogRepository
type MockActivityLog struct {
	mock.Mock
}

func (m *MockActivityLog) InsertEntries(ctx context.Context, entries []repository.ActivityLogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}
func (m *MockActivityLog) FindRejectedByHost(ctx context.Context, host string, limit int64) ([]repository.ActivityLogEntry, error) {
	args := m.Called(ctx, host, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]repository.ActivityLogEntry), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockActivityLog) CountUnknownType(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func validRemoteVideo() map[string]interface{} {
	return map[string]interface{}{
		"uuid":        uuid.NewString(),
		"name":        "Remote video",
		"description": "A video replicated from another pod",
		"category":    float64(6),
		"licence":     float64(1),
		"language":    float64(1),
		"nsfw":        false,
		"duration":    float64(300),
		"tags":        []interface{}{"travel"},
		"views":       float64(5),
		"likes":       float64(1),
		"dislikes":    float64(0),
		"createdAt":   "2025-06-01T10:00:00Z",
		"updatedAt":   "2025-06-01T10:00:00Z",
		"files": []interface{}{
			map[string]interface{}{
				"infoHash":   "abcdef1234567890",
				"extname":    ".mp4",
				"resolution": float64(480),
			},
		},
		"channelUUID":   uuid.NewString(),
		"thumbnailData": base64.StdEncoding.EncodeToString([]byte("jpegdata")),
	}
}

func newInboxFixture() (*MockCatalogStore, *MockCounterRepo, *MockThumbnailStore, *MockActivityLog, InboxUseCase) {
	catalog := new(MockCatalogStore)
	counter := new(MockCounterRepo)
	thumbnails := new(MockThumbnailStore)
	activityLog := new(MockActivityLog)
	uc := NewInboxUseCase(catalog, counter, thumbnails, activityLog)
	return catalog, counter, thumbnails, activityLog, uc
}

func TestInboxUseCase_ProcessActivities(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()
	fromHost := "pod-b.example.com"

	t.Run("合法 add-video 套用並保存縮圖", func(t *testing.T) {
		catalog, _, thumbnails, activityLog, uc := newInboxFixture()
		data := validRemoteVideo()

		thumbnails.On("Save", ctx, data["uuid"], data["thumbnailData"]).Return("thumbnails/key.jpg", nil).Once()
		catalog.On("AddVideo", ctx, mock.Anything).Return(nil).Once()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(nil).Once()

		valid, verdicts := uc.ProcessActivities(ctx, fromHost, []domain.RemoteActivity{
			{Type: domain.ActionAddVideo, Data: data},
		})

		assert.True(t, valid)
		assert.Len(t, verdicts, 1)
		assert.True(t, verdicts[0].Valid)
		catalog.AssertExpectations(t)
		thumbnails.AssertExpectations(t)
	})

	t.Run("一筆壞掉不影響其他筆套用", func(t *testing.T) {
		catalog, _, thumbnails, activityLog, uc := newInboxFixture()
		good := validRemoteVideo()
		bad := validRemoteVideo()
		delete(bad, "name")

		thumbnails.On("Save", ctx, good["uuid"], good["thumbnailData"]).Return("thumbnails/key.jpg", nil).Once()
		catalog.On("AddVideo", ctx, mock.Anything).Return(nil).Once()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(nil).Once()

		valid, verdicts := uc.ProcessActivities(ctx, fromHost, []domain.RemoteActivity{
			{Type: domain.ActionAddVideo, Data: bad},
			{Type: domain.ActionAddVideo, Data: good},
		})

		assert.False(t, valid)
		assert.Len(t, verdicts, 2)
		assert.False(t, verdicts[0].Valid)
		assert.Equal(t, domain.ReasonMalformedPayload, verdicts[0].Reason)
		assert.True(t, verdicts[1].Valid)
		catalog.AssertNumberOfCalls(t, "AddVideo", 1)
	})

	t.Run("未知類型記入 verdict 但不套用", func(t *testing.T) {
		catalog, _, _, activityLog, uc := newInboxFixture()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(nil).Once()

		valid, verdicts := uc.ProcessActivities(ctx, fromHost, []domain.RemoteActivity{
			{Type: "add-playlist", Data: map[string]interface{}{"uuid": uuid.NewString()}},
		})

		assert.False(t, valid)
		assert.Equal(t, domain.ReasonUnknownActivityType, verdicts[0].Reason)
		catalog.AssertNotCalled(t, "AddVideo", mock.Anything, mock.Anything)
	})

	t.Run("remove-video 一併移除縮圖", func(t *testing.T) {
		catalog, _, thumbnails, activityLog, uc := newInboxFixture()
		videoUUID := uuid.NewString()

		thumbnails.On("Remove", ctx, videoUUID).Return(nil).Once()
		catalog.On("RemoveVideo", ctx, videoUUID).Return(nil).Once()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(nil).Once()

		valid, _ := uc.ProcessActivities(ctx, fromHost, []domain.RemoteActivity{
			{Type: domain.ActionRemoveVideo, Data: map[string]interface{}{"uuid": videoUUID}},
		})

		assert.True(t, valid)
		catalog.AssertExpectations(t)
		thumbnails.AssertExpectations(t)
	})

	t.Run("catalog 失敗不改變 verdict", func(t *testing.T) {
		catalog, _, _, activityLog, uc := newInboxFixture()
		channel := map[string]interface{}{
			"uuid":        uuid.NewString(),
			"name":        "Channel",
			"description": "desc",
			"createdAt":   "2025-06-01T10:00:00Z",
			"updatedAt":   "2025-06-01T10:00:00Z",
			"ownerUUID":   uuid.NewString(),
		}

		catalog.On("AddChannel", ctx, mock.Anything).Return(errors.New("db down")).Once()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(nil).Once()

		valid, verdicts := uc.ProcessActivities(ctx, fromHost, []domain.RemoteActivity{
			{Type: domain.ActionAddChannel, Data: channel},
		})

		assert.True(t, valid)
		assert.True(t, verdicts[0].Valid)
	})

	t.Run("空 batch 視為成功", func(t *testing.T) {
		_, _, _, activityLog, uc := newInboxFixture()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(nil).Once()

		valid, verdicts := uc.ProcessActivities(ctx, fromHost, nil)

		assert.True(t, valid)
		assert.Empty(t, verdicts)
	})

	t.Run("審計寫入失敗不影響處理結果", func(t *testing.T) {
		catalog, _, _, activityLog, uc := newInboxFixture()
		author := map[string]interface{}{"uuid": uuid.NewString(), "name": "bob"}

		catalog.On("AddAuthor", ctx, mock.Anything).Return(nil).Once()
		activityLog.On("InsertEntries", ctx, mock.Anything).Return(errors.New("mongo down")).Once()

		valid, _ := uc.ProcessActivities(ctx, fromHost, []domain.RemoteActivity{
			{Type: domain.ActionAddAuthor, Data: author},
		})

		assert.True(t, valid)
	})
}

func TestInboxUseCase_ProcessQadu(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()
	fromHost := "pod-b.example.com"

	t.Run("sparse patch 只套用出現的欄位", func(t *testing.T) {
		_, counter, _, _, uc := newInboxFixture()
		videoUUID := uuid.NewString()

		counter.On("ApplyQadu", ctx, mock.MatchedBy(func(patch *domain.QaduPayload) bool {
			return patch.UUID == videoUUID && patch.Views != nil && *patch.Views == 42 &&
				patch.Likes == nil && patch.Dislikes == nil
		})).Return(nil).Once()

		valid := uc.ProcessQadu(ctx, fromHost, []map[string]interface{}{
			{"uuid": videoUUID, "views": float64(42)},
		})

		assert.True(t, valid)
		counter.AssertExpectations(t)
	})

	t.Run("壞掉的 patch 跳過但其他筆照常套用", func(t *testing.T) {
		_, counter, _, _, uc := newInboxFixture()
		videoUUID := uuid.NewString()

		counter.On("ApplyQadu", ctx, mock.Anything).Return(nil).Once()

		valid := uc.ProcessQadu(ctx, fromHost, []map[string]interface{}{
			{"uuid": "not-a-uuid", "views": float64(1)},
			{"uuid": videoUUID, "likes": float64(7)},
		})

		assert.False(t, valid)
		counter.AssertNumberOfCalls(t, "ApplyQadu", 1)
	})
}

func TestInboxUseCase_ProcessEvents(t *testing.T) {
	ctx := context.Background()
	logger.SetNewNop()
	fromHost := "pod-b.example.com"

	t.Run("合法事件套用", func(t *testing.T) {
		_, counter, _, _, uc := newInboxFixture()
		videoUUID := uuid.NewString()

		counter.On("ApplyEvent", ctx, mock.MatchedBy(func(event *domain.EventPayload) bool {
			return event.UUID == videoUUID && event.EventType == domain.EventLikes && event.Count == 2
		})).Return(nil).Once()

		valid := uc.ProcessEvents(ctx, fromHost, []map[string]interface{}{
			{"uuid": videoUUID, "eventType": "likes", "count": float64(2)},
		})

		assert.True(t, valid)
		counter.AssertExpectations(t)
	})

	t.Run("未知事件類型拒絕且不套用", func(t *testing.T) {
		_, counter, _, _, uc := newInboxFixture()

		valid := uc.ProcessEvents(ctx, fromHost, []map[string]interface{}{
			{"uuid": uuid.NewString(), "eventType": "shares", "count": float64(2)},
		})

		assert.False(t, valid)
		counter.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything)
	})
}
