package app

import (
	"context"
	"encoding/json"
	"time"

	"federation_video_service/internal/federation/domain"
	"federation_video_service/internal/federation/repository"
	"federation_video_service/internal/federation/validators"
	"federation_video_service/pkg/logger"

	"go.uber.org/zap"
)

// CatalogStore collaborator contract
// core 只產生 verdict；實體存在性檢查與持久化是 catalog 的責任
type CatalogStore interface {
	AddVideo(ctx context.Context, video *domain.VideoPayload) error
	UpdateVideo(ctx context.Context, video *domain.VideoPayload) error
	RemoveVideo(ctx context.Context, uuid string) error
	AddAbuseReport(ctx context.Context, report *domain.AbuseReportPayload) error
	AddChannel(ctx context.Context, channel *domain.ChannelPayload) error
	UpdateChannel(ctx context.Context, channel *domain.ChannelPayload) error
	RemoveChannel(ctx context.Context, uuid string) error
	AddAuthor(ctx context.Context, author *domain.AuthorPayload) error
	RemoveAuthor(ctx context.Context, uuid string) error
}

// InboxUseCase 這裡封裝 inbound 聯邦活動的驗證與套用
type InboxUseCase interface {
	// ProcessActivities batch verdict 加上逐筆結果；單筆失敗不影響其他筆
	ProcessActivities(ctx context.Context, fromHost string, activities []domain.RemoteActivity) (bool, []domain.ActivityVerdict)
	ProcessQadu(ctx context.Context, fromHost string, batch []map[string]interface{}) bool
	ProcessEvents(ctx context.Context, fromHost string, batch []map[string]interface{}) bool
}

type inboxUseCase struct {
	catalog     CatalogStore
	counterRepo repository.CounterRepository
	thumbnails  repository.ThumbnailStore
	activityLog repository.ActivityLogRepository
}

// NewInboxUseCase 建立一個新的 InboxUseCase
func NewInboxUseCase(catalog CatalogStore,
	counterRepo repository.CounterRepository,
	thumbnails repository.ThumbnailStore,
	activityLog repository.ActivityLogRepository,
) InboxUseCase {
	return &inboxUseCase{
		catalog:     catalog,
		counterRepo: counterRepo,
		thumbnails:  thumbnails,
		activityLog: activityLog,
	}
}

// ProcessActivities 驗證整個 batch 並套用通過的活動
// 空 batch 回傳 true（polling 沒有工作是常態）
func (u *inboxUseCase) ProcessActivities(ctx context.Context, fromHost string, activities []domain.RemoteActivity) (bool, []domain.ActivityVerdict) {
	allValid := true
	verdicts := make([]domain.ActivityVerdict, 0, len(activities))
	entries := make([]repository.ActivityLogEntry, 0, len(activities))
	now := time.Now().UTC()

	for i, activity := range activities {
		valid, reason := validators.RemoteActivityVerdict(activity)
		verdicts = append(verdicts, domain.ActivityVerdict{
			Index:  i,
			Type:   activity.Type,
			Valid:  valid,
			Reason: reason,
		})
		entries = append(entries, repository.ActivityLogEntry{
			FromHost:   fromHost,
			Type:       string(activity.Type),
			Valid:      valid,
			Reason:     reason,
			Data:       activity.Data,
			ReceivedAt: now,
		})

		if !valid {
			allValid = false
			if reason == domain.ReasonUnknownActivityType {
				// 可能是較新版本的遠端 pod，留下相容性訊號
				logger.Log.Warn("unknown activity type from remote pod",
					zap.String("fromHost", fromHost),
					zap.String("type", string(activity.Type)),
				)
			}
			continue
		}

		// 套用失敗只記錄，不改變 verdict：catalog 錯誤不是驗證失敗
		if err := u.apply(ctx, activity); err != nil {
			logger.Log.Errorf("apply remote activity failed :", err,
				zap.String("fromHost", fromHost),
				zap.String("type", string(activity.Type)),
			)
		}
	}

	// 審計紀錄 best-effort，失敗不影響處理結果
	if err := u.activityLog.InsertEntries(ctx, entries); err != nil {
		logger.Log.Errorf("insert activity log failed :", err)
	}

	return allValid, verdicts
}

// ProcessQadu 套用 sparse counter patch；逐筆隔離
func (u *inboxUseCase) ProcessQadu(ctx context.Context, fromHost string, batch []map[string]interface{}) bool {
	allValid := validators.IsEachRemoteQaduValid(batch)

	for _, data := range batch {
		if !validators.IsEachRemoteQaduValid([]map[string]interface{}{data}) {
			continue
		}
		patch, err := decodeInto[domain.QaduPayload](data)
		if err != nil {
			logger.Log.Errorf("decode qadu payload failed :", err, zap.String("fromHost", fromHost))
			continue
		}
		if err := u.counterRepo.ApplyQadu(ctx, patch); err != nil {
			logger.Log.Errorf("apply qadu failed :", err,
				zap.String("fromHost", fromHost),
				zap.String("uuid", patch.UUID),
			)
		}
	}

	return allValid
}

// ProcessEvents 套用離散計數事件；逐筆隔離
func (u *inboxUseCase) ProcessEvents(ctx context.Context, fromHost string, batch []map[string]interface{}) bool {
	allValid := validators.IsEachRemoteEventValid(batch)

	for _, data := range batch {
		if !validators.IsEachRemoteEventValid([]map[string]interface{}{data}) {
			continue
		}
		event, err := decodeInto[domain.EventPayload](data)
		if err != nil {
			logger.Log.Errorf("decode event payload failed :", err, zap.String("fromHost", fromHost))
			continue
		}
		if err := u.counterRepo.ApplyEvent(ctx, event); err != nil {
			logger.Log.Errorf("apply event failed :", err,
				zap.String("fromHost", fromHost),
				zap.String("uuid", event.UUID),
			)
		}
	}

	return allValid
}

func (u *inboxUseCase) apply(ctx context.Context, activity domain.RemoteActivity) error {
	switch activity.Type {
	case domain.ActionAddVideo:
		video, err := decodeInto[domain.VideoPayload](activity.Data)
		if err != nil {
			return err
		}
		// 縮圖先落地，object key 由 catalog 另行關聯
		if _, err := u.thumbnails.Save(ctx, video.UUID, video.ThumbnailData); err != nil {
			logger.Log.Errorf("save thumbnail failed :", err, zap.String("uuid", video.UUID))
		}
		return u.catalog.AddVideo(ctx, video)

	case domain.ActionUpdateVideo:
		video, err := decodeInto[domain.VideoPayload](activity.Data)
		if err != nil {
			return err
		}
		return u.catalog.UpdateVideo(ctx, video)

	case domain.ActionRemoveVideo:
		uuid, _ := activity.Data["uuid"].(string)
		if err := u.thumbnails.Remove(ctx, uuid); err != nil {
			logger.Log.Errorf("remove thumbnail failed :", err, zap.String("uuid", uuid))
		}
		return u.catalog.RemoveVideo(ctx, uuid)

	case domain.ActionReportAbuse:
		report, err := decodeInto[domain.AbuseReportPayload](activity.Data)
		if err != nil {
			return err
		}
		return u.catalog.AddAbuseReport(ctx, report)

	case domain.ActionAddChannel:
		channel, err := decodeInto[domain.ChannelPayload](activity.Data)
		if err != nil {
			return err
		}
		return u.catalog.AddChannel(ctx, channel)

	case domain.ActionUpdateChannel:
		channel, err := decodeInto[domain.ChannelPayload](activity.Data)
		if err != nil {
			return err
		}
		return u.catalog.UpdateChannel(ctx, channel)

	case domain.ActionRemoveChannel:
		uuid, _ := activity.Data["uuid"].(string)
		return u.catalog.RemoveChannel(ctx, uuid)

	case domain.ActionAddAuthor:
		author, err := decodeInto[domain.AuthorPayload](activity.Data)
		if err != nil {
			return err
		}
		return u.catalog.AddAuthor(ctx, author)

	case domain.ActionRemoveAuthor:
		uuid, _ := activity.Data["uuid"].(string)
		return u.catalog.RemoveAuthor(ctx, uuid)
	}

	// dispatcher 已擋掉未知類型，到這裡代表 registry 與 apply 不同步
	return nil
}

// decodeInto 已驗證的 payload 轉成強型別（JSON roundtrip）
func decodeInto[T any](data map[string]interface{}) (*T, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
